package typing

import "encoding/json"

// Report is a JSON-friendly snapshot of a descriptor.
type Report struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Mode     string   `json:"mode,omitempty"`
	Category string   `json:"category,omitempty"`
	Flags    Flags    `json:"flags"`
	Alias    bool     `json:"alias,omitempty"`
	Parent   *Report  `json:"parent,omitempty"`
	Children []Report `json:"children,omitempty"`
}

// Describe returns the report for d, including its parent and children.
func Describe(d Descriptor) Report {
	r := Report{
		Name:  d.Name(),
		Kind:  d.Kind().String(),
		Flags: d.Flags(),
	}
	if c, ok := d.(ClassLike); ok {
		r.Category = c.Category().String()
	}
	if p, ok := d.(Parented); ok {
		parent := Describe(p.Parent())
		r.Parent = &parent
		r.Alias = p.IsAlias()
	}
	if a, ok := d.(Aggregate); ok {
		r.Mode = a.Mode().String()
		for _, child := range a.Children() {
			r.Children = append(r.Children, Describe(child))
		}
	}
	return r
}

// MarshalJSON encodes the set as a list of predicate names.
func (f Flags) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Names())
}

// UnmarshalJSON decodes a list of predicate names. Unknown names are ignored.
func (f *Flags) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*f = 0
	for _, name := range names {
		if flag, ok := FlagByName(name); ok {
			*f |= flag
		}
	}
	return nil
}
