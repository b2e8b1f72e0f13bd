// Package inspect serves resolution and assignability queries over HTTP.
//
// All endpoints are GET and take their arguments from the query string:
//
//	GET /resolve?type=?int
//	GET /assignable?target=iterable&source=array
//	GET /flags?type=int&flag=scalar
//
// Responses use the {"result": ...} and {"error": {...}} envelopes.
package inspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"runtime/debug"
	"strings"

	"github.com/broady/typing"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var (
	validate      = validator.New()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
	// Report query parameter names in validation errors.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("schema")
	})
}

// ResolveRequest is the query of GET /resolve.
type ResolveRequest struct {
	Type string `schema:"type" validate:"required"`
}

// AssignableRequest is the query of GET /assignable.
type AssignableRequest struct {
	Target string `schema:"target" validate:"required"`
	Source string `schema:"source" validate:"required"`
}

// Assignability is the result of GET /assignable.
type Assignability struct {
	Target string `json:"target"`
	Source string `json:"source"`

	// From reports target.AssignableFrom(source).
	From bool `json:"assignable_from"`
	// To reports source.AssignableTo(target).
	To bool `json:"assignable_to"`
}

// FlagsRequest is the query of GET /flags. Flag, if set, must be one of the
// names returned by typing.Flags.Names.
type FlagsRequest struct {
	Type string `schema:"type" validate:"required"`
	Flag string `schema:"flag" validate:"omitempty,oneof=native nullable primitive scalar compound special builtin internal user_defined parameter_type property_type return_type standalone native_standalone"`
}

// FlagsResult is the result of GET /flags.
type FlagsResult struct {
	Type  string       `json:"type"`
	Flags typing.Flags `json:"flags"`
	Has   *bool        `json:"has,omitempty"`
}

// Handler answers inspection queries against a registry.
type Handler struct {
	reg    *typing.Registry
	logger *slog.Logger
	routes map[string]func(*http.Request) (any, error)
}

// NewHandler returns a Handler for reg. A nil logger means slog.Default().
func NewHandler(reg *typing.Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{reg: reg, logger: logger}
	h.routes = map[string]func(*http.Request) (any, error){
		"/resolve":    h.resolve,
		"/assignable": h.assignable,
		"/flags":      h.flags,
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("PANIC recovered",
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))
			h.writeError(w, typing.Errorf(typing.CodeInternal, "internal server error (panic): %v", rec))
		}
	}()

	route, ok := h.routes[strings.TrimSuffix(r.URL.Path, "/")]
	if !ok {
		h.writeError(w, typing.NewError(typing.CodeNotFound, "route not found"))
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		h.writeError(w, typing.Errorf(typing.CodeMethodNotAllowed, "method %s not allowed", r.Method))
		return
	}

	result, err := route(r)
	if err != nil {
		h.writeError(w, asError(err))
		return
	}
	h.writeResult(w, result)
}

func (h *Handler) resolve(r *http.Request) (any, error) {
	req, err := decode[ResolveRequest](r)
	if err != nil {
		return nil, err
	}
	d, err := h.reg.Resolve(req.Type)
	if err != nil {
		return nil, err
	}
	return typing.Describe(d), nil
}

func (h *Handler) assignable(r *http.Request) (any, error) {
	req, err := decode[AssignableRequest](r)
	if err != nil {
		return nil, err
	}
	target, err := h.reg.Resolve(req.Target)
	if err != nil {
		return nil, err
	}
	source, err := h.reg.Resolve(req.Source)
	if err != nil {
		return nil, err
	}
	return Assignability{
		Target: target.Name(),
		Source: source.Name(),
		From:   target.AssignableFrom(source),
		To:     source.AssignableTo(target),
	}, nil
}

func (h *Handler) flags(r *http.Request) (any, error) {
	req, err := decode[FlagsRequest](r)
	if err != nil {
		return nil, err
	}
	d, err := h.reg.Resolve(req.Type)
	if err != nil {
		return nil, err
	}
	res := FlagsResult{Type: d.Name(), Flags: d.Flags()}
	if req.Flag != "" {
		flag, _ := typing.FlagByName(req.Flag)
		has := res.Flags.Has(flag)
		res.Has = &has
	}
	return res, nil
}

// decode reads the query string into a T and validates it.
func decode[T any](r *http.Request) (*T, error) {
	var req T
	if err := schemaDecoder.Decode(&req, r.URL.Query()); err != nil {
		return nil, typing.Errorf(typing.CodeInvalidArgument, "invalid query: %v", err)
	}
	if err := validate.Struct(&req); err != nil {
		return nil, typing.FromValidation(typing.CodeInvalidArgument, err)
	}
	return &req, nil
}

func asError(err error) *typing.Error {
	var e *typing.Error
	if errors.As(err, &e) {
		return e
	}
	return typing.NewError(typing.CodeInternal, err.Error())
}

type response struct {
	Result any `json:"result"`
}

type errorResponse struct {
	Error *typing.Error `json:"error"`
}

func (h *Handler) writeResult(w http.ResponseWriter, result any) {
	h.writeJSON(w, http.StatusOK, response{Result: result})
}

func (h *Handler) writeError(w http.ResponseWriter, e *typing.Error) {
	h.writeJSON(w, e.Code.HTTPStatus(), errorResponse{Error: e})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers already sent, nothing we can do. Log for debugging.
		h.logger.Error("failed to encode response",
			slog.Int("status", status),
			slog.String("error", fmt.Sprint(err)))
	}
}
