package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/broady/typing"
	"github.com/broady/typing/inspect"
	"github.com/broady/typing/middleware"
	"github.com/broady/typing/oracle"
)

type CLI struct {
	Globals

	Version VersionCmd `cmd:"" help:"Print version information."`
	Resolve ResolveCmd `cmd:"" help:"Resolve type declarations and print their descriptors."`
	Check   CheckCmd   `cmd:"" help:"Check whether SOURCE is assignable to TARGET."`
	Serve   ServeCmd   `cmd:"" help:"Serve the inspection endpoints over HTTP."`
}

// Globals are the flags shared by every command.
type Globals struct {
	Pkg     []string `help:"Go packages to load class-like types from. Without it only builtins are known." short:"p"`
	Dir     string   `help:"Working directory for package loading."`
	Verbose bool     `help:"Enable debug logging." short:"v"`
}

func (g *Globals) logger() *slog.Logger {
	level := slog.LevelInfo
	if g.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (g *Globals) registry(ctx context.Context) (*typing.Registry, error) {
	var o oracle.Oracle = oracle.NewReflect()
	if len(g.Pkg) > 0 {
		src, err := oracle.LoadSource(ctx, oracle.SourceOptions{Packages: g.Pkg, Dir: g.Dir})
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		o = src
	}
	return typing.NewRegistry(o).WithLogger(g.logger()), nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run(w io.Writer) error {
	fmt.Fprintln(w, Version())
	return nil
}

type ResolveCmd struct {
	Decls []string `arg:"" name:"decl" help:"Type declarations, e.g. '?int' or 'A&B'."`
}

func (c *ResolveCmd) Run(g *Globals, w io.Writer) error {
	reg, err := g.registry(context.Background())
	if err != nil {
		return err
	}
	reports := make([]typing.Report, 0, len(c.Decls))
	for _, decl := range c.Decls {
		d, err := reg.Resolve(decl)
		if err != nil {
			return err
		}
		reports = append(reports, typing.Describe(d))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(reports) == 1 {
		return enc.Encode(reports[0])
	}
	return enc.Encode(reports)
}

type CheckCmd struct {
	Target string `arg:"" help:"Declaration being assigned to."`
	Source string `arg:"" help:"Declaration being assigned."`
}

var errNotAssignable = errors.New("not assignable")

func (c *CheckCmd) Run(g *Globals, w io.Writer) error {
	reg, err := g.registry(context.Background())
	if err != nil {
		return err
	}
	from, err := reg.AssignableFrom(c.Target, c.Source)
	if err != nil {
		return err
	}
	to, err := reg.AssignableTo(c.Source, c.Target)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s accepts %s: %v\n", c.Target, c.Source, from)
	fmt.Fprintf(w, "%s assignable to %s: %v\n", c.Source, c.Target, to)
	if !from {
		return fmt.Errorf("%s: %w to %s", c.Source, errNotAssignable, c.Target)
	}
	return nil
}

type ServeCmd struct {
	Port int      `help:"Port to listen on." default:"9000" short:"P"`
	CORS []string `help:"Allowed CORS origins; '*' allows any." name:"cors"`
}

// handler wraps the inspection endpoints in CORS, when origins are
// configured, and request logging.
func (c *ServeCmd) handler(reg *typing.Registry, logger *slog.Logger) http.Handler {
	var h http.Handler = inspect.NewHandler(reg, logger)
	if len(c.CORS) > 0 {
		h = middleware.CORS(&middleware.CORSConfig{AllowOrigins: c.CORS})(h)
	}
	return middleware.Logging(logger)(h)
}

func (c *ServeCmd) Run(g *Globals, w io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := g.registry(ctx)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf("localhost:%d", c.Port),
		Handler:           c.handler(reg, g.logger()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	fmt.Fprintf(w, "typing listening on http://%s\n", srv.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("typing"),
		kong.Description("Resolve type declarations and check assignability."),
		kong.UsageOnError(),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
