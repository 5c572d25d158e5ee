package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/fullstackenviormentss/brackets-electron/pkg/bridge"
	"github.com/fullstackenviormentss/brackets-electron/pkg/logger"
	"github.com/fullstackenviormentss/brackets-electron/pkg/menu"
	"github.com/fullstackenviormentss/brackets-electron/pkg/metric"
	"github.com/fullstackenviormentss/brackets-electron/pkg/render"
	"github.com/fullstackenviormentss/brackets-electron/pkg/server"
)

var (
	version = "dev"     // Set at build time via -ldflags "-X main.version=version"
	commit  = "none"    // Set at build time via -ldflags "-X main.commit=commit"
	date    = "unknown" // Set at build time via -ldflags "-X main.date=date"
)

const (
	rendererSnapshot = "snapshot"
	rendererSystray  = "systray"
)

type options struct {
	host     string
	port     int
	debounce time.Duration
	template string
	renderer string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("menushell", flag.ContinueOnError)
	fs.StringVar(&o.host, "host", server.DefaultHost, "Interface the bridge binds to")
	fs.IntVar(&o.port, "port", server.DefaultPort, "Port the bridge listens on")
	fs.DurationVar(&o.debounce, "debounce", menu.DefaultDebounce, "Window for coalescing menu rebuilds")
	fs.StringVar(&o.template, "template", "", "Optional JSON menu template to load at startup")
	fs.StringVar(&o.renderer, "renderer", rendererSnapshot, "Host menu renderer: snapshot or systray")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	switch o.renderer {
	case rendererSnapshot, rendererSystray:
	default:
		return o, fmt.Errorf("unknown renderer: %s", o.renderer)
	}
	if o.debounce <= 0 {
		return o, fmt.Errorf("debounce must be positive, got %s", o.debounce)
	}
	return o, nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger.SetDefaultLogger("menushell", version)
	slog.Info("starting menushell", "commit", commit, "date", date, "renderer", o.renderer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o); err != nil {
		slog.Error("menushell exited with error", "error", err)
		os.Exit(1)
	}
}

// run wires the manager, renderer and bridge server and blocks until ctx is
// canceled or one of them fails.
func run(ctx context.Context, o options) error {
	reg := prometheus.NewRegistry()
	commands := bridge.NewCommandQueue(bridge.DefaultCommandBacklog)

	var (
		mgr      *menu.Manager
		renderer menu.Renderer
		tray     *render.Systray
		rendered http.Handler
	)
	switch o.renderer {
	case rendererSystray:
		t, err := render.NewSystray(func(id string) { mgr.Activate(id) }, "menushell")
		if err != nil {
			return err
		}
		tray, renderer = t, t
	default:
		s := render.NewSnapshot()
		renderer, rendered = s, s.Handler()
	}

	mgr = menu.New(renderer,
		menu.WithDebounce(o.debounce),
		menu.WithDispatcher(commands),
		menu.WithObserver(metric.NewMenuMetrics(reg)),
	)

	if o.template != "" {
		if err := menu.LoadTemplateFile(mgr, o.template); err != nil {
			return err
		}
	}

	opts := []server.Option{
		server.WithHost(o.host),
		server.WithPort(o.port),
		server.WithRegistry(reg),
		server.WithPrometheusMetrics(),
		server.WithSimpleHealth(),
	}
	bridge.New(mgr, commands).RegisterHandlers(func(pattern string, h http.Handler) {
		opts = append(opts, server.WithHandler(pattern, h))
	})
	if rendered != nil {
		opts = append(opts, server.WithHandler("GET /api/menu/rendered", rendered))
	}

	// The manager loop outlives the server so in-flight bridge requests get
	// their completions during graceful shutdown.
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	loopErr := make(chan error, 1)
	go func() {
		loopErr <- mgr.Run(loopCtx)
	}()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.New(opts...).Serve(gCtx)
	})
	if tray != nil {
		g.Go(func() error {
			return tray.Run(gCtx)
		})
	}

	err := g.Wait()
	stopLoop()
	<-loopErr
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Info("menushell stopped")
	return nil
}
