package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chzyer/readline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"argshell/internal/logger"
	"argshell/internal/metrics"
	"argshell/internal/services"
	"argshell/internal/version"
)

// Options configures an interactive session.
type Options struct {
	Prompt      string
	HistoryFile string
	// MetricsAddr serves Prometheus metrics at /metrics when set.
	MetricsAddr string
}

// Run starts the interactive shell and returns when the user exits.
func Run(opts Options) error {
	if opts.Prompt == "" {
		opts.Prompt = "argshell> "
	}

	complete, err := services.GetGlobalAutoCompleteService()
	if err != nil {
		return err
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          opts.Prompt,
		HistoryFile:     opts.HistoryFile,
		AutoComplete:    complete,
		InterruptPrompt: "^C",
		EOFPrompt:       `\exit`,
	})
	if err != nil {
		return fmt.Errorf("failed to start line editor: %w", err)
	}
	defer rl.Close()

	if opts.MetricsAddr != "" {
		srv := StartMetricsServer(opts.MetricsAddr)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("metrics server shutdown", "error", err)
			}
		}()
	}

	handler, err := NewHandler(rl.Stdout())
	if err != nil {
		return err
	}

	fmt.Fprintf(rl.Stdout(), "%s - typed command arguments\n", version.GetFormattedVersion())
	fmt.Fprintln(rl.Stdout(), `Type \help for commands or \exit to quit.`)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !handler.ProcessInput(line) {
			return nil
		}
	}
}

// MetricsHandler returns a mux serving argshell's metrics at /metrics.
func MetricsHandler() http.Handler {
	reg := prometheus.NewRegistry()
	metrics.Register(reg)
	metrics.SetBuildInfo(version.Version, version.GitCommit, version.BuildDate)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}

// StartMetricsServer serves MetricsHandler at addr in the background.
func StartMetricsServer(addr string) *http.Server {
	srv := &http.Server{Addr: addr, Handler: MetricsHandler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()
	logger.Info("Serving metrics", "addr", addr)
	return srv
}
