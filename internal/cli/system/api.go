package system

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/http"
	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/metrics"
	"github.com/julianstephens/mealplan/internal/planning"
)

// APICmd runs the JSON HTTP API with Prometheus metrics on /metrics.
type APICmd struct {
	Host            string        `help:"Address to listen on." default:"${api_host}" env:"MEALPLAN_API_HOST"`
	Port            int           `help:"Port to listen on." default:"${api_port}" env:"MEALPLAN_API_PORT"`
	ShutdownTimeout time.Duration `help:"Grace period for in-flight requests on shutdown." default:"10s"`
}

func (cmd *APICmd) Run(ctx *cli.Context) error {
	defer ctx.Store.Close()

	host, port := cmd.Host, cmd.Port
	if host == "" {
		host = constants.DefaultAPIHost
	}
	if port == 0 {
		port = constants.DefaultAPIPort
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mgr := planning.NewManager(ctx.Store, planning.WithMetrics(metrics.New(reg)))

	srv, err := http.NewServer(mgr, reg, &http.Config{Host: host, Port: port})
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	ctx.Printf("Serving mealplan API on http://%s:%d\n", host, port)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cmd.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}
