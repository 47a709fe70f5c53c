package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	bridgegrpc "github.com/cp25sy5-modjot/native-bridge/internal/adapters/grpc"
	"github.com/cp25sy5-modjot/native-bridge/internal/adapters/httpapi"
	"github.com/cp25sy5-modjot/native-bridge/internal/adapters/ocr"
	"github.com/cp25sy5-modjot/native-bridge/internal/adapters/sharesheet"
	"github.com/cp25sy5-modjot/native-bridge/internal/config"
	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
	"github.com/cp25sy5-modjot/native-bridge/internal/pkg/grpcserver"
	"github.com/cp25sy5-modjot/native-bridge/internal/pkg/metrics"
	"github.com/cp25sy5-modjot/native-bridge/internal/pkg/uiloop"
	"github.com/cp25sy5-modjot/native-bridge/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

type app struct {
	cfg    config.Config
	log    zerolog.Logger
	ui     *uiloop.Loop
	hub    *sharesheet.Hub
	bridge *usecase.Dispatcher
	grpc   *grpcserver.Server
	http   *http.Server
}

func newApp(cfg config.Config, log zerolog.Logger) (*app, error) {
	engine, err := ocr.New(cfg.OCR.Engine, ocr.Options{
		BaseURL:     cfg.OCR.BaseURL,
		APIKey:      cfg.OCR.APIKey,
		Model:       cfg.OCR.Model,
		MaxInFlight: cfg.OCR.MaxInFlight,
		Timeout:     cfg.OCR.Timeout,
	}, log)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Adapters (infrastructure)
	ui := uiloop.New(cfg.UI.QueueSize, log)
	hub := sharesheet.NewHub(log)

	// Application service (use cases)
	d := usecase.NewDispatcher(
		usecase.NewTextRecognizer(engine, log),
		usecase.NewFileSharer(hub, ui, log),
		metrics.NewBridge(reg),
		log,
	)

	// gRPC server (interface adapter)
	gs := grpcserver.New(cfg.GRPCAddr, log)
	bridgegrpc.RegisterChannels(gs.Server,
		d.Channel(domain.ChannelTextRecognition, domain.MethodRecognizeText),
		d.Channel(domain.ChannelNativeShare, domain.MethodShareFile),
	)

	hs := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(hub, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("ocr_engine", cfg.OCR.Engine).
		Int("ocr_max_in_flight", cfg.OCR.MaxInFlight).
		Msg("bridge configured")

	return &app{cfg: cfg, log: log, ui: ui, hub: hub, bridge: d, grpc: gs, http: hs}, nil
}

// run serves until ctx ends or a server fails. On shutdown the share hub is
// closed first so waiting RPCs settle, then the servers drain, and the UI
// loop stops last.
func (a *app) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	uiCtx, stopUI := context.WithCancel(context.Background())
	defer stopUI()

	g.Go(func() error {
		a.ui.Run(uiCtx)
		return nil
	})
	g.Go(func() error {
		a.log.Info().Str("addr", a.cfg.GRPCAddr).Msg("gRPC listening")
		if err := a.grpc.Start(); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		a.log.Info().Str("addr", a.cfg.HTTPAddr).Msg("HTTP listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		a.log.Info().Msg("shutting down")
		defer stopUI()

		a.hub.Close()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.grpc.Shutdown(sctx)
		return a.http.Shutdown(sctx)
	})
	return g.Wait()
}
