package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/tozikala/backend/api/handler"
	"github.com/tozikala/backend/internal/config"
	"github.com/tozikala/backend/internal/events"
	"github.com/tozikala/backend/internal/infrastructure/genai"
	"github.com/tozikala/backend/internal/infrastructure/kvstore"
	"github.com/tozikala/backend/internal/infrastructure/monitor"
	"github.com/tozikala/backend/internal/router"
	"github.com/tozikala/backend/internal/services/lifecycle"
	"github.com/tozikala/backend/pkg/httpcontext"
	"github.com/tozikala/backend/pkg/logger"
	boltRepo "github.com/tozikala/backend/repository/bolt"
	catalogUC "github.com/tozikala/backend/usecase/catalog"
	reportUC "github.com/tozikala/backend/usecase/report"
	statsUC "github.com/tozikala/backend/usecase/stats"
	verificationUC "github.com/tozikala/backend/usecase/verification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	store, err := kvstore.Open(cfg.Store.Path)
	if err != nil {
		zapLogger.Fatal("failed to open store", zap.Error(err))
	}
	manager.Register("store", func(ctx context.Context) error {
		return store.Close()
	})

	recordRepo := boltRepo.NewRecordRepository(store, zapLogger)
	productRepo := boltRepo.NewProductRepository(store, zapLogger)

	mon := monitor.New(store, recordRepo, productRepo, cfg.Store.MonitorInterval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	bus := events.NewBus(zapLogger)
	bus.Subscribe(events.TopicRecordsChanged, func(events.Topic) { mon.Refresh() })
	bus.Subscribe(events.TopicCatalogChanged, func(events.Topic) { mon.Refresh() })

	generator := genai.New(genai.Config{
		APIKey:  cfg.GenAI.APIKey,
		BaseURL: cfg.GenAI.BaseURL,
		Model:   cfg.GenAI.Model,
		Timeout: cfg.GenAI.Timeout,
	})

	verificationUseCase := verificationUC.New(recordRepo, productRepo, bus, zapLogger)
	catalogUseCase := catalogUC.New(productRepo, bus, zapLogger)
	reportUseCase := reportUC.New(recordRepo, generator, cfg.Report.Window, zapLogger)
	statsUseCase := statsUC.New(recordRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Verification: apiHandler.NewVerificationHandler(verificationUseCase, ctxAdapter, zapLogger),
		Catalog:      apiHandler.NewCatalogHandler(catalogUseCase, ctxAdapter, zapLogger),
		Records:      apiHandler.NewRecordsHandler(statsUseCase, ctxAdapter, zapLogger),
		Report:       apiHandler.NewReportHandler(reportUseCase, ctxAdapter, zapLogger),
		Health:       apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	r := router.New(handlers)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
