package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"chess_repertoire/internal/adapters"
	"chess_repertoire/internal/bootstrap"
	repertoireDelivery "chess_repertoire/internal/delivery/repertoire"
	ownMiddleware "chess_repertoire/internal/middleware"
	"chess_repertoire/internal/repository"
	repertoireUC "chess_repertoire/internal/usecase/repertoire"
	"chess_repertoire/internal/usecase/linetree"
)

type mainDeliveryHandler struct {
	repertoire *repertoireDelivery.RepertoireHandler
}

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = ".env"
	}
	cfg, err := bootstrap.Setup(cfgPath)
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	databaseAdapters := initDatabaseAdapters(ctx, logger, *cfg)
	defer databaseAdapters.mongoAdapter.Close(ctx)
	defer databaseAdapters.redisAdapter.Close(ctx)

	handlers, closeFn := initializeDeliveryHandlers(*cfg, logger, databaseAdapters)
	defer closeFn()

	r := chi.NewRouter()
	handlers.Router(r, cfg.IsLocalCors)

	server := &http.Server{Addr: cfg.ServerPort, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)

	h.repertoire.Routes(r)
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(&cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(&cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize Redis", zap.Error(err))
	}

	log.Info("Database adapters initialized")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

func initializeDeliveryHandlers(
	cfg bootstrap.Config,
	log *zap.SugaredLogger,
	databaseAdapters *dataBaseAdapters,
) (*mainDeliveryHandler, func()) {
	var openings linetree.OpeningBook
	if cfg.OpeningsFile != "" {
		book, err := linetree.LoadOpeningBook(cfg.OpeningsFile)
		if err != nil {
			log.Fatal("Failed to load opening book", zap.Error(err))
		}
		log.Infof("Loaded %d opening names from %s", len(book), cfg.OpeningsFile)
		openings = book
	}

	store := repository.NewRepertoireMongoStorage(log, databaseAdapters.mongoAdapter.Database)
	exports, err := repository.NewRedisExportCache(log, databaseAdapters.redisAdapter.GetClient(), cfg.ExportCacheTTL)
	if err != nil {
		log.Fatal("Failed to create export cache", zap.Error(err))
	}

	uc, err := repertoireUC.NewRepertoireUseCase(store, exports, log, repertoireUC.Options{
		Openings:  openings,
		MaxDepth:  cfg.MaxCompileDepth,
		CacheSize: cfg.TreeCacheSize,
		PageSize:  cfg.PageLimitLines,
	})
	if err != nil {
		log.Fatal("Failed to create repertoire use case", zap.Error(err))
	}

	return &mainDeliveryHandler{
		repertoire: repertoireDelivery.NewRepertoireHandler(log, uc),
	}, exports.Close
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
