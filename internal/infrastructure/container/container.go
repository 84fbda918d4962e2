// Package container provides dependency injection using Uber FX for the serve command
package container

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net"

	"github.com/alchemorsel/recipebook/internal/application/catalog"
	"github.com/alchemorsel/recipebook/internal/infrastructure/config"
	"github.com/alchemorsel/recipebook/internal/infrastructure/hotreload"
	"github.com/alchemorsel/recipebook/internal/infrastructure/http/server"
	"github.com/alchemorsel/recipebook/internal/infrastructure/monitoring"
	"github.com/alchemorsel/recipebook/internal/infrastructure/persistence/flatfile"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/alchemorsel/recipebook/internal/ports/outbound"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Module provides all dependency injection modules.
// Config and logger are supplied by the caller so command-line flags can shape them.
var Module = fx.Options(
	// Infrastructure modules
	StorageModule,
	MetricsModule,

	// Service modules
	ServiceModule,

	// HTTP modules
	HTTPModule,

	// Lifecycle hooks
	LifecycleModule,
	WatchModule,
)

// StorageModule provides the flat-file record store
var StorageModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.RecordStore {
		return flatfile.NewStore(cfg.Catalog.File, log)
	},
)

// MetricsModule provides the Prometheus collector
var MetricsModule = fx.Provide(
	monitoring.NewMetricsCollector,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	NewRandomSource,
	func(
		store outbound.RecordStore,
		random outbound.RandomSource,
		metrics *monitoring.MetricsCollector,
		log *zap.Logger,
	) *catalog.Service {
		return catalog.NewService(store, log,
			catalog.WithRandomSource(random),
			catalog.WithMetrics(metrics),
		)
	},
	func(svc *catalog.Service) inbound.CatalogService {
		return svc
	},
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	server.NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// WatchModule reloads the catalog on file changes when catalog.watch is set
var WatchModule = fx.Invoke(
	RegisterWatcher,
)

// New builds the serve application
func New(cfg *config.Config, log *zap.Logger, opts ...fx.Option) *fx.App {
	options := []fx.Option{
		fx.Supply(cfg, log),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		Module,
	}
	return fx.New(append(options, opts...)...)
}

// NewRandomSource seeds suggestions from catalog.random_seed, or from the runtime when it is 0
func NewRandomSource(cfg *config.Config) outbound.RandomSource {
	seed := cfg.Catalog.RandomSeed
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// RegisterLifecycleHooks loads the catalog and runs the HTTP server for the app's lifetime
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	svc *catalog.Service,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Recipebook server",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("catalog", cfg.Catalog.File),
			)

			report, err := svc.Load(ctx)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			if len(report.Skipped) > 0 {
				log.Warn("Some records were skipped", zap.Int("skipped", len(report.Skipped)))
			}

			listener, err := net.Listen("tcp", cfg.Address())
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", cfg.Address(), err)
			}

			// Start HTTP server
			go func() {
				if err := srv.Serve(listener); err != nil {
					log.Error("HTTP server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Recipebook server")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			// Flush logs
			_ = log.Sync()

			return nil
		},
	})
}

// RegisterWatcher starts a CatalogWatcher when watching is enabled
func RegisterWatcher(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	svc *catalog.Service,
	metrics *monitoring.MetricsCollector,
) {
	if !cfg.Catalog.Watch {
		return
	}

	var (
		watcher *hotreload.CatalogWatcher
		cancel  context.CancelFunc
		done    chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			w, err := hotreload.NewCatalogWatcher(cfg.Catalog.File, svc, log,
				hotreload.WithObserver(metrics),
			)
			if err != nil {
				return err
			}
			watcher = w

			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			done = make(chan struct{})
			go func() {
				defer close(done)
				watcher.Run(ctx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			err := watcher.Close()
			select {
			case <-done:
			case <-ctx.Done():
			}
			return err
		},
	})
}
