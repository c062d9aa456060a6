package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/program-selection/internal/catalog"
	"github.com/iliyamo/program-selection/internal/config"
	"github.com/iliyamo/program-selection/internal/database"
	"github.com/iliyamo/program-selection/internal/handler"
	"github.com/iliyamo/program-selection/internal/logger"
	"github.com/iliyamo/program-selection/internal/middleware"
	"github.com/iliyamo/program-selection/internal/queue"
	"github.com/iliyamo/program-selection/internal/repository"
	"github.com/iliyamo/program-selection/internal/router"
	"github.com/iliyamo/program-selection/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(cfg config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBURL, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	cacheCfg := config.LoadCacheConfig()
	rdb := config.NewRedisClient() // nil when Redis is unreachable
	if rdb != nil {
		defer rdb.Close()
	} else {
		log.Warn("redis unavailable; response cache and cross-process seed lock disabled")
	}

	programs := repository.NewProgramRepo(db)
	selections := repository.NewSelectionRepo(db)

	// The catalog must be in place before the listener accepts traffic.
	seeder := &catalog.Seeder{
		Store: programs,
		Mode:  cfg.SeedMode,
		Log:   logger.Component(log, "catalog"),
	}
	if lock := catalog.NewRedisLock(rdb, cacheCfg.Prefix, 30*time.Second); lock != nil {
		seeder.Lock = lock
	}
	if purger := middleware.NewCachePurger(rdb, cacheCfg.Prefix); purger != nil {
		seeder.Purger = purger
	}
	if _, err := seeder.Run(ctx); err != nil {
		return err
	}

	brokerCfg := config.LoadBrokerConfig()
	var publisher handler.SelectionPublisher
	consumerDone := make(chan struct{})
	if brokerCfg.Enabled {
		publisher = &service.SelectionPublisher{
			URL:   brokerCfg.URL,
			Queue: brokerCfg.Queue,
		}
		consumer := &queue.Consumer{
			URL:    brokerCfg.URL,
			Queue:  brokerCfg.Queue,
			LogDir: brokerCfg.LogDir,
			Log:    logger.Component(log, "consumer"),
		}
		go func() {
			defer close(consumerDone)
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				consumer.Log.WithError(err).Error("selection consumer stopped")
			}
		}()
	} else {
		close(consumerDone)
	}

	httpLog := logger.Component(log, "http")
	e := router.New(router.Deps{
		Programs:    handler.NewProgramHandler(programs, httpLog),
		Selections:  handler.NewSelectionHandler(programs, selections, publisher, httpLog),
		DB:          db,
		Redis:       rdb,
		Cache:       cacheCfg,
		CORSOrigins: cfg.CORSOrigins,
		Log:         httpLog,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	stop()
	<-consumerDone
	return nil
}
