package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	log "github.com/freundallein/blogs/backend/chassis/logging"

	"github.com/freundallein/blogs/backend/api"
	"github.com/freundallein/blogs/backend/catalog"
	"github.com/freundallein/blogs/backend/chassis/config"
	"github.com/freundallein/blogs/backend/chassis/metrics"
	"github.com/freundallein/blogs/backend/chassis/storage"
)

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func main() {
	appCfg, err := config.Read()
	if err != nil {
		log.WithFields(log.Fields{
			"event": "config_read_failed",
		}).Fatal(err)
	}
	log.Init("blogs", appCfg.LogLevel)
	log.WithFields(log.Fields{
		"event": "init_service",
	}).Info("service initialized")

	srcCfg := storage.Config{
		Kind:   appCfg.Catalog.Source,
		Path:   appCfg.Catalog.Path,
		Bucket: appCfg.Catalog.S3.Bucket,
		Key:    appCfg.Catalog.S3.Key,
		DSN:    appCfg.Storage.DSN,
		Query:  appCfg.Catalog.Postgres.Query,

		//AWS specific
		Region:             appCfg.AWS.Region,
		CredentialsFile:    appCfg.AWS.CredentialsFile,
		CredentialsProfile: appCfg.AWS.CredentialsProfile,
	}
	src, err := storage.InitSource(srcCfg)
	if err != nil {
		log.WithFields(log.Fields{
			"event": "init_source_failed",
		}).Fatal(err)
	}
	cat, err := catalog.Load(context.Background(), src)
	if err != nil {
		log.WithFields(log.Fields{
			"event":  "load_catalog_failed",
			"source": src.Name(),
		}).Fatal(err)
	}
	log.WithFields(log.Fields{
		"event":  "load_catalog",
		"source": src.Name(),
		"count":  cat.Count(),
	}).Info("catalog loaded")

	cfg := &api.Config{
		Catalog:         cat,
		Metrics:         metrics.NewCollector(),
		Addr:            appCfg.HTTP.Addr,
		MetricsAddr:     appCfg.Metrics.Addr,
		ReadTimeout:     seconds(appCfg.HTTP.ReadTimeout),
		WriteTimeout:    seconds(appCfg.HTTP.WriteTimeout),
		IdleTimeout:     seconds(appCfg.HTTP.IdleTimeout),
		ShutdownTimeout: seconds(appCfg.HTTP.ShutdownTimeout),
	}
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	var group sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())

	if _, err := api.Run(ctx, cfg, &group); err != nil {
		log.WithFields(log.Fields{
			"event": "listen_failed",
		}).Fatal(err)
	}
	<-done
	log.WithFields(log.Fields{
		"event": "ctx_cancel",
	}).Info("received syscall")
	cancel()
	group.Wait()
}
