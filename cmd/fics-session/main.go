package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/cheese-fics/internal/archive"
	"github.com/park285/cheese-fics/internal/board"
	appcfg "github.com/park285/cheese-fics/internal/config"
	"github.com/park285/cheese-fics/internal/fics/model"
	"github.com/park285/cheese-fics/internal/ficsclient"
	"github.com/park285/cheese-fics/internal/gateway"
	"github.com/park285/cheese-fics/internal/obslog"
	"github.com/park285/cheese-fics/internal/transport"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	listeners := model.MultiListener{ficsclient.NewEventLogger(logger.Named("events"))}
	m := model.New(model.Config{
		PingToken:     cfg.PingToken,
		ProbeHandle:   cfg.ProbeHandle,
		ProbePlatform: cfg.ProbePlatform,
		ProbeIndex:    cfg.ProbeIndex,
	}, model.WithLogger(logger.Named("model")))
	if cfg.ClientVersion > 0 {
		m.SetCurrentVersion(cfg.ClientVersion)
	}

	// Optional persistence: Redis hot archive and Postgres game store.
	var (
		redisArchive *archive.RedisArchive
		repo         *archive.Repository
		archiverOpts = []archive.ArchiverOption{archive.WithArchiverLogger(logger.Named("archive"))}
	)
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := archive.NewRedisClient(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Fatalf("redis init error: %v", err)
		}
		defer rdb.Close()
		redisArchive = archive.NewRedisArchive(rdb, archive.WithTTL(cfg.ArchiveTTL()))
		archiverOpts = append(archiverOpts,
			archive.WithGameSink(redisArchive),
			archive.WithConversationSink(redisArchive),
		)
	}
	if cfg.DatabaseURL != "" {
		repo, err = archive.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database init error: %v", err)
		}
		defer repo.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = repo.EnsureSchema(ctx)
		cancel()
		if err != nil {
			log.Fatalf("database schema error: %v", err)
		}
		archiverOpts = append(archiverOpts, archive.WithGameSink(repo))
	}

	runCtx, stopRun := context.WithCancel(context.Background())
	archiverDone := make(chan struct{})
	if redisArchive != nil || repo != nil {
		archiver := archive.NewArchiver(m, archiverOpts...)
		listeners = append(listeners, archiver)
		go func() {
			defer close(archiverDone)
			archiver.Run(runCtx)
		}()
	} else {
		close(archiverDone)
	}
	m.SetListener(listeners)

	conn := newTransport(cfg, logger.Named("transport"))
	client := ficsclient.New(conn, m, ficsclient.Config{
		Handle:       cfg.Handle,
		Password:     cfg.Password,
		PingToken:    cfg.PingToken,
		PingInterval: cfg.PingInterval(),
		ProbeHandle:  cfg.ProbeHandle,
	}, ficsclient.WithLogger(logger.Named("client")))

	gwOpts := []gateway.Option{
		gateway.WithLogger(logger.Named("gateway")),
		gateway.WithRenderer(board.NewRenderer()),
		gateway.WithTransportName(cfg.Transport),
	}
	if redisArchive != nil {
		gwOpts = append(gwOpts, gateway.WithArchive(redisArchive))
	}
	gw := gateway.NewServer(client, gwOpts...)
	go func() {
		if err := gw.ListenAndServe(cfg.HTTPAddr); err != nil {
			logger.Error("gateway stopped", zap.Error(err))
		}
	}()

	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := client.Start(cctx); err != nil {
		cancel()
		log.Fatalf("fics connect error: %v", err)
	}
	cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	_ = gw.Shutdown(shutdownCtx)
	if err := client.Stop(shutdownCtx); err != nil {
		logger.Warn("client stop", zap.Error(err))
	}
	stopRun()
	<-archiverDone
}

func newTransport(cfg *appcfg.AppConfig, logger *zap.Logger) transport.Conn {
	if cfg.Transport == appcfg.TransportWebSocket {
		return transport.NewWebSocket(cfg.BridgeURL, transport.WithWebSocketLogger(logger))
	}
	return transport.NewTelnet(cfg.ServerAddr, transport.WithTelnetLogger(logger))
}
