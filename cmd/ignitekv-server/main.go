// Command ignitekv-server binds a TCP address and serves set/get/rm
// requests against a persistent, log-structured key-value store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/nilotpal-labs/ignitekv/internal/engine"
	"github.com/nilotpal-labs/ignitekv/internal/pool"
	"github.com/nilotpal-labs/ignitekv/internal/server"
	"github.com/nilotpal-labs/ignitekv/pkg/errors"
	"github.com/nilotpal-labs/ignitekv/pkg/logger"
	"github.com/nilotpal-labs/ignitekv/pkg/options"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := options.NewDefaultOptions()

	addr := pflag.String("addr", opts.ListenAddr, "address to listen on")
	dataDir := pflag.String("data-dir", opts.DataDir, "directory holding generation data and the engine marker")
	engineName := pflag.String("engine", opts.Engine, "storage engine name (kvs or sled)")
	threads := pflag.Int("threads", 4, "fixed worker pool size")
	poolKind := pflag.String("pool", "shared-queue", "worker pool implementation: naive or shared-queue")
	pflag.Parse()

	log := logger.New("ignitekv-server")
	defer log.Sync()

	opts.ListenAddr = *addr
	opts.DataDir = *dataDir
	opts.Engine = *engineName

	if err := engine.CheckEngineMarker(opts.DataDir, opts.Engine); err != nil {
		log.Errorw("engine marker check failed", "error", err)
		if se, ok := errors.AsServerError(err); ok &&
			(se.Code() == errors.ErrorCodeEngineMismatch || se.Code() == errors.ErrorCodeInvalidEngine) {
			return 2
		}
		return 1
	}

	eng, err := engine.Open(context.Background(), &engine.Config{Options: &opts, Logger: log})
	if err != nil {
		log.Errorw("failed to open engine", "error", err)
		return 1
	}
	defer eng.Close()

	var p pool.ThreadPool
	switch *poolKind {
	case "naive":
		p = pool.NewNaivePool(*threads, log)
	case "shared-queue":
		p = pool.NewSharedQueuePool(*threads, log)
	default:
		fmt.Fprintf(os.Stderr, "unrecognized --pool value %q (want naive or shared-queue)\n", *poolKind)
		return 2
	}

	srv, err := server.New(&server.Config{
		Addr:   opts.ListenAddr,
		Engine: eng,
		Pool:   p,
		Logger: log,
	})
	if err != nil {
		log.Errorw("failed to start server", "error", err)
		return 1
	}

	log.Infow("listening", "addr", srv.Addr(), "engine", opts.Engine, "pool", *poolKind, "threads", *threads)

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			log.Errorw("server stopped with error", "error", err)
			return 1
		}
	case s := <-sig:
		log.Infow("shutting down", "signal", s.String())
		if err := srv.Close(); err != nil {
			log.Warnw("error during shutdown", "error", err)
		}
	}

	return 0
}
