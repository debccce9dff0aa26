// Command ignitekv-bench drives N sequential sets followed by N random
// gets against an in-process engine, under each thread pool
// implementation, and reports throughput. It is a load generator, not
// a statistical benchmarking harness.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/nilotpal-labs/ignitekv/internal/engine"
	"github.com/nilotpal-labs/ignitekv/internal/pool"
	"github.com/nilotpal-labs/ignitekv/pkg/logger"
	"github.com/nilotpal-labs/ignitekv/pkg/options"
)

func main() {
	n := pflag.Int("n", 10_000, "number of keys to set, then get")
	threads := pflag.Int("threads", 4, "worker pool size")
	dataDir := pflag.String("data-dir", "", "scratch data directory (defaults to a temp dir)")
	pflag.Parse()

	dir := *dataDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "ignitekv-bench-")
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to create scratch dir:", err)
			os.Exit(1)
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}

	log := logger.New("ignitekv-bench")
	defer log.Sync()

	for _, kind := range []string{"naive", "shared-queue"} {
		if err := runScenario(log, kind, dir, *n, *threads); err != nil {
			fmt.Fprintf(os.Stderr, "%s scenario failed: %v\n", kind, err)
			os.Exit(1)
		}
	}
}

func runScenario(log *zap.SugaredLogger, kind, dataDir string, n, threads int) error {
	quiet := zap.NewNop().Sugar()

	opts := options.NewDefaultOptions()
	opts.DataDir = dataDir + "/" + kind

	eng, err := engine.Open(context.Background(), &engine.Config{Options: &opts, Logger: quiet})
	if err != nil {
		return fmt.Errorf("open engine: %w", err)
	}
	defer eng.Close()

	var p pool.ThreadPool
	switch kind {
	case "naive":
		p = pool.NewNaivePool(threads, quiet)
	default:
		p = pool.NewSharedQueuePool(threads, quiet)
	}
	defer p.Close()

	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("bench-key-%d", i)
	}

	setStart := time.Now()
	var wg sync.WaitGroup
	for _, key := range keys {
		wg.Add(1)
		key := key
		p.Spawn(func() {
			defer wg.Done()
			_ = eng.Set(key, "bench-value")
		})
	}
	wg.Wait()
	setElapsed := time.Since(setStart)

	rng := rand.New(rand.NewSource(1))
	order := rng.Perm(n)

	getStart := time.Now()
	for _, i := range order {
		wg.Add(1)
		key := keys[i]
		p.Spawn(func() {
			defer wg.Done()
			_, _, _ = eng.Get(key)
		})
	}
	wg.Wait()
	getElapsed := time.Since(getStart)

	log.Infow(
		"scenario complete",
		"pool", kind,
		"n", n,
		"setsPerSec", float64(n)/setElapsed.Seconds(),
		"getsPerSec", float64(n)/getElapsed.Seconds(),
	)
	return nil
}
