// Command primemap drives a primemap.Map with concurrent workers and
// reports the resulting statistics.
//
// Defaults come from PRIMEMAP_* environment variables, optionally loaded
// from a .env file, and can be overridden with flags:
//
//	primemap -workers 8 -ops 200000 -keys 50000 -metrics :9090
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/rand"

	"github.com/thepudds/primemap"
	"github.com/thepudds/primemap/metrics"
)

type config struct {
	capacity   int
	loadFactor float64
	multiplier float64
	workers    int
	ops        int
	keys       int64
	putPct     int
	removePct  int
	seed       uint64
	metrics    string
	linger     time.Duration
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, using environment")
	}

	cfg, err := loadConfig(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(args []string, getenv func(string) string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("primemap", flag.ContinueOnError)
	fs.IntVar(&cfg.capacity, "capacity", atoiDefault(getenv("PRIMEMAP_CAPACITY"), primemap.DefaultCapacity), "initial slot count")
	fs.Float64Var(&cfg.loadFactor, "load-factor", floatDefault(getenv("PRIMEMAP_LOAD_FACTOR"), primemap.DefaultLoadFactor), "load factor in (0, 1]")
	fs.Float64Var(&cfg.multiplier, "multiplier", floatDefault(getenv("PRIMEMAP_MULTIPLIER"), primemap.DefaultMultiplier), "growth multiplier, above 2 to take effect")
	fs.IntVar(&cfg.workers, "workers", atoiDefault(getenv("PRIMEMAP_WORKERS"), 4), "concurrent workers")
	fs.IntVar(&cfg.ops, "ops", atoiDefault(getenv("PRIMEMAP_OPS"), 100000), "operations per worker")
	fs.Int64Var(&cfg.keys, "keys", int64(atoiDefault(getenv("PRIMEMAP_KEYS"), 10000)), "size of the key space, at least workers")
	fs.IntVar(&cfg.putPct, "put", atoiDefault(getenv("PRIMEMAP_PUT_PCT"), 20), "percent of operations that are puts")
	fs.IntVar(&cfg.removePct, "remove", atoiDefault(getenv("PRIMEMAP_REMOVE_PCT"), 5), "percent of operations that are removes")
	fs.Uint64Var(&cfg.seed, "seed", uint64(atoiDefault(getenv("PRIMEMAP_SEED"), 1)), "random seed")
	fs.StringVar(&cfg.metrics, "metrics", getenv("PRIMEMAP_METRICS_ADDR"), "serve /metrics on this address during the run")
	fs.DurationVar(&cfg.linger, "linger", durationDefault(getenv("PRIMEMAP_LINGER"), 0), "keep serving metrics this long after the run")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	switch {
	case cfg.workers < 1:
		return config{}, fmt.Errorf("workers must be positive, got %d", cfg.workers)
	case cfg.keys < int64(cfg.workers):
		return config{}, fmt.Errorf("keys (%d) must be at least workers (%d)", cfg.keys, cfg.workers)
	case cfg.putPct < 0 || cfg.removePct < 0 || cfg.putPct+cfg.removePct > 100:
		return config{}, fmt.Errorf("put (%d) and remove (%d) percentages must add up to at most 100", cfg.putPct, cfg.removePct)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg config) error {
	m := primemap.New[int64, int64](cfg.capacity,
		primemap.WithLoadFactor(cfg.loadFactor),
		primemap.WithMultiplier(cfg.multiplier))

	if cfg.metrics != "" {
		srv, err := serveMetrics(cfg.metrics, m)
		if err != nil {
			return err
		}
		defer func() {
			if cfg.linger > 0 {
				log.Printf("serving metrics for another %v", cfg.linger)
				select {
				case <-time.After(cfg.linger):
				case <-ctx.Done():
				}
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("metrics server shutdown: %v", err)
			}
		}()
	}

	log.Printf("running %d workers, %d ops each, %d keys", cfg.workers, cfg.ops, cfg.keys)
	start := time.Now()
	total, err := drive(ctx, m, cfg)
	elapsed := time.Since(start)

	s := m.Stats()
	log.Printf("%d ops in %v (%.0f ops/s)", total, elapsed, float64(total)/elapsed.Seconds())
	log.Printf("capacity %d, modulus %d, size %d", s.Capacity, s.ProbeModulus, s.Occupied)
	log.Printf("grows %d (forced %d), exhaustions %d", s.Grows, s.ForcedGrows, s.Exhaustions)
	log.Printf("lookups %d, misses %d", s.Lookups, s.Misses)
	return err
}

// drive runs the workers and returns the number of operations completed.
// It stops early if ctx is cancelled or the map fills up.
func drive(ctx context.Context, m *primemap.Map[int64, int64], cfg config) (int64, error) {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int64
		first error
	)
	for w := 0; w < cfg.workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(cfg.seed + uint64(w)))
			var n int64
			var err error
			for i := 0; i < cfg.ops; i++ {
				if i%1024 == 0 && ctx.Err() != nil {
					err = ctx.Err()
					break
				}
				k := r.Int63n(cfg.keys)
				switch p := r.Intn(100); {
				case p < cfg.putPct:
					// Put appends rather than replaces, so drop any old entry
					// first. Only the owning worker puts a key, which keeps the
					// pair from racing into duplicates.
					k = ownedKey(k, cfg.keys, w, cfg.workers)
					m.Remove(k)
					err = m.Put(k, k)
				case p < cfg.putPct+cfg.removePct:
					m.Remove(k)
				default:
					m.Get(k)
				}
				if err != nil {
					break
				}
				n++
			}

			mu.Lock()
			defer mu.Unlock()
			total += n
			if err != nil && first == nil {
				first = err
			}
		}(w)
	}
	wg.Wait()

	if errors.Is(first, context.Canceled) {
		log.Println("interrupted")
		first = nil
	}
	return total, first
}

// ownedKey maps k in [0, keys) to a key worker w owns: one congruent to w
// modulo workers, in the same block of workers keys as k when that block is
// complete and in the previous one otherwise. loadConfig ensures
// keys >= workers, so every worker owns at least one key.
func ownedKey(k, keys int64, w, workers int) int64 {
	n := int64(workers)
	owned := k - k%n + int64(w)
	if owned >= keys {
		owned -= n
	}
	return owned
}

func serveMetrics(addr string, m *primemap.Map[int64, int64]) (*http.Server, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(metrics.NewCollector("load", m)); err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")

	srv := &http.Server{Addr: addr, Handler: router}
	go func() {
		log.Printf("serving metrics on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server: %v", err)
		}
	}()
	return srv, nil
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func floatDefault(s string, def float64) float64 {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return def
}

func durationDefault(s string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(s); err == nil {
		return v
	}
	return def
}
