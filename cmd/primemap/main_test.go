package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/thepudds/primemap"
)

func TestLoadConfig(t *testing.T) {
	env := map[string]string{
		"PRIMEMAP_WORKERS":  "3",
		"PRIMEMAP_KEYS":     "500",
		"PRIMEMAP_PUT_PCT":  "not a number",
		"PRIMEMAP_LINGER":   "2s",
		"PRIMEMAP_CAPACITY": "140",
	}
	getenv := func(k string) string { return env[k] }

	got, err := loadConfig([]string{"-ops", "10", "-multiplier", "3"}, getenv)
	if err != nil {
		t.Fatalf("loadConfig() = %v", err)
	}
	want := config{
		capacity:   140,
		loadFactor: primemap.DefaultLoadFactor,
		multiplier: 3,
		workers:    3,
		ops:        10,
		keys:       500,
		putPct:     20,
		removePct:  5,
		seed:       1,
		linger:     2 * time.Second,
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(config{})); diff != "" {
		t.Errorf("loadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	getenv := func(string) string { return "" }
	for _, args := range [][]string{
		{"-workers", "0"},
		{"-keys", "0"},
		{"-put", "90", "-remove", "20"},
		{"-remove", "-1"},
		{"-nosuchflag"},
	} {
		if _, err := loadConfig(args, getenv); err == nil {
			t.Errorf("loadConfig(%q) succeeded, want error", args)
		}
	}
}

func TestDrive(t *testing.T) {
	cfg := config{workers: 4, ops: 2000, keys: 300, putPct: 30, removePct: 10, seed: 7}
	m := primemap.New[int64, int64](16)
	total, err := drive(context.Background(), m, cfg)
	if err != nil {
		t.Fatalf("drive() = %v", err)
	}
	if want := int64(cfg.workers * cfg.ops); total != want {
		t.Errorf("drive() completed %d ops, want %d", total, want)
	}
	s := m.Stats()
	if s.Occupied == 0 || s.Lookups == 0 {
		t.Errorf("Stats() = %+v, want puts and lookups recorded", s)
	}
}

func TestOwnedKey(t *testing.T) {
	for _, tt := range []struct{ keys, workers int }{{10, 3}, {12, 4}, {5, 5}, {1000, 7}} {
		for w := 0; w < tt.workers; w++ {
			for k := int64(0); k < int64(tt.keys); k++ {
				got := ownedKey(k, int64(tt.keys), w, tt.workers)
				if got < 0 || got >= int64(tt.keys) || got%int64(tt.workers) != int64(w) {
					t.Fatalf("ownedKey(%d, %d, %d, %d) = %d, not a key of worker %d",
						k, tt.keys, w, tt.workers, got, w)
				}
			}
		}
	}
}

// TestDrive_NoDuplicates runs many puts over a tiny key space. Each key is
// put by one worker only, so no key ever has more than one entry.
func TestDrive_NoDuplicates(t *testing.T) {
	cfg := config{workers: 8, ops: 5000, keys: 16, putPct: 60, removePct: 10, seed: 3}
	m := primemap.New[int64, int64](16)
	if _, err := drive(context.Background(), m, cfg); err != nil {
		t.Fatalf("drive() = %v", err)
	}
	counts := make(map[int64]int)
	for k := range m.All() {
		counts[k]++
	}
	for k, n := range counts {
		if n > 1 {
			t.Errorf("key %d stored %d times, want at most 1", k, n)
		}
	}
}

func TestDrive_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := config{workers: 2, ops: 1 << 20, keys: 100, putPct: 10, seed: 1}
	total, err := drive(ctx, primemap.New[int64, int64](16), cfg)
	if err != nil {
		t.Fatalf("drive() = %v, want nil for an interrupted run", err)
	}
	if total != 0 {
		t.Errorf("drive() completed %d ops after cancel, want 0", total)
	}
}

func TestServeMetrics(t *testing.T) {
	m := primemap.New[int64, int64](16)
	m.Put(1, 1)

	srv, err := serveMetrics("127.0.0.1:0", m)
	if err != nil {
		t.Fatalf("serveMetrics() = %v", err)
	}
	defer srv.Close()

	// The listener address is not exposed, so exercise the handler directly.
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `primemap_occupied{map="load"} 1`) {
		t.Errorf("metrics output missing occupied gauge:\n%s", body)
	}

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /metrics status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
