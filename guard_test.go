package primemap

import (
	"sync"
	"testing"
	"time"
)

func TestRWGuard_SharedCoexist(t *testing.T) {
	var g rwGuard
	a := g.shared()
	b := g.shared()
	if g.mu.TryLock() {
		t.Fatalf("exclusive lock acquired while shared tokens are held")
	}
	a.release()
	b.release()
	if !g.mu.TryLock() {
		t.Fatalf("exclusive lock not available after shared tokens released")
	}
	g.mu.Unlock()
}

func TestRWGuard_ExclusiveBlocks(t *testing.T) {
	var g rwGuard
	tok := g.exclusive()
	if g.mu.TryRLock() {
		t.Fatalf("shared lock acquired while exclusive token is held")
	}

	acquired := make(chan struct{})
	go func() {
		s := g.shared()
		close(acquired)
		s.release()
	}()

	select {
	case <-acquired:
		t.Fatalf("reader got in while exclusive token is held")
	case <-time.After(20 * time.Millisecond):
	}
	tok.release()
	<-acquired
}

func TestRWGuard_ReleaseOnPanic(t *testing.T) {
	var g rwGuard
	func() {
		defer func() { recover() }()
		tok := g.exclusive()
		defer tok.release()
		panic("boom")
	}()
	if !g.mu.TryLock() {
		t.Fatalf("lock still held after panic")
	}
	g.mu.Unlock()
}

func TestMap_ReadersDoNotBlockEachOther(t *testing.T) {
	m := New[Key, Value](64)
	for _, k := range list(0, 20, 1) {
		mustPut(t, m, k, k)
	}

	// Hold a shared token for the whole test; concurrent readers must still
	// complete while a writer would not.
	tok := m.guard.shared()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, k := range list(0, 20, 1) {
				if v, ok := m.Get(k); !ok || v != k {
					t.Errorf("Map.Get(%v) = %v, %v. want %v, true", k, v, ok, k)
				}
			}
		}()
	}
	wg.Wait()
	tok.release()
}
