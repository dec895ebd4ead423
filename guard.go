package primemap

import (
	"sync"

	"golang.org/x/sys/cpu"
)

// rwGuard is the single reader/writer lock guarding a Map.
// Acquiring it returns a token; callers defer the token's release
// so the lock is dropped on every exit path.
type rwGuard struct {
	_  cpu.CacheLinePad
	mu sync.RWMutex
	_  cpu.CacheLinePad
}

type sharedToken struct{ g *rwGuard }

type exclusiveToken struct{ g *rwGuard }

// shared blocks until no writer holds the lock.
func (g *rwGuard) shared() sharedToken {
	g.mu.RLock()
	return sharedToken{g}
}

// exclusive blocks until no reader or writer holds the lock.
func (g *rwGuard) exclusive() exclusiveToken {
	g.mu.Lock()
	return exclusiveToken{g}
}

func (t sharedToken) release() { t.g.mu.RUnlock() }

func (t exclusiveToken) release() { t.g.mu.Unlock() }
