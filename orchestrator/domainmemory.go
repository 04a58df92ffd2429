package orchestrator

import (
	"sync"
	"time"
)

const domainMemoryTTL = 30 * time.Minute

type domainMemoryEntry struct {
	needsBrowser bool
	expiresAt    time.Time
}

// domainMemory remembers which hosts required the Driven Browser
// fallback on a prior visit, so a later visit to the same host can skip
// straight to the browser instead of spending a Page Fetcher attempt
// that's likely to fail again. Adapted from purify's
// engine.DomainMemory (sync.Map + TTL + hourly cleanup), narrowed from
// "which engine won" to a single needs-browser bit since this runtime
// has exactly one fallback tier rather than an escalation ladder.
type domainMemory struct {
	store sync.Map // host (string) -> *domainMemoryEntry
	done  chan struct{}
}

func newDomainMemory() *domainMemory {
	dm := &domainMemory{done: make(chan struct{})}
	go dm.cleanupLoop()
	return dm
}

func (dm *domainMemory) needsBrowser(host string) bool {
	val, ok := dm.store.Load(host)
	if !ok {
		return false
	}
	entry := val.(*domainMemoryEntry)
	if time.Now().After(entry.expiresAt) {
		dm.store.Delete(host)
		return false
	}
	return entry.needsBrowser
}

func (dm *domainMemory) rememberNeedsBrowser(host string) {
	dm.store.Store(host, &domainMemoryEntry{
		needsBrowser: true,
		expiresAt:    time.Now().Add(domainMemoryTTL),
	})
}

// stop terminates the background cleanup goroutine. Not called by the
// Orchestrator (it's a process-lifetime singleton); used by tests that
// need a clean shutdown.
func (dm *domainMemory) stop() {
	close(dm.done)
}

func (dm *domainMemory) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-dm.done:
			return
		case <-ticker.C:
			now := time.Now()
			dm.store.Range(func(key, value any) bool {
				if now.After(value.(*domainMemoryEntry).expiresAt) {
					dm.store.Delete(key)
				}
				return true
			})
		}
	}
}
