package orchestrator

import (
	"testing"
	"time"
)

func TestDomainMemory_UnknownHostDoesNotNeedBrowser(t *testing.T) {
	dm := newDomainMemory()
	defer dm.stop()

	if dm.needsBrowser("example.com") {
		t.Error("expected a host with no history to not need the browser")
	}
}

func TestDomainMemory_RememberedHostNeedsBrowser(t *testing.T) {
	dm := newDomainMemory()
	defer dm.stop()

	dm.rememberNeedsBrowser("example.com")
	if !dm.needsBrowser("example.com") {
		t.Error("expected remembered host to need the browser")
	}
}

func TestDomainMemory_ExpiredEntryIsForgotten(t *testing.T) {
	dm := newDomainMemory()
	defer dm.stop()

	dm.store.Store("example.com", &domainMemoryEntry{
		needsBrowser: true,
		expiresAt:    time.Now().Add(-time.Minute),
	})
	if dm.needsBrowser("example.com") {
		t.Error("expected expired entry to be treated as unknown")
	}
}
