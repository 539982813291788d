package metrics

import (
	"log"
	"sync"
)

var (
	storeMu     sync.Mutex
	sharedStore *Store
)

// Init opens the shared invocation store at its default path. Calling it
// again after a successful open is a no-op; after a failed open the next
// call retries.
func Init() error {
	storeMu.Lock()
	defer storeMu.Unlock()
	return openSharedLocked()
}

func openSharedLocked() error {
	if sharedStore != nil {
		return nil
	}
	store, err := NewStore()
	if err != nil {
		log.Printf("metrics: could not open invocation store: %v", err)
		return err
	}
	sharedStore = store
	return nil
}

// RecordInvocation bumps today's count for the given mode. Recording is
// best effort: when the store cannot be opened the invocation is logged
// and dropped, never surfaced to the command.
func RecordInvocation(mode Mode) {
	storeMu.Lock()
	defer storeMu.Unlock()

	if err := openSharedLocked(); err != nil {
		log.Printf("metrics: dropping %s invocation: %v", mode, err)
		return
	}
	if err := sharedStore.Increment(mode); err != nil {
		log.Printf("metrics: failed to count %s invocation: %v", mode, err)
	}
}

// GetStats returns the cumulative invocation totals per mode, or nil when
// no store is open. The OTel gauge callback reads through here.
func GetStats() map[Mode]int64 {
	storeMu.Lock()
	store := sharedStore
	storeMu.Unlock()

	if store == nil {
		return nil
	}

	totals, err := store.GetAllTotals()
	if err != nil {
		log.Printf("metrics: failed to read invocation totals: %v", err)
		return nil
	}
	return totals
}

// Close releases the shared store. Safe to call when Init never ran.
func Close() error {
	storeMu.Lock()
	defer storeMu.Unlock()

	if sharedStore == nil {
		return nil
	}
	err := sharedStore.Close()
	sharedStore = nil
	return err
}

// SetStoreForTesting swaps in a store a test opened at its own path.
func SetStoreForTesting(store *Store) {
	storeMu.Lock()
	defer storeMu.Unlock()
	sharedStore = store
}

// ResetForTesting closes and clears the shared store between tests.
func ResetForTesting() {
	storeMu.Lock()
	defer storeMu.Unlock()
	if sharedStore != nil {
		_ = sharedStore.Close()
	}
	sharedStore = nil
}
