package profile

import "sync"

// Snapshots are written back whole, so concurrent load-modify-save cycles on
// the same pal lose updates. Every writer — chat turns, settings, reinforce,
// reset, the decay sweep — must hold the profile's lock around the cycle.
var (
	lockMu sync.Mutex
	locks  = make(map[uint]*sync.Mutex)
)

// Lock returns the write lock for one profile, creating it on first use.
func Lock(profileID uint) *sync.Mutex {
	lockMu.Lock()
	defer lockMu.Unlock()
	mu, ok := locks[profileID]
	if !ok {
		mu = &sync.Mutex{}
		locks[profileID] = mu
	}
	return mu
}
