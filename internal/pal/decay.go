package pal

import (
	"log"
	"time"

	"mypal/internal/profile"
	"mypal/internal/vocab"
)

// DecayWorker periodically ages every pal's vocabulary so neglected words
// fade while definitions persist.
type DecayWorker struct {
	Manager  *profile.Manager
	Interval time.Duration
}

func NewDecayWorker(mgr *profile.Manager, interval time.Duration) *DecayWorker {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &DecayWorker{Manager: mgr, Interval: interval}
}

// Start blocks, sweeping on every tick. Run it in a goroutine.
func (w *DecayWorker) Start() {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for range ticker.C {
		w.Sweep(time.Now())
	}
}

// Sweep applies decay to every pal record once.
func (w *DecayWorker) Sweep(now time.Time) {
	ids, err := w.Manager.ProfileIDs()
	if err != nil {
		log.Printf("[Decay] List profiles failed: %v", err)
		return
	}
	for _, id := range ids {
		w.sweepOne(id, now)
	}
}

// sweepOne holds the profile write lock for the whole load-modify-save cycle
// so a sweep cannot overwrite a chat turn landing at the same time.
func (w *DecayWorker) sweepOne(id uint, now time.Time) {
	mu := profile.Lock(id)
	mu.Lock()
	defer mu.Unlock()

	snap, err := w.Manager.Load(id)
	if err != nil {
		log.Printf("[Decay] Load profile %d failed: %v", id, err)
		return
	}
	store := vocab.NewStore(snap.Vocabulary, 0)
	touched := store.ApplyDecay(now)
	if touched == 0 {
		return
	}
	snap.Vocabulary = store.Entries()
	if err := w.Manager.Save(snap); err != nil {
		log.Printf("[Decay] Save profile %d failed: %v", id, err)
		return
	}
	log.Printf("[Decay] Profile %d: decayed %d vocabulary entries", id, touched)
}
