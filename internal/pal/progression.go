package pal

import (
	"log"
	"math"

	"mypal/internal/profile"
)

// levelThresholds[n] is the total XP required to advance past level n. Past
// the table, each level costs a flat step more.
var levelThresholds = []int{
	100, 400, 1000, 2000, 3500, 5500, 8000, 11000,
	14500, 18500, 23000, 28000, 33500, 39500, 46000,
}

const pastTableStep = 6000

// ThresholdFor returns the cumulative XP needed to leave the given level.
func ThresholdFor(level int) int {
	if level < 0 {
		level = 0
	}
	if level < len(levelThresholds) {
		return levelThresholds[level]
	}
	return levelThresholds[len(levelThresholds)-1] + pastTableStep*(level-len(levelThresholds)+1)
}

// AddXP applies the profile's XP multiplier, accumulates experience, and
// advances levels while thresholds are crossed. Each level-up grants one CP.
func AddXP(st *profile.State, raw int) (gained int, leveledUp bool) {
	mult := st.Settings.XPMultiplier
	if mult <= 0 {
		mult = 1
	}
	gained = int(math.Round(float64(raw) * mult))
	if gained < 0 {
		gained = 0
	}
	st.XP += gained
	for st.XP >= ThresholdFor(st.Level) {
		st.Level++
		st.CP++
		leveledUp = true
		log.Printf("[Pal] Level up! Now level %d (xp %d)", st.Level, st.XP)
	}
	return gained, leveledUp
}

// ProgressInLevel reports XP progress through the current level as a fraction
// in [0, 1), for the stats endpoint.
func ProgressInLevel(st *profile.State) float64 {
	floor := 0
	if st.Level > 0 {
		floor = ThresholdFor(st.Level - 1)
	}
	span := ThresholdFor(st.Level) - floor
	if span <= 0 {
		return 0
	}
	p := float64(st.XP-floor) / float64(span)
	if p < 0 {
		p = 0
	}
	if p >= 1 {
		p = 0.999
	}
	return p
}
