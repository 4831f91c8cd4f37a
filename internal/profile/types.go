package profile

import (
	"time"

	"gorm.io/gorm"

	"mypal/internal/curiosity"
)

// Personality traits drift with interaction style; each is clamped 0-100.
type Personality struct {
	Curious   int `json:"curious"`
	Logical   int `json:"logical"`
	Social    int `json:"social"`
	Agreeable int `json:"agreeable"`
	Cautious  int `json:"cautious"`
}

// DefaultPersonality is the newborn trait baseline.
func DefaultPersonality() Personality {
	return Personality{Curious: 10, Logical: 10, Social: 10, Agreeable: 10, Cautious: 10}
}

// Settings are per-profile tunables exposed through the settings endpoint.
type Settings struct {
	XPMultiplier float64 `json:"xpMultiplier"`
	APIProvider  string  `json:"apiProvider"`
	APIKeyMask   string  `json:"apiKeyMask,omitempty"`
	Telemetry    bool    `json:"telemetry"`
	AuthRequired bool    `json:"authRequired"`
}

// State is the developmental state of one pal. It is owned exclusively by the
// turn-processing pipeline and never mutated concurrently; the request layer
// serializes turns per profile.
type State struct {
	Level            int                         `json:"level"`
	XP               int                         `json:"xp"`
	CP               int                         `json:"cp"`
	Settings         Settings                    `json:"settings"`
	Personality      Personality                 `json:"personality"`
	CurrentEmotion   string                      `json:"currentEmotion"`
	PendingQuestions []curiosity.PendingQuestion `json:"pendingQuestions,omitempty"`
	MessageCount     int                         `json:"messageCount"`
}

// DefaultState returns a newborn pal.
func DefaultState() State {
	return State{
		Settings:       Settings{XPMultiplier: 1, APIProvider: "local"},
		Personality:    DefaultPersonality(),
		CurrentEmotion: "calm",
	}
}

// JournalEntry is one subjective narrative the pal wrote about an exchange.
type JournalEntry struct {
	ID        string    `json:"id"`
	MemoryID  string    `json:"memoryId"`
	Timestamp time.Time `json:"ts"`
	Narrative string    `json:"narrative"`
	Level     int       `json:"level"`
}

// Profile is a named pal instance owned by a user account.
type Profile struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:64;not null"`
	UserID    uint           `json:"user_id" gorm:"index"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ChatMessage is one line of the persisted chat log. User-authored lines
// double as Markov corpus input.
type ChatMessage struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	ProfileID uint           `json:"profile_id" gorm:"index"`
	Role      string         `json:"role"` // "user" or "pal"
	Kind      string         `json:"kind,omitempty"`
	Text      string         `json:"text"`
	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
