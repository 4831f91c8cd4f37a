package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"mypal/internal/concepts"
	"mypal/internal/memories"
	"mypal/internal/vocab"
)

// PalRecord is the persisted form of a pal: the developmental state plus the
// learned collections, each stored as a JSON blob. Blobs keep the schema
// stable while the in-memory shapes evolve.
type PalRecord struct {
	ID         uint           `gorm:"primaryKey"`
	ProfileID  uint           `gorm:"uniqueIndex"`
	State      datatypes.JSON `gorm:"type:jsonb"`
	Vocabulary datatypes.JSON `gorm:"type:jsonb"`
	Concepts   datatypes.JSON `gorm:"type:jsonb"`
	Memories   datatypes.JSON `gorm:"type:jsonb"`
	Journal    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Snapshot is the hydrated working set for one pal. The turn engine mutates
// it in place; the manager writes it back after each turn.
type Snapshot struct {
	ProfileID  uint
	State      State
	Vocabulary []vocab.Entry
	Concepts   []concepts.Concept
	Memories   []memories.Entry
	Journal    []JournalEntry
}

// Manager loads and saves pal snapshots.
type Manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// Load hydrates the snapshot for a profile, creating a newborn record on
// first access.
func (m *Manager) Load(profileID uint) (*Snapshot, error) {
	var rec PalRecord
	err := m.db.Where("profile_id = ?", profileID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		snap := &Snapshot{ProfileID: profileID, State: DefaultState()}
		if err := m.Save(snap); err != nil {
			return nil, fmt.Errorf("create pal record: %w", err)
		}
		log.Printf("[Profile] Created newborn pal for profile %d", profileID)
		return snap, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load pal record: %w", err)
	}

	snap := &Snapshot{ProfileID: profileID, State: DefaultState()}
	if err := unmarshalBlob(rec.State, &snap.State); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if err := unmarshalBlob(rec.Vocabulary, &snap.Vocabulary); err != nil {
		return nil, fmt.Errorf("decode vocabulary: %w", err)
	}
	if err := unmarshalBlob(rec.Concepts, &snap.Concepts); err != nil {
		return nil, fmt.Errorf("decode concepts: %w", err)
	}
	if err := unmarshalBlob(rec.Memories, &snap.Memories); err != nil {
		return nil, fmt.Errorf("decode memories: %w", err)
	}
	if err := unmarshalBlob(rec.Journal, &snap.Journal); err != nil {
		return nil, fmt.Errorf("decode journal: %w", err)
	}
	return snap, nil
}

// Save writes the snapshot back as JSON blobs, upserting on profile ID.
func (m *Manager) Save(snap *Snapshot) error {
	rec := PalRecord{ProfileID: snap.ProfileID}
	var err error
	if rec.State, err = marshalBlob(snap.State); err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if rec.Vocabulary, err = marshalBlob(snap.Vocabulary); err != nil {
		return fmt.Errorf("encode vocabulary: %w", err)
	}
	if rec.Concepts, err = marshalBlob(snap.Concepts); err != nil {
		return fmt.Errorf("encode concepts: %w", err)
	}
	if rec.Memories, err = marshalBlob(snap.Memories); err != nil {
		return fmt.Errorf("encode memories: %w", err)
	}
	if rec.Journal, err = marshalBlob(snap.Journal); err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}

	var existing PalRecord
	err = m.db.Where("profile_id = ?", snap.ProfileID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m.db.Create(&rec).Error
	}
	if err != nil {
		return fmt.Errorf("lookup pal record: %w", err)
	}
	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	return m.db.Save(&rec).Error
}

// Reset wipes a pal back to newborn state but keeps the chat log.
func (m *Manager) Reset(profileID uint) (*Snapshot, error) {
	snap := &Snapshot{ProfileID: profileID, State: DefaultState()}
	if err := m.Save(snap); err != nil {
		return nil, err
	}
	log.Printf("[Profile] Reset pal for profile %d", profileID)
	return snap, nil
}

// ProfileIDs lists every profile with a pal record, for maintenance sweeps.
func (m *Manager) ProfileIDs() ([]uint, error) {
	var ids []uint
	if err := m.db.Model(&PalRecord{}).Pluck("profile_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func marshalBlob(v interface{}) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func unmarshalBlob(blob datatypes.JSON, out interface{}) error {
	if len(blob) == 0 {
		return nil
	}
	return json.Unmarshal(blob, out)
}
