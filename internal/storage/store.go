package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Persisted keys. Values are whole-collection JSON snapshots, except
// KeyDeck which holds a bare deck id.
const (
	KeySessions  = "mak:sessions:v2"
	KeyFreeCards = "mak:freecards:v1"
	KeyJournal   = "mak:journal:v1"
	KeyDeck      = "mak:deck:v1"
	KeyLastV2    = "mak:last:v2"
	KeyLastV3    = "mak:last:v3"
)

// Store is a text key-value store partitioned by owner.
type Store interface {
	Get(ctx context.Context, owner, key string) (string, bool, error)
	Set(ctx context.Context, owner, key, value string) error
	Delete(ctx context.Context, owner, key string) error
}

// Entry is one stored value.
type Entry struct {
	OwnerID   string    `gorm:"primaryKey;type:text"`
	Key       string    `gorm:"primaryKey;type:text"`
	Value     string    `gorm:"type:text;not null;default:''"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Entry) TableName() string { return "kv_entries" }

type GormStore struct {
	DB *gorm.DB
}

func (s *GormStore) Get(ctx context.Context, owner, key string) (string, bool, error) {
	var e Entry
	err := s.DB.WithContext(ctx).Where("owner_id=? AND key=?", owner, key).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return e.Value, true, nil
}

func (s *GormStore) Set(ctx context.Context, owner, key, value string) error {
	e := Entry{OwnerID: owner, Key: key, Value: value, UpdatedAt: time.Now()}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (s *GormStore) Delete(ctx context.Context, owner, key string) error {
	return s.DB.WithContext(ctx).Where("owner_id=? AND key=?", owner, key).Delete(&Entry{}).Error
}

// MemoryStore keeps everything in process memory. Used when no database is
// configured and in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[string]string{}}
}

func (s *MemoryStore) Get(_ context.Context, owner, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[owner][key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, owner, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.data[owner]
	if !ok {
		m = map[string]string{}
		s.data[owner] = m
	}
	m[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, owner, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[owner], key)
	return nil
}
