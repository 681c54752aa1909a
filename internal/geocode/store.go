package geocode

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists Locations in Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewStore(conn *gorm.DB) *GormStore {
	return &GormStore{db: conn}
}

// Find looks up a location by its normalized query. A miss is (nil, nil).
func (s *GormStore) Find(normalized string) (*Location, error) {
	var loc Location
	err := s.db.First(&loc, "query = ?", normalized).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// InsertIfAbsent stores a location under its normalized query unless one
// already exists: first writer wins, losers get the existing row back. Safe
// under concurrent misses for the same key.
func (s *GormStore) InsertIfAbsent(loc *Location) (*Location, error) {
	if loc.ID == "" {
		loc.ID = uuid.NewString()
	}

	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "query"}},
		DoNothing: true,
	}).Create(loc)
	if res.Error != nil {
		return nil, fmt.Errorf("inserting location: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return loc, nil
	}

	// Lost the race; another writer inserted this key first.
	existing, err := s.Find(loc.Query)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		// Conflicting row not visible yet; our copy carries the same data.
		return loc, nil
	}
	return existing, nil
}
