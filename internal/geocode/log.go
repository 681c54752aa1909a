package geocode

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SearchLogger appends entries to the search log. Callers treat failures as
// best-effort: a lost audit row never blocks a search result.
type SearchLogger struct {
	db *gorm.DB
}

func NewSearchLogger(conn *gorm.DB) *SearchLogger {
	return &SearchLogger{db: conn}
}

func (l *SearchLogger) Record(rawQuery string, locationID *string, clientIP, clientAgent string) error {
	entry := SearchLog{
		ID:          uuid.NewString(),
		Query:       rawQuery,
		LocationID:  locationID,
		ClientIP:    clientIP,
		ClientAgent: clientAgent,
	}
	return l.db.Create(&entry).Error
}
