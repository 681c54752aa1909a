package geocode

import (
	"time"

	"github.com/lib/pq"
)

// Location is one cached geocoding result, keyed by the normalized query that
// produced it. The structured columns describe the first provider candidate;
// RawResponse preserves the provider's full candidate array verbatim so cache
// hits replay exactly what the upstream originally returned.
type Location struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Query       string         `gorm:"uniqueIndex;not null" json:"query"`
	DisplayName string         `json:"display_name"`
	Lat         float64        `json:"lat"`
	Lon         float64        `json:"lon"`
	BoundingBox pq.StringArray `gorm:"type:text[]" json:"bounding_box,omitempty"`
	// json, not jsonb: jsonb normalizes key order and whitespace, and cache
	// hits must replay the provider response byte for byte.
	RawResponse string         `gorm:"type:json" json:"raw_response"`
	CreatedAt   time.Time      `json:"created_at"`
}

// SearchLog is one append-only record of a query attempt. LocationID is nil
// when the query produced zero results or the upstream was unavailable.
// Entries are never updated or deleted.
type SearchLog struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Query       string    `gorm:"index" json:"query"`
	LocationID  *string   `gorm:"index" json:"location_id"`
	ClientIP    string    `json:"client_ip"`
	ClientAgent string    `json:"client_agent"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (Location) TableName() string  { return "geo.locations" }
func (SearchLog) TableName() string { return "geo.search_logs" }
