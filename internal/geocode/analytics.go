package geocode

import (
	"time"

	"gorm.io/gorm"
)

// Analytics runs read-only aggregations over the search log and location
// store. Nothing here writes.
type Analytics struct {
	db *gorm.DB
}

func NewAnalytics(conn *gorm.DB) *Analytics {
	return &Analytics{db: conn}
}

type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

type RecentSearch struct {
	Query       string    `json:"query"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Summary struct {
	TotalSearches   int64          `json:"totalSearches"`
	UniqueLocations int64          `json:"uniqueLocations"`
	TopSearches     []QueryCount   `json:"topSearches"`
	RecentSearches  []RecentSearch `json:"recentSearches"`
	CacheHitRate    float64        `json:"cacheHitRate"`
}

func (a *Analytics) Summary(topN, recentN int) (*Summary, error) {
	var total, unique, resolved int64
	if err := a.db.Model(&SearchLog{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := a.db.Model(&Location{}).Count(&unique).Error; err != nil {
		return nil, err
	}
	if err := a.db.Model(&SearchLog{}).Where("location_id IS NOT NULL").Count(&resolved).Error; err != nil {
		return nil, err
	}

	top := []QueryCount{}
	err := a.db.Model(&SearchLog{}).
		Select("query, count(*) as count").
		Group("query").
		Order("count DESC").
		Limit(topN).
		Scan(&top).Error
	if err != nil {
		return nil, err
	}

	recent := []RecentSearch{}
	err = a.db.Model(&SearchLog{}).
		Select("geo.search_logs.query, geo.locations.display_name, geo.search_logs.created_at").
		Joins("LEFT JOIN geo.locations ON geo.locations.id = geo.search_logs.location_id").
		Order("geo.search_logs.created_at DESC").
		Limit(recentN).
		Scan(&recent).Error
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalSearches:   total,
		UniqueLocations: unique,
		TopSearches:     top,
		RecentSearches:  recent,
		CacheHitRate:    HitRate(resolved, total),
	}, nil
}

// HitRate is the percentage of logged searches that resolved to a stored
// location. An empty log is a 0% rate, not a division by zero.
func HitRate(resolved, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(resolved) / float64(total)
}

// ExportDump is a full read-only snapshot of both tables.
type ExportDump struct {
	ExportedAt time.Time   `json:"exported_at"`
	Locations  []Location  `json:"locations"`
	Searches   []SearchLog `json:"searches"`
}

func (a *Analytics) Export() (*ExportDump, error) {
	locations := []Location{}
	if err := a.db.Order("created_at").Find(&locations).Error; err != nil {
		return nil, err
	}
	searches := []SearchLog{}
	if err := a.db.Order("created_at").Find(&searches).Error; err != nil {
		return nil, err
	}
	return &ExportDump{
		ExportedAt: time.Now().UTC(),
		Locations:  locations,
		Searches:   searches,
	}, nil
}
