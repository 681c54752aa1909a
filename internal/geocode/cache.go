package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/JBLarson/dayAndNight/internal/events"
)

// Queries shorter than this match the frontend's debounce threshold and are
// treated as not-yet-meaningful input: no store lookup, no upstream call, no
// log entry.
const minQueryLen = 3

// LocationStore is the cache's persistence boundary.
type LocationStore interface {
	Find(normalized string) (*Location, error)
	InsertIfAbsent(loc *Location) (*Location, error)
}

// SearchRecorder appends to the audit log.
type SearchRecorder interface {
	Record(rawQuery string, locationID *string, clientIP, clientAgent string) error
}

// Resolver is the upstream geocoding gateway.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*UpstreamResult, error)
}

// SearchResult is what a geocode call hands back to the transport layer.
// Candidates is always a valid JSON array, byte-identical across cache hits
// for the same key.
type SearchResult struct {
	Candidates json.RawMessage
	Count      int
	CacheHit   bool
}

var emptyCandidates = json.RawMessage("[]")

// Service is the read-through cache over Store, SearchLogger and the upstream
// gateway. Each call is independent; all shared state lives behind the store
// and recorder, whose writes are safe under concurrent invocation.
type Service struct {
	store    LocationStore
	recorder SearchRecorder
	gateway  Resolver
	events   *events.Publisher
}

func NewService(store LocationStore, recorder SearchRecorder, gateway Resolver, publisher *events.Publisher) *Service {
	return &Service{
		store:    store,
		recorder: recorder,
		gateway:  gateway,
		events:   publisher,
	}
}

// Geocode answers a query: short-circuit trivial input, serve from the store
// on a hit, otherwise call upstream, persist the first candidate and return
// them all. Every non-trivial attempt is logged, success or not.
func (s *Service) Geocode(ctx context.Context, rawQuery, clientIP, clientAgent string) (*SearchResult, error) {
	if len(strings.TrimSpace(rawQuery)) < minQueryLen {
		return &SearchResult{Candidates: emptyCandidates}, nil
	}

	normalized := Normalize(rawQuery)

	cached, err := s.store.Find(normalized)
	if err != nil {
		return nil, fmt.Errorf("store lookup for %q: %w", normalized, err)
	}
	if cached != nil {
		s.record(ctx, rawQuery, &cached.ID, clientIP, clientAgent, true)
		raw := json.RawMessage(cached.RawResponse)
		return &SearchResult{
			Candidates: raw,
			Count:      countCandidates(raw),
			CacheHit:   true,
		}, nil
	}

	upstream, err := s.gateway.Resolve(ctx, rawQuery)
	if err != nil {
		// The attempt still gets logged; a log failure must not mask the
		// gateway failure, nor vice versa.
		s.record(ctx, rawQuery, nil, clientIP, clientAgent, false)
		return nil, err
	}

	if len(upstream.Candidates) == 0 {
		s.record(ctx, rawQuery, nil, clientIP, clientAgent, false)
		return &SearchResult{Candidates: emptyCandidates}, nil
	}

	// Only the first candidate populates the structured columns; the full
	// list rides along verbatim in RawResponse and is what hits replay.
	first := upstream.Candidates[0]
	stored, err := s.store.InsertIfAbsent(&Location{
		Query:       normalized,
		DisplayName: first.DisplayName,
		Lat:         first.Lat,
		Lon:         first.Lon,
		BoundingBox: first.BoundingBox,
		RawResponse: string(upstream.Raw),
	})

	var locationID *string
	if err != nil {
		log.Printf("[geocode] failed to persist location for %q: %v", normalized, err)
	} else {
		locationID = &stored.ID
	}

	s.record(ctx, rawQuery, locationID, clientIP, clientAgent, false)

	return &SearchResult{
		Candidates: upstream.Raw,
		Count:      len(upstream.Candidates),
	}, nil
}

func (s *Service) record(ctx context.Context, rawQuery string, locationID *string, clientIP, clientAgent string, hit bool) {
	if err := s.recorder.Record(rawQuery, locationID, clientIP, clientAgent); err != nil {
		log.Printf("[geocode] search log write failed for %q: %v", rawQuery, err)
	}
	s.events.Publish(ctx, events.SearchEvent{
		Query:     rawQuery,
		CacheHit:  hit,
		Resolved:  locationID != nil,
		Timestamp: time.Now().UTC(),
	})
}

func countCandidates(raw json.RawMessage) int {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return 0
	}
	return len(arr)
}
