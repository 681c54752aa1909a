package geocode

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/JBLarson/dayAndNight/internal/archive"
)

type Handler struct {
	service   *Service
	analytics *Analytics
	archiver  *archive.SnapshotArchiver
}

// SearchHandler answers GET /search?q=. The response body is the provider's
// candidate array verbatim; X-Cache says whether it came from the store.
func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	result, err := h.service.Geocode(r.Context(), r.URL.Query().Get("q"), clientIP(r), clientAgent(r))
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			http.Error(w, "Geocoding service unavailable", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if result.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	addServerTiming(w, [2]string{"total", fmt.Sprintf("%.1f", float64(time.Since(start).Microseconds())/1000)})
	w.Write(result.Candidates)
}

func (h *Handler) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.Summary(10, 10)
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	dump, err := h.analytics.Export()
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dump); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ArchiveHandler writes the export snapshot to object storage and returns the
// object name. 503 when archiving is not configured.
func (h *Handler) ArchiveHandler(w http.ResponseWriter, r *http.Request) {
	if h.archiver == nil {
		http.Error(w, "Archiving not configured", http.StatusServiceUnavailable)
		return
	}

	dump, err := h.analytics.Export()
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	payload, err := json.Marshal(dump)
	if err != nil {
		http.Error(w, "Failed to encode snapshot", http.StatusInternalServerError)
		return
	}

	name := fmt.Sprintf("export-%s.json", dump.ExportedAt.Format("20060102T150405Z"))
	if err := h.archiver.Upload(r.Context(), name, payload); err != nil {
		http.Error(w, "Upload failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"object": name})
}

func addServerTiming(w http.ResponseWriter, kv ...[2]string) {
	if len(kv) == 0 {
		return
	}
	val := ""
	for i, p := range kv {
		if i > 0 {
			val += ", "
		}
		val += fmt.Sprintf("%s;dur=%s", p[0], p[1])
	}
	w.Header().Add("Server-Timing", val)
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the socket
// address. Best-effort; "unknown" when neither parses.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return "unknown"
	}
	return host
}

func clientAgent(r *http.Request) string {
	if ua := r.UserAgent(); ua != "" {
		return ua
	}
	return "unknown"
}
