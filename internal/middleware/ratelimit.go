package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Cuota diaria de referencia del producto: 50 generaciones por cliente,
// ventana de 24h.
const (
	DefaultDailyQuota = 50
	quotaWindow       = 24 * time.Hour
)

const msgRateLimit = "Energia portali jest chwilowo intensywna. Zapraszamy do tworzenia nowych portretów od jutra, gdy wibracje się ustabilizują. 🌟"

type quotaEntry struct {
	count       int
	windowStart time.Time
}

// DailyQuota limita requests por cliente (IP) con ventana fija de 24h.
// Estado in-memory: el servicio es single-session, no hace falta un
// store compartido.
type DailyQuota struct {
	mu    sync.Mutex
	seen  map[string]quotaEntry
	limit int
	now   func() time.Time
}

func NewDailyQuota(limit int) *DailyQuota {
	if limit <= 0 {
		limit = DefaultDailyQuota
	}
	return &DailyQuota{
		seen:  make(map[string]quotaEntry),
		limit: limit,
		now:   time.Now,
	}
}

func (q *DailyQuota) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !q.allow(clientKey(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": msgRateLimit})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (q *DailyQuota) allow(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	e, ok := q.seen[key]
	if !ok || now.Sub(e.windowStart) >= quotaWindow {
		q.seen[key] = quotaEntry{count: 1, windowStart: now}
		return true
	}
	if e.count >= q.limit {
		return false
	}
	e.count++
	q.seen[key] = e
	return true
}

// clientKey usa la IP real (chi RealIP ya corrió antes en el stack).
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
