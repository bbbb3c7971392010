package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// KeyFunc extrai de uma requisição a chave de limitação: IP para tráfego
// anônimo (login, webhooks do gateway), usuário para rotas autenticadas.
type KeyFunc func(c *gin.Context) string

func ByClientIP() KeyFunc {
	return func(c *gin.Context) string {
		return c.ClientIP()
	}
}

// ByDonor limita por usuário autenticado; antes do AuthMiddleware popular o
// contexto, a chave recua para o IP.
func ByDonor() KeyFunc {
	return func(c *gin.Context) string {
		if userID, exists := c.Get("user_id"); exists {
			if id, ok := userID.(string); ok {
				return "donor:" + id
			}
		}
		return c.ClientIP()
	}
}

// RateLimiter conta requisições por chave numa janela deslizante. Um único
// limiter atende chaves de naturezas diferentes; a KeyFunc decide o recorte.
type RateLimiter struct {
	mu      sync.Mutex
	seen    map[string][]time.Time
	limit   int
	window  time.Duration
	lastGC  time.Time
	gcEvery time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		seen:    make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		lastGC:  time.Now(),
		gcEvery: time.Minute,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.gcLocked(now)

	recent := rl.prune(rl.seen[key], now)
	if len(recent) >= rl.limit {
		rl.seen[key] = recent
		return false
	}

	rl.seen[key] = append(recent, now)
	return true
}

func (rl *RateLimiter) prune(stamps []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	kept := stamps[:0]
	for _, t := range stamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// gcLocked descarta chaves ociosas de tempos em tempos, no caminho da própria
// requisição, para o mapa não crescer com IPs que nunca voltam.
func (rl *RateLimiter) gcLocked(now time.Time) {
	if now.Sub(rl.lastGC) < rl.gcEvery {
		return
	}
	rl.lastGC = now

	for key, stamps := range rl.seen {
		if kept := rl.prune(stamps, now); len(kept) == 0 {
			delete(rl.seen, key)
		} else {
			rl.seen[key] = kept
		}
	}
}

// Throttle aplica o limiter sobre a chave extraída da requisição.
func Throttle(limiter *RateLimiter, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(key(c)) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "RATE_LIMIT_EXCEEDED",
				"message": "Muitas requisições. Tente novamente em alguns minutos.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
