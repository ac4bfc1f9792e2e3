package discord

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// userLimiter: un token bucket por usuario para los clicks (evita spam de botones).
// Ready sólo mira el bucket; el token se gasta con Spend cuando el play salió bien.
type userLimiter struct {
	mu    sync.Mutex
	every rate.Limit
	by    map[string]*rate.Limiter
}

func newUserLimiter(window time.Duration) *userLimiter {
	every := rate.Inf
	if window > 0 {
		every = rate.Every(window)
	}
	return &userLimiter{every: every, by: map[string]*rate.Limiter{}}
}

func (l *userLimiter) get(userID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.by[userID]
	if !ok {
		lim = rate.NewLimiter(l.every, 1)
		l.by[userID] = lim
	}
	return lim
}

func (l *userLimiter) Ready(userID string) bool {
	lim := l.get(userID)
	return lim.Limit() == rate.Inf || lim.Tokens() >= 1
}

func (l *userLimiter) Spend(userID string) {
	l.get(userID).Allow()
}
