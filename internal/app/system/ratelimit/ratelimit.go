// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
)

// Limiter is a fixed-window counter keyed by an arbitrary string.
// It is safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

type window struct {
	count     int
	expiresAt time.Time
}

// New returns a limiter that allows limit hits per key in each duration.
// Call Stop to end its cleanup goroutine.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go l.cleanupLoop(duration * 2)
	return l
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many hits key has left in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || l.now().After(w.expiresAt) {
		return l.limit
	}
	if rem := l.limit - w.count; rem > 0 {
		return rem
	}
	return 0
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanupLoop(every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, w := range l.windows {
				if now.After(w.expiresAt) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// ClientIP returns the first X-Forwarded-For entry, then X-Real-IP, then
// RemoteAddr without its port.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// Messages shown on the login page when a limit trips.
const (
	MsgIPLimited       = "Too many login attempts. Please wait a minute before trying again."
	MsgUsernameLimited = "Too many login attempts for this account. Please wait a few minutes."
)

// Reasons reported by LoginLimiter.Check, also written to the audit log.
const (
	LimitIP       = "ip"
	LimitUsername = "username"
)

// LoginLimiter caps login attempts per client IP and per username.
type LoginLimiter struct {
	ip       *Limiter
	username *Limiter
}

// NewLoginLimiter builds a limiter allowing ipLimit attempts per IP and
// userLimit attempts per username within window.
func NewLoginLimiter(ipLimit, userLimit int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		ip:       New(ipLimit, window),
		username: New(userLimit, window),
	}
}

// Check records an attempt for the request's client and username. When
// blocked it returns false with the limit type that tripped and a message
// for the user.
func (ll *LoginLimiter) Check(r *http.Request, username string) (ok bool, limit, msg string) {
	if !ll.ip.Allow(ClientIP(r)) {
		return false, LimitIP, MsgIPLimited
	}
	if key := text.Fold(strings.TrimSpace(username)); key != "" {
		if !ll.username.Allow(key) {
			return false, LimitUsername, MsgUsernameLimited
		}
	}
	return true, "", ""
}

// ResetUsername clears the per-username counter after a successful login.
func (ll *LoginLimiter) ResetUsername(username string) {
	if key := text.Fold(strings.TrimSpace(username)); key != "" {
		ll.username.Reset(key)
	}
}

// Stop ends both cleanup goroutines.
func (ll *LoginLimiter) Stop() {
	ll.ip.Stop()
	ll.username.Stop()
}
