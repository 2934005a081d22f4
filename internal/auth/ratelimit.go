package auth

import (
	"sync"
	"time"

	"github.com/mrlokans/bookshelf/internal/config"
)

const throttleSweepInterval = 5 * time.Minute

// LoginThrottle counts failed logins per client address and username inside
// a fixed window. Reaching the limit blocks that pair until the lockout
// expires. The per-account lockout stored on the user is enforced separately
// by Service.Authenticate.
type LoginThrottle struct {
	limit   int
	window  time.Duration
	lockout time.Duration
	now     func() time.Time

	mu       sync.Mutex
	failures map[throttleKey]*failureWindow

	done     chan struct{}
	stopOnce sync.Once
}

type throttleKey struct {
	ip       string
	username string
}

type failureWindow struct {
	started     time.Time
	count       int
	blockedTill time.Time
}

func (w *failureWindow) expired(now time.Time, window time.Duration) bool {
	return now.Sub(w.started) > window && !now.Before(w.blockedTill)
}

// NewLoginThrottle builds a throttle from the auth settings and starts the
// sweeper that forgets stale entries. Call Stop when done.
func NewLoginThrottle(cfg config.Auth) *LoginThrottle {
	t := newLoginThrottle(cfg, time.Now)
	go t.sweepLoop(throttleSweepInterval)
	return t
}

func newLoginThrottle(cfg config.Auth, now func() time.Time) *LoginThrottle {
	limit := cfg.MaxLoginAttempts
	if limit <= 0 {
		limit = 5
	}
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = 15 * time.Minute
	}
	lockout := cfg.LockoutDuration
	if lockout <= 0 {
		lockout = 30 * time.Minute
	}

	return &LoginThrottle{
		limit:    limit,
		window:   window,
		lockout:  lockout,
		now:      now,
		failures: make(map[throttleKey]*failureWindow),
		done:     make(chan struct{}),
	}
}

// Allow reports whether another attempt may be made and, if not, how long
// the caller has to wait.
func (t *LoginThrottle) Allow(ip, username string) (bool, time.Duration) {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	w, ok := t.failures[throttleKey{ip, username}]
	if !ok {
		return true, 0
	}
	if now.Before(w.blockedTill) {
		return false, w.blockedTill.Sub(now)
	}
	return true, 0
}

// RecordFailure counts a failed attempt and reports whether the pair is now blocked.
func (t *LoginThrottle) RecordFailure(ip, username string) bool {
	now := t.now()
	key := throttleKey{ip, username}

	t.mu.Lock()
	defer t.mu.Unlock()

	w, ok := t.failures[key]
	if !ok || w.expired(now, t.window) {
		w = &failureWindow{started: now}
		t.failures[key] = w
	}

	w.count++
	if w.count >= t.limit {
		w.blockedTill = now.Add(t.lockout)
		return true
	}
	return false
}

// RecordSuccess forgets earlier failures of the pair.
func (t *LoginThrottle) RecordSuccess(ip, username string) {
	t.mu.Lock()
	delete(t.failures, throttleKey{ip, username})
	t.mu.Unlock()
}

// Stop ends the sweeper. Safe to call more than once.
func (t *LoginThrottle) Stop() {
	t.stopOnce.Do(func() { close(t.done) })
}

func (t *LoginThrottle) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.sweep()
		case <-t.done:
			return
		}
	}
}

func (t *LoginThrottle) sweep() {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	for key, w := range t.failures {
		if w.expired(now, t.window) {
			delete(t.failures, key)
		}
	}
}
