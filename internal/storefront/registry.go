package storefront

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shopez/internal/services"
	"shopez/internal/session"
)

// Registry holds one Controller per browser session.
type Registry struct {
	mu          sync.RWMutex
	controllers map[string]*Controller // session_id -> controller
	lastSeen    map[string]time.Time
	now         func() time.Time

	api     API
	stores  session.Factory
	catalog *services.ProductService
	orders  *services.OrderService
	cfg     Config
	logger  *zap.Logger
}

func NewRegistry(api API, stores session.Factory, catalog *services.ProductService, orders *services.OrderService, cfg Config, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if stores == nil {
		stores = session.MemoryFactory()
	}
	return &Registry{
		controllers: make(map[string]*Controller),
		lastSeen:    make(map[string]time.Time),
		now:         time.Now,
		api:         api,
		stores:      stores,
		catalog:     catalog,
		orders:      orders,
		cfg:         cfg,
		logger:      logger,
	}
}

// Create starts a new session on the logged-out screen and returns its id.
func (r *Registry) Create() (string, *Controller) {
	sid := uuid.NewString()
	ctrl := NewController(r.api, r.stores(sid), r.catalog, r.orders, r.cfg, r.logger.With(zap.String("session_id", sid)))

	r.mu.Lock()
	defer r.mu.Unlock()

	r.controllers[sid] = ctrl
	r.lastSeen[sid] = r.now()
	return sid, ctrl
}

// Get returns the controller for sid and marks the session as seen.
func (r *Registry) Get(sid string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctrl, exists := r.controllers[sid]
	if !exists {
		return nil, ErrSessionNotFound
	}
	r.lastSeen[sid] = r.now()
	return ctrl, nil
}

// GetOrCreate returns the controller for sid, or a fresh session when sid
// is unknown. created reports which happened.
func (r *Registry) GetOrCreate(sid string) (id string, ctrl *Controller, created bool) {
	if sid != "" {
		if ctrl, err := r.Get(sid); err == nil {
			return sid, ctrl, false
		}
	}
	id, ctrl = r.Create()
	return id, ctrl, true
}

// Remove closes and forgets a session. It reports whether sid existed.
func (r *Registry) Remove(sid string) bool {
	r.mu.Lock()
	ctrl, exists := r.controllers[sid]
	delete(r.controllers, sid)
	delete(r.lastSeen, sid)
	r.mu.Unlock()

	if exists {
		ctrl.Close()
	}
	return exists
}

// Prune removes sessions that have not been seen for maxAge and are not
// past OTP verification, and returns how many were removed. Verified
// sessions are left to their own session timer.
func (r *Registry) Prune(maxAge time.Duration) int {
	cutoff := r.now().Add(-maxAge)

	r.mu.RLock()
	stale := make(map[string]*Controller)
	for sid, at := range r.lastSeen {
		if at.Before(cutoff) {
			stale[sid] = r.controllers[sid]
		}
	}
	r.mu.RUnlock()

	removed := 0
	for sid, ctrl := range stale {
		if ctrl == nil || ctrl.Authenticated() {
			continue
		}
		if r.removeIfIdle(sid, cutoff) {
			removed++
		}
	}
	if removed > 0 {
		r.logger.Debug("Pruned sessions", zap.Int("count", removed))
	}
	return removed
}

// removeIfIdle removes sid unless it was seen again after cutoff.
func (r *Registry) removeIfIdle(sid string, cutoff time.Time) bool {
	r.mu.Lock()
	ctrl, exists := r.controllers[sid]
	if !exists || !r.lastSeen[sid].Before(cutoff) {
		r.mu.Unlock()
		return false
	}
	delete(r.controllers, sid)
	delete(r.lastSeen, sid)
	r.mu.Unlock()

	ctrl.Close()
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.controllers)
}

// GetStats mirrors the order stats with the number of live sessions.
func (r *Registry) GetStats() map[string]int64 {
	stats := map[string]int64{"sessions": int64(r.Len())}
	if r.orders != nil {
		for k, v := range r.orders.GetStats() {
			stats[k] = v
		}
	}
	return stats
}

// CloseAll stops every session timer. Used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	ctrls := make([]*Controller, 0, len(r.controllers))
	for sid, ctrl := range r.controllers {
		ctrls = append(ctrls, ctrl)
		delete(r.controllers, sid)
		delete(r.lastSeen, sid)
	}
	r.mu.Unlock()

	for _, ctrl := range ctrls {
		ctrl.Close()
	}
	r.logger.Info("Closed sessions", zap.Int("count", len(ctrls)))
}
