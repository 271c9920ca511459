package pending

import (
	"sync"
	"time"
)

// View is a live paginated message.
type View struct {
	ViewID       string
	SubjectID    string
	lastActivity time.Time
}

// ViewCache tracks which paginated messages are still addressable. A view is
// live while now - lastActivity < ttl; every successful page render refreshes
// it. Stale page-turns are refused by the caller via IsLive.
type ViewCache struct {
	mu    sync.Mutex
	views map[string]*View

	ttl           time.Duration
	sweepInterval time.Duration
	done          chan struct{}
	stopOnce      sync.Once
}

// NewViewCache creates a cache and starts its sweep goroutine.
func NewViewCache(ttl, sweepInterval time.Duration) *ViewCache {
	c := &ViewCache{
		views:         make(map[string]*View),
		ttl:           ttl,
		sweepInterval: sweepInterval,
		done:          make(chan struct{}),
	}
	go c.sweepLoop()
	return c
}

// Touch registers a view or refreshes its liveness after a render.
func (c *ViewCache) Touch(viewID, subjectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.views[viewID]; ok {
		v.lastActivity = time.Now()
		return
	}
	c.views[viewID] = &View{
		ViewID:       viewID,
		SubjectID:    subjectID,
		lastActivity: time.Now(),
	}
}

// IsLive reports whether a page-turn on the view may still be honored.
func (c *ViewCache) IsLive(viewID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.views[viewID]
	if !ok {
		return false
	}
	if time.Since(v.lastActivity) >= c.ttl {
		delete(c.views, viewID)
		return false
	}
	return true
}

// Remove drops a view, e.g. when its message is deleted.
func (c *ViewCache) Remove(viewID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.views, viewID)
}

func (c *ViewCache) sweepLoop() {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

func (c *ViewCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, v := range c.views {
		if now.Sub(v.lastActivity) >= c.ttl {
			delete(c.views, id)
		}
	}
}

// Stop cancels the sweep goroutine.
func (c *ViewCache) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// TotalPages computes ceil(totalCount / pageSize), never below 1.
func TotalPages(totalCount int64, pageSize int) int {
	if totalCount <= 0 {
		return 1
	}
	pages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage bounds a requested page to [1, TotalPages]. Requests beyond
// either bound are clamped, not rejected.
func ClampPage(page int, totalCount int64, pageSize int) int {
	total := TotalPages(totalCount, pageSize)
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}
