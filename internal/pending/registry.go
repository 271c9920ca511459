package pending

import (
	"errors"
	"sync"
	"time"
)

// ActionKind identifies the bulk action a confirmation gates.
type ActionKind string

const (
	ActionMassKick   ActionKind = "masskick"
	ActionMassBan    ActionKind = "massban"
	ActionNuke       ActionKind = "nuke"
	ActionPurge      ActionKind = "purge"
	ActionCasesReset ActionKind = "casesreset"
)

// Outcome is the result of resolving a confirmation prompt.
type Outcome int

const (
	// Confirmed means the requester pressed proceed; the entry is consumed.
	Confirmed Outcome = iota
	// Cancelled means the requester pressed cancel; the entry is consumed.
	Cancelled
	// Denied means someone other than the requester acknowledged the prompt;
	// the entry stays live.
	Denied
	// NotFound means the entry was never opened, already consumed, or expired.
	NotFound
)

// ErrAlreadyOpen is returned when a prompt id is registered twice.
var ErrAlreadyOpen = errors.New("confirmation already open for this prompt")

// Confirmation is one pending destructive action awaiting acknowledgment.
type Confirmation struct {
	PromptID    string
	RequesterID string
	ScopeID     string
	Kind        ActionKind
	Payload     interface{}
	ExpiresAt   time.Time
}

type registryEntry struct {
	conf  Confirmation
	timer *time.Timer
}

// Registry gates destructive bulk actions behind a single explicit
// acknowledgment, bounded by a TTL and restricted to the original requester.
// It only yields decisions; callers execute the action after Confirmed.
//
// Expiry is enforced twice: a one-shot timer per entry and a periodic
// defensive sweep, in case timers do not fire (process suspension).
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry

	// onExpire is invoked (outside the lock) for entries dropped by expiry,
	// so the rendered prompt can be disabled. May be nil.
	onExpire func(Confirmation)

	sweepInterval time.Duration
	done          chan struct{}
	stopOnce      sync.Once
}

// NewRegistry creates a registry and starts its defensive sweep goroutine.
func NewRegistry(sweepInterval time.Duration, onExpire func(Confirmation)) *Registry {
	r := &Registry{
		entries:       make(map[string]*registryEntry),
		onExpire:      onExpire,
		sweepInterval: sweepInterval,
		done:          make(chan struct{}),
	}
	go r.sweepLoop()
	return r
}

// Open registers a pending confirmation and schedules its one-shot expiry.
func (r *Registry) Open(conf Confirmation, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[conf.PromptID]; exists {
		return ErrAlreadyOpen
	}

	conf.ExpiresAt = time.Now().Add(ttl)
	entry := &registryEntry{conf: conf}
	promptID := conf.PromptID
	entry.timer = time.AfterFunc(ttl, func() { r.expire(promptID) })
	r.entries[promptID] = entry
	return nil
}

// Resolve performs the atomic check-and-remove for an acknowledgment.
// Exactly one resolution is ever honored per prompt id: the first Confirmed
// or Cancelled consumes the entry, every later acknowledgment sees NotFound.
func (r *Registry) Resolve(promptID, actorID string, confirm bool) (Outcome, Confirmation) {
	var expired *Confirmation

	r.mu.Lock()
	entry, ok := r.entries[promptID]
	if !ok {
		r.mu.Unlock()
		return NotFound, Confirmation{}
	}

	// The sweep or timer may not have run yet; an expired entry is gone
	// regardless of which mechanism notices first.
	if !time.Now().Before(entry.conf.ExpiresAt) {
		delete(r.entries, promptID)
		entry.timer.Stop()
		conf := entry.conf
		expired = &conf
		r.mu.Unlock()
		if r.onExpire != nil {
			r.onExpire(*expired)
		}
		return NotFound, Confirmation{}
	}

	if actorID != entry.conf.RequesterID {
		r.mu.Unlock()
		return Denied, Confirmation{}
	}

	delete(r.entries, promptID)
	entry.timer.Stop()
	conf := entry.conf
	r.mu.Unlock()

	if confirm {
		return Confirmed, conf
	}
	return Cancelled, conf
}

// expire is the one-shot timer action: drop the entry if still present and
// report it so the prompt can be made non-actionable.
func (r *Registry) expire(promptID string) {
	r.mu.Lock()
	entry, ok := r.entries[promptID]
	if ok {
		delete(r.entries, promptID)
	}
	r.mu.Unlock()

	if ok && r.onExpire != nil {
		r.onExpire(entry.conf)
	}
}

// sweepLoop periodically removes entries whose timer did not fire.
func (r *Registry) sweepLoop() {
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.done:
			return
		}
	}
}

func (r *Registry) sweep() {
	now := time.Now()
	var dropped []Confirmation

	r.mu.Lock()
	for id, entry := range r.entries {
		if !now.Before(entry.conf.ExpiresAt) {
			delete(r.entries, id)
			entry.timer.Stop()
			dropped = append(dropped, entry.conf)
		}
	}
	r.mu.Unlock()

	if r.onExpire != nil {
		for _, conf := range dropped {
			r.onExpire(conf)
		}
	}
}

// Stop cancels the sweep goroutine and all pending expiry timers.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.done) })

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, entry := range r.entries {
		entry.timer.Stop()
		delete(r.entries, id)
	}
}

// Len reports the number of live entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
