package pending

import (
	"sync"
	"testing"
	"time"
)

func newTestRegistry(onExpire func(Confirmation)) *Registry {
	// Long sweep interval so tests drive expiry explicitly.
	return NewRegistry(time.Hour, onExpire)
}

func TestResolveConfirmConsumesEntry(t *testing.T) {
	r := newTestRegistry(nil)
	defer r.Stop()

	conf := Confirmation{
		PromptID:    "m1",
		RequesterID: "U1",
		ScopeID:     "G1",
		Kind:        ActionMassBan,
		Payload:     "spam wave",
	}
	if err := r.Open(conf, time.Minute); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	outcome, got := r.Resolve("m1", "U1", true)
	if outcome != Confirmed {
		t.Fatalf("outcome = %v, want Confirmed", outcome)
	}
	if got.Payload != "spam wave" || got.Kind != ActionMassBan {
		t.Errorf("resolved entry = %+v, want original confirmation", got)
	}

	if outcome, _ := r.Resolve("m1", "U1", true); outcome != NotFound {
		t.Errorf("second resolution = %v, want NotFound", outcome)
	}
}

func TestResolveWrongActorLeavesEntryLive(t *testing.T) {
	r := newTestRegistry(nil)
	defer r.Stop()

	if err := r.Open(Confirmation{PromptID: "m1", RequesterID: "U1"}, time.Minute); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	if outcome, _ := r.Resolve("m1", "U2", true); outcome != Denied {
		t.Fatalf("wrong actor outcome = %v, want Denied", outcome)
	}
	if r.Len() != 1 {
		t.Fatalf("entry count after Denied = %d, want 1", r.Len())
	}

	if outcome, _ := r.Resolve("m1", "U1", false); outcome != Cancelled {
		t.Fatalf("requester cancel outcome = %v, want Cancelled", outcome)
	}
	if outcome, _ := r.Resolve("m1", "U1", false); outcome != NotFound {
		t.Errorf("resolution after cancel = %v, want NotFound", outcome)
	}
}

func TestOpenDuplicatePromptID(t *testing.T) {
	r := newTestRegistry(nil)
	defer r.Stop()

	if err := r.Open(Confirmation{PromptID: "m1", RequesterID: "U1"}, time.Minute); err != nil {
		t.Fatalf("first Open returned error: %v", err)
	}
	if err := r.Open(Confirmation{PromptID: "m1", RequesterID: "U2"}, time.Minute); err != ErrAlreadyOpen {
		t.Errorf("duplicate Open error = %v, want ErrAlreadyOpen", err)
	}
}

func TestResolveExpiredEntryBeforeTimerFires(t *testing.T) {
	expired := make(chan Confirmation, 1)
	r := newTestRegistry(func(c Confirmation) { expired <- c })
	defer r.Stop()

	// Plant an entry already past its deadline whose timer will not fire,
	// simulating a suspended timer. Resolve must still treat it as gone.
	r.mu.Lock()
	r.entries["m1"] = &registryEntry{
		conf: Confirmation{
			PromptID:    "m1",
			RequesterID: "U1",
			ExpiresAt:   time.Now().Add(-time.Second),
		},
		timer: time.AfterFunc(time.Hour, func() {}),
	}
	r.mu.Unlock()

	if outcome, _ := r.Resolve("m1", "U1", true); outcome != NotFound {
		t.Fatalf("resolve of expired entry = %v, want NotFound", outcome)
	}
	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Error("onExpire not invoked for expired entry")
	}
	if r.Len() != 0 {
		t.Errorf("entry count = %d, want 0", r.Len())
	}
}

func TestSweepDropsExpiredEntries(t *testing.T) {
	expired := make(chan Confirmation, 2)
	r := newTestRegistry(func(c Confirmation) { expired <- c })
	defer r.Stop()

	r.mu.Lock()
	r.entries["old"] = &registryEntry{
		conf:  Confirmation{PromptID: "old", ExpiresAt: time.Now().Add(-time.Minute)},
		timer: time.AfterFunc(time.Hour, func() {}),
	}
	r.entries["fresh"] = &registryEntry{
		conf:  Confirmation{PromptID: "fresh", ExpiresAt: time.Now().Add(time.Minute)},
		timer: time.AfterFunc(time.Hour, func() {}),
	}
	r.mu.Unlock()

	r.sweep()

	if r.Len() != 1 {
		t.Fatalf("entry count after sweep = %d, want 1", r.Len())
	}
	select {
	case c := <-expired:
		if c.PromptID != "old" {
			t.Errorf("swept prompt = %q, want %q", c.PromptID, "old")
		}
	case <-time.After(time.Second):
		t.Error("onExpire not invoked by sweep")
	}
}

func TestOneShotExpiryDisablesPrompt(t *testing.T) {
	expired := make(chan Confirmation, 1)
	r := newTestRegistry(func(c Confirmation) { expired <- c })
	defer r.Stop()

	if err := r.Open(Confirmation{PromptID: "m1", RequesterID: "U1"}, 20*time.Millisecond); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("one-shot expiry did not fire")
	}
	if outcome, _ := r.Resolve("m1", "U1", true); outcome != NotFound {
		t.Errorf("resolve after expiry = %v, want NotFound", outcome)
	}
}

func TestConcurrentResolveHonorsExactlyOne(t *testing.T) {
	r := newTestRegistry(nil)
	defer r.Stop()

	if err := r.Open(Confirmation{PromptID: "m1", RequesterID: "U1"}, time.Minute); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	const attempts = 32
	var wg sync.WaitGroup
	outcomes := make(chan Outcome, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, _ := r.Resolve("m1", "U1", true)
			outcomes <- outcome
		}()
	}
	wg.Wait()
	close(outcomes)

	confirmed, notFound := 0, 0
	for outcome := range outcomes {
		switch outcome {
		case Confirmed:
			confirmed++
		case NotFound:
			notFound++
		default:
			t.Errorf("unexpected outcome %v", outcome)
		}
	}
	if confirmed != 1 {
		t.Errorf("confirmed = %d, want exactly 1", confirmed)
	}
	if notFound != attempts-1 {
		t.Errorf("notFound = %d, want %d", notFound, attempts-1)
	}
}
