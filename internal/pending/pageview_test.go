package pending

import (
	"testing"
	"time"
)

func TestClampPage(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		total     int64
		pageSize  int
		wantPage  int
		wantPages int
	}{
		{"twelve records make three pages", 1, 12, 5, 1, 3},
		{"past last page clamps down", 4, 12, 5, 3, 3},
		{"page zero clamps up", 0, 12, 5, 1, 3},
		{"next from last page stays", 4, 15, 5, 3, 3},
		{"prev from first page stays", 0, 15, 5, 1, 3},
		{"empty set still has one page", 3, 0, 5, 1, 1},
		{"exact multiple", 2, 10, 5, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalPages(tt.total, tt.pageSize); got != tt.wantPages {
				t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.wantPages)
			}
			if got := ClampPage(tt.page, tt.total, tt.pageSize); got != tt.wantPage {
				t.Errorf("ClampPage(%d, %d, %d) = %d, want %d", tt.page, tt.total, tt.pageSize, got, tt.wantPage)
			}
		})
	}
}

func TestViewLiveness(t *testing.T) {
	c := NewViewCache(50*time.Millisecond, time.Hour)
	defer c.Stop()

	c.Touch("v1", "U1")
	if !c.IsLive("v1") {
		t.Fatal("freshly touched view not live")
	}
	if c.IsLive("v2") {
		t.Fatal("unknown view reported live")
	}

	time.Sleep(80 * time.Millisecond)
	if c.IsLive("v1") {
		t.Error("view live past TTL")
	}
}

func TestTouchRefreshesLiveness(t *testing.T) {
	c := NewViewCache(100*time.Millisecond, time.Hour)
	defer c.Stop()

	c.Touch("v1", "U1")
	time.Sleep(60 * time.Millisecond)
	c.Touch("v1", "U1")
	time.Sleep(60 * time.Millisecond)

	if !c.IsLive("v1") {
		t.Error("refreshed view expired before its TTL")
	}
}

func TestSweepRemovesStaleViews(t *testing.T) {
	c := NewViewCache(10*time.Millisecond, time.Hour)
	defer c.Stop()

	c.Touch("v1", "U1")
	time.Sleep(30 * time.Millisecond)
	c.sweep()

	c.mu.Lock()
	n := len(c.views)
	c.mu.Unlock()
	if n != 0 {
		t.Errorf("views after sweep = %d, want 0", n)
	}
}
