package handler

import (
	"errors"
	"testing"
)

func TestExecuteBulkTally(t *testing.T) {
	targets := []bulkTarget{
		{ID: "1"},
		{ID: "2"},
		{ID: "3"},
		{ID: "4"},
		{ID: "5", Exempt: true},
	}

	notifyErr := errors.New("dm closed")
	punishErr := errors.New("missing permission")

	notify := func(id string) error {
		if id == "2" {
			return notifyErr
		}
		return nil
	}
	punish := func(id string) error {
		if id == "3" {
			return punishErr
		}
		return nil
	}

	tally := executeBulk(targets, notify, punish)

	if tally.Successful != 3 {
		t.Errorf("Successful = %d, want 3", tally.Successful)
	}
	if tally.Failed != 2 {
		t.Errorf("Failed = %d, want 2 (one punish failure, one exempt)", tally.Failed)
	}
	if tally.DMFailed != 1 {
		t.Errorf("DMFailed = %d, want 1", tally.DMFailed)
	}
	if tally.Successful+tally.Failed != len(targets) {
		t.Errorf("Successful+Failed = %d, want target set size %d", tally.Successful+tally.Failed, len(targets))
	}
}

func TestExecuteBulkDMFailureDoesNotBlockPunish(t *testing.T) {
	var punished []string
	notify := func(id string) error { return errors.New("dm closed") }
	punish := func(id string) error {
		punished = append(punished, id)
		return nil
	}

	tally := executeBulk([]bulkTarget{{ID: "a"}, {ID: "b"}}, notify, punish)

	if len(punished) != 2 {
		t.Fatalf("punished %d targets, want 2", len(punished))
	}
	if tally.Successful != 2 || tally.DMFailed != 2 {
		t.Errorf("tally = %+v, want 2 successful and 2 dm failures", tally)
	}
}

func TestExecuteBulkExemptNeverAttempted(t *testing.T) {
	touched := false
	mark := func(id string) error {
		touched = true
		return nil
	}

	tally := executeBulk([]bulkTarget{{ID: "x", Exempt: true}}, mark, mark)

	if touched {
		t.Error("exempt target was notified or punished")
	}
	if tally.Failed != 1 || tally.Successful != 0 {
		t.Errorf("tally = %+v, want the exempt target counted as failed", tally)
	}
}

func TestExecuteBulkNilNotify(t *testing.T) {
	tally := executeBulk([]bulkTarget{{ID: "a"}}, nil, func(string) error { return nil })
	if tally.Successful != 1 || tally.DMFailed != 0 {
		t.Errorf("tally = %+v, want one success with no dm attempts", tally)
	}
}
