package handler

import (
	"testing"

	"discord-warden/internal/pending"
)

func TestConfirmCustomIDRoundTrip(t *testing.T) {
	for _, kind := range []pending.ActionKind{
		pending.ActionMassKick, pending.ActionMassBan, pending.ActionNuke,
		pending.ActionPurge, pending.ActionCasesReset,
	} {
		for _, proceed := range []bool{true, false} {
			corr, err := decodeCustomID(encodeConfirm(kind, proceed))
			if err != nil {
				t.Fatalf("decode(encodeConfirm(%s, %v)) failed: %v", kind, proceed, err)
			}
			if !corr.Confirm || corr.CasesPage {
				t.Errorf("confirm id for %s decoded as %+v", kind, corr)
			}
			if corr.Kind != kind || corr.Proceed != proceed {
				t.Errorf("round trip lost data: got kind=%s proceed=%v, want %s %v", corr.Kind, corr.Proceed, kind, proceed)
			}
		}
	}
}

func TestCasesPageCustomIDRoundTrip(t *testing.T) {
	corr, err := decodeCustomID(encodeCasesPage("123456789012345678", 3, true))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !corr.CasesPage || corr.Confirm {
		t.Fatalf("cases id decoded as %+v", corr)
	}
	if corr.SubjectID != "123456789012345678" || corr.Page != 3 || !corr.Forward {
		t.Errorf("round trip lost data: %+v", corr)
	}

	corr, err = decodeCustomID(encodeCasesPage("42", 1, false))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if corr.Forward {
		t.Error("prev direction decoded as forward")
	}
}

func TestDecodeCustomIDRejectsForeignIDs(t *testing.T) {
	malformed := []string{
		"",
		"other:confirm:nuke:ok",
		"warden",
		"warden:confirm",
		"warden:confirm:nuke",
		"warden:confirm:nuke:maybe",
		"warden:cases:1:notanumber:next",
		"warden:cases:1:2:sideways",
		"warden:unknown:x:y",
	}
	for _, id := range malformed {
		if _, err := decodeCustomID(id); err == nil {
			t.Errorf("decodeCustomID(%q) accepted a malformed id", id)
		}
	}
}
