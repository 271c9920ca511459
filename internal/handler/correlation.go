package handler

import (
	"fmt"
	"strconv"
	"strings"

	"discord-warden/internal/pending"
)

// Component custom ids carry the correlation needed to route an
// acknowledgment. They are encoded here and decoded exactly once, at the
// interaction boundary; downstream code works with the typed record.
const (
	customIDPrefix = "warden"
	customIDSep    = ":"

	// confirmation verbs
	verbProceed = "ok"
	verbCancel  = "no"

	// page-turn directions
	dirPrev = "prev"
	dirNext = "next"
)

// Correlation is the decoded identity of a component acknowledgment.
type Correlation struct {
	// Confirm is true for proceed/cancel buttons on a confirmation prompt.
	Confirm bool
	Kind    pending.ActionKind
	Proceed bool

	// CasesPage is true for prev/next buttons on a case viewer.
	CasesPage bool
	SubjectID string
	Page      int
	Forward   bool
}

// encodeConfirm builds the custom id for a confirmation button.
func encodeConfirm(kind pending.ActionKind, proceed bool) string {
	verb := verbCancel
	if proceed {
		verb = verbProceed
	}
	return strings.Join([]string{customIDPrefix, "confirm", string(kind), verb}, customIDSep)
}

// encodeCasesPage builds the custom id for a case viewer page button.
func encodeCasesPage(subjectID string, page int, forward bool) string {
	dir := dirPrev
	if forward {
		dir = dirNext
	}
	return strings.Join([]string{customIDPrefix, "cases", subjectID, strconv.Itoa(page), dir}, customIDSep)
}

// decodeCustomID parses a component custom id into a Correlation.
func decodeCustomID(customID string) (Correlation, error) {
	parts := strings.Split(customID, customIDSep)
	if len(parts) < 2 || parts[0] != customIDPrefix {
		return Correlation{}, fmt.Errorf("not a warden custom id: %q", customID)
	}

	switch parts[1] {
	case "confirm":
		if len(parts) != 4 {
			return Correlation{}, fmt.Errorf("malformed confirm id: %q", customID)
		}
		if parts[3] != verbProceed && parts[3] != verbCancel {
			return Correlation{}, fmt.Errorf("unknown confirm verb: %q", parts[3])
		}
		return Correlation{
			Confirm: true,
			Kind:    pending.ActionKind(parts[2]),
			Proceed: parts[3] == verbProceed,
		}, nil

	case "cases":
		if len(parts) != 5 {
			return Correlation{}, fmt.Errorf("malformed cases id: %q", customID)
		}
		page, err := strconv.Atoi(parts[3])
		if err != nil {
			return Correlation{}, fmt.Errorf("bad page in cases id: %q", customID)
		}
		if parts[4] != dirPrev && parts[4] != dirNext {
			return Correlation{}, fmt.Errorf("unknown page direction: %q", parts[4])
		}
		return Correlation{
			CasesPage: true,
			SubjectID: parts[2],
			Page:      page,
			Forward:   parts[4] == dirNext,
		}, nil
	}

	return Correlation{}, fmt.Errorf("unknown correlation kind: %q", parts[1])
}
