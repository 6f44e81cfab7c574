// Package testrecord decides how a new test result lands in the ledger of an
// (aircraft, test type) pair.
package testrecord

import (
	"fmt"

	ierr "github.com/garnizeh/aerocode/internal/errors"
	"github.com/garnizeh/aerocode/pkg/models"
)

// Action is what the ledger does with an incoming result.
type Action int

const (
	// ActionCreate inserts a new record; the pair has no history yet.
	ActionCreate Action = iota
	// ActionOverwrite replaces result and timestamp of the current Rejected record.
	ActionOverwrite
	// ActionDeny refuses the write; the pair is frozen.
	ActionDeny
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionOverwrite:
		return "overwrite"
	case ActionDeny:
		return "deny"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// RecordContext describes the pair as currently stored.
type RecordContext struct {
	AircraftCode int64
	Type         models.TestType
	// Current is the latest record of the pair, nil when none exists.
	Current *models.TestRecord
}

// Decision is the outcome of Decide.
type Decision struct {
	Action Action
	Reason string // populated for ActionDeny
}

// Error returns the decision as a conflict error when denied, nil otherwise.
func (d Decision) Error() error {
	if d.Action != ActionDeny {
		return nil
	}
	return ierr.NewError(d.Reason).WithHint(d.Reason).Mark(ierr.ErrConflict)
}

// Decide maps the current result of the pair to a ledger action.
//
//	none     -> create
//	Rejected -> overwrite in place
//	Approved -> deny
func Decide(ctx RecordContext) Decision {
	if ctx.Current == nil {
		return Decision{Action: ActionCreate}
	}
	if ctx.Current.Result == models.ResultRejected {
		return Decision{Action: ActionOverwrite}
	}
	return Decision{
		Action: ActionDeny,
		Reason: fmt.Sprintf("%s test already approved for aircraft %d, result is frozen", ctx.Type, ctx.AircraftCode),
	}
}
