// Package stage contains the pure rules of the production stage lifecycle.
// No I/O happens here; services feed it state they have already read.
package stage

import (
	"fmt"

	ierr "github.com/garnizeh/aerocode/internal/errors"
	"github.com/garnizeh/aerocode/pkg/models"
)

// ReopenReason is returned when a Completed stage would leave Completed.
const ReopenReason = "stage already completed, cannot reopen"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // populated when not allowed
}

// Error returns the guard result as a conflict error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return ierr.NewError(r.Reason).WithHint(r.Reason).Mark(ierr.ErrConflict)
}

// transitions lists, for each stored status, the statuses an update may write.
// Moving between Pending and InProgress is unrestricted; Completed is terminal.
var transitions = map[models.StageStatus]map[models.StageStatus]bool{
	models.StagePending: {
		models.StagePending:    true,
		models.StageInProgress: true,
		models.StageCompleted:  true,
	},
	models.StageInProgress: {
		models.StagePending:    true,
		models.StageInProgress: true,
		models.StageCompleted:  true,
	},
	models.StageCompleted: {
		models.StageCompleted: true,
	},
}

// TransitionContext carries the stored and requested status of one stage.
type TransitionContext struct {
	StageID int64
	From    models.StageStatus
	To      models.StageStatus
}

// CanTransition evaluates whether a stage may move from ctx.From to ctx.To.
// Rule: once Completed, the only status an update may write is Completed.
func CanTransition(ctx TransitionContext) GuardResult {
	allowed, known := transitions[ctx.From]
	if !known {
		return GuardResult{Reason: fmt.Sprintf("stage %d has unknown status %q", ctx.StageID, ctx.From)}
	}
	if _, valid := transitions[ctx.To]; !valid {
		return GuardResult{Reason: fmt.Sprintf("unknown stage status %q", ctx.To)}
	}
	if !allowed[ctx.To] {
		return GuardResult{Reason: ReopenReason}
	}
	return GuardResult{Allowed: true}
}

// IsTerminal reports whether no other status can follow s.
func IsTerminal(s models.StageStatus) bool {
	return len(transitions[s]) == 1 && transitions[s][s]
}
