// Package report holds the read-side rules for compliance reports: the
// eligibility gate, assembly of the report payload and its text rendering.
// Everything here is a pure function of data the caller already loaded.
package report

import (
	"cmp"
	"slices"
	"strings"

	ierr "github.com/garnizeh/aerocode/internal/errors"
	"github.com/garnizeh/aerocode/pkg/models"
	"github.com/samber/lo"
)

// NoStagesReason is the denial for an aircraft without production stages.
const NoStagesReason = "no production stages found"

// Verdict is the outcome of Evaluate.
type Verdict struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// Error returns the verdict as a conflict error when denied, nil otherwise.
// The reason is the user-visible message.
func (v Verdict) Error() error {
	if v.Eligible {
		return nil
	}
	return ierr.NewError("report denied: " + v.Reason).WithHint(v.Reason).Mark(ierr.ErrConflict)
}

// Evaluate decides whether a report may be issued for an aircraft given its
// stages and test records.
// Rules, checked in order: at least one stage; every stage Completed; the
// latest record of every tested type Approved.
func Evaluate(stages []models.Stage, tests []models.TestRecord) Verdict {
	if len(stages) == 0 {
		return Verdict{Reason: NoStagesReason}
	}

	pending := lo.FilterMap(stages, func(s models.Stage, _ int) (string, bool) {
		return s.Name, s.Status != models.StageCompleted
	})
	if len(pending) > 0 {
		return Verdict{Reason: "pending stages: " + strings.Join(pending, ", ")}
	}

	unapproved := lo.FilterMap(LatestByType(tests), func(t models.TestRecord, _ int) (string, bool) {
		return string(t.Type), t.Result != models.ResultApproved
	})
	if len(unapproved) > 0 {
		return Verdict{Reason: "unapproved tests: " + strings.Join(unapproved, ", ")}
	}

	return Verdict{Eligible: true}
}

// LatestByType reduces a test history to the current record of each type,
// most recent first.
func LatestByType(tests []models.TestRecord) []models.TestRecord {
	ordered := slices.Clone(tests)
	SortNewestFirst(ordered)
	return lo.UniqBy(ordered, func(t models.TestRecord) models.TestType { return t.Type })
}

// SortNewestFirst orders records by timestamp descending, ties by id descending.
func SortNewestFirst(tests []models.TestRecord) {
	slices.SortStableFunc(tests, func(a, b models.TestRecord) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
