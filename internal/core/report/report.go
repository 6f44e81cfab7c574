package report

import (
	"time"

	"github.com/garnizeh/aerocode/pkg/models"
)

// TimestampLayout is the ISO-8601 form used for generated_at.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Aggregate bundles an aircraft with its parts, stages and test history.
// Nil slices become empty so the payload always carries arrays.
func Aggregate(a models.Aircraft, parts []models.Part, stages []models.Stage, tests []models.TestRecord) models.AircraftAggregate {
	agg := models.AircraftAggregate{
		Aircraft: a,
		Parts:    parts,
		Stages:   make([]models.Stage, len(stages)),
		Tests:    tests,
	}
	if agg.Parts == nil {
		agg.Parts = []models.Part{}
	}
	if agg.Tests == nil {
		agg.Tests = []models.TestRecord{}
	}
	for i, s := range stages {
		if s.Employees == nil {
			s.Employees = []models.Assignee{}
		}
		agg.Stages[i] = s
	}
	return agg
}

// Build stamps an aggregate with its author and generation metadata.
func Build(agg models.AircraftAggregate, author string, generatedAt time.Time, elapsed time.Duration) models.Report {
	return models.Report{
		Aircraft:    agg,
		Author:      author,
		GeneratedAt: generatedAt.UTC().Format(TimestampLayout),
		DurationMS:  elapsed.Milliseconds(),
	}
}
