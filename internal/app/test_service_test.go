package app

import (
	"context"
	"testing"
	"time"

	ierr "github.com/garnizeh/aerocode/internal/errors"
	"github.com/garnizeh/aerocode/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Rejected results are overwritten in place; an Approved one is frozen.
func TestRecordTestOverwritesRejectedAndFreezesApproved(t *testing.T) {
	svc, _ := newMockServices(t)
	ctx := context.Background()
	registerAircraft(t, svc, 1)

	tick := day
	svc.Tests.now = func() time.Time { tick = tick.Add(time.Minute); return tick }

	first, err := record(svc, 1, models.TestElectrical, models.ResultRejected)
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := record(svc, 1, models.TestElectrical, models.ResultApproved)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Record.ID, second.Record.ID, "overwrite keeps the identifier")
	assert.True(t, second.Record.Timestamp.After(first.Record.Timestamp), "overwrite refreshes the timestamp")

	history, err := svc.Tests.ListTestHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.ResultApproved, history[0].Result)

	_, err = record(svc, 1, models.TestElectrical, models.ResultRejected)
	require.Error(t, err)
	assert.True(t, ierr.IsConflict(err))
	assert.Contains(t, ierr.DisplayMessage(err, ""), "already approved")

	again, err := svc.Tests.ListTestHistory(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, history, again)
}

func TestRecordTestPairsAreIndependent(t *testing.T) {
	svc, _ := newMockServices(t)
	ctx := context.Background()
	registerAircraft(t, svc, 1)
	registerAircraft(t, svc, 2)

	_, err := record(svc, 1, models.TestElectrical, models.ResultApproved)
	require.NoError(t, err)

	res, err := record(svc, 1, models.TestHydraulic, models.ResultRejected)
	require.NoError(t, err)
	assert.True(t, res.Created)

	res, err = record(svc, 2, models.TestElectrical, models.ResultRejected)
	require.NoError(t, err)
	assert.True(t, res.Created)

	history, err := svc.Tests.ListTestHistory(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestRecordTestHonoursGivenTimestampOnCreate(t *testing.T) {
	svc, _ := newMockServices(t)
	registerAircraft(t, svc, 1)

	at := time.Date(2025, 12, 24, 9, 30, 0, 0, time.UTC)
	res, err := svc.Tests.RecordTest(context.Background(), RecordTestRequest{
		AircraftCode: 1, Type: models.TestAerodynamic, Result: models.ResultRejected, Timestamp: &at,
	})
	require.NoError(t, err)
	assert.True(t, res.Record.Timestamp.Equal(at))
}

func TestRecordTestValidation(t *testing.T) {
	svc, _ := newMockServices(t)
	registerAircraft(t, svc, 1)

	tests := []struct {
		name  string
		req   RecordTestRequest
		check func(error) bool
	}{
		{"missing aircraft", RecordTestRequest{Type: models.TestElectrical, Result: models.ResultApproved}, ierr.IsValidation},
		{"missing type", RecordTestRequest{AircraftCode: 1, Result: models.ResultApproved}, ierr.IsValidation},
		{"unknown type", RecordTestRequest{AircraftCode: 1, Type: "Acoustic", Result: models.ResultApproved}, ierr.IsValidation},
		{"missing result", RecordTestRequest{AircraftCode: 1, Type: models.TestElectrical}, ierr.IsValidation},
		{"unknown aircraft", RecordTestRequest{AircraftCode: 5, Type: models.TestElectrical, Result: models.ResultApproved}, ierr.IsNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Tests.RecordTest(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error %v", err)
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("aircraft code", "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "-1", "0", "1.5"} {
		_, err := ParseID("aircraft code", raw)
		assert.True(t, ierr.IsValidation(err), "raw %q", raw)
	}
}
