package report

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	ierr "github.com/garnizeh/aerocode/internal/errors"
	"github.com/garnizeh/aerocode/pkg/models"
	"github.com/qri-io/jsonschema"
)

//go:embed report.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Schema returns the compiled JSON schema of the report payload.
func Schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(schemaJSON, rs); err != nil {
			schemaErr = fmt.Errorf("compile report schema: %w", err)
			return
		}
		schema = rs
	})
	return schema, schemaErr
}

// Validate checks an assembled report against the payload schema. A failure
// means the service produced a malformed report and is marked as a system error.
func Validate(ctx context.Context, r models.Report) error {
	s, err := Schema()
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	raw, err := json.Marshal(r)
	if err != nil {
		return ierr.WithError(err).WithMessage("marshal report").Mark(ierr.ErrSystem)
	}

	verrs, err := s.ValidateBytes(ctx, raw)
	if err != nil {
		return ierr.WithError(err).WithMessage("validate report").Mark(ierr.ErrSystem)
	}
	if len(verrs) > 0 {
		details := make(map[string]any, len(verrs))
		for _, v := range verrs {
			details[v.PropertyPath] = v.Message
		}
		return ierr.NewError(fmt.Sprintf("report does not match schema: %d errors", len(verrs))).
			WithReportableDetails(details).
			Mark(ierr.ErrSystem)
	}
	return nil
}
