package validation

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crew-match-workers/internal/common/errors"
)

const testSchema = `{
	"type": "object",
	"required": ["trade", "crewSize"],
	"properties": {
		"trade": {"type": "string", "minLength": 1},
		"crewSize": {"type": "integer", "minimum": 0}
	}
}`

func TestSchema_Validate(t *testing.T) {
	s := MustCompile("test", testSchema)

	tests := []struct {
		name       string
		doc        string
		valid      bool
		wantFields []string
	}{
		{name: "valid", doc: `{"trade":"concrete","crewSize":2}`, valid: true},
		{name: "missing required", doc: `{"trade":"concrete"}`},
		{name: "wrong type", doc: `{"trade":"concrete","crewSize":"two"}`, wantFields: []string{"crewSize"}},
		{name: "empty trade and negative crew", doc: `{"trade":"","crewSize":-1}`, wantFields: []string{"crewSize", "trade"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.Validate([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)

			fields := make([]string, 0, len(result.Errors))
			for _, e := range result.Errors {
				fields = append(fields, e.Field)
				assert.NotEmpty(t, e.Code)
			}
			if len(tt.wantFields) > 0 {
				assert.Equal(t, tt.wantFields, fields)
			}
		})
	}
}

func TestSchema_Check(t *testing.T) {
	s := MustCompile("test", testSchema)

	assert.NoError(t, s.Check([]byte(`{"trade":"concrete","crewSize":1}`)))

	err := s.Check([]byte(`{"crewSize":1}`))
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeInputValidationFailed, stdErr.Code)
	assert.Equal(t, "test", stdErr.Metadata["schema"])

	err = s.Check([]byte(`{not json`))
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeInputValidationFailed, stdErr.Code)
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile("broken", `{"type": 12}`)
	assert.Error(t, err)
}
