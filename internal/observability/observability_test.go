package observability

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	IncRequest()
	IncRequest()
	IncAnswer("fees")
	IncAnswer("")
	IncError(ErrorValidation, "api")
	IncError("", "")
	ObserveAnswerDuration(0.000002)
	ObserveAnswerDuration(0)

	snap := Snapshot()
	assert.Equal(t, uint64(2), snap.Requests)
	assert.Equal(t, uint64(1), snap.Matched)
	assert.Equal(t, uint64(1), snap.Fallbacks)
	assert.Equal(t, uint64(2), snap.ErrorsTotal)
	assert.Equal(t, map[string]uint64{"fees": 1}, snap.TopicHits)
	assert.Equal(t, map[string]uint64{"validation": 1, "unknown": 1}, snap.ErrorsByType)
	assert.Equal(t, map[string]uint64{"api": 1, "unknown": 1}, snap.ErrorsByComponent)
	assert.InDelta(t, 2.0, snap.ResponseMicrosAvg, 0.01)

	snap.TopicHits["fees"] = 99
	assert.Equal(t, uint64(1), Snapshot().TopicHits["fees"])
}

func TestClassifyRequestError(t *testing.T) {
	syntaxErr := json.Unmarshal([]byte("{"), &struct{}{})

	tests := []struct {
		err  error
		want string
	}{
		{nil, ErrorUnknown},
		{&ValidationError{Field: "message", Reason: "required"}, ErrorValidation},
		{fmt.Errorf("wrapped: %w", &ValidationError{Field: "message", Reason: "too long"}), ErrorValidation},
		{syntaxErr, ErrorDecode},
		{json.NewDecoder(strings.NewReader("")).Decode(&struct{}{}), ErrorDecode},
		{io.ErrUnexpectedEOF, ErrorDecode},
		{errors.New("boom"), ErrorInternal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRequestError(tt.err), "%v", tt.err)
	}
}
