package observability

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

const (
	ErrorValidation = "validation"
	ErrorDecode     = "decode"
	ErrorInternal   = "internal"
	ErrorUnknown    = "unknown"
)

// ValidationError marks a client input problem, such as a missing message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func ClassifyRequestError(err error) string {
	if err == nil {
		return ErrorUnknown
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ErrorValidation
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrorDecode
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "decode failed") ||
		strings.Contains(msg, "unmarshal") ||
		strings.Contains(msg, "invalid character") {
		return ErrorDecode
	}
	return ErrorInternal
}
