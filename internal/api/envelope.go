package api

import (
	"errors"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/inkmark/internal/http/response"
)

// EnvelopeVersion is the schema version clients check before parsing.
const EnvelopeVersion = response.Version

// APIEnvelope wraps every JSON response body.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
}

// APIErrorEnvelope is the error body for coded errors.
// Error repeats Message so clients can read one field for every failure.
type APIErrorEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer is a huma transformer that wraps response bodies.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, err := strconv.Atoi(status)
	if err != nil {
		code = 200
	}

	if code < 400 {
		if _, isErr := v.(error); !isErr {
			return APIEnvelope{
				Version: EnvelopeVersion,
				Success: true,
				Data:    v,
			}, nil
		}
	}

	var apiErr *APIError
	if e, ok := v.(error); ok && errors.As(e, &apiErr) && (apiErr.Code != "" || apiErr.Details != nil) {
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	message := ""
	switch e := v.(type) {
	case error:
		message = e.Error()
	case nil:
		message = "unknown error"
	default:
		message = "request failed"
	}

	return APIEnvelope{
		Version: EnvelopeVersion,
		Error:   message,
	}, nil
}
