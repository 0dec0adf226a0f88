package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/obpp/dashboard/internal/domain/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeNetwork, http.StatusBadGateway},
		{ErrCodeUpstreamParse, http.StatusBadGateway},
		{ErrCodeParse, http.StatusUnprocessableEntity},
		{ErrCodeValidation, http.StatusBadRequest},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestErrorCodeFormat(t *testing.T) {
	for code := range ErrorCodeHTTPStatus {
		t.Run(code, func(t *testing.T) {
			assert.Contains(t, code, "ERR_", "Error code should start with ERR_")
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNetwork, "External service unavailable", "req-123-456")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNetwork, resp.Error.Code)
	assert.Equal(t, "External service unavailable", resp.Error.Message)
	assert.Equal(t, "req-123-456", resp.Error.RequestID)
	assert.NotZero(t, resp.Error.Timestamp)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{{Field: "isins", Message: "isins is required"}}

	resp := NewValidationErrorResponse("Request validation failed", "req-789", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Equal(t, details, resp.Error.Details)
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeParse, "Malformed data", "req-test-123")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")
	errObj, ok := decoded["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, ErrCodeParse, errObj["code"])
	assert.Equal(t, "req-test-123", errObj["request_id"])
	assert.NotContains(t, errObj, "details")
}

func TestNewSuccessResponseWithTotal(t *testing.T) {
	resp := NewSuccessResponseWithTotal([]string{"a", "b"}, 2)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Total)
	assert.Nil(t, resp.Error)
}

func TestNewDataset(t *testing.T) {
	t.Run("copies header and rows", func(t *testing.T) {
		d := tabular.New([]string{"Broker", "Status"})
		d.Append([]string{"Acme", "Compliant"})

		out := NewDataset(d)
		assert.Equal(t, []string{"Broker", "Status"}, out.Columns)
		assert.Equal(t, [][]string{{"Acme", "Compliant"}}, out.Rows)
	})

	t.Run("empty table renders an empty rows array", func(t *testing.T) {
		data, err := json.Marshal(NewDataset(tabular.New([]string{"A"})))
		require.NoError(t, err)
		assert.JSONEq(t, `{"columns":["A"],"rows":[]}`, string(data))
	})
}
