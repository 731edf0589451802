package goerror_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/shandysiswandi/estatenotify/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvalidInput_Fields(t *testing.T) {
	err := goerror.NewInvalidInput(nil, "identifier", "identifier is required")

	ge, ok := goerror.As(err)
	require.True(t, ok)
	assert.Equal(t, goerror.TypeValidation, ge.Type())
	assert.Equal(t, goerror.CodeInvalidInput, ge.Code())
	assert.Equal(t, http.StatusBadRequest, ge.StatusCode())
	assert.Equal(t, map[string]string{"identifier": "identifier is required"}, ge.Fields())
}

func TestNewInvalidInput_OddPairs(t *testing.T) {
	ge, ok := goerror.As(goerror.NewInvalidInput(nil, "identifier"))
	require.True(t, ok)
	assert.Equal(t, goerror.CodeInvalidFormat, ge.Code())
	assert.Equal(t, "Invalid request body", ge.Msg())
}

func TestNewBusinessCause_KeepsSentinel(t *testing.T) {
	sentinel := errors.New("otp expired")
	err := goerror.NewBusinessCause(sentinel, "OTP has expired", goerror.CodeInvalidInput)

	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", err), sentinel)

	ge, ok := goerror.As(fmt.Errorf("wrapped: %w", err))
	require.True(t, ok)
	assert.Equal(t, "OTP has expired", ge.Msg())
	assert.Equal(t, http.StatusBadRequest, ge.StatusCode())
}

func TestNewServer_HidesCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	ge, ok := goerror.As(goerror.NewServer(cause))
	require.True(t, ok)

	assert.Equal(t, "Internal server error", ge.Msg())
	assert.Equal(t, cause.Error(), ge.Error())
	assert.Equal(t, http.StatusInternalServerError, ge.StatusCode())
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		code goerror.Code
		want int
	}{
		{goerror.CodeInternal, http.StatusInternalServerError},
		{goerror.CodeInvalidFormat, http.StatusBadRequest},
		{goerror.CodeInvalidInput, http.StatusBadRequest},
		{goerror.CodeUnavailable, http.StatusInternalServerError},
		{goerror.CodeDeliveryFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			ge, ok := goerror.As(goerror.NewBusinessCause(nil, "x", tt.code))
			require.True(t, ok)
			assert.Equal(t, tt.want, ge.StatusCode())
		})
	}
}

func TestAs_PlainError(t *testing.T) {
	_, ok := goerror.As(errors.New("plain"))
	assert.False(t, ok)
}

func TestError_LogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := goerror.NewServerMsg(
		fmt.Errorf("otp delivery failed: %w", errors.New("smtp: 421")),
		"Failed to send OTP email. Please try again.",
		goerror.CodeDeliveryFailed,
	)
	logger.Error("send otp", "error", err)

	var line struct {
		Error map[string]any `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, map[string]any{
		"type":       "ERROR_TYPE_SERVER",
		"error_code": "ERROR_CODE_DELIVERY_FAILED",
		"msg":        "Failed to send OTP email. Please try again.",
		"cause":      "otp delivery failed: smtp: 421",
	}, line.Error)
}

func TestError_LogValueFields(t *testing.T) {
	ge, ok := goerror.As(goerror.NewInvalidInput(nil, "identifier", "identifier is required"))
	require.True(t, ok)

	attrs := map[string]slog.Value{}
	for _, a := range ge.LogValue().Group() {
		attrs[a.Key] = a.Value
	}
	assert.Equal(t, "ERROR_CODE_INVALID_INPUT", attrs["error_code"].String())
	assert.Equal(t, map[string]string{"identifier": "identifier is required"}, attrs["fields"].Any())
	_, hasCause := attrs["cause"]
	assert.False(t, hasCause)
}
