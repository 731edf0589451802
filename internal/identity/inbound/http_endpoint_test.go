package inbound_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/estatenotify/internal/identity/entity"
	"github.com/shandysiswandi/estatenotify/internal/identity/inbound"
	"github.com/shandysiswandi/estatenotify/internal/identity/usecase"
	"github.com/shandysiswandi/estatenotify/internal/pkg/config"
	"github.com/shandysiswandi/estatenotify/internal/pkg/goerror"
	"github.com/shandysiswandi/estatenotify/internal/pkg/instrument"
	"github.com/shandysiswandi/estatenotify/internal/pkg/router"
	"github.com/shandysiswandi/estatenotify/internal/pkg/uid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUsecase struct {
	mock.Mock
}

func (m *mockUsecase) SendOTP(ctx context.Context, in usecase.SendOTPInput) (*usecase.SendOTPOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*usecase.SendOTPOutput)
	return out, args.Error(1)
}

func (m *mockUsecase) VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockUsecase) PasswordReset(ctx context.Context, in usecase.PasswordResetInput) error {
	return m.Called(ctx, in).Error(0)
}

func setup(t *testing.T) (*router.Router, *mockUsecase) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app: {}"))
	require.NoError(t, err)

	r := router.NewRouter(router.Config{Config: cfg, UUID: uid.NewUUID(), Instrument: instrument.NewNoop()})
	m := new(mockUsecase)
	inbound.RegisterHTTPEndpoint(r, m)

	return r, m
}

func post(t *testing.T, h http.Handler, path, body string) (int, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func TestSendOTP(t *testing.T) {
	r, m := setup(t)
	m.On("SendOTP", mock.Anything, usecase.SendOTPInput{Type: "email", Identifier: "alice@example.com"}).
		Return(&usecase.SendOTPOutput{}, nil).Once()

	code, body := post(t, r, "/api/send-otp", `{"type":"email","identifier":"alice@example.com"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"success": true, "message": "OTP sent successfully"}, body)
	m.AssertExpectations(t)
}

func TestSendOTP_Errors(t *testing.T) {
	r, m := setup(t)
	m.On("SendOTP", mock.Anything, usecase.SendOTPInput{Identifier: ""}).
		Return(nil, goerror.NewInvalidInput(nil, "identifier", "identifier is a required field")).Once()
	m.On("SendOTP", mock.Anything, usecase.SendOTPInput{Identifier: "bob@example.com"}).
		Return(nil, goerror.NewServerMsg(entity.ErrDeliveryFailure, "Failed to send OTP email. Please try again.", goerror.CodeDeliveryFailed)).Once()

	code, body := post(t, r, "/api/send-otp", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, map[string]any{"identifier": "identifier is a required field"}, body["fields"])

	code, body = post(t, r, "/api/send-otp", `{"identifier":"bob@example.com"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Failed to send OTP email. Please try again.", body["error"])

	code, _ = post(t, r, "/api/send-otp", `not json`)
	assert.Equal(t, http.StatusBadRequest, code)
	m.AssertExpectations(t)
}

func TestVerifyOTP_CheckOnlyMapsToConsume(t *testing.T) {
	r, m := setup(t)
	m.On("VerifyOTP", mock.Anything, usecase.VerifyOTPInput{Identifier: "alice@example.com", OTP: "1234", Consume: true}).Return(nil).Once()
	m.On("VerifyOTP", mock.Anything, usecase.VerifyOTPInput{Identifier: "alice@example.com", OTP: "1234", Consume: false}).Return(nil).Once()

	code, body := post(t, r, "/api/verify-otp", `{"identifier":"alice@example.com","otp":"1234"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])

	code, _ = post(t, r, "/api/verify-otp", `{"identifier":"alice@example.com","otp":"1234","checkOnly":true}`)
	assert.Equal(t, http.StatusOK, code)
	m.AssertExpectations(t)
}

func TestVerifyOTP_Expired(t *testing.T) {
	r, m := setup(t)
	m.On("VerifyOTP", mock.Anything, mock.Anything).
		Return(goerror.NewBusinessCause(entity.ErrOTPExpired, "OTP has expired. Please request a new one.", goerror.CodeInvalidInput)).Once()

	code, body := post(t, r, "/api/verify-otp", `{"identifier":"alice@example.com","otp":"1234"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, map[string]any{"success": false, "error": "OTP has expired. Please request a new one."}, body)
}

func TestResetPassword(t *testing.T) {
	r, m := setup(t)
	m.On("PasswordReset", mock.Anything, usecase.PasswordResetInput{Email: "alice@example.com", OTP: "1234", NewPassword: "n3w-secret"}).
		Return(nil).Once()
	m.On("PasswordReset", mock.Anything, usecase.PasswordResetInput{Email: "ghost@example.com", OTP: "1234", NewPassword: "n3w-secret"}).
		Return(goerror.NewServerMsg(entity.ErrUserNotFound, "No account found with this email address.", goerror.CodeInternal)).Once()

	code, body := post(t, r, "/api/reset-password", `{"email":"alice@example.com","otp":"1234","newPassword":"n3w-secret"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Password reset successfully", body["message"])

	code, body = post(t, r, "/api/reset-password", `{"email":"ghost@example.com","otp":"1234","newPassword":"n3w-secret"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "No account found with this email address.", body["error"])
	m.AssertExpectations(t)
}
