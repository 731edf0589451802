package inbound

import (
	"github.com/shandysiswandi/estatenotify/internal/identity/usecase"
	"github.com/shandysiswandi/estatenotify/internal/pkg/router"
)

// HTTPEndpoint exposes the one-time code and password reset handlers.
type HTTPEndpoint struct {
	uc uc
}

// SendOTP issues a code and emails it.
// @Summary Send one-time code
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body SendOTPRequest true "Recipient"
// @Success 200 {object} router.successResponse
// @Failure 400 {object} router.errorResponse "Missing or invalid identifier"
// @Failure 500 {object} router.errorResponse "Email could not be sent"
// @Router /api/send-otp [post]
func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if _, err := h.uc.SendOTP(r.Context(), usecase.SendOTPInput{
		Type:       req.Type,
		Identifier: req.Identifier,
	}); err != nil {
		return nil, err
	}

	return SendOTPResponse{}, nil
}

// VerifyOTP checks a code. With checkOnly the code stays usable.
// @Summary Verify one-time code
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Code to check"
// @Success 200 {object} router.successResponse
// @Failure 400 {object} router.errorResponse "Code missing, unknown, expired or wrong"
// @Router /api/verify-otp [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		Identifier: req.Identifier,
		OTP:        req.OTP,
		Consume:    !req.CheckOnly,
	}); err != nil {
		return nil, err
	}

	return VerifyOTPResponse{}, nil
}

// ResetPassword sets a new password for the account behind email.
// @Summary Reset password with a one-time code
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset payload"
// @Success 200 {object} router.successResponse
// @Failure 400 {object} router.errorResponse "Code missing, unknown, expired or wrong"
// @Failure 500 {object} router.errorResponse "Identity provider failure"
// @Router /api/reset-password [post]
func (h *HTTPEndpoint) ResetPassword(r *router.Request) (any, error) {
	var req ResetPasswordRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordReset(r.Context(), usecase.PasswordResetInput{
		Email:       req.Email,
		OTP:         req.OTP,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return ResetPasswordResponse{}, nil
}
