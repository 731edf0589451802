package inbound

type SendOTPRequest struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type SendOTPResponse struct{}

func (SendOTPResponse) Message() string { return "OTP sent successfully" }

func (SendOTPResponse) Data() any { return nil }

type VerifyOTPRequest struct {
	Identifier string `json:"identifier"`
	OTP        string `json:"otp"`
	CheckOnly  bool   `json:"checkOnly"`
}

type VerifyOTPResponse struct{}

func (VerifyOTPResponse) Message() string { return "OTP verified successfully" }

func (VerifyOTPResponse) Data() any { return nil }

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type ResetPasswordResponse struct{}

func (ResetPasswordResponse) Message() string { return "Password reset successfully" }

func (ResetPasswordResponse) Data() any { return nil }
