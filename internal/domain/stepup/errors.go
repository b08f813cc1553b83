package stepup

import "errors"

var (
	ErrSessionNotFound  = errors.New("otp session not found")
	ErrSessionExpired   = errors.New("otp session expired")
	ErrSessionExhausted = errors.New("otp attempt limit reached")
	ErrSessionVerified  = errors.New("otp session already verified")
	ErrInvalidCode      = errors.New("invalid otp code")
	ErrResendTooSoon    = errors.New("resend requested before cooldown elapsed")
)
