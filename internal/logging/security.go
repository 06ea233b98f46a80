// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent is an account or token event worth an audit line.
type SecurityEvent struct {
	// Event is the type, e.g. "login_success", "password_changed".
	Event     string
	AccountID string
	Email     string
	IPAddress string
	UserAgent string
	Success   bool
	// Reason is a short failure cause. It is sanitized before logging.
	Reason string
}

// SecurityLogger writes authentication events with emails and tokens masked.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger bound to the global logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: WithComponent("auth")}
}

// NewSecurityLoggerWithLogger creates a security logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{logger: logger.With().Str("component", "auth").Logger()}
}

// LogEvent logs a security event with automatic sanitization.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Info()
	if !event.Success {
		e = l.logger.Warn()
	}
	e = e.Str("event", event.Event).Bool("success", event.Success)

	if event.AccountID != "" {
		e = e.Str("account_id", event.AccountID)
	}
	if event.Email != "" {
		e = e.Str("email", SanitizeEmail(event.Email))
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.UserAgent != "" {
		e = e.Str("user_agent", truncateString(event.UserAgent, 100))
	}
	if event.Reason != "" {
		e = e.Str("reason", SanitizeError(event.Reason))
	}
	e.Msg("Security event")
}

// LogLoginSuccess records a successful login.
func (l *SecurityLogger) LogLoginSuccess(accountID, ip, userAgent string) {
	l.LogEvent(&SecurityEvent{Event: "login_success", AccountID: accountID, IPAddress: ip, UserAgent: userAgent, Success: true})
}

// LogLoginFailure records a rejected login. identifier is the submitted name or email.
func (l *SecurityLogger) LogLoginFailure(identifier, ip, userAgent, reason string) {
	l.LogEvent(&SecurityEvent{Event: "login_failure", Email: identifier, IPAddress: ip, UserAgent: userAgent, Reason: reason})
}

// LogRegistration records a new account.
func (l *SecurityLogger) LogRegistration(accountID, email, ip string) {
	l.LogEvent(&SecurityEvent{Event: "account_registered", AccountID: accountID, Email: email, IPAddress: ip, Success: true})
}

// LogCredentialChange records password, email or reset changes.
func (l *SecurityLogger) LogCredentialChange(event, accountID, ip string, success bool, reason string) {
	l.LogEvent(&SecurityEvent{Event: event, AccountID: accountID, IPAddress: ip, Success: success, Reason: reason})
}

// LogAccountDeleted records a soft delete.
func (l *SecurityLogger) LogAccountDeleted(accountID, ip string) {
	l.LogEvent(&SecurityEvent{Event: "account_deleted", AccountID: accountID, IPAddress: ip, Success: true})
}

// LogTokenRejected records a bearer token that failed verification.
func (l *SecurityLogger) LogTokenRejected(token, ip, reason string) {
	l.logger.Warn().
		Str("event", "token_rejected").
		Str("token", SanitizeToken(token)).
		Str("ip", ip).
		Str("reason", reason).
		Msg("Security event")
}

// LogLogout records a token revocation.
func (l *SecurityLogger) LogLogout(accountID, ip string) {
	l.LogEvent(&SecurityEvent{Event: "logout", AccountID: accountID, IPAddress: ip, Success: true})
}

// SanitizeToken keeps the first and last 4 characters.
// "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9" -> "eyJh...VCJ9"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeEmail keeps the first two characters of the local part.
// "siti.aminah@example.com" -> "si***@example.com"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.Index(email, "@")
	if at < 0 {
		// Login accepts a full name as identifier.
		if len(email) <= 2 {
			return "***"
		}
		return email[:2] + "***"
	}
	if at <= 2 {
		return "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}

// SanitizeError replaces messages mentioning secrets with a generic one.
func SanitizeError(msg string) string {
	lower := strings.ToLower(msg)
	for _, pattern := range []string{"password", "secret", "token", "bearer", "authorization"} {
		if strings.Contains(lower, pattern) {
			return "authentication error"
		}
	}
	return truncateString(msg, 200)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
