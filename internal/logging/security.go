// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent is an authentication decision worth auditing.
type SecurityEvent struct {
	// Event is the event type, e.g. "api_key_rejected".
	Event     string
	IPAddress string
	UserAgent string
	Path      string
	// Credential is the presented key; it is always sanitized before logging.
	Credential string
	Success    bool
	Reason     string
}

// SecurityLogger writes authentication events with credentials masked.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger tagged component=auth.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: With().Str("component", "auth").Logger()}
}

// NewSecurityLoggerWithLogger creates a security logger on top of a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{logger: logger.With().Str("component", "auth").Logger()}
}

// LogEvent logs a security event. Failures are logged at warn level.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Info()
	status := "success"
	if !event.Success {
		e = l.logger.Warn()
		status = "failed"
	}
	e = e.Str("event", event.Event).Str("status", status)

	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.UserAgent != "" {
		e = e.Str("user_agent", truncateString(event.UserAgent, 100))
	}
	if event.Path != "" {
		e = e.Str("path", event.Path)
	}
	if event.Credential != "" {
		e = e.Str("api_key", SanitizeToken(event.Credential))
	}
	if event.Reason != "" && !event.Success {
		e = e.Str("reason", event.Reason)
	}
	e.Msg("")
}

// LogAPIKeyRejected records a request refused by API key authentication.
func (l *SecurityLogger) LogAPIKeyRejected(ip, userAgent, path, presented, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:      "api_key_rejected",
		IPAddress:  ip,
		UserAgent:  userAgent,
		Path:       path,
		Credential: presented,
		Reason:     reason,
	})
}

// SanitizeToken keeps the first four characters of a secret and masks the rest.
// Secrets of eight characters or fewer are fully masked.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****"
}

// SanitizeValue masks v when the key name suggests a secret.
func SanitizeValue(key, v string) string {
	k := strings.ToLower(key)
	for _, marker := range []string{"key", "token", "secret", "password", "authorization"} {
		if strings.Contains(k, marker) {
			return SanitizeToken(v)
		}
	}
	return truncateString(v, 200)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
