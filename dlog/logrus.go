// SPDX-License-Identifier: MIT
// Copyright (c) 2025 dnp3 contributors.

package dlog

import (
	"github.com/sirupsen/logrus"
)

// LogrusProvider routes diagnostics into a logrus logger.
type LogrusProvider struct {
	L *logrus.Logger
}

var _ LogProvider = LogrusProvider{}

// NewLogrusProvider wraps l, defaulting to the standard logrus logger.
func NewLogrusProvider(l *logrus.Logger) LogrusProvider {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return LogrusProvider{L: l}
}

// Critical logs a CRITICAL level message.
func (sf LogrusProvider) Critical(format string, v ...interface{}) {
	sf.L.WithField("level", "critical").Errorf(format, v...)
}

// Error logs an ERROR level message.
func (sf LogrusProvider) Error(format string, v ...interface{}) {
	sf.L.Errorf(format, v...)
}

// Warn logs a WARN level message.
func (sf LogrusProvider) Warn(format string, v ...interface{}) {
	sf.L.Warnf(format, v...)
}

// Debug logs a DEBUG level message.
func (sf LogrusProvider) Debug(format string, v ...interface{}) {
	sf.L.Debugf(format, v...)
}
