// SPDX-License-Identifier: MIT
// Copyright (c) 2025 dnp3 contributors.

package dlog

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
)

type captureProvider struct {
	lines []string
}

func (sf *captureProvider) record(level, format string, v ...interface{}) {
	sf.lines = append(sf.lines, level+": "+fmt.Sprintf(format, v...))
}

func (sf *captureProvider) Critical(format string, v ...interface{}) { sf.record("C", format, v...) }
func (sf *captureProvider) Error(format string, v ...interface{})    { sf.record("E", format, v...) }
func (sf *captureProvider) Warn(format string, v ...interface{})     { sf.record("W", format, v...) }
func (sf *captureProvider) Debug(format string, v ...interface{})    { sf.record("D", format, v...) }

func TestLevelGate(t *testing.T) {
	p := &captureProvider{}
	l := NewLoggerWith(p)

	l.Error("dropped while off")
	if len(p.lines) != 0 {
		t.Fatalf("LevelOff leaked: %v", p.lines)
	}

	l.SetLevel(LevelWarn)
	l.Critical("c")
	l.Error("e %d", 1)
	l.Warn("w")
	l.Debug("dropped")
	want := []string{"C: c", "E: e 1", "W: w"}
	if len(p.lines) != len(want) {
		t.Fatalf("unexpected lines: %v", p.lines)
	}
	for i, w := range want {
		if p.lines[i] != w {
			t.Fatalf("line %d: got %q want %q", i, p.lines[i], w)
		}
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	// must not panic
	l.SetLevel(LevelDebug)
	l.Critical("c")
	l.Error("e")
	l.Warn("w")
	l.Debug("d")
}

func TestNewLoggerWithNilProvider(t *testing.T) {
	if l := NewLoggerWith(nil); l != nil {
		t.Fatalf("expected nil logger for nil provider")
	}
}

func TestLogrusProvider(t *testing.T) {
	var buf bytes.Buffer
	ll := logrus.New()
	ll.SetOutput(&buf)
	ll.SetLevel(logrus.DebugLevel)

	l := NewLoggerWith(NewLogrusProvider(ll))
	l.SetLevel(LevelDebug)
	l.Warn("bad start/stop %d > %d", 4, 2)
	l.Debug("header g%dv%d", 30, 1)

	out := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("bad start/stop 4 > 2")) {
		t.Fatalf("warn message missing from output: %q", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("header g30v1")) {
		t.Fatalf("debug message missing from output: %q", out)
	}
}
