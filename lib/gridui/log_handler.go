// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gridui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg carries a log record into the model for the status bar.
type logRecordMsg struct {
	Summary string
	Level   slog.Level
}

// logRecordFadeMsg clears the status bar message. Sequence matches
// the record it was scheduled for, so an older fade does not clear a
// newer message.
type logRecordFadeMsg struct {
	Sequence int
}

// logRecordFadeDelay is how long a log message stays in the status bar.
const logRecordFadeDelay = 5 * time.Second

// LogHandler is a slog.Handler that shows records in the viewer's
// status bar, since anything written to stderr would corrupt the
// alternate screen. Records at or above the level are delivered to
// the program; every record is also passed to next when one is set,
// which is how --log-output keeps a full JSON log on disk.
//
// Records arriving before SetProgram are only passed to next.
// Handlers derived with WithAttrs and WithGroup share the program
// pointer, so one SetProgram call reaches all of them.
type LogHandler struct {
	level   slog.Level
	program *atomic.Pointer[tea.Program]
	next    slog.Handler
	attrs   []slog.Attr
	groups  []string
}

// NewLogHandler returns a handler delivering records at or above
// level to the program. next may be nil.
func NewLogHandler(level slog.Level, next slog.Handler) *LogHandler {
	return &LogHandler{
		level:   level,
		program: &atomic.Pointer[tea.Program]{},
		next:    next,
	}
}

// SetProgram sets the program that receives records. Safe to call from
// any goroutine.
func (handler *LogHandler) SetProgram(program *tea.Program) {
	handler.program.Store(program)
}

// Enabled reports whether either destination wants records at level.
func (handler *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= handler.level {
		return true
	}
	return handler.next != nil && handler.next.Enabled(ctx, level)
}

// Handle delivers the record.
func (handler *LogHandler) Handle(ctx context.Context, record slog.Record) error {
	var err error
	if handler.next != nil && handler.next.Enabled(ctx, record.Level) {
		err = handler.next.Handle(ctx, record)
	}
	if record.Level < handler.level {
		return err
	}
	program := handler.program.Load()
	if program == nil {
		return err
	}
	program.Send(logRecordMsg{Summary: handler.summarize(record), Level: record.Level})
	return err
}

// summarize renders "message (key=value, ...)" with group-qualified
// keys.
func (handler *LogHandler) summarize(record slog.Record) string {
	prefix := ""
	if len(handler.groups) > 0 {
		prefix = strings.Join(handler.groups, ".") + "."
	}
	var parts []string
	for _, attr := range handler.attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s%s=%s", prefix, attr.Key, attr.Value))
		return true
	})
	if len(parts) == 0 {
		return record.Message
	}
	return record.Message + " (" + strings.Join(parts, ", ") + ")"
}

// WithAttrs returns a derived handler with attrs appended.
func (handler *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := handler.derive()
	derived.attrs = append(derived.attrs, attrs...)
	if handler.next != nil {
		derived.next = handler.next.WithAttrs(attrs)
	}
	return derived
}

// WithGroup returns a derived handler with name appended to the group.
func (handler *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	derived := handler.derive()
	derived.groups = append(derived.groups, name)
	if handler.next != nil {
		derived.next = handler.next.WithGroup(name)
	}
	return derived
}

func (handler *LogHandler) derive() *LogHandler {
	return &LogHandler{
		level:   handler.level,
		program: handler.program,
		next:    handler.next,
		attrs:   append([]slog.Attr(nil), handler.attrs...),
		groups:  append([]string(nil), handler.groups...),
	}
}

var _ slog.Handler = (*LogHandler)(nil)
