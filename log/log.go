// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides package scoped loggers on top of go-ethereum's slog based logger.
// Loggers resolve the root handler on every call, so package level loggers
// created at init time follow later SetDefault calls.
package log

import (
	"context"
	"io"
	"log/slog"

	gethlog "github.com/ethereum/go-ethereum/log"
)

const (
	LevelTrace = gethlog.LevelTrace
	LevelDebug = gethlog.LevelDebug
	LevelInfo  = gethlog.LevelInfo
	LevelWarn  = gethlog.LevelWarn
	LevelError = gethlog.LevelError
	LevelCrit  = gethlog.LevelCrit
)

// Logger writes leveled, key/value structured records.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
	Enabled(level slog.Level) bool
}

type logger struct {
	ctx []any
}

// WithContext returns a logger that always attaches ctx.
func WithContext(ctx ...any) Logger {
	return &logger{ctx: ctx}
}

// Root returns the logger without context.
func Root() Logger {
	return &logger{}
}

// SetDefault installs h as the root handler.
func SetDefault(h slog.Handler) {
	gethlog.SetDefault(gethlog.NewLogger(h))
}

// FromVerbosity converts the legacy verbosity (0 crit .. 5 trace) to a level.
func FromVerbosity(verbosity int) slog.Level {
	return gethlog.FromLegacyLevel(verbosity)
}

// NewTerminalHandler returns a human readable handler writing records at or above level.
// Passing a *slog.LevelVar allows the level to be changed at runtime.
func NewTerminalHandler(w io.Writer, level slog.Leveler, useColor bool) slog.Handler {
	return &leveledHandler{
		inner: gethlog.NewTerminalHandlerWithLevel(w, LevelTrace, useColor),
		level: level,
	}
}

func NewJSONHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return &leveledHandler{
		inner: gethlog.JSONHandlerWithLevel(w, LevelTrace),
		level: level,
	}
}

// leveledHandler filters records by a level read on every call.
// The inner handler is built to accept every level.
type leveledHandler struct {
	inner slog.Handler
	level slog.Leveler
}

func (h *leveledHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level() && h.inner.Enabled(ctx, level)
}

func (h *leveledHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *leveledHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &leveledHandler{inner: h.inner.WithAttrs(attrs), level: h.level}
}

func (h *leveledHandler) WithGroup(name string) slog.Handler {
	return &leveledHandler{inner: h.inner.WithGroup(name), level: h.level}
}

func DiscardHandler() slog.Handler {
	return gethlog.DiscardHandler()
}

func (l *logger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &logger{ctx: append(merged, ctx...)}
}

func (l *logger) write(level slog.Level, msg string, ctx []any) {
	root := gethlog.Root()
	if len(l.ctx) == 0 {
		root.Log(level, msg, ctx...)
		return
	}
	root.With(l.ctx...).Log(level, msg, ctx...)
}

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(LevelDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(LevelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(LevelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...any) { l.write(LevelError, msg, ctx) }

// Crit logs and terminates the process.
func (l *logger) Crit(msg string, ctx ...any) {
	gethlog.Root().With(l.ctx...).Crit(msg, ctx...)
}

func (l *logger) Enabled(level slog.Level) bool {
	return gethlog.Root().Enabled(context.Background(), level)
}
