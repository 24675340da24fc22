// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides a small, context-scoped structured logging facility.
//
// It keeps the shape of a severity level plus a pluggable set of handlers,
// but drops the teacher's context/jot/keys indirection layer: a handler is
// attached to a context.Context with a plain context.WithValue, and the
// four severity helpers (I, W, E, F) look it up and format directly. When
// no handler has been attached, messages are dropped rather than panicking,
// so library code can log unconditionally without forcing every caller to
// install a sink first.
package log

import (
	"context"
	"fmt"
)

// Severity defines the severity of a logging message.
type Severity int

const (
	// Info indicates minor informational messages that should generally be ignored.
	Info Severity = iota
	// Warning indicates issues that might affect correctness but can be ignored.
	Warning
	// Error indicates non-terminal failure conditions that may affect results.
	Error
	// Fatal indicates a fatal error.
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "I"
	case Warning:
		return "W"
	case Error:
		return "E"
	case Fatal:
		return "F"
	default:
		return "?"
	}
}

// Message is a single emitted log record.
type Message struct {
	Severity Severity
	Text     string
}

// Handler receives every message emitted through a context it is attached to.
type Handler interface {
	Handle(Message)
}

// HandlerFunc adapts a plain function to a Handler.
type HandlerFunc func(Message)

// Handle implements Handler.
func (f HandlerFunc) Handle(m Message) { f(m) }

type handlerKeyTy struct{}

var handlerKey = handlerKeyTy{}

// PutHandler returns a context with h attached as its log handler,
// replacing any handler already present.
func PutHandler(ctx context.Context, h Handler) context.Context {
	return context.WithValue(ctx, handlerKey, h)
}

func handlerOf(ctx context.Context) Handler {
	if ctx == nil {
		return nil
	}
	h, _ := ctx.Value(handlerKey).(Handler)
	return h
}

func emit(ctx context.Context, sev Severity, format string, args []interface{}) {
	h := handlerOf(ctx)
	if h == nil {
		return
	}
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	h.Handle(Message{Severity: sev, Text: text})
}

// I emits an informational message.
func I(ctx context.Context, format string, args ...interface{}) { emit(ctx, Info, format, args) }

// W emits a warning message.
func W(ctx context.Context, format string, args ...interface{}) { emit(ctx, Warning, format, args) }

// E emits an error message.
func E(ctx context.Context, format string, args ...interface{}) { emit(ctx, Error, format, args) }

// F emits a fatal message. Unlike the teacher's jot-based logger this never
// panics on its own; callers that need to abort do so explicitly.
func F(ctx context.Context, format string, args ...interface{}) { emit(ctx, Fatal, format, args) }
