package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCompile EventType = "compile"
	EventCheck   EventType = "check"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// CompileEvent reports the outcome of compiling a Definition.
type CompileEvent struct {
	EventBase
	Name    string `json:"name"`
	Stages  int    `json:"stages"`
	Clauses int    `json:"clauses"`
	Err     error  `json:"-"`
}

// CheckEvent reports the outcome of one navigation check.
type CheckEvent struct {
	EventBase
	Name     string   `json:"name"`
	Decision Decision `json:"decision"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnCompile func(context.Context, *CompileEvent)
	OnCheck   func(context.Context, *CheckEvent)
}
