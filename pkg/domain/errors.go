package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDefinition is the common cause of every configuration error raised
// while compiling a path. Use errors.Is to detect any of them.
var ErrInvalidDefinition = errors.New("invalid path definition")

// ErrDefinitionNotFound is returned when a definition name cannot be found in a store or loader.
var ErrDefinitionNotFound = errors.New("definition not found")

// DuplicateValueError is returned when two picklist entries share the same value.
type DuplicateValueError struct {
	Value  string
	First  int
	Second int
}

func (e *DuplicateValueError) Error() string {
	return fmt.Sprintf("duplicate stage value %q at positions %d and %d", e.Value, e.First, e.Second)
}

func (e *DuplicateValueError) Is(target error) bool { return target == ErrInvalidDefinition }

// UnknownValueError is returned when a value does not name any stage of the catalog.
// Rule carries the navigation rule text when the value came from a rule.
type UnknownValueError struct {
	Value string
	Known []string
	Rule  string
}

func (e *UnknownValueError) Error() string {
	msg := fmt.Sprintf("'%s' is not in {%s}", e.Value, strings.Join(e.Known, ","))
	if e.Rule != "" {
		return fmt.Sprintf("navigation rule %q: %s", e.Rule, msg)
	}
	return msg
}

func (e *UnknownValueError) Is(target error) bool { return target == ErrInvalidDefinition }

// RuleSyntaxError is returned when a clause of the navigation rule is malformed.
type RuleSyntaxError struct {
	Rule     string
	Fragment string
	Reason   string
}

func (e *RuleSyntaxError) Error() string {
	return fmt.Sprintf("navigation rule %q: malformed clause %q: %s", e.Rule, e.Fragment, e.Reason)
}

func (e *RuleSyntaxError) Is(target error) bool { return target == ErrInvalidDefinition }

// ErrorKind returns a short stable label for a compile error, suitable for logs and metrics.
func ErrorKind(err error) string {
	var dup *DuplicateValueError
	var unknown *UnknownValueError
	var syntax *RuleSyntaxError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &dup):
		return "duplicate_value"
	case errors.As(err, &unknown):
		return "unknown_value"
	case errors.As(err, &syntax):
		return "rule_syntax"
	default:
		return "other"
	}
}
