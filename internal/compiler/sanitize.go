package compiler

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/stagepath/pkg/domain"
)

var (
	// DefaultMaxRuleSize is 4KB, far above any realistic picklist rule.
	DefaultMaxRuleSize = 4096
	// EnvMaxRuleSize is the environment variable to override the default.
	EnvMaxRuleSize = "STAGEPATH_MAX_RULE_SIZE"
)

var (
	ErrRuleTooLarge = errors.New("navigation rule exceeds maximum allowed size")
	ErrInvalidUTF8  = errors.New("navigation rule contains invalid UTF-8 sequences")
)

// SanitizeRule enforces the size limit, validates UTF-8 and strips control
// characters other than whitespace from rule text.
func SanitizeRule(rule string) (string, error) {
	return sanitize(rule, maxRuleSize())
}

func sanitize(rule string, limit int) (string, error) {
	if len(rule) > limit {
		// Rejected, never truncated.
		return "", fmt.Errorf("%w: %w: size=%d limit=%d", domain.ErrInvalidDefinition, ErrRuleTooLarge, len(rule), limit)
	}
	if !utf8.ValidString(rule) {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidDefinition, ErrInvalidUTF8)
	}

	clean := true
	for _, r := range rule {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return rule, nil
	}

	var b strings.Builder
	b.Grow(len(rule))
	for _, r := range rule {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func maxRuleSize() int {
	if val := os.Getenv(EnvMaxRuleSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxRuleSize
}
