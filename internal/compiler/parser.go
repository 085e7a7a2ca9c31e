package compiler

import (
	"strings"

	"github.com/aretw0/stagepath/pkg/domain"
)

// Parser converts navigation rule text into a domain.ParsedRule.
//
// Grammar:
//
//	rule     := clause (',' clause)*
//	clause   := fromSpec '=' ['!'] '{' toList '}'
//	toList   := identifier (',' identifier)*
//
// Identifiers may contain spaces but none of '{', '}', '=', ',' or ';'.
// Either ',' or ';' separates clauses. Surplus '}' produce empty fragments
// and are ignored: "a={b}}" parses as "a={b}".
type Parser struct {
	maxSize int
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithMaxSize overrides the rule size limit (see SanitizeRule).
func WithMaxSize(n int) ParserOption {
	return func(p *Parser) {
		p.maxSize = n
	}
}

// NewParser creates a new parser instance.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse compiles rule text into clauses in textual order.
// Empty or blank text yields an empty rule.
// A malformed clause fails with *domain.RuleSyntaxError; nothing is silently dropped.
func (p *Parser) Parse(rule string) (domain.ParsedRule, error) {
	clean, err := sanitize(rule, p.limit())
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(clean) == "" {
		return domain.ParsedRule{}, nil
	}

	fragments := strings.Split(clean, "}")
	if tail := strings.TrimSpace(fragments[len(fragments)-1]); tail != "" {
		return nil, syntaxError(rule, tail, "missing closing '}'")
	}

	parsed := make(domain.ParsedRule, 0, len(fragments)-1)
	for _, frag := range fragments[:len(fragments)-1] {
		frag = strings.TrimSpace(frag)
		if frag == "" {
			continue
		}
		clause, err := parseClause(rule, frag)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, clause)
	}
	return parsed, nil
}

func (p *Parser) limit() int {
	if p.maxSize > 0 {
		return p.maxSize
	}
	return maxRuleSize()
}

// parseClause handles one "from=[!]{to, ..." fragment. The closing brace was consumed by the split.
func parseClause(rule, frag string) (domain.RuleClause, error) {
	parts := strings.Split(frag, "{")
	switch {
	case len(parts) == 1:
		return domain.RuleClause{}, syntaxError(rule, frag, "missing opening '{'")
	case len(parts) > 2:
		return domain.RuleClause{}, syntaxError(rule, frag, "unexpected '{'")
	}

	from, negated, err := parseFrom(rule, frag, parts[0])
	if err != nil {
		return domain.RuleClause{}, err
	}

	to := make([]string, 0)
	for _, v := range strings.Split(parts[1], ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.ContainsAny(v, "=;") {
			return domain.RuleClause{}, syntaxError(rule, frag, "invalid character in target "+quote(v))
		}
		to = append(to, v)
	}
	if len(to) == 0 {
		return domain.RuleClause{}, syntaxError(rule, frag, "empty target list")
	}

	return domain.RuleClause{FromValue: from, Negated: negated, ToValues: to}, nil
}

// parseFrom reads "<value>=" or "<value>=!". Separators left over from the
// previous clause (',' or ';') are discarded; any other text is an error.
func parseFrom(rule, frag, spec string) (string, bool, error) {
	var segments []string
	for _, s := range strings.FieldsFunc(spec, isClauseSeparator) {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}
	switch len(segments) {
	case 0:
		return "", false, syntaxError(rule, frag, "empty source stage")
	case 1:
	default:
		return "", false, syntaxError(rule, frag, "unexpected text before clause")
	}

	lhs, rhs, ok := strings.Cut(segments[0], "=")
	if !ok {
		return "", false, syntaxError(rule, frag, "missing '='")
	}
	from := strings.TrimSpace(lhs)
	if from == "" {
		return "", false, syntaxError(rule, frag, "empty source stage")
	}

	switch strings.TrimSpace(rhs) {
	case "":
		return from, false, nil
	case "!":
		return from, true, nil
	default:
		return "", false, syntaxError(rule, frag, "expected '{' or '!{' after '='")
	}
}

func isClauseSeparator(r rune) bool {
	return r == ',' || r == ';'
}

func syntaxError(rule, frag, reason string) error {
	return &domain.RuleSyntaxError{Rule: rule, Fragment: frag, Reason: reason}
}

func quote(s string) string {
	return "'" + s + "'"
}
