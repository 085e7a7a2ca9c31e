package schema

import (
	"fmt"
	"strings"

	"github.com/aretw0/stagepath/pkg/domain"
	"gopkg.in/yaml.v3"
)

// ParseDefinition decodes a YAML (or JSON) definition document.
func ParseDefinition(data []byte) (domain.Definition, error) {
	var def domain.Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return domain.Definition{}, fmt.Errorf("failed to parse definition: %w", err)
	}
	return def, nil
}

// MarshalDefinition encodes a definition as YAML.
func MarshalDefinition(def domain.Definition) ([]byte, error) {
	data, err := yaml.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal definition: %w", err)
	}
	return data, nil
}

// ValidateDefinition checks the structural requirements of a definition.
// It does not compile the navigation rule; the engine reports rule errors.
func ValidateDefinition(def domain.Definition) error {
	var errs []error

	if strings.TrimSpace(def.Name) == "" {
		errs = append(errs, &ValidationError{Key: "name", Reason: "required"})
	} else if strings.ContainsAny(def.Name, "/\\") {
		errs = append(errs, &ValidationError{Key: "name", Reason: "must not contain path separators", Value: def.Name})
	}

	if len(def.Values) == 0 {
		errs = append(errs, &ValidationError{Key: "values", Reason: "at least one stage is required"})
	}

	seen := make(map[string]int, len(def.Values))
	for i, v := range def.Values {
		key := fmt.Sprintf("values[%d]", i)
		if v.Value == "" {
			errs = append(errs, &ValidationError{Key: key + ".value", Reason: "required"})
		} else if strings.ContainsAny(v.Value, "{}=,;") {
			errs = append(errs, &ValidationError{Key: key + ".value", Reason: "must not contain any of {}=,;", Value: v.Value})
		}
		if first, ok := seen[v.Value]; ok && v.Value != "" {
			errs = append(errs, &ValidationError{Key: key + ".value", Reason: fmt.Sprintf("duplicates values[%d]", first), Value: v.Value})
		} else {
			seen[v.Value] = i
		}
		for _, c := range v.ValidFor {
			if c < 0 || c >= len(def.Values) {
				errs = append(errs, &ValidationError{Key: key + ".valid_for", Reason: "index out of range", Value: c})
			}
		}
	}

	return aggregate(errs)
}
