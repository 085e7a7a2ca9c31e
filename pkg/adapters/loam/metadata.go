package loam

import "github.com/aretw0/stagepath/pkg/domain"

// DefinitionMetadata is the frontmatter (or JSON/YAML body) of a definition document.
// The markdown body, when present, becomes the description.
type DefinitionMetadata struct {
	Name           string                 `json:"name" mapstructure:"name"`
	Description    string                 `json:"description" mapstructure:"description"`
	NavigationRule string                 `json:"navigation_rule" mapstructure:"navigation_rule"`
	Values         []domain.PicklistValue `json:"values" mapstructure:"values"`

	// Picklist holds a raw platform payload (values[].validFor, controllerValues)
	// used when Values is empty.
	Picklist map[string]any `json:"picklist" mapstructure:"picklist"`
}
