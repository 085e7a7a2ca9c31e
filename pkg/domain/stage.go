package domain

// PicklistValue is one entry of the picklist payload supplied by the host.
// ValidFor lists the controlling indices for which this value is a legal choice.
type PicklistValue struct {
	Label    string `json:"label" yaml:"label" mapstructure:"label"`
	Value    string `json:"value" yaml:"value" mapstructure:"value"`
	ValidFor []int  `json:"valid_for,omitempty" yaml:"valid_for,omitempty" mapstructure:"valid_for"`
}

// Stage is one named step of the path.
type Stage struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Value string `json:"value"`
}
