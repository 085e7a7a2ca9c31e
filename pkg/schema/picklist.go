package schema

import (
	"fmt"

	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// PayloadValue is one entry of the platform picklist payload.
type PayloadValue struct {
	Label    string `mapstructure:"label"`
	Value    string `mapstructure:"value"`
	ValidFor []int  `mapstructure:"validFor"`
}

// PicklistPayload is the platform picklist payload for a field that controls itself.
type PicklistPayload struct {
	ControllerValues map[string]int `mapstructure:"controllerValues"`
	DefaultValue     *PayloadValue  `mapstructure:"defaultValue"`
	Values           []PayloadValue `mapstructure:"values"`
}

// DecodePicklist decodes a loosely-typed payload (e.g. the result of json.Unmarshal into any).
// Unknown keys such as "url" or "attributes" are ignored.
func DecodePicklist(raw any) (*PicklistPayload, error) {
	var payload PicklistPayload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &payload,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payload decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode picklist payload: %w", err)
	}
	return &payload, nil
}

// PicklistValues converts the payload entries into domain values, in order.
func (p *PicklistPayload) PicklistValues() []domain.PicklistValue {
	out := make([]domain.PicklistValue, len(p.Values))
	for i, v := range p.Values {
		out[i] = domain.PicklistValue{Label: v.Label, Value: v.Value, ValidFor: v.ValidFor}
	}
	return out
}

// ValidateSelfDependency checks that the payload describes a field controlling
// itself: every controller value must name the value at the same index.
// A payload without controllerValues has no dependency and passes.
func (p *PicklistPayload) ValidateSelfDependency() error {
	var errs []error
	if len(p.ControllerValues) > 0 && len(p.ControllerValues) != len(p.Values) {
		errs = append(errs, &ValidationError{
			Key:    "controllerValues",
			Reason: fmt.Sprintf("expected %d controller values to mirror the field values", len(p.Values)),
			Value:  len(p.ControllerValues),
		})
	}
	for value, idx := range p.ControllerValues {
		if idx < 0 || idx >= len(p.Values) || p.Values[idx].Value != value {
			errs = append(errs, &ValidationError{
				Key:    "controllerValues." + value,
				Reason: "controlling value does not match the dependent value at the same index",
				Value:  idx,
			})
		}
	}
	return aggregate(errs)
}
