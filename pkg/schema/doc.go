// Package schema decodes and validates path definitions at the edge of the system.
//
// It accepts two input shapes:
//
//   - the platform picklist payload (as returned by a getPicklistValues call),
//     with "values[].validFor" and "controllerValues", decoded loosely via
//     mapstructure so that JSON numbers of any flavor are accepted;
//   - a definition document in YAML or JSON (name, values, navigation_rule).
//
// Validation failures are reported as a single *AggregateError listing every
// *ValidationError found, so an administrator can fix a definition in one pass.
package schema
