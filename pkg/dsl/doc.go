/*
Package dsl provides a fluent builder for path definitions.

It is an alternative to YAML, HCL or markdown files when definitions are
generated in code or written inline in tests. Dependencies are declared by
value and resolved to indices at build time.

Example usage:

	b := dsl.New()

	b.Path("opportunity").
		Describe("Sales opportunity stages").
		Stage("new", "New").
		Stage("active", "Active").After("new").
		Stage("closed", "Closed").After("active").
		Deny("closed", "new")

	store, err := b.Build()
	// store is a ports.DefinitionStore holding "opportunity".
*/
package dsl
