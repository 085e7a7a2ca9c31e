package hcl_test

import (
	"context"
	"testing"

	"github.com/aretw0/stagepath/internal/testutils"
	"github.com/aretw0/stagepath/pkg/adapters/hcl"
	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/aretw0/stagepath/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesHCL = `
path "opportunity" {
  description     = "Sales opportunity stages"
  navigation_rule = "new={active}, closed=!{new}"

  stage "new" {
    label = "New"
  }
  stage "active" {
    label     = "Active"
    valid_for = [0]
  }
  stage "closed" {
    label     = "Closed"
    valid_for = [1]
  }
}

path "lead" {
  stage "open" {
    label = "Open"
  }
  stage "converted" {
    label     = "Converted"
    valid_for = [0]
  }
}
`

func TestLoader_Contract(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{"sales.hcl": salesHCL})

	tests.DefinitionLoaderContractTest(t, hcl.New(dir), map[string]domain.Definition{
		"opportunity": {
			Name:           "opportunity",
			NavigationRule: "new={active}, closed=!{new}",
			Values: []domain.PicklistValue{
				{Label: "New", Value: "new"},
				{Label: "Active", Value: "active", ValidFor: []int{0}},
				{Label: "Closed", Value: "closed", ValidFor: []int{1}},
			},
		},
		"lead": {
			Name: "lead",
			Values: []domain.PicklistValue{
				{Label: "Open", Value: "open"},
				{Label: "Converted", Value: "converted", ValidFor: []int{0}},
			},
		},
	})
}

func TestLoader_NestedDirectories(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"crm/sales.hcl": salesHCL,
		"support/ticket.hcl": `path "ticket" {
  stage "open" {}
}`,
		"README.md": "not a definition",
	})

	names, err := hcl.New(dir).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"lead", "opportunity", "ticket"}, names)
}

func TestLoader_DetectsCollisions(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"a.hcl": `path "dup" {
  stage "x" {}
}`,
		"b.hcl": `path "dup" {
  stage "y" {}
}`,
	})

	_, err := hcl.New(dir).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestLoader_SyntaxError(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{"broken.hcl": `path "x" {`})

	_, err := hcl.New(dir).Load(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL file")
}

func TestLoader_UnknownAttribute(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{"bad.hcl": `path "x" {
  colour = "red"
}`})

	_, err := hcl.New(dir).Load(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode HCL file")
}
