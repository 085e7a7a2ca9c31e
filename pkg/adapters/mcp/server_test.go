package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/stagepath/internal/runtime"
	"github.com/aretw0/stagepath/pkg/adapters/memory"
	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := memory.NewFromDefinitions(domain.Definition{
		Name: "opportunity",
		Values: []domain.PicklistValue{
			{Label: "New", Value: "new"},
			{Label: "Active", Value: "active", ValidFor: []int{0}},
			{Label: "Closed", Value: "closed", ValidFor: []int{1}},
		},
		NavigationRule: "closed=!{new}",
	})
	require.NoError(t, err)
	return NewServer(runtime.NewEngine(), store, "test", nil)
}

func TestCompilePath_Stored(t *testing.T) {
	s := newTestServer(t)
	args := map[string]interface{}{"name": "opportunity"}

	resp, err := s.handleCompilePath(context.Background(), makeReq(args), args)
	require.NoError(t, err)

	assert.Equal(t, "opportunity", resp.Name)
	assert.Equal(t, "closed=!{new}", resp.Rule)
	require.Len(t, resp.Stages, 3)
	assert.Equal(t, []string{"active"}, resp.Stages[0].Allowed)
	assert.Equal(t, []string{"active"}, resp.Stages[2].Allowed)
	assert.False(t, resp.Stages[2].Unrestricted)
}

func TestCompilePath_Inline(t *testing.T) {
	s := newTestServer(t)
	args := map[string]interface{}{"definition": `
values:
  - value: a
  - value: b
  - value: c
navigation_rule: "b=!{a, c}"
`}

	resp, err := s.handleCompilePath(context.Background(), makeReq(args), args)
	require.NoError(t, err)

	assert.Equal(t, "inline", resp.Name)
	assert.True(t, resp.Stages[0].Unrestricted)
	assert.Empty(t, resp.Stages[0].Allowed)
	assert.False(t, resp.Stages[1].Unrestricted)
	assert.Empty(t, resp.Stages[1].Allowed, "b may only stay on b")
}

func TestCompilePath_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"Missing Arguments", map[string]interface{}{}},
		{"Unknown Name", map[string]interface{}{"name": "ghost"}},
		{"Unknown Rule Value", map[string]interface{}{"definition": `{"values": [{"value": "a"}], "navigation_rule": "a={z}"}`}},
		{"Invalid Shape", map[string]interface{}{"definition": `{"values": []}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.handleCompilePath(ctx, makeReq(tt.args), tt.args)
			assert.Error(t, err)
		})
	}
}

func TestCheckTransition(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	args := map[string]interface{}{"name": "opportunity", "current": "new", "selected": "closed"}
	resp, err := s.handleCheckTransition(ctx, makeReq(args), args)
	require.NoError(t, err)
	assert.True(t, resp.Blocked)
	assert.Equal(t, domain.ReasonNotAllowed, resp.Reason)
	assert.Empty(t, resp.Message)

	args = map[string]interface{}{"name": "opportunity", "selected": "active"}
	resp, err = s.handleCheckTransition(ctx, makeReq(args), args)
	require.NoError(t, err)
	assert.False(t, resp.Blocked)
	assert.Equal(t, "new", resp.From)
	assert.Equal(t, "Active Completed", resp.Message)

	args = map[string]interface{}{"name": "opportunity", "current": "new", "selected": "ghost"}
	_, err = s.handleCheckTransition(ctx, makeReq(args), args)
	var unknown *domain.UnknownValueError
	assert.ErrorAs(t, err, &unknown)
}

func TestListPaths(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleListPaths(context.Background(), makeReq(nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.JSONEq(t, `["opportunity"]`, resultText(res))
}

func TestPathGraph(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handlePathGraph(context.Background(), makeReq(map[string]interface{}{"name": "opportunity", "current": "new"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(res), "class s0 current;")

	res, err = s.handlePathGraph(context.Background(), makeReq(map[string]interface{}{"name": "ghost"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
