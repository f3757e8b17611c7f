package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nls/pkg/adapters/memory"
	"github.com/aretw0/nls/pkg/domain"
	"github.com/aretw0/nls/pkg/ontology"
	"github.com/aretw0/nls/pkg/service"
)

func newTestServer() *Server {
	svc := service.New(service.WithOntology(ontology.New(memory.DefaultEntries()...)))
	return NewServer(svc, "test", nil)
}

func scenario() domain.Scenario {
	return domain.Scenario{
		Units: []domain.UnitInstance{
			{Template: "Fermenter_v1", ID: "fer01"},
			{Template: "AEX_Membrane_v1", ID: "dsp04"},
		},
		Streams: []domain.StreamLink{{From: "fer01", To: "dsp04"}},
	}
}

func rpc(t *testing.T, s *Server, method string, params any) map[string]any {
	t.Helper()
	msg, err := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": 1, "method": method, "params": params})
	require.NoError(t, err)
	resp := s.mcpServer.HandleMessage(context.Background(), msg)
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	require.Nil(t, out["error"], "rpc error: %s", data)
	return out["result"].(map[string]any)
}

func TestTools_Listed(t *testing.T) {
	s := newTestServer()
	result := rpc(t, s, "tools/list", map[string]any{})

	var names []string
	for _, tool := range result["tools"].([]any) {
		names = append(names, tool.(map[string]any)["name"].(string))
	}
	assert.ElementsMatch(t, []string{"nls_preview", "nls_apply", "nls_batch", "nls_run", "nls_help"}, names)
}

func TestTools_ApplyOverRPC(t *testing.T) {
	s := newTestServer()
	result := rpc(t, s, "tools/call", map[string]any{
		"name": "nls_apply",
		"arguments": map[string]any{
			"command_text": "replace aex membrane with chitosan capture",
			"scenario":     scenario(),
		},
	})
	assert.NotEqual(t, true, result["isError"])

	structured := result["structuredContent"].(map[string]any)
	units := structured["scenario_after"].(map[string]any)["units"].([]any)
	assert.Equal(t, "ChitosanCapture_v1", units[1].(map[string]any)["template"])
}

func TestTools_ErrorsAreToolResults(t *testing.T) {
	s := newTestServer()
	result := rpc(t, s, "tools/call", map[string]any{
		"name":      "nls_preview",
		"arguments": map[string]any{"command_text": "remove ghost", "scenario": scenario()},
	})
	assert.Equal(t, true, result["isError"])
}

func TestHandlers(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	preview, err := s.handlePreview(ctx, mcp.CallToolRequest{}, CommandArgs{CommandText: "remove dsp04", Scenario: scenario()})
	require.NoError(t, err)
	assert.Equal(t, domain.Patch{domain.Remove("/streams/0"), domain.Remove("/units/1")}, preview.Patch)

	batch, err := s.handleBatch(ctx, mcp.CallToolRequest{}, BatchArgs{
		Commands: []string{"duplicate fer01 as fer02", "connect fer02 -> dsp04"},
		Scenario: scenario(),
	})
	require.NoError(t, err)
	assert.True(t, batch.ScenarioAfter.HasStream("fer02", "dsp04"))

	_, err = s.handleRun(ctx, mcp.CallToolRequest{}, CommandArgs{CommandText: "run", Scenario: scenario()})
	assert.ErrorIs(t, err, domain.ErrNoSimulator)

	help, err := s.handleHelp(ctx, mcp.CallToolRequest{}, HelpArgs{})
	require.NoError(t, err)
	assert.Empty(t, help.UnknownTemplates)

	sc := scenario()
	sc.Units = append(sc.Units, domain.UnitInstance{Template: "Mystery_v9", ID: "m1"})
	help, err = s.handleHelp(ctx, mcp.CallToolRequest{}, HelpArgs{Scenario: &sc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mystery_v9"}, help.UnknownTemplates)
}

func TestResources(t *testing.T) {
	s := newTestServer()
	result := rpc(t, s, "resources/read", map[string]any{"uri": grammarURI})
	contents := result["contents"].([]any)
	require.Len(t, contents, 1)
	assert.Contains(t, contents[0].(map[string]any)["text"], "connect")
}

func TestServeSSE_StopsWithContext(t *testing.T) {
	s := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ServeSSE(ctx, 0) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ServeSSE did not return after cancel")
	}
}
