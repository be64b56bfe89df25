package tool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pronetheia/agenthub/store"
)

func echoTool(name string, optFns ...func(o *FuncToolOptions)) *FuncTool {
	return NewFuncTool(name, func(_ context.Context, params map[string]any) (any, error) {
		return params["text"], nil
	}, optFns...)
}

func TestExecuteUnknownTool(t *testing.T) {
	r := NewRegistry()
	result := r.Execute(context.Background(), "UnknownTool", map[string]any{}, "test-agent")

	assert.False(t, result.Success)
	assert.Equal(t, "Tool 'UnknownTool' not found in registry", result.Error)
	assert.Nil(t, result.Output)
}

func TestExecuteValidatesParameters(t *testing.T) {
	r := NewRegistry()
	r.Register(context.Background(), echoTool("EchoMCP", func(o *FuncToolOptions) {
		o.InputSchema = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
			"required": []string{"text"},
		}
	}))

	result := r.Execute(context.Background(), "EchoMCP", map[string]any{}, "test-agent")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Invalid parameters")

	result = r.Execute(context.Background(), "EchoMCP", map[string]any{"text": "hi"}, "test-agent")
	assert.True(t, result.Success)
	assert.Equal(t, "hi", result.Output)
}

func TestExecuteTimeout(t *testing.T) {
	r := NewRegistry()
	slow := NewFuncTool("SlowMCP", func(ctx context.Context, _ map[string]any) (any, error) {
		select {
		case <-time.After(2 * time.Second):
			return "too late", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}, func(o *FuncToolOptions) {
		o.Timeout = 30 * time.Millisecond
	})
	r.Register(context.Background(), slow)

	result := r.Execute(context.Background(), "SlowMCP", map[string]any{}, "test-agent")
	assert.False(t, result.Success)
	assert.Equal(t, "Execution timeout (30ms)", result.Error)
	assert.Nil(t, result.Output, "timeout results carry no partial output")
}

func TestExecuteTimeoutWithUncancellableTool(t *testing.T) {
	// A tool that ignores its context still yields a timeout result; the
	// in-flight work is abandoned.
	r := NewRegistry()
	stubborn := NewFuncTool("StubbornMCP", func(_ context.Context, _ map[string]any) (any, error) {
		time.Sleep(200 * time.Millisecond)
		return "ignored", nil
	}, func(o *FuncToolOptions) {
		o.Timeout = 20 * time.Millisecond
	})
	r.Register(context.Background(), stubborn)

	start := time.Now()
	result := r.Execute(context.Background(), "StubbornMCP", map[string]any{}, "test-agent")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Execution timeout")
	assert.Less(t, time.Since(start), 150*time.Millisecond, "caller must not wait for the abandoned work")
}

func TestExecuteToolError(t *testing.T) {
	r := NewRegistry()
	failing := NewFuncTool("FailingMCP", func(_ context.Context, _ map[string]any) (any, error) {
		return nil, errors.New("disk on fire")
	})
	r.Register(context.Background(), failing)

	result := r.Execute(context.Background(), "FailingMCP", map[string]any{}, "test-agent")
	assert.False(t, result.Success)
	assert.Equal(t, "disk on fire", result.Error)
}

func TestExecuteRecoversPanic(t *testing.T) {
	r := NewRegistry()
	panicky := NewFuncTool("PanicMCP", func(_ context.Context, _ map[string]any) (any, error) {
		panic("unexpected")
	})
	r.Register(context.Background(), panicky)

	result := r.Execute(context.Background(), "PanicMCP", map[string]any{}, "test-agent")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "tool panic")
}

func TestReRegistrationOverwrites(t *testing.T) {
	r := NewRegistry()
	first := NewFuncTool("VersionedMCP", func(_ context.Context, _ map[string]any) (any, error) {
		return "v1", nil
	})
	second := NewFuncTool("VersionedMCP", func(_ context.Context, _ map[string]any) (any, error) {
		return "v2", nil
	})

	r.Register(context.Background(), first)
	r.Register(context.Background(), second)

	result := r.Execute(context.Background(), "VersionedMCP", map[string]any{}, "test-agent")
	require.True(t, result.Success)
	assert.Equal(t, "v2", result.Output, "the newest binding wins")
	assert.Len(t, r.AvailableTools(), 1)
}

func TestExecutionAudit(t *testing.T) {
	s := store.NewInMemoryStore()
	r := NewRegistry(func(o *RegistryOptions) { o.Store = s })
	r.Register(context.Background(), echoTool("EchoMCP", func(o *FuncToolOptions) {
		o.InputSchema = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
			"required": []string{"text"},
		}
	}))

	r.Execute(context.Background(), "EchoMCP", map[string]any{"text": "audit me"}, "tool-agent")
	r.Execute(context.Background(), "EchoMCP", map[string]any{"text": 7}, "tool-agent")

	recs, err := s.Executions(context.Background(), "EchoMCP")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "completed", recs[0].Status)
	assert.Equal(t, "tool-agent", recs[0].RequestingAgent)
	assert.Equal(t, "failed", recs[1].Status)

	_, ok := s.Tool("EchoMCP")
	assert.True(t, ok, "registration persists the tool descriptor")
}

func TestAvailableToolsSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Register(context.Background(), echoTool("AlphaMCP", func(o *FuncToolOptions) {
		o.Category = "alpha"
		o.SecurityLevel = SecurityElevated
	}))
	r.Register(context.Background(), echoTool("BetaMCP"))

	infos := r.AvailableTools()
	require.Len(t, infos, 2)
	byName := map[string]Info{}
	for _, info := range infos {
		byName[info.Name] = info
	}
	assert.Equal(t, SecurityElevated, byName["AlphaMCP"].SecurityLevel)
	assert.True(t, byName["BetaMCP"].IsActive)
}
