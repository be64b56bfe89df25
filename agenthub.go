// Package agenthub provides a high-level façade over the orchestration
// service: it turns a Config into a wired system (model adapter, optional
// Postgres store, hub, registry and the four core agents). Most applications
// interact with this package by:
//  1. Loading a config.Config (config.Load or config.Default)
//  2. Creating an AgentHub via New()
//  3. Starting it with Start(), routing messages, then Stop()
//
// All defaults are safe for local development: a mock model, an in-memory
// store and a "workspace" sandbox directory.
package agenthub

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/pronetheia/agenthub/config"
	"github.com/pronetheia/agenthub/core"
	"github.com/pronetheia/agenthub/logging"
	"github.com/pronetheia/agenthub/model"
	"github.com/pronetheia/agenthub/model/anthropic"
	"github.com/pronetheia/agenthub/model/openai"
	"github.com/pronetheia/agenthub/orchestration"
	"github.com/pronetheia/agenthub/store"
	"github.com/pronetheia/agenthub/store/postgres"
)

// AgentHub aggregates the orchestration service with the resources built
// from configuration.
type AgentHub struct {
	cfg     config.Config
	logger  logging.Logger
	service *orchestration.Service
	db      *sql.DB
}

// New wires an AgentHub from configuration. Nothing runs until Start.
func New(ctx context.Context, cfg config.Config) (*AgentHub, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.New(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format, os.Stderr)

	m, err := buildModel(cfg.LLM)
	if err != nil {
		return nil, err
	}

	var (
		st store.Store = store.NewInMemoryStore()
		db *sql.DB
	)
	if cfg.Database.DSN != "" {
		pg, err := postgres.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		st = pg
		db = pg.DB()
	}

	service := orchestration.New(m, func(o *orchestration.Options) {
		o.Logger = logger
		o.Workspace = cfg.Workspace
		o.DB = db
		o.Store = st
		o.AnalysisInterval = cfg.Evolution.AnalysisInterval
	})

	return &AgentHub{cfg: cfg, logger: logger, service: service, db: db}, nil
}

// buildModel selects the model adapter for the configured provider.
func buildModel(cfg config.LLMConfig) (model.Model, error) {
	switch cfg.Provider {
	case "mock", "":
		return model.NewMockModel(), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = cfg.APIKey
			if cfg.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Model)
			}
		}), nil
	case "openai", "openrouter":
		return openai.NewModel(func(o *openai.Options) {
			o.APIKey = cfg.APIKey
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			if cfg.BaseURL != "" {
				o.BaseURL = cfg.BaseURL
			} else if cfg.Provider == "openrouter" {
				o.BaseURL = "https://openrouter.ai/api/v1"
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// Start initializes agents and tools and starts message dispatch.
func (h *AgentHub) Start(ctx context.Context) error {
	return h.service.InitializeAgents(ctx)
}

// RouteUserMessage sends a user message through the chat agent.
func (h *AgentHub) RouteUserMessage(ctx context.Context, message, userID string) *core.AgentResponse {
	return h.service.RouteUserMessage(ctx, message, userID)
}

// ExecuteAgentTask sends a task payload directly to the named agent.
func (h *AgentHub) ExecuteAgentTask(ctx context.Context, agentID string, task core.Payload) *core.AgentResponse {
	return h.service.ExecuteAgentTask(ctx, agentID, task)
}

// AgentStatuses returns the health of every registered agent.
func (h *AgentHub) AgentStatuses() []core.HealthStatus {
	return h.service.GetAgentStatuses()
}

// Service exposes the underlying orchestration service.
func (h *AgentHub) Service() *orchestration.Service { return h.service }

// Stop shuts the system down and closes the database if one was opened.
func (h *AgentHub) Stop(ctx context.Context) error {
	err := h.service.Shutdown(ctx)
	if h.db != nil {
		if cerr := h.db.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
