// Package main provides the CLI entry point for agenthub.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pronetheia/agenthub"
	"github.com/pronetheia/agenthub/config"
	"github.com/pronetheia/agenthub/core"
)

var version = "0.3.0"

var (
	configPath  string
	chatMessage string
	chatUserID  string
	taskAgent   string
	taskText    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "agenthub",
	Short: "Agenthub - self-evolving multi-agent orchestration backend",
	Long: `Agenthub runs a coordinated multi-agent system: a chat agent for user
conversation, an evolution agent for self-analysis and capability
generation, a tool agent fronting the MCP tool registry, and a project
management agent for coordination tasks.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")

	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "user message to route")
	chatCmd.Flags().StringVarP(&chatUserID, "user", "u", "cli", "user id attached to the message")
	_ = chatCmd.MarkFlagRequired("message")

	taskCmd.Flags().StringVarP(&taskAgent, "agent", "a", "", "target agent id")
	taskCmd.Flags().StringVarP(&taskText, "task", "t", "", "task text")
	_ = taskCmd.MarkFlagRequired("agent")
	_ = taskCmd.MarkFlagRequired("task")

	rootCmd.AddCommand(runCmd, chatCmd, taskCmd, toolsCmd, agentsCmd)
}

// startHub loads config and brings the system up.
func startHub(ctx context.Context) (*agenthub.AgentHub, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	h, err := agenthub.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := h.Start(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the agent system and block until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		h, err := startHub(ctx)
		if err != nil {
			return err
		}

		fmt.Println("agenthub running; press Ctrl+C to stop")
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		return h.Stop(context.Background())
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Route a single user message through the chat agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		h, err := startHub(ctx)
		if err != nil {
			return err
		}
		defer h.Stop(context.Background())

		resp := h.RouteUserMessage(ctx, chatMessage, chatUserID)
		return printJSON(resp)
	},
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Execute a task on a specific agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		h, err := startHub(ctx)
		if err != nil {
			return err
		}
		defer h.Stop(context.Background())

		resp := h.ExecuteAgentTask(ctx, taskAgent, core.TaskPayload{Text: taskText})
		return printJSON(resp)
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List registered tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		h, err := startHub(ctx)
		if err != nil {
			return err
		}
		defer h.Stop(context.Background())

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCATEGORY\tSECURITY\tDESCRIPTION")
		for _, info := range h.Service().Registry().AvailableTools() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				info.Name, info.Category, info.SecurityLevel, info.Description)
		}
		return w.Flush()
	},
}

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Show agent health statuses",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		h, err := startHub(ctx)
		if err != nil {
			return err
		}
		defer h.Stop(context.Background())

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "AGENT\tSTATUS\tHEALTHY\tLAST ACTIVITY")
		for _, hs := range h.AgentStatuses() {
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\n",
				hs.AgentID, hs.Status, hs.Healthy, hs.LastActivity.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
