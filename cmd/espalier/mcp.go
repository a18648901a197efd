package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	mcpadapter "github.com/aretw0/espalier/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the wizard engine as an MCP server.
This allows AI agents to drive setup conversations through tool calls.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		rt, err := newRuntime(cmd)
		if err != nil {
			fmt.Printf("Error initializing espalier: %v\n", err)
			os.Exit(1)
		}
		defer rt.Close()

		srv := mcpadapter.NewServer(rt.Handler, rt.Wizard, mcpadapter.WithLogger(rt.Logger))

		switch transport {
		case "stdio":
			// Logs go to stderr, so stdout stays clean for JSON-RPC.
			rt.Logger.Info("starting espalier mcp server (stdio)")
			if err := srv.ServeStdio(); err != nil {
				rt.Logger.Error("mcp server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			rt.Logger.Info("starting espalier mcp server (sse)", "port", port)

			// Create a context that cancels on interrupt signal
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				rt.Logger.Error("mcp server execution failed", "error", err)
				os.Exit(1)
			}
			rt.Logger.Info("mcp server stopped gracefully")
		default:
			fmt.Printf("Unknown transport: %s. Supported: stdio, sse\n", transport)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
