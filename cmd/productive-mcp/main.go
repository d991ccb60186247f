// Productive MCP Server
//
// Exposes Productive (tasks, projects, budgets, pages, time tracking)
// as MCP tools for AI assistants, with a built-in rate-limit gate so
// agent-driven bursts never exceed the Productive API quota.
//
// Usage:
//
//	productive-mcp serve     # Start MCP server (stdio transport)
//	productive-mcp version   # Print the version
package main

import (
	"fmt"
	"os"

	"github.com/TheSiteDoctor/ProductiveMCP/internal/config"
	mcpserver "github.com/TheSiteDoctor/ProductiveMCP/internal/server"
	"github.com/TheSiteDoctor/ProductiveMCP/internal/updater"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("productive-mcp v%s\n", mcpserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present, convenient for local development; real
	// deployments set the variables in the MCP server config.
	_ = godotenv.Load()

	s, cleanup, err := mcpserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Background version check; prints to stderr so it doesn't
	// interfere with MCP's stdio transport on stdout.
	go checkForUpdates()

	return server.ServeStdio(s)
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr if a newer release exists. Best-effort: network failures
// are silently ignored.
func checkForUpdates() {
	result := updater.Check(mcpserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  Update available: v%s -> v%s\n  Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Productive MCP Server v%s

Usage:
  productive-mcp serve     Start the MCP server (stdio transport)
  productive-mcp version   Print the version

Configuration (environment variables, or a .env file):
  %s   Your Productive API token (required)
  %s      Your Productive organization ID (required)

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "productive": {
        "command": "productive-mcp",
        "args": ["serve"],
        "env": {
          "PRODUCTIVE_API_TOKEN": "...",
          "PRODUCTIVE_ORG_ID": "..."
        }
      }
    }
  }
`, mcpserver.Version, config.EnvAPIToken, config.EnvOrgID)
}
