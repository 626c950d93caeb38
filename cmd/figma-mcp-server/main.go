package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/kataras/figma-mcp/internal/logging"
	"github.com/kataras/figma-mcp/pkg/figma"
	"github.com/kataras/figma-mcp/pkg/output"
	"github.com/kataras/figma-mcp/pkg/tools"
)

const version = "0.1.0"

var (
	figmaAPIKey     string
	figmaOAuthToken string
	port            int
	stdio           bool
	outputFormat    string
	envFile         string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "figma-mcp-server",
		Short: "Serve Figma design data over the Model Context Protocol",
		Long:  "An MCP server that fetches Figma files, simplifies their node graph, and exposes it to LLM tool callers",
		RunE:  run,
	}

	rootCmd.Flags().StringVar(&figmaAPIKey, "figma-api-key", os.Getenv("FIGMA_API_KEY"), "Figma personal access token (env: FIGMA_API_KEY)")
	rootCmd.Flags().StringVar(&figmaOAuthToken, "figma-oauth-token", os.Getenv("FIGMA_OAUTH_TOKEN"), "Figma OAuth bearer token (env: FIGMA_OAUTH_TOKEN)")
	rootCmd.Flags().IntVar(&port, "port", 0, "HTTP/SSE listen port (reserved; stdio is the only transport implemented)")
	rootCmd.Flags().BoolVar(&stdio, "stdio", true, "Serve over stdio")
	rootCmd.Flags().StringVar(&outputFormat, "output-format", "yaml", "Tool output format: yaml or json")
	rootCmd.Flags().StringVar(&envFile, "env-file", "", "Optional .env file to load before reading other flags/env vars")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("figma-mcp-server version %s\n", version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cyan := color.New(color.FgCyan)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)

	cyan.Fprintln(os.Stderr, "\n🎨 Figma MCP Server")
	cyan.Fprintln(os.Stderr, "====================")

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			red.Fprintf(os.Stderr, "Error: could not load env file %q: %v\n", envFile, err)
			os.Exit(1)
		}
		if figmaAPIKey == "" {
			figmaAPIKey = os.Getenv("FIGMA_API_KEY")
		}
		if figmaOAuthToken == "" {
			figmaOAuthToken = os.Getenv("FIGMA_OAUTH_TOKEN")
		}
	}

	// A missing credential is fatal at process start; it must never be
	// reached at request time.
	if figmaAPIKey == "" && figmaOAuthToken == "" {
		red.Fprintln(os.Stderr, "Error: no Figma credential configured; set --figma-api-key/FIGMA_API_KEY or --figma-oauth-token/FIGMA_OAUTH_TOKEN")
		os.Exit(1)
	}

	var client *figma.Client
	if figmaAPIKey != "" {
		client = figma.NewClient(figmaAPIKey)
	} else {
		client = figma.NewOAuthClient(figmaOAuthToken)
	}

	format := output.Format(outputFormat)
	if format != output.FormatYAML && format != output.FormatJSON {
		red.Fprintf(os.Stderr, "Error: invalid output format %q (must be yaml or json)\n", outputFormat)
		os.Exit(1)
	}

	log := logging.Default().WithComponent("figma-mcp-server")

	registry := &tools.Registry{Client: client, OutputFormat: format, Log: log}

	server := mcp.NewServer(&mcp.Implementation{Name: "figma-mcp-server", Version: version}, nil)
	registry.Register(server)

	if !stdio {
		return fmt.Errorf("only stdio transport is implemented; --stdio=false is not supported")
	}

	green.Fprintln(os.Stderr, "✓ serving over stdio")

	return server.Run(context.Background(), &mcp.StdioTransport{})
}
