// Package figmamcp fetches Figma design files and simplifies their node
// graph into a compact, LLM-friendly representation: styles deduplicated
// and interned into a shared variable table, repetitive rows collapsed,
// deep subtrees clamped with a placeholder, and vector art rewritten to an
// image reference.
//
// The MCP server lives in cmd/figma-mcp-server; this root package exposes
// the same pipeline as a Go API so that callers can embed it without
// speaking the MCP protocol.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named figmamcp:
//
//	import "github.com/kataras/figma-mcp" // package figmamcp
//
// # Quick start
//
//	result, err := figmamcp.GetDesignData(ctx, figmamcp.Options{
//	    AccessToken: os.Getenv("FIGMA_API_KEY"),
//	    FileURL:     "https://www.figma.com/design/ABC123/My-Design",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Output)
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output.
package figmamcp
