package figmamcp

import (
	"context"
	"fmt"

	"github.com/kataras/figma-mcp/pkg/figma"
	"github.com/kataras/figma-mcp/pkg/output"
	"github.com/kataras/figma-mcp/pkg/simplifier"
)

// Options configures one design-data fetch and simplification.
type Options struct {
	// AccessToken is a personal access token, sent via X-Figma-Token.
	// At least one of AccessToken and OAuthToken must be set; when both
	// are, AccessToken is used and OAuthToken is ignored.
	AccessToken string
	// OAuthToken is an OAuth bearer token, sent via the Authorization
	// header. Used only when AccessToken is empty.
	OAuthToken string

	FileURL string   // Figma file URL; file key and node IDs are parsed from it
	NodeIDs []string // explicit node IDs; overrides any node IDs found in FileURL

	MaxDepth     int           // 0 = simplifier.DefaultMaxDepth
	OutputFormat output.Format // "" = output.FormatYAML

	Logger Logger // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Result is the outcome of GetDesignData: the simplified design graph and
// its serialized form in the requested output format.
type Result struct {
	FileName string
	Design   *simplifier.SimplifiedDesign
	Output   string
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) newClient() (*figma.Client, error) {
	switch {
	case o.AccessToken != "":
		return figma.NewClient(o.AccessToken), nil
	case o.OAuthToken != "":
		return figma.NewOAuthClient(o.OAuthToken), nil
	default:
		return nil, fmt.Errorf("no credential configured: set AccessToken or OAuthToken")
	}
}

// GetDesignData fetches a Figma file (or a specific set of nodes within
// it), simplifies the resulting design graph, and serializes it. It is the
// library-level equivalent of the get_figma_data MCP tool, usable without
// the MCP transport.
func GetDesignData(ctx context.Context, opts Options) (*Result, error) {
	client, err := opts.newClient()
	if err != nil {
		return nil, err
	}

	opts.logInfo("extracting file key from URL")
	fileKey, err := figma.ExtractFileKey(opts.FileURL)
	if err != nil {
		return nil, fmt.Errorf("extract file key: %w", err)
	}

	nodeIDs := opts.NodeIDs
	if len(nodeIDs) == 0 {
		urlNodeIDs, err := figma.ExtractNodeIDs(opts.FileURL)
		if err != nil {
			return nil, fmt.Errorf("extract node IDs from URL: %w", err)
		}
		nodeIDs = urlNodeIDs
	}

	maxDepth := opts.MaxDepth
	if maxDepth == 0 {
		maxDepth = simplifier.DefaultMaxDepth
	}
	g := &simplifier.GraphSimplifier{MaxDepth: maxDepth}

	var (
		design   *simplifier.SimplifiedDesign
		fileName string
	)
	if len(nodeIDs) > 0 {
		opts.logInfo("fetching %d node(s) from figma", len(nodeIDs))
		resp, err := client.GetFileNodes(ctx, fileKey, nodeIDs, maxDepth)
		if err != nil {
			return nil, fmt.Errorf("fetch nodes: %w", err)
		}
		fileName = resp.Name
		design = g.ParseNodesResponse(resp)
	} else {
		opts.logInfo("fetching entire file from figma")
		resp, err := client.GetFile(ctx, fileKey, maxDepth)
		if err != nil {
			return nil, fmt.Errorf("fetch file: %w", err)
		}
		fileName = resp.Name
		design = g.ParseFileResponse(resp)
	}

	format := opts.OutputFormat
	if format == "" {
		format = output.FormatYAML
	}
	rendered, err := output.Render(design, format)
	if err != nil {
		return nil, fmt.Errorf("render output: %w", err)
	}

	return &Result{FileName: fileName, Design: design, Output: rendered}, nil
}
