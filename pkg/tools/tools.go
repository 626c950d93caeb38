// Package tools registers the MCP tool surface over a *mcp.Server: fetching
// and simplifying Figma design data, analyzing traversal depth before
// committing to a fetch, and downloading rendered or embedded images.
// Every tool follows the same contract: arguments and result are typed
// structs carrying jsonschema tags, and failures are returned as a tool
// result flagged IsError rather than as a Go error crossing the transport.
package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kataras/figma-mcp/internal/logging"
	"github.com/kataras/figma-mcp/pkg/depth"
	"github.com/kataras/figma-mcp/pkg/figma"
	"github.com/kataras/figma-mcp/pkg/imager"
	"github.com/kataras/figma-mcp/pkg/output"
	"github.com/kataras/figma-mcp/pkg/simplifier"
)

// Registry holds the collaborators shared by every registered tool: the
// authenticated Figma client, the output format the server was configured
// with, and a logger.
type Registry struct {
	Client       *figma.Client
	OutputFormat output.Format
	Log          logging.Logger
}

// Register adds every tool in the surface to server.
func (r *Registry) Register(server *mcp.Server) {
	r.registerGetFigmaData(server)
	r.registerAnalyzeDepth(server)
	r.registerDownloadImages(server)
}

func (r *Registry) format() output.Format {
	if r.OutputFormat == "" {
		return output.FormatYAML
	}
	return r.OutputFormat
}

// errorResult builds a failed tool result carrying a single-line message;
// it never returns a Go error so the failure stays within the tool result
// rather than crossing the transport boundary.
func errorResult(err error) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}, nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func validateGetFigmaDataArgs(args GetFigmaDataArgs) error {
	if args.FileKey == "" {
		return fmt.Errorf("fileKey is required")
	}
	return nil
}

func validateAnalyzeDepthArgs(args AnalyzeDepthArgs) error {
	if args.FileKey == "" {
		return fmt.Errorf("fileKey is required")
	}
	return nil
}

func validateDownloadImagesArgs(args DownloadImagesArgs) error {
	if args.FileKey == "" || args.LocalPath == "" || len(args.Nodes) == 0 {
		return fmt.Errorf("fileKey, nodes, and localPath are required")
	}
	for _, n := range args.Nodes {
		if n.NodeID == "" && n.ImageRef == "" {
			return fmt.Errorf("every node needs a nodeId or an imageRef")
		}
	}
	return nil
}

// --- get_figma_data ---

// GetFigmaDataArgs is the input schema for get_figma_data.
type GetFigmaDataArgs struct {
	FileKey string `json:"fileKey" jsonschema:"Figma file key, from the file's URL"`
	NodeID  string `json:"nodeId,omitempty" jsonschema:"Specific node id to fetch; omit to fetch the whole file"`
	Depth   int    `json:"depth,omitempty" jsonschema:"Maximum traversal depth; 0 uses the server default"`
}

// GetFigmaDataResult is the output shape: metadata is everything from
// SimplifiedDesign except nodes and globalVars, held separately so the
// payload groups naturally for the caller.
type GetFigmaDataResult struct {
	Metadata   designMetadata              `json:"metadata"`
	Nodes      []*simplifier.SimplifiedNode `json:"nodes"`
	GlobalVars simplifier.GlobalVars        `json:"globalVars"`
}

type designMetadata struct {
	Name          string                                  `json:"name"`
	LastModified  string                                  `json:"lastModified"`
	ThumbnailURL  string                                  `json:"thumbnailUrl,omitempty"`
	Components    map[string]simplifier.ComponentInfo    `json:"components,omitempty"`
	ComponentSets map[string]simplifier.ComponentSetInfo `json:"componentSets,omitempty"`
}

func (r *Registry) registerGetFigmaData(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_figma_data",
		Description: "Fetch a Figma file or a specific node and return its simplified, style-deduplicated design graph.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetFigmaDataArgs) (*mcp.CallToolResult, *GetFigmaDataResult, error) {
		log := r.Log.WithTool("get_figma_data")

		if err := validateGetFigmaDataArgs(args); err != nil {
			res, _, _ := errorResult(err)
			return res, nil, nil
		}

		maxDepth := args.Depth
		if maxDepth == 0 {
			maxDepth = simplifier.DefaultMaxDepth
		}
		g := &simplifier.GraphSimplifier{MaxDepth: maxDepth}

		var design *simplifier.SimplifiedDesign
		if args.NodeID != "" {
			log.Info().Str("nodeId", args.NodeID).Msg("fetching node")
			resp, err := r.Client.GetFileNodes(ctx, args.FileKey, []string{args.NodeID}, maxDepth)
			if err != nil {
				log.Warn().Err(err).Msg("upstream fetch failed")
				res, _, _ := errorResult(fmt.Errorf("fetch node: %w", err))
				return res, nil, nil
			}
			design = g.ParseNodesResponse(resp)
		} else {
			log.Info().Msg("fetching file")
			resp, err := r.Client.GetFile(ctx, args.FileKey, maxDepth)
			if err != nil {
				log.Warn().Err(err).Msg("upstream fetch failed")
				res, _, _ := errorResult(fmt.Errorf("fetch file: %w", err))
				return res, nil, nil
			}
			design = g.ParseFileResponse(resp)
		}

		result := &GetFigmaDataResult{
			Metadata: designMetadata{
				Name:          design.Name,
				LastModified:  design.LastModified,
				ThumbnailURL:  design.ThumbnailURL,
				Components:    design.Components,
				ComponentSets: design.ComponentSets,
			},
			Nodes:      design.Nodes,
			GlobalVars: design.GlobalVars,
		}

		rendered, err := output.Render(result, r.format())
		if err != nil {
			res, _, _ := errorResult(fmt.Errorf("render output: %w", err))
			return res, nil, nil
		}
		return textResult(rendered), result, nil
	})
}

// --- analyze_figma_depth ---

// AnalyzeDepthArgs is the input schema for analyze_figma_depth.
type AnalyzeDepthArgs struct {
	FileKey string `json:"fileKey" jsonschema:"Figma file key, from the file's URL"`
	NodeID  string `json:"nodeId,omitempty" jsonschema:"Specific node id to analyze; omit to analyze the whole file"`
}

// AnalyzeDepthResult is the output of analyze_figma_depth: the human
// readable report alongside the structured data it was built from.
type AnalyzeDepthResult struct {
	Report *depth.Report `json:"report"`
	Text   string        `json:"text"`
}

func (r *Registry) registerAnalyzeDepth(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_figma_depth",
		Description: "Estimate per-depth node counts and output size for a Figma file or node, before fetching it fully, and recommend a traversal depth.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args AnalyzeDepthArgs) (*mcp.CallToolResult, *AnalyzeDepthResult, error) {
		log := r.Log.WithTool("analyze_figma_depth")

		if err := validateAnalyzeDepthArgs(args); err != nil {
			res, _, _ := errorResult(err)
			return res, nil, nil
		}

		var root figma.Node
		if args.NodeID != "" {
			log.Info().Str("nodeId", args.NodeID).Msg("fetching node for depth analysis")
			resp, err := r.Client.GetFileNodes(ctx, args.FileKey, []string{args.NodeID}, 0)
			if err != nil {
				res, _, _ := errorResult(fmt.Errorf("fetch node: %w", err))
				return res, nil, nil
			}
			nd, ok := resp.Nodes[args.NodeID]
			if !ok {
				res, _, _ := errorResult(fmt.Errorf("node %q not found in response", args.NodeID))
				return res, nil, nil
			}
			root = nd.Document
		} else {
			log.Info().Msg("fetching file for depth analysis")
			resp, err := r.Client.GetFile(ctx, args.FileKey, 0)
			if err != nil {
				res, _, _ := errorResult(fmt.Errorf("fetch file: %w", err))
				return res, nil, nil
			}
			root = resp.Document
		}

		report := depth.Analyze(root)
		result := &AnalyzeDepthResult{Report: report, Text: report.Render()}
		return textResult(result.Text), result, nil
	})
}

// --- download_figma_images ---

// ImageNodeArg identifies one image to download: a node carrying an
// embedded IMAGE fill (imageRef set) to resolve via the file images API,
// or a node to render, with the target format taken from the fileName
// extension.
type ImageNodeArg struct {
	NodeID   string `json:"nodeId,omitempty" jsonschema:"Node id to render or resolve"`
	ImageRef string `json:"imageRef,omitempty" jsonschema:"Image fill reference; set for nodes with an embedded IMAGE fill"`
	FileName string `json:"fileName,omitempty" jsonschema:"Local file name; its extension (png or svg) selects the render format"`
}

// SVGOptionsArg tunes SVG rendering for nodes exported as SVG.
type SVGOptionsArg struct {
	OutlineText    bool `json:"outlineText,omitempty" jsonschema:"Render text as outlined paths"`
	IncludeID      bool `json:"includeId,omitempty" jsonschema:"Include node ids in SVG elements"`
	SimplifyStroke bool `json:"simplifyStroke,omitempty" jsonschema:"Simplify inner/outer strokes"`
}

// DownloadImagesArgs is the input schema for download_figma_images.
type DownloadImagesArgs struct {
	FileKey    string         `json:"fileKey" jsonschema:"Figma file key, from the file's URL"`
	Nodes      []ImageNodeArg `json:"nodes" jsonschema:"Nodes to download images for"`
	LocalPath  string         `json:"localPath" jsonschema:"Directory to write downloaded images into"`
	PNGScale   float64        `json:"pngScale,omitempty" jsonschema:"Scale factor for rendered PNGs; defaults to 1"`
	SVGOptions *SVGOptionsArg `json:"svgOptions,omitempty" jsonschema:"SVG render tuning for nodes exported as SVG"`
}

// DownloadImagesResult lists the paths written to disk.
type DownloadImagesResult struct {
	Written []string `json:"written"`
}

// partitionImageNodes splits the requested nodes per the tool contract:
// nodes carrying an imageRef resolve through the file images API; the rest
// are render requests, grouped by the format their fileName's extension
// names (svg renders as svg, everything else as png).
func partitionImageNodes(nodes []ImageNodeArg) (fills []imager.ImageFillNode, renders map[string]map[string]string) {
	renders = map[string]map[string]string{"png": {}, "svg": {}}
	for _, n := range nodes {
		if n.ImageRef != "" {
			fills = append(fills, imager.ImageFillNode{NodeID: n.NodeID, NodeName: n.FileName, ImageRef: n.ImageRef})
			continue
		}
		format := "png"
		if strings.EqualFold(filepath.Ext(n.FileName), ".svg") {
			format = "svg"
		}
		name := n.FileName
		if name == "" {
			name = n.NodeID
		}
		renders[format][n.NodeID] = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return fills, renders
}

func (r *Registry) registerDownloadImages(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "download_figma_images",
		Description: "Download images for a set of Figma nodes: embedded IMAGE fills are resolved via the file images API, everything else is rendered as PNG or SVG.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DownloadImagesArgs) (*mcp.CallToolResult, *DownloadImagesResult, error) {
		log := r.Log.WithTool("download_figma_images")

		if err := validateDownloadImagesArgs(args); err != nil {
			res, _, _ := errorResult(err)
			return res, nil, nil
		}
		scale := args.PNGScale
		if scale == 0 {
			scale = 1
		}

		fills, renders := partitionImageNodes(args.Nodes)

		var written []string
		appendAssets := func(result *imager.ExportResult) {
			for _, asset := range result.Assets {
				written = append(written, filepath.Join(args.LocalPath, asset.FileName))
			}
		}

		if len(fills) > 0 {
			log.Info().Int("count", len(fills)).Msg("resolving embedded image fills")
			fileImages, err := r.Client.GetFileImages(ctx, args.FileKey)
			if err != nil {
				res, _, _ := errorResult(fmt.Errorf("fetch file images: %w", err))
				return res, nil, nil
			}
			config := imager.ExportConfig{Format: "png", Scales: []float64{1}, OutputDir: args.LocalPath}
			result, err := imager.ExportImageFills(ctx, fileImages, fills, config)
			if err != nil {
				res, _, _ := errorResult(fmt.Errorf("export image fills: %w", err))
				return res, nil, nil
			}
			appendAssets(result)
			// Fills the file images API could not resolve fall back to
			// the render endpoint.
			for id, name := range imager.ImageFillNodesToMap(result.UnresolvedNodes) {
				renders["png"][id] = name
			}
		}

		// Defaults match what downstream agents expect from exported SVGs:
		// text outlined, stroke geometry simplified, no embedded node ids.
		svgOpts := &figma.SVGRenderOptions{OutlineText: true, SimplifyStroke: true}
		if args.SVGOptions != nil {
			svgOpts = &figma.SVGRenderOptions{
				OutlineText:    args.SVGOptions.OutlineText,
				IncludeID:      args.SVGOptions.IncludeID,
				SimplifyStroke: args.SVGOptions.SimplifyStroke,
			}
		}

		for format, nodes := range renders {
			if len(nodes) == 0 {
				continue
			}
			scales := []float64{1}
			if format == "png" {
				scales = []float64{scale}
			}
			config := imager.ExportConfig{Format: format, Scales: scales, OutputDir: args.LocalPath, SVG: svgOpts}

			log.Info().Int("count", len(nodes)).Str("format", format).Msg("rendering images")
			result, err := imager.ExportImages(ctx, r.Client, args.FileKey, nodes, config)
			if err != nil {
				res, _, _ := errorResult(fmt.Errorf("export images: %w", err))
				return res, nil, nil
			}
			appendAssets(result)
		}

		out := &DownloadImagesResult{Written: written}
		rendered, err := output.Render(out, r.format())
		if err != nil {
			res, _, _ := errorResult(fmt.Errorf("render output: %w", err))
			return res, nil, nil
		}
		return textResult(rendered), out, nil
	})
}
