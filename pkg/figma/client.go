package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const figmaAPIBase = "https://api.figma.com/v1"

// AuthMode selects which Figma authentication scheme a Client uses. Exactly
// one is active per client, resolved at construction.
type AuthMode int

const (
	// AuthPAT sends the token in the X-Figma-Token header.
	AuthPAT AuthMode = iota
	// AuthOAuth sends the token as a standard "Authorization: Bearer" header.
	AuthOAuth
)

// Client represents a Figma API client with configured HTTP settings for
// reliable communication with the Figma API, exactly one active
// authentication mode, and a fetcher that retries then falls back to a
// command-line transfer tool.
type Client struct {
	mode        AuthMode
	accessToken string
	tokenSource oauth2.TokenSource
	fetcher     *Fetcher
}

// NewClient creates a Figma API client authenticated with a personal access
// token, sent via the X-Figma-Token header.
func NewClient(accessToken string) *Client {
	return &Client{
		mode:        AuthPAT,
		accessToken: accessToken,
		fetcher:     NewFetcher(newHTTPClient()),
	}
}

// NewOAuthClient creates a Figma API client authenticated with an OAuth
// bearer token, sent via the standard Authorization header.
func NewOAuthClient(token string) *Client {
	return &Client{
		mode:        AuthOAuth,
		tokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		fetcher:     NewFetcher(newHTTPClient()),
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout:   10 * time.Minute,
		Transport: defaultHTTPTransport(),
	}
}

// authHeaders returns the single header map appropriate to this client's
// active authentication mode.
func (c *Client) authHeaders(ctx context.Context) (map[string]string, error) {
	switch c.mode {
	case AuthOAuth:
		tok, err := c.tokenSource.Token()
		if err != nil {
			return nil, fmt.Errorf("resolve oauth token: %w", err)
		}
		return map[string]string{"Authorization": "Bearer " + tok.AccessToken}, nil
	default:
		return map[string]string{"X-Figma-Token": c.accessToken}, nil
	}
}

// ExtractFileKey extracts the unique file identifier from a Figma URL.
// Supports both /file/ and /design/ URL patterns (e.g., figma.com/file/ABC123/Design-Name).
// Returns an error if the URL format is invalid or if the URL doesn't match the expected Figma domain pattern.
func ExtractFileKey(figmaURL string) (string, error) {
	re := regexp.MustCompile(`^https?://(?:www\.)?figma\.com/(?:file|design)/([A-Za-z0-9]+)(?:/|$)`)
	matches := re.FindStringSubmatch(figmaURL)

	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Figma URL format: must be a valid figma.com URL with /file/ or /design/ path")
	}

	return matches[1], nil
}

// ExtractNodeIDs extracts node identifiers from a Figma URL.
// Supports multiple formats:
//   - Query parameter: ?node-id=123:456 or ?node-id=123-456 or ?node-id=123:456,789:012
//   - Hash fragment: #123:456 or #123:456,789:012
//   - Path format: /nodes/123:456 or /nodes/123:456,789:012
//
// Returns an empty slice if no node IDs are found (not an error).
// Normalizes URL-encoded colons (123-456 → 123:456).
func ExtractNodeIDs(figmaURL string) ([]string, error) {
	nodeIDs := make([]string, 0)

	queryRe := regexp.MustCompile(`[?&]node-id=([^&]+)`)
	if matches := queryRe.FindStringSubmatch(figmaURL); len(matches) >= 2 {
		ids := strings.Split(matches[1], ",")
		for _, id := range ids {
			id = strings.ReplaceAll(strings.TrimSpace(id), "-", ":")
			if id != "" {
				nodeIDs = append(nodeIDs, id)
			}
		}
		return deduplicateNodeIDs(nodeIDs), nil
	}

	hashRe := regexp.MustCompile(`#([0-9:-]+(?:,[0-9:-]+)*)`)
	if matches := hashRe.FindStringSubmatch(figmaURL); len(matches) >= 2 {
		ids := strings.Split(matches[1], ",")
		for _, id := range ids {
			id = strings.TrimSpace(id)
			if id != "" {
				nodeIDs = append(nodeIDs, id)
			}
		}
		return deduplicateNodeIDs(nodeIDs), nil
	}

	pathRe := regexp.MustCompile(`/nodes/([0-9:-]+(?:,[0-9:-]+)*)`)
	if matches := pathRe.FindStringSubmatch(figmaURL); len(matches) >= 2 {
		ids := strings.Split(matches[1], ",")
		for _, id := range ids {
			id = strings.TrimSpace(id)
			if id != "" {
				nodeIDs = append(nodeIDs, id)
			}
		}
		return deduplicateNodeIDs(nodeIDs), nil
	}

	return nodeIDs, nil
}

// deduplicateNodeIDs removes duplicate node IDs while preserving order.
func deduplicateNodeIDs(nodeIDs []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(nodeIDs))

	for _, id := range nodeIDs {
		if !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}

	return result
}

// wireDepth computes the depth query parameter sent upstream: a buffer of
// two beyond the caller-visible depth so wrapper elision can still inspect
// one extra layer, capped at 10.
func wireDepth(callerDepth int) int {
	d := callerDepth + 2
	if d > 10 {
		d = 10
	}
	return d
}

// GetFile retrieves complete file data from the Figma API including
// document structure, styles, and metadata. If depth is > 0 it is widened
// per wireDepth and forwarded as the upstream depth parameter.
func (c *Client) GetFile(ctx context.Context, fileKey string, depth int) (*FileResponse, error) {
	url := fmt.Sprintf("%s/files/%s", figmaAPIBase, fileKey)
	if depth > 0 {
		url = fmt.Sprintf("%s?depth=%d", url, wireDepth(depth))
	}

	body, err := c.doFetch(ctx, url)
	if err != nil {
		return nil, err
	}

	var fileResp FileResponse
	if err := json.Unmarshal(body, &fileResp); err != nil {
		return nil, fmt.Errorf("parse file response: %w", err)
	}
	return &fileResp, nil
}

// GetFileNodes retrieves specific nodes from a Figma file by their node IDs.
func (c *Client) GetFileNodes(ctx context.Context, fileKey string, nodeIDs []string, depth int) (*NodesResponse, error) {
	if len(nodeIDs) == 0 {
		return nil, fmt.Errorf("no node IDs provided")
	}

	idsParam := strings.Join(nodeIDs, ",")
	url := fmt.Sprintf("%s/files/%s/nodes?ids=%s", figmaAPIBase, fileKey, idsParam)
	if depth > 0 {
		url = fmt.Sprintf("%s&depth=%d", url, wireDepth(depth))
	}

	body, err := c.doFetch(ctx, url)
	if err != nil {
		return nil, err
	}

	var nodesResp NodesResponse
	if err := json.Unmarshal(body, &nodesResp); err != nil {
		return nil, fmt.Errorf("parse nodes response: %w", err)
	}

	if len(nodesResp.Nodes) == 0 {
		return nil, fmt.Errorf("no nodes found for the provided IDs: %s", idsParam)
	}

	return &nodesResp, nil
}

// SVGRenderOptions tunes the render endpoint's SVG output.
type SVGRenderOptions struct {
	OutlineText    bool
	IncludeID      bool
	SimplifyStroke bool
}

// GetImages retrieves rendered images for the specified nodes from the
// Figma Images API. Supports format (png, svg, jpg, pdf), scale factor
// for raster formats, and optional SVG render tuning.
func (c *Client) GetImages(ctx context.Context, fileKey string, nodeIDs []string, format string, scale float64, svg *SVGRenderOptions) (*ImageResponse, error) {
	if len(nodeIDs) == 0 {
		return nil, fmt.Errorf("no node IDs provided")
	}
	if format == "" {
		format = "png"
	}
	if scale <= 0 {
		scale = 1
	}

	idsParam := strings.Join(nodeIDs, ",")
	url := fmt.Sprintf("%s/images/%s?ids=%s&format=%s&scale=%g", figmaAPIBase, fileKey, idsParam, format, scale)
	if format == "svg" && svg != nil {
		url += fmt.Sprintf("&svg_outline_text=%t&svg_include_id=%t&svg_simplify_stroke=%t",
			svg.OutlineText, svg.IncludeID, svg.SimplifyStroke)
	}

	body, err := c.doFetch(ctx, url)
	if err != nil {
		return nil, err
	}

	var imgResp ImageResponse
	if err := json.Unmarshal(body, &imgResp); err != nil {
		return nil, fmt.Errorf("parse images response: %w", err)
	}
	if imgResp.Err != nil {
		return nil, fmt.Errorf("figma images api error: %s", *imgResp.Err)
	}
	return &imgResp, nil
}

// GetFileImages retrieves download URLs for all embedded images in a Figma
// file. Calls GET /v1/files/:key/images and returns a map of imageRef ->
// download URL.
func (c *Client) GetFileImages(ctx context.Context, fileKey string) (*FileImagesResponse, error) {
	url := fmt.Sprintf("%s/files/%s/images", figmaAPIBase, fileKey)

	body, err := c.doFetch(ctx, url)
	if err != nil {
		return nil, err
	}

	var imgResp FileImagesResponse
	if err := json.Unmarshal(body, &imgResp); err != nil {
		return nil, fmt.Errorf("parse file images response: %w", err)
	}
	if imgResp.Err != nil {
		return nil, fmt.Errorf("figma file images api error: %s", *imgResp.Err)
	}
	return &imgResp, nil
}

// GetFileStyles retrieves all published styles (colors, text, effects,
// grids) from a Figma file.
func (c *Client) GetFileStyles(ctx context.Context, fileKey string) (*StylesResponse, error) {
	url := fmt.Sprintf("%s/files/%s/styles", figmaAPIBase, fileKey)

	body, err := c.doFetch(ctx, url)
	if err != nil {
		return nil, err
	}

	var stylesResp StylesResponse
	if err := json.Unmarshal(body, &stylesResp); err != nil {
		return nil, fmt.Errorf("parse styles response: %w", err)
	}
	return &stylesResp, nil
}

func (c *Client) doFetch(ctx context.Context, url string) ([]byte, error) {
	headers, err := c.authHeaders(ctx)
	if err != nil {
		return nil, err
	}
	return c.fetcher.FetchJSON(ctx, url, headers)
}
