// Package logging provides the structured logger used by the long-running
// MCP server process. The CLI banner printed directly to the terminal
// (cmd/figma-mcp-server) stays on fatih/color; this package is for
// everything that happens after the server starts accepting requests.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger with the fields every log line in this
// server carries: component and, once a request is in flight, tool name.
type Logger struct {
	zerolog.Logger
}

// New builds a Logger writing to w. When pretty is true, output goes
// through zerolog's ConsoleWriter (human-readable, for local/stdio use);
// otherwise it's newline-delimited JSON, suited to being piped into a log
// aggregator when the server runs as a long-lived process.
func New(w io.Writer, pretty bool) Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	zl := zerolog.New(w).With().Timestamp().Logger()
	return Logger{Logger: zl}
}

// Default builds a Logger writing JSON lines to stderr, leaving stdout free
// for the MCP stdio transport's protocol traffic.
func Default() Logger {
	return New(os.Stderr, false)
}

// WithComponent returns a child logger tagging every line with component,
// e.g. "figma-client" or "tools".
func (l Logger) WithComponent(component string) Logger {
	return Logger{Logger: l.Logger.With().Str("component", component).Logger()}
}

// WithTool returns a child logger tagging every line with the MCP tool name
// currently being served.
func (l Logger) WithTool(tool string) Logger {
	return Logger{Logger: l.Logger.With().Str("tool", tool).Logger()}
}
