package mcp

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nvandessel/leach/internal/ratelimit"
	"github.com/nvandessel/leach/internal/runner"
)

// Server wraps the MCP SDK server with the leach tools.
type Server struct {
	server   *sdk.Server
	runner   *runner.Runner
	limiters ratelimit.ToolLimiters
	log      *slog.Logger
	now      func() time.Time
	maxCells int
}

// Config holds server configuration.
type Config struct {
	Name    string       // Server name (e.g., "leach")
	Version string       // Server version
	Logger  *slog.Logger // Operational log; nil discards

	// MaxCells caps nodes*rounds per leach_simulate call. Zero uses DefaultMaxCells.
	MaxCells int
}

// DefaultMaxCells bounds the grid a single tool call may allocate.
const DefaultMaxCells = 1_000_000

// NewServer creates a new MCP server with the leach tools registered.
func NewServer(cfg *Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	maxCells := cfg.MaxCells
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}

	s := &Server{
		server: sdk.NewServer(&sdk.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		runner:   runner.New(logger),
		limiters: ratelimit.NewToolLimiters(),
		log:      logger,
		now:      time.Now,
		maxCells: maxCells,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "leach_simulate",
		Description: "Run a LEACH clusterhead election simulation and report the clusterheads of every round",
	}, s.handleSimulate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "leach_threshold",
		Description: "List the LEACH admission threshold for each round of a probability schedule",
	}, s.handleThreshold)
}

// Run serves over stdio until the client disconnects, ctx is cancelled or
// the process receives SIGINT/SIGTERM.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.log.Info("mcp server listening on stdio")
	if err := s.server.Run(ctx, &sdk.StdioTransport{}); err != nil && ctx.Err() == nil {
		return err
	}
	s.log.Info("mcp server stopped")
	return nil
}
