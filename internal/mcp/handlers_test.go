package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/neilotoole/slogt"
	"github.com/nvandessel/leach/internal/leach"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(&Config{
		Name:    "test-server",
		Version: "v1.0.0",
		Logger:  slogt.New(t),
	})
}

func TestNewServer(t *testing.T) {
	s := setupTestServer(t)
	if s.server == nil {
		t.Error("Server.server is nil")
	}
	if s.runner == nil {
		t.Error("Server.runner is nil")
	}
	if s.maxCells != DefaultMaxCells {
		t.Errorf("maxCells = %d, want %d", s.maxCells, DefaultMaxCells)
	}
	for _, tool := range []string{"leach_simulate", "leach_threshold"} {
		if _, ok := s.limiters[tool]; !ok {
			t.Errorf("no limiter for %s", tool)
		}
	}
}

func TestHandleSimulate(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	req := &sdk.CallToolRequest{}

	result, output, err := s.handleSimulate(ctx, req, SimulateInput{
		Nodes:       12,
		Rounds:      8,
		Probability: 0.25,
		Seed:        99,
	})
	if err != nil {
		t.Fatalf("handleSimulate failed: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result, got %v", result)
	}
	if output.Seed != 99 {
		t.Errorf("Seed = %d, want 99", output.Seed)
	}
	if output.Period != 4 {
		t.Errorf("Period = %d, want 4", output.Period)
	}
	if len(output.Rounds) != 8 {
		t.Fatalf("len(Rounds) = %d, want 8", len(output.Rounds))
	}

	total := 0
	for i, rb := range output.Rounds {
		if rb.Round != i+1 {
			t.Errorf("Rounds[%d].Round = %d, want %d", i, rb.Round, i+1)
		}
		if rb.Detail != nil {
			t.Errorf("Rounds[%d].Detail set without Decisions", i)
		}
		total += len(rb.Clusterheads)
	}
	if output.Elections != total {
		t.Errorf("Elections = %d, want %d", output.Elections, total)
	}
	if want := float64(total) / 8; output.MeanPerRound != want {
		t.Errorf("MeanPerRound = %v, want %v", output.MeanPerRound, want)
	}
	for _, name := range output.NeverElected {
		if !strings.HasPrefix(name, "N") {
			t.Errorf("unexpected node label %q", name)
		}
	}
}

func TestHandleSimulate_SameSeedSameResult(t *testing.T) {
	s := setupTestServer(t)
	in := SimulateInput{Nodes: 30, Rounds: 10, Probability: 0.1, Seed: 7}

	_, a, err := s.handleSimulate(context.Background(), &sdk.CallToolRequest{}, in)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	_, b, err := s.handleSimulate(context.Background(), &sdk.CallToolRequest{}, in)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if a.RunID == b.RunID {
		t.Error("expected distinct run IDs")
	}
	for i := range a.Rounds {
		if strings.Join(a.Rounds[i].Clusterheads, ",") != strings.Join(b.Rounds[i].Clusterheads, ",") {
			t.Errorf("round %d differs: %v vs %v", i+1, a.Rounds[i].Clusterheads, b.Rounds[i].Clusterheads)
		}
	}
}

func TestHandleSimulate_Decisions(t *testing.T) {
	s := setupTestServer(t)
	_, output, err := s.handleSimulate(context.Background(), &sdk.CallToolRequest{}, SimulateInput{
		Nodes: 4, Rounds: 3, Probability: 0.5, Seed: 1, Decisions: true,
	})
	if err != nil {
		t.Fatalf("handleSimulate failed: %v", err)
	}
	for i, rb := range output.Rounds {
		if rb.Detail == nil {
			t.Fatalf("Rounds[%d].Detail is nil", i)
		}
		if len(rb.Detail.Nodes) != 4 {
			t.Errorf("Rounds[%d] has %d node entries, want 4", i, len(rb.Detail.Nodes))
		}
	}
}

func TestHandleSimulate_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   SimulateInput
		want string
	}{
		{"zero nodes", SimulateInput{Nodes: 0, Rounds: 5, Probability: 0.1}, "invalid configuration"},
		{"probability one", SimulateInput{Nodes: 5, Rounds: 5, Probability: 1}, "invalid configuration"},
		{"too many cells", SimulateInput{Nodes: 2000, Rounds: 1000, Probability: 0.1}, "exceeds the limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestServer(t)
			_, _, err := s.handleSimulate(context.Background(), &sdk.CallToolRequest{}, tt.in)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestHandleSimulate_RateLimited(t *testing.T) {
	s := setupTestServer(t)
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	in := SimulateInput{Nodes: 2, Rounds: 2, Probability: 0.5, Seed: 1}

	for i := range 5 {
		if _, _, err := s.handleSimulate(context.Background(), &sdk.CallToolRequest{}, in); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	_, _, err := s.handleSimulate(context.Background(), &sdk.CallToolRequest{}, in)
	if err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestHandleThreshold(t *testing.T) {
	s := setupTestServer(t)
	_, output, err := s.handleThreshold(context.Background(), &sdk.CallToolRequest{}, ThresholdInput{
		Probability: 0.1,
		Rounds:      12,
	})
	if err != nil {
		t.Fatalf("handleThreshold failed: %v", err)
	}
	if output.Period != 10 {
		t.Errorf("Period = %d, want 10", output.Period)
	}
	if len(output.Thresholds) != 12 {
		t.Fatalf("len(Thresholds) = %d, want 12", len(output.Thresholds))
	}
	for r, got := range output.Thresholds {
		want, err := leach.Threshold(0.1, r)
		if err != nil {
			t.Fatalf("Threshold(0.1, %d): %v", r, err)
		}
		if got != want {
			t.Errorf("Thresholds[%d] = %v, want %v", r, got, want)
		}
	}
	if output.Thresholds[9] != 0.1 {
		t.Errorf("Thresholds[9] = %v, want p", output.Thresholds[9])
	}
	if output.Thresholds[10] != output.Thresholds[0] {
		t.Errorf("Thresholds[10] = %v, want %v", output.Thresholds[10], output.Thresholds[0])
	}
}

func TestHandleThreshold_Invalid(t *testing.T) {
	s := setupTestServer(t)
	if _, _, err := s.handleThreshold(context.Background(), &sdk.CallToolRequest{}, ThresholdInput{Probability: 0.1}); err == nil {
		t.Error("expected error for zero rounds")
	}
	if _, _, err := s.handleThreshold(context.Background(), &sdk.CallToolRequest{}, ThresholdInput{Probability: 0, Rounds: 3}); err == nil {
		t.Error("expected error for zero probability")
	}
}
