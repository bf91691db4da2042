// Package mcp provides an MCP (Model Context Protocol) server for leach.
package mcp

import "github.com/nvandessel/leach/internal/report"

// SimulateInput defines the input for the leach_simulate tool.
type SimulateInput struct {
	Nodes       int     `json:"nodes" jsonschema:"Number of nodes in the network (positive)"`
	Rounds      int     `json:"rounds" jsonschema:"Number of rounds to simulate (positive)"`
	Probability float64 `json:"probability" jsonschema:"Desired clusterhead fraction p, strictly between 0 and 1"`
	Seed        uint64  `json:"seed,omitempty" jsonschema:"Seed for the random draws; 0 picks a fresh seed"`
	Decisions   bool    `json:"decisions,omitempty" jsonschema:"Include per-node draws and category lists for every round"`
}

// SimulateOutput defines the output for the leach_simulate tool.
type SimulateOutput struct {
	RunID        string       `json:"run_id" jsonschema:"Identifier of this run"`
	Seed         uint64       `json:"seed" jsonschema:"Seed used, for reproducing the run"`
	Period       int          `json:"period" jsonschema:"Cooldown period in rounds (1/p truncated)"`
	Rounds       []RoundBrief `json:"rounds" jsonschema:"Per-round results"`
	Elections    int          `json:"elections" jsonschema:"Total clusterhead elections"`
	MeanPerRound float64      `json:"mean_per_round" jsonschema:"Average clusterheads per round"`
	NeverElected []string     `json:"never_elected" jsonschema:"Nodes never elected during the run"`
}

// RoundBrief is one round in a SimulateOutput.
type RoundBrief struct {
	Round        int                  `json:"round"`
	Theta        float64              `json:"theta"`
	Clusterheads []string             `json:"clusterheads"`
	Detail       *report.RoundSummary `json:"detail,omitempty"`
}

// ThresholdInput defines the input for the leach_threshold tool.
type ThresholdInput struct {
	Probability float64 `json:"probability" jsonschema:"Admission probability p, strictly between 0 and 1"`
	Rounds      int     `json:"rounds" jsonschema:"Number of rounds to list (positive)"`
}

// ThresholdOutput defines the output for the leach_threshold tool.
type ThresholdOutput struct {
	Period     int       `json:"period" jsonschema:"Cooldown period in rounds"`
	Thresholds []float64 `json:"thresholds" jsonschema:"Admission threshold for each round, first round first"`
}
