// Package ratelimit provides per-tool token bucket limits for MCP tools.
package ratelimit

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// ToolLimiters maps tool names to their token buckets.
type ToolLimiters map[string]*rate.Limiter

// NewToolLimiters creates the default set of per-tool rate limiters.
func NewToolLimiters() ToolLimiters {
	return ToolLimiters{
		"leach_simulate":  rate.NewLimiter(rate.Every(2*time.Second), 5), // 30/minute, burst 5
		"leach_threshold": rate.NewLimiter(rate.Limit(2), 20),            // 120/minute, burst 20
	}
}

// CheckLimit consumes a token for toolName at now. Tools without a
// limiter are always allowed.
func CheckLimit(limiters ToolLimiters, toolName string, now time.Time) error {
	limiter, ok := limiters[toolName]
	if !ok {
		return nil
	}

	if !limiter.AllowN(now, 1) {
		return fmt.Errorf("rate limit exceeded for %s, please try again shortly", toolName)
	}
	return nil
}
