package observability

import (
	"context"
	"time"

	"careercompass/internal/ai"
)

// GatewayHook adapts the metrics registry to the gateway's MetricsHook port.
type GatewayHook struct {
	manager *ObservabilityManager
}

var _ ai.MetricsHook = (*GatewayHook)(nil)

// NewGatewayHook creates a hook bound to an observability manager.
func NewGatewayHook(manager *ObservabilityManager) *GatewayHook {
	return &GatewayHook{manager: manager}
}

// RecordAIOperation implements ai.MetricsHook.
func (h *GatewayHook) RecordAIOperation(ctx context.Context, operation string, duration time.Duration, success bool, usage *ai.TokenUsage) {
	var tu *TokenUsage
	if usage != nil {
		tu = &TokenUsage{
			InputTokens:  usage.InputTokens,
			OutputTokens: usage.OutputTokens,
			TotalTokens:  usage.TotalTokens,
		}
	}
	h.manager.GetMetrics().RecordAIOutcome(ctx, operation, duration, success, tu, h.manager)
}

// RecordFallback implements ai.MetricsHook.
func (h *GatewayHook) RecordFallback(ctx context.Context, operation string) {
	h.manager.GetMetrics().RecordGatewayFallback(ctx, operation, h.manager)
}
