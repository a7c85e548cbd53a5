// ABOUTME: Advisory relay to the hosted Anthropic Messages API
// ABOUTME: Sends the parameter snapshot plus question, returns formatted commentary

package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/singleflight"

	"github.com/rsheldon/robotaxi-economics/models"
)

// ErrAdvisorDisabled indicates no API key is configured; the simulator keeps
// working without commentary and handlers map this to 503.
var ErrAdvisorDisabled = errors.New("advisor not configured")

// Advisor relays questions about the current simulation state to the hosted
// model. It never interprets or validates the model's output; it only
// guarantees the prompt carries a complete, consistent snapshot.
type Advisor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	enabled   bool
	group     singleflight.Group
}

// NewAdvisor creates an advisor. An empty API key yields a disabled advisor
// whose methods return ErrAdvisorDisabled. Extra request options are applied
// to the underlying client (tests inject a stub HTTP client this way).
func NewAdvisor(apiKey, model string, maxTokens int, opts ...option.RequestOption) *Advisor {
	a := &Advisor{
		model:     model,
		maxTokens: int64(maxTokens),
	}
	if apiKey != "" {
		clientOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
		a.client = anthropic.NewClient(clientOpts...)
		a.enabled = true
	}
	return a
}

// Enabled reports whether the hosted-model credentials are configured.
func (a *Advisor) Enabled() bool {
	return a.enabled
}

// Model returns the configured model identifier.
func (a *Advisor) Model() string {
	return a.model
}

// Ask sends the question with the snapshot embedded in the system prompt and
// returns the commentary. Identical concurrent requests are coalesced into a
// single upstream call.
func (a *Advisor) Ask(ctx context.Context, in models.SimulationInputs, metrics models.MetricsResponse, question string) (string, error) {
	if !a.enabled {
		return "", ErrAdvisorDisabled
	}

	key := RequestKey(in, question)
	result, err, _ := a.group.Do(key, func() (interface{}, error) {
		msg, err := a.client.Messages.New(ctx, a.params(in, metrics, question))
		if err != nil {
			return nil, fmt.Errorf("advisory request failed: %w", err)
		}

		var sb strings.Builder
		for _, block := range msg.Content {
			switch variant := block.AsAny().(type) {
			case anthropic.TextBlock:
				sb.WriteString(variant.Text)
			}
		}
		return sb.String(), nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// Stream sends the same request via the streaming API and calls emit for
// each text chunk as it arrives. Cancelling ctx or returning an error from
// emit stops consumption. The accumulated commentary is returned either way
// so callers can still log what was relayed.
func (a *Advisor) Stream(ctx context.Context, in models.SimulationInputs, metrics models.MetricsResponse, question string, emit func(chunk string) error) (string, error) {
	if !a.enabled {
		return "", ErrAdvisorDisabled
	}

	stream := a.client.Messages.NewStreaming(ctx, a.params(in, metrics, question))
	var full strings.Builder
	for stream.Next() {
		event := stream.Current()
		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch deltaVariant := eventVariant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				full.WriteString(deltaVariant.Text)
				if err := emit(deltaVariant.Text); err != nil {
					return full.String(), err
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return full.String(), fmt.Errorf("advisory stream failed: %w", err)
	}
	return full.String(), nil
}

func (a *Advisor) params(in models.SimulationInputs, metrics models.MetricsResponse, question string) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: buildSystemPrompt(in, metrics)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(question)),
		},
	}
}

// RequestKey derives a stable cache/coalescing key from the snapshot and
// question.
func RequestKey(in models.SimulationInputs, question string) string {
	payload, _ := json.Marshal(struct {
		Inputs   models.SimulationInputs `json:"inputs"`
		Question string                  `json:"question"`
	}{in, question})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// buildSystemPrompt embeds the full parameter snapshot and derived metrics so
// the commentary always matches the state the user is looking at.
func buildSystemPrompt(in models.SimulationInputs, metrics models.MetricsResponse) string {
	var sb strings.Builder
	sb.WriteString("You are an analyst for a robotaxi fleet unit-economics simulator. ")
	sb.WriteString("Answer questions about the user's current scenario in plain, concrete terms. ")
	sb.WriteString("Keep answers under 200 words and reference the figures below.\n\n")

	sb.WriteString("Current parameters:\n")
	fmt.Fprintf(&sb, "- Fleet size: %.0f vehicles\n", in.FleetSize)
	fmt.Fprintf(&sb, "- Vehicles per remote operator: %.0f\n", in.VehiclesPerOperator)
	fmt.Fprintf(&sb, "- Vehicle cost: $%.0f\n", in.VehicleCost)
	fmt.Fprintf(&sb, "- Operating hours per day: %.0f\n", in.OpsHoursPerDay)
	fmt.Fprintf(&sb, "- Deadhead: %.1f%%\n", in.DeadheadPercent)
	fmt.Fprintf(&sb, "- Variable cost per mile: $%.2f\n", in.VariableCostPerMile)
	fmt.Fprintf(&sb, "- Revenue per mile: $%.2f\n", in.RevenuePerMile)
	fmt.Fprintf(&sb, "- Utilization: %.1f%%\n", in.UtilizationPercent)

	sb.WriteString("\nDerived metrics:\n")
	fmt.Fprintf(&sb, "- Total cost per mile: %s\n", formatCurrency(metrics.TotalCostPerMile))
	fmt.Fprintf(&sb, "- Margin per mile: %s\n", formatCurrency(metrics.MarginPerMile))
	fmt.Fprintf(&sb, "- Break-even utilization: %s\n", formatPercent(metrics.BreakEvenUtilizationPercent))
	fmt.Fprintf(&sb, "- Status: %s\n", metrics.Status)

	return sb.String()
}

// formatCurrency renders a nullable metric, falling back to a placeholder
// rather than ever printing an infinity glyph.
func formatCurrency(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("$%.2f", *v)
}

func formatPercent(v *float64) string {
	if v == nil {
		return "not reachable"
	}
	return fmt.Sprintf("%.1f%%", *v)
}
