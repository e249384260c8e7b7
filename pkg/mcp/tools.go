package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/binomci/internal/estimate"
	"github.com/Sumatoshi-tech/binomci/pkg/proportion"
)

// Tool name constants.
const (
	ToolNameInterval = "binomial_interval"
	ToolNameZScore   = "z_score"
	ToolNameMethods  = "interval_methods"
)

// defaultConfidence is used by the default estimator.
const defaultConfidence = 0.95

// Input types (auto-generate JSON schemas via struct tags).

// IntervalInput is the input schema for the binomial_interval tool.
type IntervalInput struct {
	Size       float64  `json:"size"                 jsonschema:"number of trials; must be a whole number when successes is given"`
	Successes  *float64 `json:"successes,omitempty"  jsonschema:"number of successes (mutually exclusive with proportion)"`
	Proportion *float64 `json:"proportion,omitempty" jsonschema:"observed success proportion in [0, 1] (mutually exclusive with successes)"`
	Method     string   `json:"method,omitempty"     jsonschema:"interval method: wald, wilson, wilson-cc or agresti-coull"`
	Z          *float64 `json:"z,omitempty"          jsonschema:"z-score multiplier (mutually exclusive with confidence)"`
	Confidence *float64 `json:"confidence,omitempty" jsonschema:"two-sided confidence level in (0, 1)"`
}

// ZScoreInput is the input schema for the z_score tool.
type ZScoreInput struct {
	Confidence float64 `json:"confidence" jsonschema:"two-sided confidence level in (0, 1), e.g. 0.95"`
}

// MethodsInput is the (empty) input schema for the interval_methods tool.
type MethodsInput struct{}

// MethodInfo describes one interval method.
type MethodInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

func (in IntervalInput) request() estimate.Request {
	return estimate.Request{
		Size:       in.Size,
		Successes:  in.Successes,
		Proportion: in.Proportion,
		Method:     in.Method,
		Z:          in.Z,
		Confidence: in.Confidence,
	}
}

func (s *Server) handleInterval(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input IntervalInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	res, err := s.estimator.Estimate(ctx, input.request())
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(res)
}

func handleZScore(
	_ context.Context, _ *mcpsdk.CallToolRequest, input ZScoreInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	res, err := estimate.ZScore(input.Confidence)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(res)
}

func handleMethods(
	_ context.Context, _ *mcpsdk.CallToolRequest, _ MethodsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	methods := proportion.Methods()

	infos := make([]MethodInfo, 0, len(methods))
	for _, m := range methods {
		infos = append(infos, MethodInfo{Name: m.String(), Description: m.Description()})
	}

	return jsonResult(infos)
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
