package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/ignite/campaign-studio/internal/pkg/apperr"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
)

// BedrockClient calls Anthropic models through AWS Bedrock. All traffic
// stays inside AWS infrastructure.
type BedrockClient struct {
	client    *bedrockruntime.Client
	modelID   string
	maxTokens int
	region    string
}

// NewBedrockClient creates a Bedrock-backed completion client using the
// default AWS credential chain.
func NewBedrockClient(ctx context.Context, modelID, region string, maxTokens int) (*BedrockClient, error) {
	if modelID == "" {
		modelID = "anthropic.claude-3-sonnet-20240229-v1:0"
	}
	if region == "" {
		region = "us-east-1"
	}
	if maxTokens == 0 {
		maxTokens = 4000
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	bc := &BedrockClient{
		client:    bedrockruntime.NewFromConfig(cfg),
		modelID:   modelID,
		maxTokens: maxTokens,
		region:    region,
	}
	logger.Info("bedrock client initialized", "model", modelID, "region", region)
	return bc, nil
}

type bedrockMessage struct {
	Role    string                `json:"role"`
	Content []bedrockContentBlock `json:"content"`
}

type bedrockContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	System           string           `json:"system,omitempty"`
	Messages         []bedrockMessage `json:"messages"`
}

type bedrockResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete invokes the model once via InvokeModel and returns the response
// text.
func (b *BedrockClient) Complete(ctx context.Context, req Request) (string, error) {
	system := req.System
	if req.JSONMode {
		system += "\nRespond with a single valid JSON value and nothing else."
	}

	body, err := json.Marshal(bedrockRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        b.maxTokens,
		System:           system,
		Messages: []bedrockMessage{
			{Role: "user", Content: []bedrockContentBlock{{Type: "text", Text: req.User}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	output, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", apperr.Wrap(apperr.KindBackend, "bedrock invocation failed", err)
	}

	var parsed bedrockResponse
	if err := json.Unmarshal(output.Body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	text := ""
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if req.JSONMode {
		text = stripCodeFence(text)
	}
	return text, nil
}
