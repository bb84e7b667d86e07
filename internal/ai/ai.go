// Package ai provides the text-completion capability used by the product
// extraction and template generation pipeline. Two providers are supported:
// the Anthropic Messages API and AWS Bedrock. Both take a system
// instruction, a user instruction, and an optional structured-JSON response
// mode, and return the model's text output.
package ai

import (
	"context"
	"net/http"
	"strings"
)

// Request is a single text-completion invocation.
type Request struct {
	System   string
	User     string
	JSONMode bool // request a JSON-object response instead of plain text
}

// Client is the text-completion capability. Failures propagate as-is; this
// package performs no retries.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// HTTPDoer is the interface for executing HTTP requests.
// Both *http.Client and test doubles satisfy this interface.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// stripCodeFence removes a surrounding markdown code block from a model
// response, which models emit even when asked for bare JSON.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
