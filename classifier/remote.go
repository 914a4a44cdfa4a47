package classifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// RemoteConfig holds configuration for the OpenAI-compatible vision backend.
type RemoteConfig struct {
	// BaseURL is the endpoint base URL (e.g. http://localhost:11434/v1).
	BaseURL string

	// APIKey is the key sent to the endpoint. Local llama.cpp-style servers
	// typically accept any non-empty value.
	APIKey string

	// Model is the model identifier sent with each request.
	Model string
}

// RemoteBackend classifies staged images through an OpenAI-compatible
// multimodal chat endpoint. The model's class set still comes from the
// exported metadata; the endpoint is asked to score exactly those labels
// and the response is renormalized over them.
type RemoteBackend struct {
	client *openai.Client
	meta   Metadata
	model  string
}

// NewRemoteBackend creates a RemoteBackend. No connection is made until the
// first Classify call.
func NewRemoteBackend(cfg RemoteConfig, meta Metadata) *RemoteBackend {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "unused"
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &RemoteBackend{
		client: openai.NewClientWithConfig(clientConfig),
		meta:   meta,
		model:  cfg.Model,
	}
}

// Name identifies this backend in handle telemetry.
func (r *RemoteBackend) Name() string {
	return BackendRemote
}

// Classify implements Backend.
func (r *RemoteBackend) Classify(ctx context.Context, imagePath string) (Distribution, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading staged image: %v", ErrInferenceFailed, err)
	}

	// Reject undecodable input locally; the endpoint would otherwise fail
	// with a less actionable error.
	if _, err := DecodeImage(data); err != nil {
		return nil, err
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s",
		http.DetectContentType(data), base64.StdEncoding.EncodeToString(data))

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     r.model,
		MaxTokens: 300,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: r.scoringPrompt(),
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrRemoteBadResponse)
	}

	return parseRemoteDistribution(resp.Choices[0].Message.Content, r.meta.Classes)
}

// scoringPrompt asks the endpoint for a strict JSON probability map over
// the known class set.
func (r *RemoteBackend) scoringPrompt() string {
	return fmt.Sprintf(
		"This photo shows a rice plant leaf. Score how likely each of these conditions is: %s. "+
			"Respond with ONLY a JSON object mapping every condition name to a probability between 0 and 1. "+
			"The probabilities must sum to 1. No prose, no markdown.",
		strings.Join(r.meta.Classes, ", "))
}

// parseRemoteDistribution extracts the JSON probability map from a chat
// response, tolerating code fences and surrounding prose, and renormalizes
// the scores over the known class set. Labels outside the class set are
// discarded; classes the endpoint omitted score zero.
func parseRemoteDistribution(content string, classes []string) (Distribution, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrRemoteBadResponse)
	}

	var scores map[string]float64
	if err := json.Unmarshal([]byte(content[start:end+1]), &scores); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteBadResponse, err)
	}

	probs := make([]float64, len(classes))
	var sum float64
	for i, label := range classes {
		p := scores[label]
		if p < 0 {
			p = 0
		}
		probs[i] = p
		sum += p
	}
	if sum <= 0 {
		return nil, fmt.Errorf("%w: no known labels scored", ErrRemoteBadResponse)
	}

	for i := range probs {
		probs[i] /= sum
	}
	return Rank(classes, probs)
}
