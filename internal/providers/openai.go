package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/viajeia/viajeia/internal/config"
	"github.com/viajeia/viajeia/internal/core"
)

type OpenAIConfig struct {
	Endpoint         string
	APIKey           string
	HTTPTimeout      time.Duration
	ConcurrencyLimit int
}

type OpenAIProvider struct {
	endpoint         string
	apiKey           string
	client           *http.Client
	concurrencyLimit int
	requestLogger    *RequestLogger
	validateRoles    bool
}

func NewOpenAIProvider(cfg OpenAIConfig, debugCfg config.DebugConfig) *OpenAIProvider {
	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	provider := &OpenAIProvider{
		endpoint:         strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:           cfg.APIKey,
		client:           &http.Client{Timeout: timeout},
		concurrencyLimit: cfg.ConcurrencyLimit,
	}

	if debugCfg.LogRequests || debugCfg.LogResponses {
		provider.requestLogger = NewRequestLogger(
			debugCfg.LogDirectory,
			debugCfg.LogRequests,
			debugCfg.LogResponses,
			slog.Default(),
		)
	}

	provider.validateRoles = debugCfg.ValidateRoles

	return provider
}

func (p *OpenAIProvider) ConcurrencyLimit() int {
	return p.concurrencyLimit
}

func (p *OpenAIProvider) GenerateChat(ctx context.Context, req ChatRequest) (core.ChatResponse, error) {
	requestID := core.NewRequestID()

	if p.validateRoles {
		if err := validateRoleAlternation(req.Messages); err != nil {
			if p.requestLogger != nil {
				p.requestLogger.LogError(requestID, 0, []byte(err.Error()), req.Messages, nil)
			}
			return core.ChatResponse{}, fmt.Errorf("role validation failed (request_id=%s): %w", requestID, err)
		}
	}

	endpointURL := p.endpoint + "/v1/chat/completions"

	msgJSON := make([]map[string]any, 0, len(req.Messages))
	for _, message := range req.Messages {
		msgJSON = append(msgJSON, map[string]any{"role": string(message.Role), "content": message.Content})
	}

	payload := map[string]any{
		"model":       req.Model,
		"messages":    msgJSON,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
		"stream":      false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return core.ChatResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	if p.requestLogger != nil {
		p.requestLogger.LogRequest(requestID, req.Messages, payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(body))
	if err != nil {
		return core.ChatResponse{}, fmt.Errorf("failed to build request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	startTime := time.Now()
	httpResp, err := p.client.Do(httpReq)
	duration := time.Since(startTime)

	if err != nil {
		if p.requestLogger != nil {
			p.requestLogger.LogError(requestID, 0, []byte(err.Error()), req.Messages, payload)
		}
		return core.ChatResponse{}, fmt.Errorf("provider request failed (request_id=%s): %w", requestID, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(httpResp.Body)

		if p.requestLogger != nil {
			p.requestLogger.LogError(requestID, httpResp.StatusCode, bodyBytes, req.Messages, payload)
		}

		if len(bodyBytes) > 0 {
			return core.ChatResponse{}, fmt.Errorf("provider error (request_id=%s): %s: %s",
				requestID, httpResp.Status, strings.TrimSpace(string(bodyBytes)))
		}

		return core.ChatResponse{}, fmt.Errorf("provider error (request_id=%s): %s", requestID, httpResp.Status)
	}

	var responsePayload map[string]any
	if err := json.NewDecoder(httpResp.Body).Decode(&responsePayload); err != nil {
		return core.ChatResponse{}, err
	}

	response, err := parseResponsePayload(responsePayload)
	if err != nil {
		return core.ChatResponse{}, fmt.Errorf("provider response parse failed (request_id=%s): %w", requestID, err)
	}

	if p.requestLogger != nil {
		p.requestLogger.LogResponse(requestID, response, duration)
	}

	return response, nil
}

func parseResponsePayload(payload map[string]any) (core.ChatResponse, error) {
	choices, ok := payload["choices"].([]any)
	if !ok || len(choices) == 0 {
		return core.ChatResponse{}, errors.New("no choices in response")
	}

	choice, ok := choices[0].(map[string]any)
	if !ok {
		return core.ChatResponse{}, errors.New("malformed choice in response")
	}

	message, ok := choice["message"].(map[string]any)
	if !ok {
		return core.ChatResponse{}, errors.New("malformed message in response")
	}

	content, _ := message["content"].(string)
	if content == "" {
		return core.ChatResponse{}, errors.New("empty content in response")
	}

	return core.ChatResponse{
		Content: content,
		Usage:   parseUsage(payload),
	}, nil
}

func parseUsage(response map[string]any) *core.Usage {
	usageMap, ok := response["usage"].(map[string]any)
	if !ok {
		return nil
	}

	return &core.Usage{
		PromptTokens:     core.IntFromAny(usageMap["prompt_tokens"]),
		CompletionTokens: core.IntFromAny(usageMap["completion_tokens"]),
		TotalTokens:      core.IntFromAny(usageMap["total_tokens"]),
	}
}
