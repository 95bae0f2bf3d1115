package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"mythos-backend/application/ports"
	pkgerrors "mythos-backend/pkg/errors"
)

// Iterator is the HTTP client for the AI generation engine
type Iterator struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewIterator creates a client for the generation engine
func NewIterator(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Iterator {
	return &Iterator{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type iterateRequest struct {
	Kind       string            `json:"kind"`
	Content    string            `json:"content"`
	Prompt     string            `json:"prompt"`
	Transcript []transcriptEntry `json:"transcript,omitempty"`
}

type transcriptEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type iterateResponse struct {
	Content string `json:"content"`
	Format  string `json:"format"`
	Message string `json:"message"`
}

// Iterate sends one refinement round and returns the replacement content
func (i *Iterator) Iterate(ctx context.Context, req ports.IterationRequest) (ports.IterationResult, error) {
	url := fmt.Sprintf("%s/projects/%s/artifacts/%s/iterate", i.baseURL, req.ProjectID, req.Key)

	body := iterateRequest{
		Kind:    req.Kind,
		Content: req.Content,
		Prompt:  req.Prompt,
	}
	for _, entry := range req.Transcript {
		body.Transcript = append(body.Transcript, transcriptEntry{Role: entry.Role, Content: entry.Content})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ports.IterationResult{}, pkgerrors.NewInternalError("failed to encode iteration request: " + err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return ports.IterationResult{}, pkgerrors.NewInternalError("failed to build iteration request: " + err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if i.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+i.apiKey)
	}

	resp, err := i.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return ports.IterationResult{}, pkgerrors.NewTimeoutError("iterate")
		}
		return ports.IterationResult{}, pkgerrors.NewNetworkError("generation engine unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return ports.IterationResult{}, pkgerrors.NewNetworkError("failed to read iteration response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		i.logger.Warn("generation engine returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("artifactKey", req.Key),
		)
		return ports.IterationResult{}, pkgerrors.NewExternalError("generation engine",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var out iterateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return ports.IterationResult{}, pkgerrors.NewExternalError("generation engine", err)
	}

	return ports.IterationResult{
		Content: out.Content,
		Format:  out.Format,
		Message: out.Message,
	}, nil
}
