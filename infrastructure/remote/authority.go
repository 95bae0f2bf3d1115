// Package remote adapts the engine service's HTTP API to the application
// ports for operation confirmation, status mirroring and AI iteration.
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
	"mythos-backend/domain/ops"
	pkgerrors "mythos-backend/pkg/errors"
)

// Authority is the HTTP client for the remote artifact engine
type Authority struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAuthority creates a client for the remote engine
func NewAuthority(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Authority {
	return &Authority{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type applyOpRequest struct {
	Operation ops.Operation `json:"operation"`
}

type applyOpResponse struct {
	Content   string `json:"content"`
	VersionID string `json:"versionId"`
}

// ApplyOperation asks the remote engine to apply the operation to its copy
// of the artifact and returns the authoritative content
func (a *Authority) ApplyOperation(ctx context.Context, projectID, key string, op ops.Operation) (ports.RemoteResult, error) {
	url := fmt.Sprintf("%s/projects/%s/artifacts/%s/ops", a.baseURL, projectID, key)

	var resp applyOpResponse
	if err := a.post(ctx, url, applyOpRequest{Operation: op}, &resp); err != nil {
		return ports.RemoteResult{}, err
	}
	return ports.RemoteResult{Content: resp.Content, VersionID: resp.VersionID}, nil
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus mirrors a local status transition to the remote engine
func (a *Authority) SetStatus(ctx context.Context, projectID, key, status string) error {
	url := fmt.Sprintf("%s/projects/%s/artifacts/%s/status", a.baseURL, projectID, key)
	return a.post(ctx, url, setStatusRequest{Status: status}, nil)
}

func (a *Authority) post(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return pkgerrors.NewInternalError("failed to encode request: " + err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.NewInternalError("failed to build request: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return pkgerrors.NewNetworkError("remote engine unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return pkgerrors.NewNetworkError("failed to read remote response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.Warn("remote engine returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("url", url),
		)
		return pkgerrors.NewExternalError("remote engine",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return pkgerrors.NewExternalError("remote engine", err)
		}
	}
	return nil
}
