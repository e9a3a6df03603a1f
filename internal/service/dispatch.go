package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dealerhub/outflow/internal/domain"
	"github.com/go-resty/resty/v2"
)

// defaultDispatchTimeout bounds every delivery request so a stalled external
// endpoint cannot hang a worker indefinitely.
const defaultDispatchTimeout = 30 * time.Second

// DispatchResult classifies the outcome of one delivery attempt.
type DispatchResult struct {
	// Skipped is true when no endpoint is configured; stats and
	// notifications must not be recorded for skipped dispatches.
	Skipped    bool        `json:"skipped,omitempty"`
	Success    bool        `json:"success"`
	StatusCode int         `json:"status_code,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// DispatchService delivers mapped payloads to external HTTP endpoints.
type DispatchService struct {
	client *resty.Client
}

// DispatchConfig holds configuration for the dispatch service.
type DispatchConfig struct {
	RequestTimeout time.Duration
}

// NewDispatchService creates a new dispatch service.
// Parameters:
//   - cfg: dispatch configuration; nil or a zero timeout uses the 30s default.
// Returns:
//   - *DispatchService: initialized dispatcher.
func NewDispatchService(cfg *DispatchConfig) *DispatchService {
	timeout := defaultDispatchTimeout
	if cfg != nil && cfg.RequestTimeout > 0 {
		timeout = cfg.RequestTimeout
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")

	return &DispatchService{client: client}
}

// Dispatch issues an HTTP POST of the mapped payload to the configured
// endpoint. The method is not configurable. Any non-2xx response or
// transport error classifies as failure with the error message captured
// verbatim. A missing endpoint returns Skipped=true and contacts nothing.
func (s *DispatchService) Dispatch(ctx context.Context, auth domain.AuthConfig, payload map[string]interface{}) DispatchResult {
	if auth.APIEndpoint == "" {
		return DispatchResult{Skipped: true}
	}

	req := s.client.R().
		SetContext(ctx).
		SetBody(payload)

	if auth.EnableAuthentication {
		applyAuthHeaders(req, auth)
	}

	var data interface{}
	req.SetResult(&data)

	resp, err := req.Post(auth.APIEndpoint)
	if err != nil {
		return DispatchResult{Success: false, Error: err.Error()}
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		errMsg := fmt.Sprintf("HTTP %d", status)
		if body := resp.Body(); len(body) > 0 {
			errMsg = fmt.Sprintf("HTTP %d: %s", status, string(body))
		}
		return DispatchResult{Success: false, StatusCode: status, Error: errMsg}
	}

	return DispatchResult{Success: true, StatusCode: status, Data: data}
}

// applyAuthHeaders attaches authentication headers per the configured type:
// jwt and static both carry a bearer token, standard carries key/secret
// headers.
func applyAuthHeaders(req *resty.Request, auth domain.AuthConfig) {
	switch auth.AuthType {
	case domain.AuthTypeJWT:
		req.SetHeader("Authorization", "Bearer "+auth.Credentials.Token)
	case domain.AuthTypeStandard:
		req.SetHeader("x-api-key", auth.Credentials.APIKey)
		req.SetHeader("x-api-secret", auth.Credentials.APISecret)
	case domain.AuthTypeStatic:
		req.SetHeader("Authorization", "Bearer "+auth.Credentials.Token)
	}
}
