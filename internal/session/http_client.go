package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yourorg/checkout-components/internal/monitor"
)

const defaultHTTPTimeout = 10 * time.Second

// sessionRequestSchema guards outbound session requests against contract drift.
const sessionRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["amount", "currency", "billing", "success_url", "failure_url", "3ds"],
  "properties": {
    "amount": {"type": "integer", "minimum": 1},
    "currency": {"type": "string", "pattern": "^[A-Z]{3}$"},
    "billing": {
      "type": "object",
      "required": ["address"],
      "properties": {
        "address": {
          "type": "object",
          "required": ["country"],
          "properties": {"country": {"type": "string", "pattern": "^[A-Z]{2}$"}}
        }
      }
    },
    "success_url": {"type": "string", "minLength": 1},
    "failure_url": {"type": "string", "minLength": 1},
    "3ds": {
      "type": "object",
      "required": ["enabled", "attempt_n3d"],
      "properties": {
        "enabled": {"type": "boolean"},
        "attempt_n3d": {"type": "boolean"}
      }
    },
    "processing_channel_id": {"type": "string"}
  }
}`

var sessionRequestContract = monitor.MustContractMonitor("payment_session_request", sessionRequestSchema)

// APIError is the error body returned by the payments API.
type APIError struct {
	StatusCode int      `json:"-"`
	RequestID  string   `json:"request_id"`
	ErrorType  string   `json:"error_type"`
	ErrorCodes []string `json:"error_codes"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("payments API returned HTTP %d", e.StatusCode)
	if e.ErrorType != "" {
		msg += ": " + e.ErrorType
	}
	if len(e.ErrorCodes) > 0 {
		msg += " [" + strings.Join(e.ErrorCodes, ", ") + "]"
	}
	if e.RequestID != "" {
		msg += " (request " + e.RequestID + ")"
	}
	return msg
}

// HTTPClient is the NetworkLayer backed by the payments REST API.
type HTTPClient struct {
	httpClient *http.Client
	apiBaseURL string
	secretKey  string
}

// NewHTTPClient creates an HTTPClient. A nil client gets a default with a 10s timeout.
func NewHTTPClient(apiBaseURL, secretKey string, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &HTTPClient{
		httpClient: client,
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
		secretKey:  secretKey,
	}
}

// CreateSession posts req to /payment-sessions.
func (c *HTTPClient) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Session{}, fmt.Errorf("%w: encoding session request: %w", ErrInvalidRequest, err)
	}
	valid, violations, err := sessionRequestContract.Validate(body)
	if err != nil {
		return Session{}, fmt.Errorf("%w: validating session request: %w", ErrInvalidRequest, err)
	}
	if !valid {
		return Session{}, fmt.Errorf("%w: %s", ErrInvalidRequest, monitor.FormatErrors(violations))
	}

	var s Session
	if err := c.post(ctx, "create_session", "/payment-sessions", body, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// SubmitSession posts req to /payment-sessions/{id}/submit.
func (c *HTTPClient) SubmitSession(ctx context.Context, id string, req SubmitRequest) (SubmissionResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return SubmissionResult{}, fmt.Errorf("%w: encoding submit request: %w", ErrInvalidRequest, err)
	}
	var res SubmissionResult
	if err := c.post(ctx, "submit_session", "/payment-sessions/"+url.PathEscape(id)+"/submit", body, &res); err != nil {
		return SubmissionResult{}, err
	}
	return res, nil
}

// post performs a single request. Failures are classified as ErrNetwork and
// returned as-is; the caller decides whether another attempt is worthwhile.
func (c *HTTPClient) post(ctx context.Context, operation, path string, body []byte, out interface{}) (err error) {
	ctx, span := otel.Tracer("session").Start(ctx, "HTTPClient."+operation)
	span.SetAttributes(attribute.String("http.path", path))
	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "failure"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		observeRequest(operation, outcome, time.Since(start))
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: building request: %w", ErrNetwork, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cko-Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if len(payload) > 0 {
			// Non-JSON error bodies still produce a status-only APIError.
			_ = json.Unmarshal(payload, apiErr)
		}
		return fmt.Errorf("%w: %w", ErrNetwork, apiErr)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: decoding response: %w", ErrNetwork, err)
	}
	return nil
}

// AsAPIError extracts the APIError from err, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
