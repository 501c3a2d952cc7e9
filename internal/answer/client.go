// Package answer provides the client for the remote answering service.
package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Answerer is the interface consumed by the conversation store. Query must
// observe ctx promptly: once ctx is done, no result is returned even if the
// underlying transport eventually completed.
type Answerer interface {
	Query(ctx context.Context, text, correlationID string) (*QueryResponse, error)
}

// QueryRequest is the wire request to the answering service.
type QueryRequest struct {
	Text          string `json:"text"`
	CorrelationID string `json:"correlation_id"`
}

// QueryResponse is the wire response. The service may send auxiliary fields
// such as timing; callers only rely on Answer.
type QueryResponse struct {
	Answer         string  `json:"answer"`
	CorrelationID  string  `json:"correlation_id,omitempty"`
	ProcessingTime float64 `json:"processing_time,omitempty"`
}

// ServiceError represents a transport or non-2xx failure of the answering
// service. StatusCode is 0 when the request never reached the service.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("answering service unreachable: %s", e.Message)
	}
	return fmt.Sprintf("answering service error [%d]: %s", e.StatusCode, e.Message)
}

// errorBody is the error shape the service uses for non-2xx responses.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Client is the HTTP answering service client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	// sessionID correlates queries that arrive without a conversation ID.
	// Generated once per client so anonymous queries still form one logical
	// session.
	sessionID string
}

var _ Answerer = (*Client)(nil)

// NewClient creates a new answering service client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		sessionID: "session_" + uuid.NewString(),
	}
}

// Query sends a question to the answering service. Cancellation is local:
// a done ctx wins over a late response, and the returned error is the ctx
// error rather than a ServiceError.
func (c *Client) Query(ctx context.Context, text, correlationID string) (*QueryResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if correlationID == "" {
		correlationID = c.sessionID
	}

	body, err := json.Marshal(QueryRequest{Text: text, CorrelationID: correlationID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ServiceError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorBody
		msg := string(respBody)
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			switch {
			case errResp.Detail != "":
				msg = errResp.Detail
			case errResp.Message != "":
				msg = errResp.Message
			case errResp.Error != "":
				msg = errResp.Error
			}
		}
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: msg}
	}

	var result QueryResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("undecodable response: %v", err)}
	}

	// A cancellation that raced the response still counts as cancelled.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
