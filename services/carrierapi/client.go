package carrierapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client is the boundary to the external carrier gateway: one reservation
// call plus two document-generation calls. Timeouts live on the underlying
// transport; callers impose no deadline of their own.
type Client interface {
	BookRate(ctx context.Context, req BookRequest) (*GatewayResponse, error)
	GenerateLabel(ctx context.Context, req LabelRequest) (*GatewayResponse, error)
	GenerateBOL(ctx context.Context, req BOLRequest) (*GatewayResponse, error)
}

// BookRequest reserves a shipment against a persisted rate.
type BookRequest struct {
	APIKey             string         `json:"apiKey"`
	RateRequestContext map[string]any `json:"rateRequestContext,omitempty"`
	DraftKey           string         `json:"draftKey"`
	RateDocumentID     string         `json:"rateDocumentId"`
}

// LabelRequest asks the gateway to produce a shipping label.
type LabelRequest struct {
	ShipmentID string `json:"shipmentId"`
	DraftKey   string `json:"draftKey"`
	Carrier    string `json:"carrier"`
	FormatHint string `json:"formatHint,omitempty"`
}

// BOLRequest asks the gateway to produce a bill of lading.
type BOLRequest struct {
	OrderNumber string `json:"orderNumber"`
	DraftKey    string `json:"draftKey"`
	Carrier     string `json:"carrier"`
}

// GatewayResponse is the common envelope all gateway calls return.
type GatewayResponse struct {
	Success  bool           `json:"success"`
	Data     map[string]any `json:"data,omitempty"`
	Error    string         `json:"error,omitempty"`
	Messages []string       `json:"messages,omitempty"`
}

// ErrorText flattens the response's failure detail into one string.
func (r *GatewayResponse) ErrorText() string {
	if r.Error != "" {
		return r.Error
	}
	if len(r.Messages) > 0 {
		return strings.Join(r.Messages, "; ")
	}
	return "carrier gateway reported failure"
}

// StringField returns the first non-empty string value among the named
// response data fields.
func (r *GatewayResponse) StringField(names ...string) string {
	for _, name := range names {
		if v, ok := r.Data[name]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// HTTPClient calls the carrier gateway over HTTP JSON.
type HTTPClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	Logger  *zap.Logger
}

// NewHTTPClient returns a gateway client with a transport-level timeout.
func NewHTTPClient(baseURL, apiKey string, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
		Logger:  logger,
	}
}

func (c *HTTPClient) BookRate(ctx context.Context, req BookRequest) (*GatewayResponse, error) {
	if req.APIKey == "" {
		req.APIKey = c.APIKey
	}
	return c.post(ctx, "/rates/book", req)
}

func (c *HTTPClient) GenerateLabel(ctx context.Context, req LabelRequest) (*GatewayResponse, error) {
	return c.post(ctx, "/documents/label", req)
}

func (c *HTTPClient) GenerateBOL(ctx context.Context, req BOLRequest) (*GatewayResponse, error) {
	return c.post(ctx, "/documents/bol", req)
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any) (*GatewayResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gateway request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("carrier gateway call %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	var out GatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response from %s: %w", path, err)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("carrier gateway %s returned status %d: %s", path, resp.StatusCode, out.ErrorText())
	}

	c.Logger.Debug("carrier gateway call",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Bool("success", out.Success),
	)
	return &out, nil
}
