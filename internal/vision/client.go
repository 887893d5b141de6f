// Package vision extracts purchase lines from bill photos through an
// OpenAI-compatible vision model.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrMalformedScan reports a model reply that does not parse into bill lines.
var ErrMalformedScan = errors.New("malformed bill scan")

// BillLine is one purchased item read off a bill.
type BillLine struct {
	Name     string  `json:"item_name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Config holds the vision endpoint parameters.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string

	// HTTPClient is replaceable in tests; nil means a 120s-timeout client.
	HTTPClient *http.Client
}

// Scanner reads bill images. Implemented by Client; faked in tests.
type Scanner interface {
	ScanBill(ctx context.Context, image []byte) ([]BillLine, error)
}

// Client posts a bill image to a chat-completions endpoint that accepts
// image content parts.
type Client struct {
	config Config
	http   *http.Client
}

var _ Scanner = (*Client)(nil)

// NewClient creates a bill scanning client.
func NewClient(config Config) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{config: config, http: httpClient}
}

const scanPrompt = `Read this grocery bill. For every purchased item output its
name, quantity, and unit. Output JSON only, in this exact shape:
{"items": [{"item_name": "Rice", "quantity": 2, "unit": "kg"}]}`

type visionRequest struct {
	Model          string          `json:"model"`
	Messages       []visionMessage `json:"messages"`
	ResponseFormat *respFormat     `json:"response_format,omitempty"`
}

type visionMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type respFormat struct {
	Type string `json:"type"`
}

type visionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type billResult struct {
	Items []struct {
		Name     string   `json:"item_name"`
		Quantity *float64 `json:"quantity"`
		Unit     string   `json:"unit"`
	} `json:"items"`
}

// ScanBill sends the image as a base64 data URL and decodes the line items.
// Lines with a missing name or non-positive quantity fail the whole scan;
// intake must not guess at quantities.
func (c *Client) ScanBill(ctx context.Context, image []byte) ([]BillLine, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrMalformedScan)
	}

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	body, err := json.Marshal(visionRequest{
		Model: c.config.Model,
		Messages: []visionMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: scanPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			},
		}},
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call vision endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision endpoint returned %s", resp.Status)
	}

	var chat visionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrMalformedScan)
	}

	return decodeBill([]byte(chat.Choices[0].Message.Content))
}

func decodeBill(content []byte) ([]BillLine, error) {
	var result billResult
	if err := json.Unmarshal(content, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedScan, err)
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("%w: no items found", ErrMalformedScan)
	}

	lines := make([]BillLine, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Name == "" || item.Quantity == nil || *item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line %q is missing a name or quantity", ErrMalformedScan, item.Name)
		}
		lines = append(lines, BillLine{Name: item.Name, Quantity: *item.Quantity, Unit: item.Unit})
	}
	return lines, nil
}
