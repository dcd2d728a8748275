package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL  = "https://ocop-oct.digipro.com.vn"
	DefaultEndpoint = "/ocr/pdf_or_image"
	DefaultTimeout  = 30 * time.Second
)

var ErrNoText = errors.New("OCR response carries no text")

type Config struct {
	BaseURL  string
	Endpoint string
	Timeout  time.Duration
}

type recognizeResponse struct {
	Text *string `json:"text"`
}

// Client forwards documents to the OCR service. Calls are bounded by the
// configured timeout and never retried.
type Client struct {
	httpClient *resty.Client
	endpoint   string
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		endpoint:   cfg.Endpoint,
		logger:     logger,
	}
}

// Recognize uploads the document as the multipart field "file" and returns
// the recognised text.
func (c *Client) Recognize(ctx context.Context, filename string, document io.Reader) (string, error) {
	var out recognizeResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFileReader("file", filename, document).
		SetResult(&out).
		ForceContentType("application/json").
		Post(c.endpoint)
	if err != nil {
		c.logger.Error("OCR API call failed", "error", err, "filename", filename)
		return "", fmt.Errorf("failed to call OCR API: %w", err)
	}

	if resp.IsError() {
		c.logger.Error("OCR API returned error", "status_code", resp.StatusCode(), "filename", filename)
		return "", fmt.Errorf("OCR API error: %d", resp.StatusCode())
	}
	if out.Text == nil {
		return "", ErrNoText
	}

	c.logger.Debug("OCR API call succeeded", "filename", filename, "duration", resp.Time())
	return *out.Text, nil
}
