// Package whatsapp wraps the Meta WhatsApp Cloud API send endpoint.
package whatsapp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client sends outbound messages through the Cloud API.
type Client interface {
	SendText(ctx context.Context, req SendTextRequest) (*SendTextResponse, error)
}

// Config carries the Cloud API credentials and endpoint options.
type Config struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
}

// SendTextRequest is a plain text outbound message.
type SendTextRequest struct {
	To         string
	Body       string
	PreviewURL bool
}

// SendTextResponse carries the ids Meta assigned to the message.
type SendTextResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type graphError struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// APIClient is the resty-backed implementation.
type APIClient struct {
	http          *resty.Client
	phoneNumberID string
}

// NewClient configures a client against the Graph API.
func NewClient(cfg Config) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	client := resty.New().
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIVersion)).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{http: client, phoneNumberID: cfg.PhoneNumberID}
}

// SendText delivers one text message to a WhatsApp user.
func (c *APIClient) SendText(ctx context.Context, req SendTextRequest) (*SendTextResponse, error) {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                req.To,
		"type":              "text",
		"text": map[string]any{
			"body":        req.Body,
			"preview_url": req.PreviewURL,
		},
	}

	result := new(SendTextResponse)
	apiErr := new(graphError)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post(fmt.Sprintf("/%s/messages", c.phoneNumberID))
	if err != nil {
		return nil, fmt.Errorf("send whatsapp text: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		code := resp.StatusCode()
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
		return nil, fmt.Errorf("whatsapp api error: code=%d message=%s", code, apiErr.Error.Message)
	}

	return result, nil
}
