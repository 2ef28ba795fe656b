package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.twilio.com"
	apiVersion     = "2010-04-01"
)

// TwilioClient sends outbound messages through the Twilio Messages API.
type TwilioClient struct {
	accountSID string
	authToken  string
	baseURL    string
	client     *http.Client
}

func NewTwilioClient(accountSID, authToken string) *TwilioClient {
	return &TwilioClient{
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    defaultBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithBaseURL points the client at a different API host. Used in tests.
func (c *TwilioClient) WithBaseURL(u string) *TwilioClient {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

type messageResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// SendText dispatches a freeform text message.
func (c *TwilioClient) SendText(ctx context.Context, from, to, body string) (string, error) {
	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("Body", body)
	return c.send(ctx, form)
}

// SendTemplate dispatches a pre-registered content template with
// substitution variables.
func (c *TwilioClient) SendTemplate(ctx context.Context, from, to, contentSID string, variables map[string]string) (string, error) {
	vars, err := json.Marshal(variables)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("ContentSid", contentSID)
	form.Set("ContentVariables", string(vars))
	return c.send(ctx, form)
}

func (c *TwilioClient) send(ctx context.Context, form url.Values) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/Accounts/%s/Messages.json", c.baseURL, apiVersion, c.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status code: %d body=%q", resp.StatusCode, string(body))
	}

	var mr messageResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		return "", fmt.Errorf("failed to decode json: %w body=%q", err, string(body))
	}
	if mr.SID == "" {
		return "", fmt.Errorf("missing sid in response body=%q", string(body))
	}

	return mr.SID, nil
}
