package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/surveypool/search-api/internal/config"
)

// Client talks to the external payment processor. One outbound call per
// checkout attempt; failures are surfaced immediately, never retried here.
type Client interface {
	CreateCheckoutSession(ctx context.Context, req CreateSessionRequest) (*CheckoutSession, error)
}

type CreateSessionRequest struct {
	AmountCents int64
	Currency    string
	Reference   string
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession is the processor-issued handle the caller is redirected to.
type CheckoutSession struct {
	ID          string
	RedirectURL string
}

type clientImpl struct {
	httpClient   *http.Client
	baseApiURL   string
	clientID     string
	clientSecret string
}

type processorLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type createSessionResult struct {
	ID     string          `json:"id"`
	Links  []processorLink `json:"links"`
	Status string          `json:"status"`
}

func NewClient(cfg config.PaymentConfig) Client {
	return &clientImpl{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseApiURL:   cfg.BaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
	}
}

func (c *clientImpl) getAccessToken(ctx context.Context) (string, error) {
	auth := base64.StdEncoding.EncodeToString(
		[]byte(c.clientID + ":" + c.clientSecret),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/v1/oauth2/token",
		bytes.NewBufferString("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("processor token error %d: %s", resp.StatusCode, string(b))
	}

	var res struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	return res.AccessToken, nil
}

func (c *clientImpl) CreateCheckoutSession(ctx context.Context, sessReq CreateSessionRequest) (*CheckoutSession, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get processor access token: %w", err)
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"reference_id": sessReq.Reference,
				"amount": map[string]string{
					"currency_code": sessReq.Currency,
					"value":         fmt.Sprintf("%d.%02d", sessReq.AmountCents/100, sessReq.AmountCents%100),
				},
			},
		},
		"application_context": map[string]string{
			"return_url": sessReq.SuccessURL,
			"cancel_url": sessReq.CancelURL,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal session payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v2/checkout/sessions",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("processor session request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("processor error %d: %s", resp.StatusCode, string(b))
	}

	var result createSessionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode processor response: %w", err)
	}

	return &CheckoutSession{
		ID:          result.ID,
		RedirectURL: extractRedirectURL(result.Links),
	}, nil
}

func extractRedirectURL(links []processorLink) string {
	for _, link := range links {
		if link.Rel == "approve" {
			return link.Href
		}
	}
	return ""
}
