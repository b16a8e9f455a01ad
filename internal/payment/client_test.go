package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surveypool/search-api/internal/config"
)

func newTestClient(baseURL string) Client {
	return NewClient(config.PaymentConfig{
		BaseURL:      baseURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Timeout:      5 * time.Second,
	})
}

func TestCreateCheckoutSession(t *testing.T) {
	var sessionPayload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			assert.Equal(t, http.MethodPost, r.Method)
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "client-id", user)
			assert.Equal(t, "client-secret", pass)
			json.NewEncoder(w).Encode(map[string]string{"access_token": "token-123"})
		case "/v2/checkout/sessions":
			assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&sessionPayload))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id":     "SES-42",
				"status": "CREATED",
				"links": []map[string]string{
					{"rel": "self", "href": "https://processor.example.com/self"},
					{"rel": "approve", "href": "https://processor.example.com/approve/SES-42"},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	session, err := client.CreateCheckoutSession(context.Background(), CreateSessionRequest{
		AmountCents: 10000,
		Currency:    "USD",
		Reference:   "points_10000",
		SuccessURL:  "https://points.example.com/api/v1/checkout/success",
		CancelURL:   "https://points.example.com/api/v1/checkout/cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "SES-42", session.ID)
	assert.Equal(t, "https://processor.example.com/approve/SES-42", session.RedirectURL)

	units := sessionPayload["purchase_units"].([]interface{})
	amount := units[0].(map[string]interface{})["amount"].(map[string]interface{})
	assert.Equal(t, "100.00", amount["value"], "cents are rendered as a decimal amount")
}

func TestCreateCheckoutSessionTokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.CreateCheckoutSession(context.Background(), CreateSessionRequest{})
	assert.Error(t, err)
}

func TestCreateCheckoutSessionProcessorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "token-123"})
			return
		}
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.CreateCheckoutSession(context.Background(), CreateSessionRequest{})
	assert.Error(t, err)
}

func TestExtractRedirectURLMissingApproveLink(t *testing.T) {
	assert.Empty(t, extractRedirectURL([]processorLink{{Rel: "self", Href: "x"}}))
	assert.Empty(t, extractRedirectURL(nil))
}
