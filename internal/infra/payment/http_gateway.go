// Package payment implements the PaymentGateway against the external
// settlement provider's JSON API.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"plowline/config"
	"plowline/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultGatewayTimeout = 10 * time.Second

// httpGateway is the HTTP client for the payment provider. Every mutating
// call carries an Idempotency-Key header, so a retried call with the same key
// returns the original result instead of a second financial effect.
type httpGateway struct {
	baseURL          string
	apiKey           string
	onboardReturnURL string
	httpClient       *http.Client
	logger           *slog.Logger
}

// Params holds dependencies for the payment gateway, injected by Fx
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// New creates the PaymentGateway client from configuration.
func New(params Params) (service.PaymentGateway, error) {
	cfg := params.Config.Payment
	if cfg == nil || cfg.BaseURL == "" {
		return nil, errors.New("payment gateway base URL must be configured")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}

	return &httpGateway{
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:           cfg.APIKey,
		onboardReturnURL: cfg.OnboardReturnURL,
		httpClient:       &http.Client{Timeout: timeout},
		logger:           params.Logger,
	}, nil
}

type chargeRequest struct {
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
	PaymentToken string `json:"payment_token"`
}

type chargeResponse struct {
	ID          string    `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

// Charge captures a payment keyed by the caller's idempotency token.
func (g *httpGateway) Charge(ctx context.Context, amountCents int64, currency, paymentToken, idempotencyKey string) (*service.ChargeResult, error) {
	body := chargeRequest{
		AmountCents:  amountCents,
		Currency:     currency,
		PaymentToken: paymentToken,
	}

	var resp chargeResponse
	status, err := g.post(ctx, "/v1/charges", idempotencyKey, body, &resp)
	if err != nil {
		return nil, err
	}
	if status == http.StatusPaymentRequired || status == http.StatusUnprocessableEntity {
		return nil, service.ErrChargeDeclined
	}
	if status >= 500 {
		return nil, service.ErrGatewayUnavailable
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, errors.Errorf("gateway charge returned status %d", status)
	}

	return &service.ChargeResult{
		ChargeID:    resp.ID,
		AmountCents: resp.AmountCents,
		Currency:    resp.Currency,
		CreatedAt:   resp.CreatedAt,
	}, nil
}

type transferRequest struct {
	AccountRef  string `json:"account_ref"`
	AmountCents int64  `json:"amount_cents"`
}

type transferResponse struct {
	ID          string    `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

// Transfer moves funds to a provider payout account.
func (g *httpGateway) Transfer(ctx context.Context, accountRef string, amountCents int64, idempotencyKey string) (*service.TransferResult, error) {
	body := transferRequest{
		AccountRef:  accountRef,
		AmountCents: amountCents,
	}

	var resp transferResponse
	status, err := g.post(ctx, "/v1/transfers", idempotencyKey, body, &resp)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound || status == http.StatusConflict:
		return nil, service.ErrAccountNotOnboarded
	case status >= 500:
		return nil, service.ErrGatewayUnavailable
	case status != http.StatusOK && status != http.StatusCreated:
		return nil, errors.Errorf("gateway transfer returned status %d", status)
	}

	return &service.TransferResult{
		TransferID:  resp.ID,
		AmountCents: resp.AmountCents,
		CreatedAt:   resp.CreatedAt,
	}, nil
}

// LookupCharge re-queries the gateway's idempotency record for a capture. A
// nil result with nil error means no charge exists under the key.
func (g *httpGateway) LookupCharge(ctx context.Context, idempotencyKey string) (*service.ChargeResult, error) {
	endpoint := g.baseURL + "/v1/charges?idempotency_key=" + url.QueryEscape(idempotencyKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	httpResp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, service.ErrGatewayUnavailable
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if httpResp.StatusCode >= 500 {
		return nil, service.ErrGatewayUnavailable
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("gateway lookup returned status %d", httpResp.StatusCode)
	}

	var resp chargeResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode charge lookup")
	}

	return &service.ChargeResult{
		ChargeID:    resp.ID,
		AmountCents: resp.AmountCents,
		Currency:    resp.Currency,
		CreatedAt:   resp.CreatedAt,
	}, nil
}

// LookupTransfer re-queries the gateway's idempotency record. A nil result
// with nil error means no transfer exists under the key.
func (g *httpGateway) LookupTransfer(ctx context.Context, idempotencyKey string) (*service.TransferResult, error) {
	endpoint := g.baseURL + "/v1/transfers?idempotency_key=" + url.QueryEscape(idempotencyKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	httpResp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, service.ErrGatewayUnavailable
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if httpResp.StatusCode >= 500 {
		return nil, service.ErrGatewayUnavailable
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("gateway lookup returned status %d", httpResp.StatusCode)
	}

	var resp transferResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode transfer lookup")
	}

	return &service.TransferResult{
		TransferID:  resp.ID,
		AmountCents: resp.AmountCents,
		CreatedAt:   resp.CreatedAt,
	}, nil
}

type accountLinkRequest struct {
	Email     string `json:"email"`
	ReturnURL string `json:"return_url"`
}

type accountLinkResponse struct {
	AccountRef string `json:"account_ref"`
	URL        string `json:"url"`
}

// CreateAccountLink provisions a provider payout account and returns the
// onboarding handoff.
func (g *httpGateway) CreateAccountLink(ctx context.Context, email string) (*service.AccountLink, error) {
	body := accountLinkRequest{
		Email:     email,
		ReturnURL: g.onboardReturnURL,
	}

	var resp accountLinkResponse
	status, err := g.post(ctx, "/v1/account_links", "", body, &resp)
	if err != nil {
		return nil, err
	}
	if status >= 500 {
		return nil, service.ErrGatewayUnavailable
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, errors.Errorf("gateway account link returned status %d", status)
	}

	return &service.AccountLink{
		AccountRef: resp.AccountRef,
		URL:        resp.URL,
	}, nil
}

// post sends a JSON body and decodes the JSON response for 2xx statuses.
// Non-2xx statuses are returned to the caller for classification; the body is
// drained either way so connections can be reused.
func (g *httpGateway) post(ctx context.Context, path, idempotencyKey string, body, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn("Payment gateway request failed",
			slog.String("path", path),
			slog.Any("error", err),
		)

		return 0, service.ErrGatewayUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, errors.Wrap(err, "failed to decode gateway response")
		}

		return resp.StatusCode, nil
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
