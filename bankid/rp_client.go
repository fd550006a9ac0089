package bankid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const defaultRequestTimeout = 10 * time.Second

// RPClient talks to the BankID Relying Party API (v6) over HTTPS. Every call
// is bounded by the HTTP client's timeout so a slow provider fails closed
// instead of hanging a browser poll.
type RPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Provider = (*RPClient)(nil)

// RPClientOption defines a function type to modify the RPClient instance.
type RPClientOption func(*RPClient)

// WithHTTPClient overrides the HTTP client, including its TLS configuration.
// Production deployments must supply a client carrying the RP certificate
// BankID requires for mutual TLS.
func WithHTTPClient(client *http.Client) RPClientOption {
	return func(c *RPClient) {
		c.httpClient = client
	}
}

// NewRPClient creates a provider client for the given API base URL, e.g.
// "https://appapi2.bankid.com".
func NewRPClient(baseURL string, options ...RPClientOption) (*RPClient, error) {
	if baseURL == "" {
		return nil, errors.New("[NewRPClient] baseURL is required")
	}

	client := &RPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

type authRequest struct {
	EndUserIP   string           `json:"endUserIp"`
	Requirement *authRequirement `json:"requirement,omitempty"`
}

type authRequirement struct {
	PersonalNumber string `json:"personalNumber,omitempty"`
}

type authResponse struct {
	OrderRef       string `json:"orderRef"`
	AutoStartToken string `json:"autoStartToken"`
}

type collectRequest struct {
	OrderRef string `json:"orderRef"`
}

type collectResponse struct {
	OrderRef       string `json:"orderRef"`
	Status         string `json:"status"`
	HintCode       string `json:"hintCode"`
	CompletionData *struct {
		User struct {
			PersonalNumber string `json:"personalNumber"`
			Name           string `json:"name"`
			GivenName      string `json:"givenName"`
			Surname        string `json:"surname"`
		} `json:"user"`
	} `json:"completionData"`
}

// Initiate starts an authentication order locked to the personal number.
func (c *RPClient) Initiate(ctx context.Context, personalNumber, endUserIP string) (*InitiateResult, error) {
	req := authRequest{
		EndUserIP: endUserIP,
	}
	if personalNumber != "" {
		req.Requirement = &authRequirement{PersonalNumber: personalNumber}
	}

	var resp authResponse
	if err := c.post(ctx, "/rp/v6.0/auth", req, &resp); err != nil {
		return nil, err
	}
	if resp.OrderRef == "" {
		return nil, errors.Wrap(ErrProviderFailure, "[RPClient.Initiate] empty orderRef")
	}

	return &InitiateResult{
		OrderRef:       resp.OrderRef,
		AutoStartToken: resp.AutoStartToken,
	}, nil
}

// Collect polls the state of an order and maps the provider's status
// vocabulary onto OrderStatus.
func (c *RPClient) Collect(ctx context.Context, orderRef string) (*CollectResult, error) {
	var resp collectResponse
	if err := c.post(ctx, "/rp/v6.0/collect", collectRequest{OrderRef: orderRef}, &resp); err != nil {
		return nil, err
	}

	result := &CollectResult{HintCode: resp.HintCode}
	switch resp.Status {
	case "pending":
		result.Status = OrderPending
	case "complete":
		result.Status = OrderComplete
		if resp.CompletionData != nil {
			result.User = &UserInfo{
				PersonalNumber: resp.CompletionData.User.PersonalNumber,
				Name:           resp.CompletionData.User.Name,
				GivenName:      resp.CompletionData.User.GivenName,
				Surname:        resp.CompletionData.User.Surname,
			}
		}
	case "failed":
		result.Status = OrderFailed
	default:
		return nil, errors.Wrapf(ErrProviderFailure, "[RPClient.Collect] unknown status %q", resp.Status)
	}
	return result, nil
}

// Cancel aborts an order. The provider returns an error for unknown orders;
// those are treated as already cancelled.
func (c *RPClient) Cancel(ctx context.Context, orderRef string) error {
	var resp struct{}
	err := c.post(ctx, "/rp/v6.0/cancel", collectRequest{OrderRef: orderRef}, &resp)
	if err != nil && !errors.Is(err, errOrderNotFound) {
		return err
	}
	return nil
}

var errOrderNotFound = errors.New("order not found")

func (c *RPClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrapf(err, "[RPClient] marshal %s", path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrapf(err, "[RPClient] request %s", path)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(ErrProviderFailure, "[RPClient] %s: %v", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errOrderNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(ErrProviderFailure, "[RPClient] %s: %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(ErrProviderFailure, "[RPClient] decode %s: %v", path, err)
	}
	return nil
}

// String implements fmt.Stringer without exposing credentials.
func (c *RPClient) String() string {
	return fmt.Sprintf("RPClient(%s)", c.baseURL)
}
