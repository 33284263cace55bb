package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrOAuthDisabled = errors.New("oauth server not configured")

// Identity is what the external provider reports about a signed-in user.
type Identity struct {
	OpenID      string  `json:"openId"`
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	LoginMethod *string `json:"loginMethod"`
}

// OAuthClient exchanges callback codes against the external identity
// provider. The provider itself (login pages, consent, token issuance)
// stays entirely outside this process.
type OAuthClient struct {
	BaseURL string
	AppID   string
	HTTP    *http.Client
}

func NewOAuthClient(baseURL, appID string) *OAuthClient {
	return &OAuthClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		AppID:   appID,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// ExchangeCode trades a one-time callback code for the caller's identity.
func (c *OAuthClient) ExchangeCode(ctx context.Context, code string) (*Identity, error) {
	if c.BaseURL == "" {
		return nil, ErrOAuthDisabled
	}

	q := url.Values{}
	q.Set("code", code)
	q.Set("appId", c.AppID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/userinfo?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oauth exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth exchange: provider returned %d", resp.StatusCode)
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, fmt.Errorf("oauth exchange: %w", err)
	}
	if id.OpenID == "" {
		return nil, errors.New("oauth exchange: provider returned no openId")
	}
	return &id, nil
}
