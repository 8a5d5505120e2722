// Package fitbit implements the Fitbit OAuth 2.0 authorization-code flow and
// the profile call made right after linking an account.
package fitbit

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
	DefaultAuthorizeURL = "https://www.fitbit.com/oauth2/authorize"
	DefaultAPIURL       = "https://api.fitbit.com"
	Scope               = "nutrition profile weight activity heartrate sleep"
)

// Token is the token endpoint response.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
	UserID       string `json:"user_id"`
}

// ExpiresAt converts ExpiresIn to an absolute time relative to now.
func (t Token) ExpiresAt(now time.Time) time.Time {
	return now.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// Profile is the subset of /1/user/-/profile.json the app keeps.
type Profile struct {
	EncodedID   string `json:"encodedId"`
	DisplayName string `json:"displayName"`
}

// Client holds the registered Fitbit application credentials.
type Client struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthorizeURL string
	APIURL       string
	HTTPClient   *http.Client
}

func NewClient(clientID, clientSecret, redirectURL string) *Client {
	return &Client{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		AuthorizeURL: DefaultAuthorizeURL,
		APIURL:       DefaultAPIURL,
		HTTPClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether client credentials are present.
func (c *Client) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != ""
}

// AuthCodeURL builds the consent page URL for state.
func (c *Client) AuthCodeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.ClientID)
	q.Set("redirect_uri", c.RedirectURL)
	q.Set("scope", Scope)
	q.Set("state", state)
	return c.AuthorizeURL + "?" + q.Encode()
}

// Exchange trades an authorization code for tokens.
func (c *Client) Exchange(ctx context.Context, code string) (*Token, error) {
	form := url.Values{}
	form.Set("client_id", c.ClientID)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", c.RedirectURL)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.ClientID, c.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok Token
	if err := c.do(req, &tok); err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}
	return &tok, nil
}

// Profile fetches the linked user's profile.
func (c *Client) Profile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+"/1/user/-/profile.json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var body struct {
		User Profile `json:"user"`
	}
	if err := c.do(req, &body); err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &body.User, nil
}

func (c *Client) do(req *http.Request, v any) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fitbit returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.Unmarshal(body, v)
}
