package fitbit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthCodeURL(t *testing.T) {
	c := NewClient("client-1", "secret", "https://app.example.com/fitbit/callback")

	u, err := url.Parse(c.AuthCodeURL("state-123"))
	require.NoError(t, err)

	assert.Equal(t, "www.fitbit.com", u.Host)
	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "https://app.example.com/fitbit/callback", q.Get("redirect_uri"))
	assert.Equal(t, Scope, q.Get("scope"))
	assert.Equal(t, "state-123", q.Get("state"))
	assert.True(t, c.Configured())
	assert.False(t, NewClient("", "", "").Configured())
}

func TestExchangeAndProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth2/token":
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "client-1", user)
			assert.Equal(t, "secret", pass)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
			assert.Equal(t, "the-code", r.PostForm.Get("code"))
			_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","expires_in":28800,"user_id":"ABC123"}`))
		case "/1/user/-/profile.json":
			assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"user":{"encodedId":"ABC123","displayName":"Sam"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient("client-1", "secret", "https://app.example.com/cb")
	c.APIURL = srv.URL

	tok, err := c.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "at", tok.AccessToken)
	assert.Equal(t, "ABC123", tok.UserID)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(8*time.Hour), tok.ExpiresAt(now))

	profile, err := c.Profile(context.Background(), tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "Sam", profile.DisplayName)
}

func TestExchangeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"errorType":"invalid_grant"}]}`))
	}))
	defer srv.Close()

	c := NewClient("id", "secret", "https://cb")
	c.APIURL = srv.URL

	_, err := c.Exchange(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
