package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestEndpointRefresher_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-1", body["refresh_token"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"new-access","expiry_date":1735732800000}`))
	}))
	defer srv.Close()

	cred, err := NewEndpointRefresher(srv.URL, srv.Client()).Refresh(context.Background(), "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "new-access", cred.AccessToken)
	assert.Equal(t, int64(1735732800000), cred.ExpiryDate)
	assert.Empty(t, cred.RefreshToken)
}

func TestEndpointRefresher_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason RefreshFailure
		wantStatus int
	}{
		{"non-2xx", http.StatusBadGateway, `{"error":"upstream"}`, RefreshStatus, http.StatusBadGateway},
		{"unauthorized", http.StatusUnauthorized, ``, RefreshStatus, http.StatusUnauthorized},
		{"missing access token", http.StatusOK, `{"expiry_date":1}`, RefreshInvalidResponse, 0},
		{"malformed body", http.StatusOK, `not json`, RefreshInvalidResponse, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewEndpointRefresher(srv.URL, srv.Client()).Refresh(context.Background(), "refresh-1")
			var re *RefreshError
			require.True(t, errors.As(err, &re), "expected RefreshError, got %v", err)
			assert.Equal(t, tt.wantReason, re.Reason)
			assert.Equal(t, tt.wantStatus, re.StatusCode)
		})
	}
}

func TestEndpointRefresher_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewEndpointRefresher(url, nil).Refresh(context.Background(), "refresh-1")
	var re *RefreshError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, RefreshTransport, re.Reason)
}

func TestEndpointRefresher_NoRefreshTokenSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	_, err := NewEndpointRefresher(srv.URL, srv.Client()).Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoRefreshToken)
	assert.Equal(t, int32(0), hits.Load())
}

func newTokenEndpoint(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "refresh-1", r.PostForm.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func testOAuthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func TestOAuthRefresher_Success(t *testing.T) {
	srv := newTokenEndpoint(t, http.StatusOK,
		`{"access_token":"new-access","expires_in":3600,"token_type":"Bearer","scope":"openid"}`)
	defer srv.Close()

	cred, err := NewOAuthRefresher(testOAuthConfig(srv.URL), srv.Client()).Refresh(context.Background(), "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "new-access", cred.AccessToken)
	assert.NotZero(t, cred.ExpiryDate)
	assert.Equal(t, "openid", cred.Scope)
}

func TestOAuthRefresher_StatusError(t *testing.T) {
	srv := newTokenEndpoint(t, http.StatusBadRequest, `{"error":"invalid_grant"}`)
	defer srv.Close()

	_, err := NewOAuthRefresher(testOAuthConfig(srv.URL), srv.Client()).Refresh(context.Background(), "refresh-1")
	var re *RefreshError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, RefreshStatus, re.Reason)
	assert.Equal(t, http.StatusBadRequest, re.StatusCode)
}

func TestOAuthRefresher_NoRefreshToken(t *testing.T) {
	_, err := NewOAuthRefresher(testOAuthConfig("http://127.0.0.1:1/token"), nil).Refresh(context.Background(), "")
	var re *RefreshError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, RefreshNoToken, re.Reason)
}

func TestUnconfiguredRefresher(t *testing.T) {
	_, err := unconfiguredRefresher{}.Refresh(context.Background(), "refresh-1")
	assert.True(t, IsConfigError(err))

	_, err = unconfiguredRefresher{}.Refresh(context.Background(), "")
	assert.True(t, IsRefreshError(err))
}
