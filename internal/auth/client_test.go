package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshSendsRefreshTokenWithoutBearerHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/refresh", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "refresh must never carry a bearer header")

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "R1", body["refreshToken"])

		fmt.Fprint(w, `{"accessToken": "T2", "refreshToken": "R2"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	pair, err := client.Refresh(context.Background(), "R1")
	require.NoError(t, err)
	assert.Equal(t, &TokenPair{AccessToken: "T2", RefreshToken: "R2"}, pair)
}

func TestRefreshNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "refresh token revoked"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	pair, err := client.Refresh(context.Background(), "revoked")
	require.Error(t, err)
	assert.Nil(t, pair)
	assert.Contains(t, err.Error(), "status 401")
}

func TestRefreshRejectsIncompletePair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"accessToken": "T2"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	_, err := client.Refresh(context.Background(), "R1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete token pair")
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "teacher@example.com", body["username"])
		assert.Equal(t, "s3cret", body["password"])

		fmt.Fprint(w, `{"accessToken": "T1", "refreshToken": "R1"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	pair, err := client.Login(context.Background(), "teacher@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "T1", pair.AccessToken)
	assert.Equal(t, "R1", pair.RefreshToken)
}

func TestLoginBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid credentials"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	_, err := client.Login(context.Background(), "teacher@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
}
