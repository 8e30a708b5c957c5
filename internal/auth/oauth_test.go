package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// fakeAuthServer stands in for the authorization server and the userinfo
// endpoint.
func fakeAuthServer(t *testing.T, tokenStatus int, tokenBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("token endpoint called with %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(tokenStatus)
		fmt.Fprint(w, tokenBody)
	})
	mux.HandleFunc("/oauth2/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"108","email":"hana@example.com","name":"Hana Sato","picture":"https://example.com/p.png"}`)
	})
	return httptest.NewServer(mux)
}

func testService(t *testing.T, server *httptest.Server) *Service {
	t.Helper()
	conf := &oauth2.Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		RedirectURL:  "http://localhost:3000/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  server.URL + "/auth",
			TokenURL: server.URL + "/token",
		},
	}
	return NewService(conf, option.WithEndpoint(server.URL))
}

func TestExchangeCode_Success(t *testing.T) {
	server := fakeAuthServer(t, http.StatusOK,
		`{"access_token":"at-123","refresh_token":"rt-456","expires_in":3600,"token_type":"Bearer"}`)
	defer server.Close()

	s := testService(t, server)
	tokens, profile, err := s.ExchangeCode(context.Background(), "auth-code", "")
	if err != nil {
		t.Fatalf("ExchangeCode failed: %v", err)
	}
	if tokens.AccessToken != "at-123" {
		t.Errorf("access token = %q", tokens.AccessToken)
	}
	if tokens.RefreshToken != "rt-456" {
		t.Errorf("refresh token = %q", tokens.RefreshToken)
	}
	if tokens.ExpiresIn < 3590 || tokens.ExpiresIn > 3600 {
		t.Errorf("expires_in = %d, want ~3600", tokens.ExpiresIn)
	}
	if !strings.EqualFold(tokens.TokenType, "bearer") {
		t.Errorf("token type = %q", tokens.TokenType)
	}
	if profile == nil || profile.Email != "hana@example.com" || profile.ID != "108" {
		t.Errorf("unexpected profile: %+v", profile)
	}
}

func TestExchangeCode_InvalidGrant(t *testing.T) {
	server := fakeAuthServer(t, http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Bad Request"}`)
	defer server.Close()

	s := testService(t, server)
	_, _, err := s.ExchangeCode(context.Background(), "bad-code", "")
	if err == nil {
		t.Fatal("expected error for rejected code")
	}
	var authErr *Error
	if !errors.As(err, &authErr) || authErr.Kind != KindInvalidGrant {
		t.Fatalf("error = %v, want kind %q", err, KindInvalidGrant)
	}
}

func TestExchangeCode_UpstreamError(t *testing.T) {
	server := fakeAuthServer(t, http.StatusInternalServerError, `{"error":"server_error"}`)
	defer server.Close()

	s := testService(t, server)
	_, _, err := s.ExchangeCode(context.Background(), "any-code", "")
	var authErr *Error
	if !errors.As(err, &authErr) || authErr.Kind != KindUpstream {
		t.Fatalf("error = %v, want kind %q", err, KindUpstream)
	}
}

func TestExchangeCode_NotConfigured(t *testing.T) {
	s := NewService(&oauth2.Config{})
	_, _, err := s.ExchangeCode(context.Background(), "code", "")
	var authErr *Error
	if !errors.As(err, &authErr) || authErr.Kind != KindConfiguration {
		t.Fatalf("error = %v, want kind %q", err, KindConfiguration)
	}
}

func TestRefresh_Success(t *testing.T) {
	server := fakeAuthServer(t, http.StatusOK,
		`{"access_token":"at-new","expires_in":3600,"token_type":"Bearer"}`)
	defer server.Close()

	s := testService(t, server)
	tokens, err := s.Refresh(context.Background(), "rt-original")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if tokens.AccessToken != "at-new" {
		t.Errorf("access token = %q", tokens.AccessToken)
	}
	// The server issued no replacement, so the response must not echo the
	// input back: the caller keeps the original refresh token.
	if tokens.RefreshToken != "" {
		t.Errorf("refresh token = %q, want empty", tokens.RefreshToken)
	}
}

func TestRefresh_RotatedRefreshToken(t *testing.T) {
	server := fakeAuthServer(t, http.StatusOK,
		`{"access_token":"at-new","refresh_token":"rt-rotated","expires_in":3600,"token_type":"Bearer"}`)
	defer server.Close()

	s := testService(t, server)
	tokens, err := s.Refresh(context.Background(), "rt-original")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if tokens.RefreshToken != "rt-rotated" {
		t.Errorf("refresh token = %q, want the rotated token", tokens.RefreshToken)
	}
}

func TestRefresh_InvalidGrant(t *testing.T) {
	server := fakeAuthServer(t, http.StatusBadRequest, `{"error":"invalid_grant"}`)
	defer server.Close()

	s := testService(t, server)
	_, err := s.Refresh(context.Background(), "rt-revoked")
	var authErr *Error
	if !errors.As(err, &authErr) || authErr.Kind != KindInvalidGrant {
		t.Fatalf("error = %v, want kind %q", err, KindInvalidGrant)
	}
}

func TestRefresh_MissingToken(t *testing.T) {
	server := fakeAuthServer(t, http.StatusOK, `{}`)
	defer server.Close()

	s := testService(t, server)
	_, err := s.Refresh(context.Background(), "")
	var authErr *Error
	if !errors.As(err, &authErr) || authErr.Kind != KindInvalidGrant {
		t.Fatalf("error = %v, want kind %q", err, KindInvalidGrant)
	}
}

