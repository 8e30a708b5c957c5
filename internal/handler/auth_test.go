package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/miyata/campdash/backend/internal/auth"
	"github.com/miyata/campdash/backend/internal/handler"
)

func authServer(t *testing.T, tokenStatus int, tokenBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(tokenStatus)
		fmt.Fprint(w, tokenBody)
	})
	mux.HandleFunc("/oauth2/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"108","email":"hana@example.com","name":"Hana Sato"}`)
	})
	return httptest.NewServer(mux)
}

func authHandler(server *httptest.Server) *handler.AuthHandler {
	conf := &oauth2.Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  server.URL + "/auth",
			TokenURL: server.URL + "/token",
		},
	}
	return handler.NewAuthHandler(auth.NewService(conf, option.WithEndpoint(server.URL)))
}

func postRequest(path, body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod: "POST",
		Path:       path,
		Body:       body,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func TestAuthExchange_Success(t *testing.T) {
	server := authServer(t, http.StatusOK,
		`{"access_token":"at-123","refresh_token":"rt-456","expires_in":3600,"token_type":"Bearer"}`)
	defer server.Close()

	h := authHandler(server)
	resp, err := h.Exchange(context.Background(), postRequest("/auth/exchange", `{"code":"auth-code"}`))
	if err != nil {
		t.Fatalf("Exchange returned error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, resp.Body)
	}

	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		Profile      struct {
			Email string `json:"email"`
		} `json:"profile"`
	}
	json.Unmarshal([]byte(resp.Body), &body)
	if body.AccessToken != "at-123" {
		t.Errorf("Expected access token 'at-123', got '%s'", body.AccessToken)
	}
	if body.RefreshToken != "rt-456" {
		t.Errorf("Expected refresh token 'rt-456', got '%s'", body.RefreshToken)
	}
	if body.Profile.Email != "hana@example.com" {
		t.Errorf("Expected profile email, got '%s'", body.Profile.Email)
	}
}

func TestAuthExchange_MissingCode(t *testing.T) {
	server := authServer(t, http.StatusOK, `{}`)
	defer server.Close()

	h := authHandler(server)
	resp, err := h.Exchange(context.Background(), postRequest("/auth/exchange", `{}`))
	if err != nil {
		t.Fatalf("Exchange returned error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", resp.StatusCode, resp.Body)
	}
}

func TestAuthRefresh_OmitsUnrotatedRefreshToken(t *testing.T) {
	// Google's token endpoint usually omits refresh_token on refresh.
	server := authServer(t, http.StatusOK,
		`{"access_token":"at-new","expires_in":3600,"token_type":"Bearer"}`)
	defer server.Close()

	h := authHandler(server)
	resp, err := h.Refresh(context.Background(), postRequest("/auth/refresh", `{"refresh_token":"rt-456"}`))
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, resp.Body)
	}

	var body map[string]interface{}
	json.Unmarshal([]byte(resp.Body), &body)
	if body["access_token"] != "at-new" {
		t.Errorf("Expected access token 'at-new', got '%v'", body["access_token"])
	}
	if _, present := body["refresh_token"]; present {
		t.Error("Expected refresh_token to be omitted when the server did not rotate it")
	}
}

func TestAuthRefresh_InvalidGrant(t *testing.T) {
	server := authServer(t, http.StatusBadRequest,
		`{"error":"invalid_grant","error_description":"Token has been revoked."}`)
	defer server.Close()

	h := authHandler(server)
	resp, err := h.Refresh(context.Background(), postRequest("/auth/refresh", `{"refresh_token":"revoked"}`))
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d: %s", resp.StatusCode, resp.Body)
	}

	var body struct {
		Error string `json:"error"`
	}
	json.Unmarshal([]byte(resp.Body), &body)
	if body.Error != "invalid_grant" {
		t.Errorf("Expected error 'invalid_grant', got '%s'", body.Error)
	}
}

func TestAuthRefresh_MissingToken(t *testing.T) {
	server := authServer(t, http.StatusOK, `{}`)
	defer server.Close()

	h := authHandler(server)
	resp, err := h.Refresh(context.Background(), postRequest("/auth/refresh", `{}`))
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", resp.StatusCode, resp.Body)
	}
}
