package handler_test

import (
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/miyata/campdash/backend/internal/handler"
)

func TestBearerToken_AuthorizationHeader(t *testing.T) {
	req := events.APIGatewayProxyRequest{
		Headers: map[string]string{
			"Authorization": "Bearer ya29.a0AfH6S",
		},
	}
	if got := handler.BearerToken(req); got != "ya29.a0AfH6S" {
		t.Errorf("Expected token 'ya29.a0AfH6S', got '%s'", got)
	}
}

func TestBearerToken_CaseInsensitiveHeader(t *testing.T) {
	// API Gateway passes header casing through unchanged.
	req := events.APIGatewayProxyRequest{
		Headers: map[string]string{
			"authorization": "Bearer tok-lower",
		},
	}
	if got := handler.BearerToken(req); got != "tok-lower" {
		t.Errorf("Expected token 'tok-lower', got '%s'", got)
	}
}

func TestBearerToken_NoHeader(t *testing.T) {
	req := events.APIGatewayProxyRequest{Headers: map[string]string{}}
	if got := handler.BearerToken(req); got != "" {
		t.Errorf("Expected empty token, got '%s'", got)
	}
}

func TestBearerToken_WrongScheme(t *testing.T) {
	req := events.APIGatewayProxyRequest{
		Headers: map[string]string{
			"Authorization": "Basic dXNlcjpwYXNz",
		},
	}
	if got := handler.BearerToken(req); got != "" {
		t.Errorf("Expected empty token for non-bearer scheme, got '%s'", got)
	}
}
