package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/miyata/campdash/backend/internal/auth"
	"github.com/miyata/campdash/backend/internal/drive"
	"github.com/miyata/campdash/backend/internal/model"
)

// getHeader performs a case-insensitive header lookup; API Gateway does
// not normalize header casing.
func getHeader(req events.APIGatewayProxyRequest, name string) string {
	for k, v := range req.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// BearerToken extracts the delegated access token from the Authorization
// header, or "" when the caller sent none.
func BearerToken(req events.APIGatewayProxyRequest) string {
	authHeader := getHeader(req, "Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func jsonResponse(status int, v interface{}) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(v)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// errorBody is the machine-readable error shape. Never a stack trace.
type errorBody struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Hint    string       `json:"hint,omitempty"`
	Source  model.Source `json:"source,omitempty"`
}

// errorResponse maps a classified error to an HTTP response. withSource
// stamps source: "error" for the delegated-token surfaces, whose callers
// branch on provenance.
func errorResponse(err error, withSource bool) events.APIGatewayProxyResponse {
	body := errorBody{Error: "transient", Message: "request failed"}
	status := http.StatusBadGateway

	switch e := err.(type) {
	case *drive.Error:
		body.Error = string(e.Kind)
		body.Message = e.Message
		body.Hint = e.Hint
		switch e.Kind {
		case drive.KindInvalidReference:
			status = http.StatusBadRequest
		case drive.KindConfiguration:
			status = http.StatusInternalServerError
		case drive.KindAuth:
			status = http.StatusUnauthorized
		case drive.KindPermission:
			status = http.StatusForbidden
		default:
			status = http.StatusBadGateway
		}
	case *auth.Error:
		body.Error = string(e.Kind)
		body.Message = e.Message
		switch e.Kind {
		case auth.KindConfiguration:
			status = http.StatusInternalServerError
		case auth.KindInvalidGrant:
			status = http.StatusUnprocessableEntity
		default:
			status = http.StatusBadGateway
		}
	default:
		body.Message = err.Error()
	}

	if withSource {
		body.Source = model.SourceError
	}
	return jsonResponse(status, body)
}
