package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/miyata/campdash/backend/internal/auth"
	"github.com/miyata/campdash/backend/internal/model"
)

// AuthHandler fronts the OAuth token lifecycle. Tokens pass through to the
// caller and are never persisted here.
type AuthHandler struct {
	svc *auth.Service
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Exchange handles POST /auth/exchange.
func (h *AuthHandler) Exchange(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var payload struct {
		Code        string `json:"code"`
		RedirectURI string `json:"redirect_uri"`
	}
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		return jsonResponse(http.StatusBadRequest, errorBody{Error: "invalid_request", Message: "invalid request body"}), nil
	}
	if payload.Code == "" {
		return jsonResponse(http.StatusBadRequest, errorBody{Error: "invalid_request", Message: "code is required"}), nil
	}

	tokens, profile, err := h.svc.ExchangeCode(ctx, payload.Code, payload.RedirectURI)
	if err != nil {
		fmt.Printf("ExchangeCode error: %v\n", err)
		return errorResponse(err, false), nil
	}

	type exchangeResponse struct {
		model.TokenSet
		Profile *model.Profile `json:"profile"`
	}
	return jsonResponse(http.StatusOK, exchangeResponse{TokenSet: *tokens, Profile: profile}), nil
}

// Refresh handles POST /auth/refresh. The response omits the refresh token
// unless the authorization server rotated it; callers keep their original.
func (h *AuthHandler) Refresh(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var payload struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		return jsonResponse(http.StatusBadRequest, errorBody{Error: "invalid_request", Message: "invalid request body"}), nil
	}
	if payload.RefreshToken == "" {
		return jsonResponse(http.StatusBadRequest, errorBody{Error: "invalid_request", Message: "refresh_token is required"}), nil
	}

	tokens, err := h.svc.Refresh(ctx, payload.RefreshToken)
	if err != nil {
		fmt.Printf("Refresh error: %v\n", err)
		return errorResponse(err, false), nil
	}
	return jsonResponse(http.StatusOK, tokens), nil
}
