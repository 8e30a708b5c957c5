package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/miyata/campdash/backend/internal/drive"
	"github.com/miyata/campdash/backend/internal/listing"
)

// FolderHandler registers campaign folders from share URLs.
type FolderHandler struct {
	svc *listing.Service
}

// NewFolderHandler creates a FolderHandler.
func NewFolderHandler(svc *listing.Service) *FolderHandler {
	return &FolderHandler{svc: svc}
}

// RegisterFolder handles POST /folders.
func (h *FolderHandler) RegisterFolder(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var payload struct {
		URL  string `json:"url"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		return errorResponse(drive.NewError(drive.KindInvalidReference, "invalid request body"), false), nil
	}
	if payload.URL == "" {
		return errorResponse(drive.NewError(drive.KindInvalidReference, "url is required"), false), nil
	}

	result, err := h.svc.RegisterFolder(ctx, payload.URL, payload.Name)
	if err != nil {
		fmt.Printf("RegisterFolder error: %v\n", err)
		return errorResponse(err, false), nil
	}
	return jsonResponse(http.StatusCreated, result), nil
}
