package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/miyata/campdash/backend/internal/drive"
	"github.com/miyata/campdash/backend/internal/listing"
	"github.com/miyata/campdash/backend/internal/model"
)

// FileHandler serves the folder listing and file content surface.
type FileHandler struct {
	svc *listing.Service
}

// NewFileHandler creates a FileHandler.
func NewFileHandler(svc *listing.Service) *FileHandler {
	return &FileHandler{svc: svc}
}

// ListFiles handles GET /files. Without a bearer token the request runs in
// service-account or mock mode; with one it runs in delegated-token mode
// and never falls back to simulation data.
func (h *FileHandler) ListFiles(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ref := req.QueryStringParameters["folderId"]
	if ref == "" {
		ref = req.QueryStringParameters["folderUrl"]
	}
	bearer := BearerToken(req)

	if ref == "" {
		return errorResponse(drive.NewError(drive.KindInvalidReference, "folderId or folderUrl is required"), bearer != ""), nil
	}

	set, err := h.svc.ListFolder(ctx, ref, bearer)
	if err != nil {
		fmt.Printf("ListFolder error: %v\n", err)
		return errorResponse(err, bearer != ""), nil
	}
	return jsonResponse(http.StatusOK, set), nil
}

// GetContent handles GET /files/{fileId}/content.
func (h *FileHandler) GetContent(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	fileID := req.PathParameters["fileId"]
	if fileID == "" {
		return errorResponse(drive.NewError(drive.KindInvalidReference, "missing file ID"), false), nil
	}
	mimeType := req.QueryStringParameters["mimeType"]

	result, err := h.svc.FileContent(ctx, fileID, mimeType)
	if err != nil {
		fmt.Printf("FileContent error: %v\n", err)
		return errorResponse(err, false), nil
	}

	type contentResponse struct {
		FileID   string       `json:"fileId"`
		Content  *string      `json:"content"`
		MIMEType string       `json:"mimeType"`
		Source   model.Source `json:"source"`
	}
	return jsonResponse(http.StatusOK, contentResponse{
		FileID:   result.FileID,
		Content:  result.Content,
		MIMEType: result.MIMEType,
		Source:   result.Source,
	}), nil
}

// OAuthContent handles GET /oauth/content?fileId= with a delegated token.
func (h *FileHandler) OAuthContent(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	bearer := BearerToken(req)
	if bearer == "" {
		return errorResponse(drive.NewError(drive.KindAuth, "missing bearer token"), true), nil
	}
	fileID := req.QueryStringParameters["fileId"]
	if fileID == "" {
		return errorResponse(drive.NewError(drive.KindInvalidReference, "fileId is required"), true), nil
	}

	result, err := h.svc.OAuthContent(ctx, fileID, bearer)
	if err != nil {
		fmt.Printf("OAuthContent error: %v\n", err)
		return errorResponse(err, true), nil
	}

	type oauthContentResponse struct {
		ID       string       `json:"id"`
		Name     string       `json:"name"`
		MIMEType string       `json:"mimeType"`
		Content  *string      `json:"content"`
		Source   model.Source `json:"source"`
	}
	return jsonResponse(http.StatusOK, oauthContentResponse{
		ID:       result.FileID,
		Name:     result.Name,
		MIMEType: result.MIMEType,
		Content:  result.Content,
		Source:   result.Source,
	}), nil
}
