// Package drive queries the Google Drive API and normalizes its file
// metadata into the backend-neutral model types.
package drive

import (
	"context"
	"io"
	"strings"

	"github.com/miyata/campdash/backend/internal/model"
	"golang.org/x/oauth2"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const fileFields = "files(id, name, mimeType, webViewLink, thumbnailLink, createdTime, size)"

// Client wraps an authenticated Drive service. Construct one per request;
// it carries no state beyond the token source it was built with.
type Client struct {
	service *gdrive.Service
}

// NewClient creates a Client from a token source (service-account JWT or
// a static delegated token).
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	srv, err := gdrive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, &Error{Kind: KindTransient, Message: "unable to create drive service", cause: err}
	}
	return &Client{service: srv}, nil
}

// ListFiles lists non-trashed files in a folder, newest first. The
// shared-drive flags are required: a plain personal-drive query silently
// returns zero results for folders living inside a shared drive.
func (c *Client) ListFiles(ctx context.Context, folderID string) ([]model.RawFile, error) {
	q := "'" + folderID + "' in parents and trashed = false"

	r, err := c.service.Files.List().
		Q(q).
		OrderBy("createdTime desc").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Fields(googleapi.Field(fileFields)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	files := make([]model.RawFile, 0, len(r.Files))
	for _, f := range r.Files {
		files = append(files, toRawFile(f))
	}
	return files, nil
}

// GetMetadata retrieves a single file's metadata.
func (c *Client) GetMetadata(ctx context.Context, fileID string) (*model.RawFile, error) {
	f, err := c.service.Files.Get(fileID).
		SupportsAllDrives(true).
		Fields("id, name, mimeType, webViewLink, thumbnailLink, createdTime, size").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	raw := toRawFile(f)
	return &raw, nil
}

// GetContent fetches a file's body. Native Google documents are exported
// to plain text; text and JSON types are downloaded directly; every other
// MIME type yields nil content with no error; callers must not treat a
// nil body as a failure.
func (c *Client) GetContent(ctx context.Context, fileID, mimeType string) (*model.FileContent, error) {
	switch {
	case mimeType == "application/vnd.google-apps.document":
		resp, err := c.service.Files.Export(fileID, "text/plain").Context(ctx).Download()
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		content, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return &model.FileContent{FileID: fileID, Content: content, MIMEType: "text/plain"}, nil

	case downloadable(mimeType):
		resp, err := c.service.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		content, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return &model.FileContent{FileID: fileID, Content: content, MIMEType: mimeType}, nil

	default:
		return &model.FileContent{FileID: fileID, MIMEType: mimeType}, nil
	}
}

func downloadable(mimeType string) bool {
	return strings.HasPrefix(mimeType, "text/") || mimeType == "application/json"
}

func toRawFile(f *gdrive.File) model.RawFile {
	return model.RawFile{
		ID:            f.Id,
		Name:          f.Name,
		MIMEType:      f.MimeType,
		WebViewLink:   f.WebViewLink,
		ThumbnailLink: f.ThumbnailLink,
		CreatedTime:   f.CreatedTime,
		Size:          f.Size,
	}
}
