package model

import "time"

// Category is a semantic file class derived from name/MIME heuristics,
// used for grouping in the dashboard UI.
type Category string

const (
	CategoryMinutes    Category = "minutes"
	CategoryTranscript Category = "transcript"
	CategoryPhoto      Category = "photo"
	CategoryOther      Category = "other"
)

// Source records where a response was served from, so the UI can decide
// how much to trust the data.
type Source string

const (
	SourceGoogleDrive Source = "google_drive"
	SourceSimulation  Source = "simulation"
	SourceLocal       Source = "local"
	SourceError       Source = "error"
)

// RawFile is backend-neutral file metadata, constructed per request and
// discarded after categorization.
type RawFile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MIMEType      string `json:"mimeType"`
	WebViewLink   string `json:"webViewLink,omitempty"`
	ThumbnailLink string `json:"thumbnailLink,omitempty"`
	CreatedTime   string `json:"createdTime,omitempty"`
	Size          int64  `json:"size,omitempty"`
}

// CategorizedFile is a RawFile annotated with its computed category.
// The category is never supplied by a backend.
type CategorizedFile struct {
	RawFile
	Category Category `json:"category"`
}

// CategoryBuckets groups files by category. Every file of a set appears
// in exactly one bucket.
type CategoryBuckets struct {
	Minutes    []CategorizedFile `json:"minutes"`
	Transcript []CategorizedFile `json:"transcript"`
	Photo      []CategorizedFile `json:"photo"`
	Other      []CategorizedFile `json:"other"`
}

// CategorizedFileSet is the normalized listing result returned to callers.
// Invariant: Categorized partitions Files and Total == len(Files).
type CategorizedFileSet struct {
	Files          []CategorizedFile `json:"files"`
	Categorized    CategoryBuckets   `json:"categorized"`
	Total          int               `json:"total"`
	Source         Source            `json:"source"`
	FallbackReason string            `json:"fallback_reason,omitempty"`
}

// FileContent is the result of a content fetch. Content is nil for MIME
// types that are neither exportable nor directly downloadable.
type FileContent struct {
	FileID   string `json:"fileId"`
	Content  []byte `json:"-"`
	MIMEType string `json:"mimeType"`
}

// TokenSet mirrors the OAuth token endpoint response. The caller owns it;
// nothing here is persisted server-side.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Profile is the basic user identity returned alongside a code exchange.
type Profile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

// Folder is a local simulation-store folder record.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url,omitempty"`
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// File is a local simulation-store file record. Each file belongs to
// exactly one folder.
type File struct {
	ID          string `json:"id"`
	FolderID    string `json:"folderId"`
	Name        string `json:"name"`
	MIMEType    string `json:"mimeType"`
	Content     []byte `json:"-"`
	WebViewLink string `json:"webViewLink,omitempty"`
	CreatedTime string `json:"createdTime,omitempty"`
	Size        int64  `json:"size,omitempty"`
}
