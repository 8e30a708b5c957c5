// Package listing resolves folder references against whichever backend can
// service the request, normalizes the result, and decides when a failed
// live query may degrade to the local simulation store.
package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/miyata/campdash/backend/internal/category"
	"github.com/miyata/campdash/backend/internal/drive"
	"github.com/miyata/campdash/backend/internal/folderref"
	"github.com/miyata/campdash/backend/internal/localstore"
	"github.com/miyata/campdash/backend/internal/model"
)

// DriveClient is the slice of the drive adapter the pipeline needs.
// Narrowed to an interface so the fallback branching is testable without
// network calls.
type DriveClient interface {
	ListFiles(ctx context.Context, folderID string) ([]model.RawFile, error)
	GetMetadata(ctx context.Context, fileID string) (*model.RawFile, error)
	GetContent(ctx context.Context, fileID, mimeType string) (*model.FileContent, error)
}

// ClientFactory builds a DriveClient for a live mode. Never called for
// ModeMock.
type ClientFactory func(ctx context.Context, mode drive.Mode, bearer string) (DriveClient, error)

// DriveFactory is the production ClientFactory.
func DriveFactory(creds drive.ServiceCredentials) ClientFactory {
	return func(ctx context.Context, mode drive.Mode, bearer string) (DriveClient, error) {
		if mode == drive.ModeOAuth {
			return drive.NewBearerClient(ctx, bearer)
		}
		return drive.NewServiceAccountClient(ctx, creds)
	}
}

// Service wires the resolver, the mode probe, the drive adapter, and the
// simulation store into the per-request pipeline.
type Service struct {
	creds   drive.ServiceCredentials
	store   *localstore.Store
	factory ClientFactory
}

// NewService creates a Service. The store must be the process-wide
// simulation store; factory supplies drive clients per request.
func NewService(creds drive.ServiceCredentials, store *localstore.Store, factory ClientFactory) *Service {
	return &Service{creds: creds, store: store, factory: factory}
}

const noCredentialsReason = "no drive credentials configured; serving simulation data"

// ListFolder lists a folder's files, categorized. ref may be a canonical
// folder ID or a share URL; bearer, when present, switches the request to
// delegated-token mode where no fallback is permitted.
func (s *Service) ListFolder(ctx context.Context, ref, bearer string) (*model.CategorizedFileSet, error) {
	folderID, err := folderref.Resolve(ref)
	if err != nil {
		return nil, &drive.Error{Kind: drive.KindInvalidReference, Message: err.Error(),
			Hint: "pass a Drive folder ID or a share URL containing one"}
	}

	mode := drive.DetectMode(s.creds, bearer)
	if mode == drive.ModeMock {
		return s.simulationSet(folderID, noCredentialsReason), nil
	}

	client, err := s.factory(ctx, mode, bearer)
	if err != nil {
		return nil, drive.Classify(err, s.creds.Email)
	}

	raw, err := client.ListFiles(ctx, folderID)
	if err != nil {
		classified := drive.Classify(err, s.creds.Email)
		if mode == drive.ModeOAuth || !canFallback(classified) {
			// Substituting simulation data for an authenticated user would be
			// a correctness violation, so delegated-token failures surface.
			return nil, classified
		}
		fmt.Printf("ListFolder degraded to simulation: %v\n", classified)
		return s.simulationSet(folderID, fallbackReason(classified)), nil
	}

	return categorizedSet(raw, model.SourceGoogleDrive, ""), nil
}

// ContentResult is a content fetch annotated with provenance.
type ContentResult struct {
	FileID   string       `json:"fileId"`
	Name     string       `json:"name,omitempty"`
	Content  *string      `json:"content"`
	MIMEType string       `json:"mimeType"`
	Source   model.Source `json:"source"`
}

// FileContent fetches a file body in service-account or mock mode,
// degrading to the simulation store per the fallback policy.
func (s *Service) FileContent(ctx context.Context, fileID, mimeType string) (*ContentResult, error) {
	mode := drive.DetectMode(s.creds, "")
	if mode == drive.ModeMock {
		return s.localContent(fileID)
	}

	client, err := s.factory(ctx, mode, "")
	if err != nil {
		return nil, drive.Classify(err, s.creds.Email)
	}

	result, err := s.fetchContent(ctx, client, fileID, mimeType)
	if err != nil {
		classified := drive.Classify(err, s.creds.Email)
		if !canFallback(classified) {
			return nil, classified
		}
		fmt.Printf("FileContent degraded to local store: %v\n", classified)
		if local, lerr := s.localContent(fileID); lerr == nil {
			return local, nil
		}
		return nil, classified
	}
	return result, nil
}

// OAuthContent fetches metadata plus content with a delegated token. Two
// sequential calls at most; failures surface unconditionally.
func (s *Service) OAuthContent(ctx context.Context, fileID, bearer string) (*ContentResult, error) {
	client, err := s.factory(ctx, drive.ModeOAuth, bearer)
	if err != nil {
		return nil, drive.Classify(err, "")
	}

	meta, err := client.GetMetadata(ctx, fileID)
	if err != nil {
		return nil, drive.Classify(err, "")
	}

	content, err := client.GetContent(ctx, fileID, meta.MIMEType)
	if err != nil {
		return nil, drive.Classify(err, "")
	}

	result := &ContentResult{
		FileID:   meta.ID,
		Name:     meta.Name,
		MIMEType: content.MIMEType,
		Source:   model.SourceGoogleDrive,
	}
	if content.Content != nil {
		body := string(content.Content)
		result.Content = &body
	}
	return result, nil
}

// RegisterResult is a folder registration plus the degradation annotation
// when live verification was skipped or failed.
type RegisterResult struct {
	Folder         *model.Folder `json:"folder"`
	Source         model.Source  `json:"source"`
	FallbackReason string        `json:"fallback_reason,omitempty"`
}

// RegisterFolder validates and resolves a share URL, verifies it against
// the live backend when service credentials allow, and records a local
// folder entry either way.
func (s *Service) RegisterFolder(ctx context.Context, rawURL, name string) (*RegisterResult, error) {
	folderID, err := folderref.Resolve(rawURL)
	if err != nil {
		return nil, &drive.Error{Kind: drive.KindInvalidReference, Message: err.Error(),
			Hint: "pass a Drive folder share URL"}
	}

	mode := drive.DetectMode(s.creds, "")
	if mode == drive.ModeMock {
		folder := s.store.RegisterFolder(folderID, defaultName(name, ""), rawURL, model.SourceSimulation)
		return &RegisterResult{Folder: folder, Source: model.SourceSimulation, FallbackReason: noCredentialsReason}, nil
	}

	client, err := s.factory(ctx, mode, "")
	if err != nil {
		return nil, drive.Classify(err, s.creds.Email)
	}

	meta, err := client.GetMetadata(ctx, folderID)
	if err != nil {
		classified := drive.Classify(err, s.creds.Email)
		if !canFallback(classified) {
			return nil, classified
		}
		folder := s.store.RegisterFolder(folderID, defaultName(name, ""), rawURL, model.SourceSimulation)
		return &RegisterResult{Folder: folder, Source: model.SourceSimulation, FallbackReason: fallbackReason(classified)}, nil
	}

	folder := s.store.RegisterFolder(folderID, defaultName(name, meta.Name), rawURL, model.SourceGoogleDrive)
	return &RegisterResult{Folder: folder, Source: model.SourceGoogleDrive}, nil
}

func (s *Service) fetchContent(ctx context.Context, client DriveClient, fileID, mimeType string) (*ContentResult, error) {
	if mimeType == "" {
		meta, err := client.GetMetadata(ctx, fileID)
		if err != nil {
			return nil, err
		}
		mimeType = meta.MIMEType
	}

	content, err := client.GetContent(ctx, fileID, mimeType)
	if err != nil {
		return nil, err
	}

	result := &ContentResult{FileID: fileID, MIMEType: content.MIMEType, Source: model.SourceGoogleDrive}
	if content.Content != nil {
		body := string(content.Content)
		result.Content = &body
	}
	return result, nil
}

func (s *Service) localContent(fileID string) (*ContentResult, error) {
	f, err := s.store.GetFile(fileID)
	if err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return nil, &drive.Error{Kind: drive.KindPermission,
				Message: "file not found in the simulation store",
				Hint:    "configure drive credentials to fetch live file content"}
		}
		return nil, drive.Classify(err, s.creds.Email)
	}

	result := &ContentResult{FileID: f.ID, Name: f.Name, MIMEType: f.MIMEType, Source: model.SourceLocal}
	if f.Content != nil {
		body := string(f.Content)
		result.Content = &body
	}
	return result, nil
}

func (s *Service) simulationSet(folderID, reason string) *model.CategorizedFileSet {
	return categorizedSet(s.store.ListFiles(folderID), model.SourceSimulation, reason)
}

func categorizedSet(raw []model.RawFile, source model.Source, reason string) *model.CategorizedFileSet {
	files := category.Annotate(raw)
	return &model.CategorizedFileSet{
		Files:          files,
		Categorized:    category.Partition(files),
		Total:          len(files),
		Source:         source,
		FallbackReason: reason,
	}
}

// canFallback reports whether the failure class may degrade to simulation
// data. Auth failures never do: the caller must re-authenticate instead of
// receiving someone else's dataset.
func canFallback(e *drive.Error) bool {
	return e.Kind == drive.KindPermission || e.Kind == drive.KindTransient
}

func fallbackReason(e *drive.Error) string {
	if e.Hint != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Hint)
	}
	return e.Message
}

func defaultName(requested, discovered string) string {
	if requested != "" {
		return requested
	}
	if discovered != "" {
		return discovered
	}
	return "Campaign Folder"
}
