// Package localstore is the process-scoped simulation store the dashboard
// degrades to when no live Drive backend can service a request. Entities
// live for the process lifetime and reset on restart; nothing is persisted.
package localstore

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/miyata/campdash/backend/internal/model"
)

// ErrNotFound is returned when a requested entity is not in the store.
var ErrNotFound = errors.New("resource not found")

// SeedFolderID is the fixture campaign folder every listing falls back to.
const SeedFolderID = "sim-folder-campaign-2026"

// Store holds the simulation dataset. Inject it explicitly; the request
// pipeline never reaches into a hidden singleton.
type Store struct {
	mu      sync.RWMutex
	folders map[string]*model.Folder
	files   map[string]*model.File
}

// NewStore returns a store seeded with a deterministic campaign folder
// covering all four file categories.
func NewStore() *Store {
	s := &Store{
		folders: make(map[string]*model.Folder),
		files:   make(map[string]*model.File),
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	seedTime := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	s.folders[SeedFolderID] = &model.Folder{
		ID:        SeedFolderID,
		Name:      "アカデミーキャンペーン2026",
		Source:    model.SourceSimulation,
		CreatedAt: seedTime,
		UpdatedAt: seedTime,
	}

	seeds := []model.File{
		{
			ID:          "sim-file-minutes-01",
			Name:        "MTG議事録_20260201",
			MIMEType:    "application/vnd.google-apps.document",
			Content:     []byte("キックオフMTG議事録\n- キャンペーン方針の確認\n- 撮影スケジュール調整\n- 次回: 2/8(日) 10:00"),
			CreatedTime: "2026-02-01T10:30:00Z",
		},
		{
			ID:          "sim-file-transcript-01",
			Name:        "transcript_mtg_0201.txt",
			MIMEType:    "text/plain",
			Content:     []byte("[00:00] 司会: それでは始めます。\n[00:12] 田中: 先月の振り返りから共有します。"),
			CreatedTime: "2026-02-01T10:00:00Z",
			Size:        96,
		},
		{
			ID:          "sim-file-photo-01",
			Name:        "photo_academy_01.jpg",
			MIMEType:    "image/jpeg",
			CreatedTime: "2026-01-25T14:00:00Z",
			Size:        482113,
		},
		{
			ID:          "sim-file-photo-02",
			Name:        "photo_academy_02.jpg",
			MIMEType:    "image/jpeg",
			CreatedTime: "2026-01-25T14:05:00Z",
			Size:        390247,
		},
		{
			ID:          "sim-file-other-01",
			Name:        "campaign_budget.xlsx",
			MIMEType:    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			CreatedTime: "2026-01-20T08:00:00Z",
			Size:        20480,
		},
	}
	for i := range seeds {
		f := seeds[i]
		f.FolderID = SeedFolderID
		s.files[f.ID] = &f
	}
}

// ListFiles returns the files of folderID as backend-neutral metadata,
// newest first. Unknown folders serve the seeded fixture set so a degraded
// listing always succeeds deterministically.
func (s *Store) ListFiles(folderID string) []model.RawFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target := folderID
	if _, ok := s.folders[target]; !ok {
		target = SeedFolderID
	}

	var files []model.RawFile
	for _, f := range s.files {
		if f.FolderID == target {
			files = append(files, toRawFile(f))
		}
	}
	sortNewestFirst(files)
	return files
}

// GetFile returns a copy of a stored file.
func (s *Store) GetFile(fileID string) (*model.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[fileID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	cp.Content = append([]byte(nil), f.Content...)
	return &cp, nil
}

// Folder returns a copy of a stored folder.
func (s *Store) Folder(folderID string) (*model.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.folders[folderID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	return &cp, nil
}

// RegisterFolder records a folder reference resolved from a share URL.
// The source records whether it was verified against the live backend.
func (s *Store) RegisterFolder(id, name, url string, source model.Source) *model.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.folders[id]; ok {
		existing.Name = name
		existing.URL = url
		existing.Source = source
		existing.UpdatedAt = time.Now()
		cp := *existing
		return &cp
	}

	now := time.Now()
	folder := &model.Folder{
		ID:        id,
		Name:      name,
		URL:       url,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.folders[id] = folder
	cp := *folder
	return &cp
}

// AddFile appends a file to a folder and bumps the folder's UpdatedAt.
// The bump is last-writer-wins; the store is not authoritative.
func (s *Store) AddFile(folderID, name, mimeType string, content []byte) (*model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder, ok := s.folders[folderID]
	if !ok {
		return nil, ErrNotFound
	}

	now := time.Now()
	f := &model.File{
		ID:          uuid.New().String(),
		FolderID:    folderID,
		Name:        name,
		MIMEType:    mimeType,
		Content:     append([]byte(nil), content...),
		CreatedTime: now.UTC().Format(time.RFC3339),
		Size:        int64(len(content)),
	}
	s.files[f.ID] = f
	folder.UpdatedAt = now

	cp := *f
	cp.Content = append([]byte(nil), f.Content...)
	return &cp, nil
}

func toRawFile(f *model.File) model.RawFile {
	return model.RawFile{
		ID:          f.ID,
		Name:        f.Name,
		MIMEType:    f.MIMEType,
		WebViewLink: f.WebViewLink,
		CreatedTime: f.CreatedTime,
		Size:        f.Size,
	}
}

// sortNewestFirst orders by CreatedTime descending, breaking ties by ID so
// files sharing a timestamp keep a stable order.
func sortNewestFirst(files []model.RawFile) {
	sort.Slice(files, func(i, j int) bool {
		if files[i].CreatedTime != files[j].CreatedTime {
			return files[i].CreatedTime > files[j].CreatedTime
		}
		return files[i].ID < files[j].ID
	})
}
