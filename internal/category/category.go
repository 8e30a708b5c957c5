// Package category classifies files into the dashboard's semantic groups
// using ordered name/MIME heuristics. Classification is a grouping hint,
// not a strict taxonomy: false positives are acceptable as long as the
// result is deterministic for the same input.
package category

import (
	"strings"

	"github.com/miyata/campdash/backend/internal/model"
)

// GoogleDocMIMEType is the native Google document type. Document files are
// overwhelmingly meeting records in this domain, so the MIME check sits in
// the minutes rule ahead of every name heuristic.
const GoogleDocMIMEType = "application/vnd.google-apps.document"

var (
	minutesKeywords    = []string{"議事録", "打合せメモ", "minutes"}
	transcriptKeywords = []string{"文字起こし", "書き起こし", "transcript"}
	photoKeywords      = []string{"写真", "photo", "img_"}
)

// Categorize returns the category for a file. Pure and case-insensitive
// over the name; rule order is deliberate and first match wins.
func Categorize(name, mimeType string) model.Category {
	lower := strings.ToLower(name)

	if mimeType == GoogleDocMIMEType || containsAny(lower, minutesKeywords) {
		return model.CategoryMinutes
	}
	if containsAny(lower, transcriptKeywords) {
		return model.CategoryTranscript
	}
	if strings.HasPrefix(mimeType, "image/") || containsAny(lower, photoKeywords) {
		return model.CategoryPhoto
	}
	return model.CategoryOther
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Annotate copies raw metadata into categorized records.
func Annotate(raw []model.RawFile) []model.CategorizedFile {
	files := make([]model.CategorizedFile, 0, len(raw))
	for _, f := range raw {
		files = append(files, model.CategorizedFile{
			RawFile:  f,
			Category: Categorize(f.Name, f.MIMEType),
		})
	}
	return files
}

// Partition groups categorized files into the four buckets. Every file
// lands in exactly one bucket; input order is preserved within buckets.
func Partition(files []model.CategorizedFile) model.CategoryBuckets {
	b := model.CategoryBuckets{
		Minutes:    []model.CategorizedFile{},
		Transcript: []model.CategorizedFile{},
		Photo:      []model.CategorizedFile{},
		Other:      []model.CategorizedFile{},
	}
	for _, f := range files {
		switch f.Category {
		case model.CategoryMinutes:
			b.Minutes = append(b.Minutes, f)
		case model.CategoryTranscript:
			b.Transcript = append(b.Transcript, f)
		case model.CategoryPhoto:
			b.Photo = append(b.Photo, f)
		default:
			b.Other = append(b.Other, f)
		}
	}
	return b
}
