package documents

import (
	"path/filepath"
	"strings"
	"time"

	"legalbrief-backend/internal/summarize"
)

// FileType is the declared document format, derived from the file extension.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
)

// ParseFileType maps a file name to its allowed type.
func ParseFileType(fileName string) (FileType, bool) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return FileTypePDF, true
	case ".docx":
		return FileTypeDOCX, true
	default:
		return "", false
	}
}

// Document is an uploaded legal document owned by a session.
type Document struct {
	ID              int64
	SessionID       string
	FileName        string
	FileType        FileType
	FileSize        int64
	StorageKey      string
	OriginalText    *string
	UploadedAt      time.Time
	ProcessedAt     *time.Time
	Summary         *summarize.Summary
	ProcessingError *string
}

// IsProcessed reports whether the pipeline reached its success terminal state.
func (d Document) IsProcessed() bool {
	return d.ProcessedAt != nil
}
