package documents

import (
	"time"

	"legalbrief-backend/internal/summarize"
)

// UploadResponse is the immediate acknowledgement returned by the upload
// endpoint, before processing starts.
type UploadResponse struct {
	ID         int64     `json:"id"`
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize"`
	FileType   string    `json:"fileType"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ListItemResponse is one entry in the session's document listing.
type ListItemResponse struct {
	ID          int64      `json:"id"`
	FileName    string     `json:"fileName"`
	FileSize    int64      `json:"fileSize"`
	FileType    string     `json:"fileType"`
	UploadedAt  time.Time  `json:"uploadedAt"`
	ProcessedAt *time.Time `json:"processedAt"`
	IsProcessed bool       `json:"isProcessed"`
}

// DetailResponse is the full public view of a document.
type DetailResponse struct {
	ID              int64              `json:"id"`
	FileName        string             `json:"fileName"`
	FileSize        int64              `json:"fileSize"`
	FileType        string             `json:"fileType"`
	UploadedAt      time.Time          `json:"uploadedAt"`
	ProcessedAt     *time.Time         `json:"processedAt"`
	IsProcessed     bool               `json:"isProcessed"`
	Summary         *summarize.Summary `json:"summary"`
	ProcessingError *string            `json:"processingError"`
}

func toUploadResponse(doc Document) UploadResponse {
	return UploadResponse{
		ID:         doc.ID,
		FileName:   doc.FileName,
		FileSize:   doc.FileSize,
		FileType:   string(doc.FileType),
		UploadedAt: doc.UploadedAt,
	}
}

func toListItemResponse(doc Document) ListItemResponse {
	return ListItemResponse{
		ID:          doc.ID,
		FileName:    doc.FileName,
		FileSize:    doc.FileSize,
		FileType:    string(doc.FileType),
		UploadedAt:  doc.UploadedAt,
		ProcessedAt: doc.ProcessedAt,
		IsProcessed: doc.IsProcessed(),
	}
}

func toDetailResponse(doc Document) DetailResponse {
	return DetailResponse{
		ID:              doc.ID,
		FileName:        doc.FileName,
		FileSize:        doc.FileSize,
		FileType:        string(doc.FileType),
		UploadedAt:      doc.UploadedAt,
		ProcessedAt:     doc.ProcessedAt,
		IsProcessed:     doc.IsProcessed(),
		Summary:         doc.Summary,
		ProcessingError: doc.ProcessingError,
	}
}
