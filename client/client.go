// Package client is a Go client for the legalbrief API, including the
// polling controller that drives the processing-wait flow.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"legalbrief-backend/internal/summarize"
)

// Document is the server's public view of an uploaded document.
type Document struct {
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

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// Client talks to the legalbrief API. The session cookie issued on the first
// request is kept in the jar, so one Client is one anonymous session.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a Client for the given base URL.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Upload sends a document and returns the immediate acknowledgement.
// Processing continues server-side after this returns.
func (c *Client) Upload(ctx context.Context, fileName string, r io.Reader) (Document, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return Document{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return Document{}, err
	}
	if err := writer.Close(); err != nil {
		return Document{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/documents/upload", body)
	if err != nil {
		return Document{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var doc Document
	if err := c.do(req, http.StatusCreated, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// List returns the session's documents, newest first.
func (c *Client) List(ctx context.Context) ([]Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/documents", nil)
	if err != nil {
		return nil, err
	}
	var docs []Document
	if err := c.do(req, http.StatusOK, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Get returns one document including its summary and processing error.
func (c *Client) Get(ctx context.Context, id int64) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/documents/%d", c.baseURL, id), nil)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := c.do(req, http.StatusOK, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeAPIError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Code: "unknown"}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		if envelope.Error.Code != "" {
			apiErr.Code = envelope.Error.Code
		}
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
