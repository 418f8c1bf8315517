package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"legalbrief-backend/internal/bootstrap"
	"legalbrief-backend/internal/shared/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:            "0",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		TempDir:         t.TempDir(),
		LLMModel:        "gpt-4o",
		MaxUploadMB:     1,
		DocExpiryHours:  24,
		SessionTTLHours: 24,
		PipelineWorkers: 2,
	}
}

func newTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(testConfig(t))
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Shutdown(ctx)
	})
	return app
}

// stubExtractor returns canned text or a canned error. A non-nil gate blocks
// the extraction until the channel is closed, letting tests observe the
// document mid-flight.
type stubExtractor struct {
	text string
	err  error
	gate chan struct{}
}

func (s *stubExtractor) Extract(ctx context.Context, filePath string, fileType string) (string, error) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) SummarizeDocument(ctx context.Context, documentText string) (json.RawMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.response), nil
}

const validSummaryJSON = `{
	"parties": [{"name": "Acme Corp", "role": "Landlord"}],
	"obligations": ["Pay rent by the 1st of each month"],
	"dates": [{"event": "Lease start", "date": "2025-07-01"}],
	"terms": [{"title": "Term", "description": "12 month lease"}],
	"risks": [{"title": "Late fees", "description": "5% penalty after 5 days", "severity": "medium"}],
	"raw": "A 12 month lease between Acme Corp and the tenant."
}`

func multipartBody(t *testing.T, fieldName, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func doUpload(t *testing.T, router *gin.Engine, cookie *http.Cookie, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, "file", fileName, content)
	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func doGet(t *testing.T, router *gin.Engine, cookie *http.Cookie, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func sessionCookie(t *testing.T, resp *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range resp.Result().Cookies() {
		if c.Name == "session_id" {
			return c
		}
	}
	t.Fatalf("no session_id cookie in response")
	return nil
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (body %q)", err, resp.Body.String())
	}
	return envelope.Error.Code
}

type documentView struct {
	ID              int64           `json:"id"`
	FileName        string          `json:"fileName"`
	FileSize        int64           `json:"fileSize"`
	FileType        string          `json:"fileType"`
	ProcessedAt     *time.Time      `json:"processedAt"`
	IsProcessed     bool            `json:"isProcessed"`
	Summary         json.RawMessage `json:"summary"`
	ProcessingError *string         `json:"processingError"`
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	app := newTestApp(t)

	resp := doUpload(t, app.Router, nil, "notes.txt", []byte("plain text"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d (body %q)", resp.Code, resp.Body.String())
	}
	if code := errorCode(t, resp); code != "validation_error" {
		t.Fatalf("expected validation_error, got %q", code)
	}

	// The rejected upload must not leave a document behind.
	cookie := sessionCookie(t, resp)
	listResp := doGet(t, app.Router, cookie, "/api/documents")
	if listResp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", listResp.Code)
	}
	var docs []documentView
	if err := json.Unmarshal(listResp.Body.Bytes(), &docs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no documents, got %d", len(docs))
	}
}

func TestUploadRejectsOversizeFile(t *testing.T) {
	app := newTestApp(t)

	// Config caps uploads at 1 MB; send 2 MB.
	resp := doUpload(t, app.Router, nil, "big.pdf", make([]byte, 2<<20))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d (body %q)", resp.Code, resp.Body.String())
	}
	if code := errorCode(t, resp); code != "validation_error" {
		t.Fatalf("expected validation_error, got %q", code)
	}
}

func TestUploadListAndPollLifecycle(t *testing.T) {
	app := newTestApp(t)
	gate := make(chan struct{})
	app.Processor.Extractor = &stubExtractor{text: "This lease agreement...", gate: gate}
	app.Summarizer.LLM = &stubLLM{response: validSummaryJSON}

	resp := doUpload(t, app.Router, nil, "lease.pdf", []byte("%PDF-1.4 fake"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d (body %q)", resp.Code, resp.Body.String())
	}
	cookie := sessionCookie(t, resp)

	var uploaded documentView
	if err := json.Unmarshal(resp.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if uploaded.ID == 0 {
		t.Fatalf("expected a document id")
	}
	if uploaded.FileName != "lease.pdf" || uploaded.FileType != "pdf" {
		t.Fatalf("unexpected upload response: %+v", uploaded)
	}

	// Extraction is blocked on the gate, so polling sees an unprocessed doc.
	detailPath := "/api/documents/" + itoa(uploaded.ID)
	pending := doGet(t, app.Router, cookie, detailPath)
	if pending.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", pending.Code)
	}
	var pendingDoc documentView
	if err := json.Unmarshal(pending.Body.Bytes(), &pendingDoc); err != nil {
		t.Fatalf("decode pending doc: %v", err)
	}
	if pendingDoc.IsProcessed {
		t.Fatalf("document should not be processed yet")
	}
	if string(pendingDoc.Summary) != "null" {
		t.Fatalf("expected null summary mid-flight, got %s", pendingDoc.Summary)
	}
	if pendingDoc.ProcessingError != nil {
		t.Fatalf("unexpected processing error: %q", *pendingDoc.ProcessingError)
	}

	close(gate)
	app.Runner.Drain()

	done := doGet(t, app.Router, cookie, detailPath)
	if done.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", done.Code)
	}
	var doneDoc documentView
	if err := json.Unmarshal(done.Body.Bytes(), &doneDoc); err != nil {
		t.Fatalf("decode processed doc: %v", err)
	}
	if !doneDoc.IsProcessed || doneDoc.ProcessedAt == nil {
		t.Fatalf("document should be processed: %+v", doneDoc)
	}
	if doneDoc.ProcessingError != nil {
		t.Fatalf("unexpected processing error: %q", *doneDoc.ProcessingError)
	}
	var summary struct {
		Parties  []struct{ Name string } `json:"parties"`
		Raw      string                  `json:"raw"`
		Degraded bool                    `json:"degraded"`
	}
	if err := json.Unmarshal(doneDoc.Summary, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(summary.Parties) != 1 || summary.Parties[0].Name != "Acme Corp" {
		t.Fatalf("unexpected summary parties: %+v", summary.Parties)
	}
	if summary.Degraded {
		t.Fatalf("summary should not be degraded")
	}

	// Listing shows the processed document, newest first.
	listResp := doGet(t, app.Router, cookie, "/api/documents")
	var docs []documentView
	if err := json.Unmarshal(listResp.Body.Bytes(), &docs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != uploaded.ID || !docs[0].IsProcessed {
		t.Fatalf("unexpected listing: %+v", docs)
	}
}

func TestExtractionFailureSurfacesProcessingError(t *testing.T) {
	app := newTestApp(t)
	app.Processor.Extractor = &stubExtractor{err: context.DeadlineExceeded}
	app.Summarizer.LLM = &stubLLM{response: validSummaryJSON}

	resp := doUpload(t, app.Router, nil, "broken.pdf", []byte("not really a pdf"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	cookie := sessionCookie(t, resp)
	var uploaded documentView
	if err := json.Unmarshal(resp.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}

	app.Runner.Drain()

	detail := doGet(t, app.Router, cookie, "/api/documents/"+itoa(uploaded.ID))
	var doc documentView
	if err := json.Unmarshal(detail.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode doc: %v", err)
	}
	if doc.ProcessingError == nil || *doc.ProcessingError == "" {
		t.Fatalf("expected a processing error")
	}
	// Failure is signaled by processingError alone; processedAt stays null.
	if doc.IsProcessed || doc.ProcessedAt != nil {
		t.Fatalf("failed document must not be marked processed: %+v", doc)
	}
	if string(doc.Summary) != "null" {
		t.Fatalf("expected null summary, got %s", doc.Summary)
	}
}

func TestGetCrossSessionIsForbidden(t *testing.T) {
	app := newTestApp(t)
	app.Processor.Extractor = &stubExtractor{text: "text"}
	app.Summarizer.LLM = &stubLLM{response: validSummaryJSON}

	resp := doUpload(t, app.Router, nil, "private.pdf", []byte("data"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var uploaded documentView
	if err := json.Unmarshal(resp.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}

	// No cookie means the middleware issues a fresh session.
	other := doGet(t, app.Router, nil, "/api/documents/"+itoa(uploaded.ID))
	if other.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", other.Code)
	}
	if code := errorCode(t, other); code != "forbidden" {
		t.Fatalf("expected forbidden, got %q", code)
	}
}

func TestGetUnknownDocument(t *testing.T) {
	app := newTestApp(t)

	resp := doGet(t, app.Router, nil, "/api/documents/9999")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != "not_found" {
		t.Fatalf("expected not_found, got %q", code)
	}
}

func TestGetInvalidID(t *testing.T) {
	app := newTestApp(t)

	resp := doGet(t, app.Router, nil, "/api/documents/abc")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != "validation_error" {
		t.Fatalf("expected validation_error, got %q", code)
	}
}

func TestListReturnsEmptyArrayForFreshSession(t *testing.T) {
	app := newTestApp(t)

	resp := doGet(t, app.Router, nil, "/api/documents")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != "[]" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp := doGet(t, app.Router, nil, "/api/health")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
