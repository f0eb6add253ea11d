package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/ngophulan456hn/alice-assignment/domains/document"
	"github.com/ngophulan456hn/alice-assignment/domains/session"
	pkgError "github.com/ngophulan456hn/alice-assignment/pkg/error"
	"github.com/ngophulan456hn/alice-assignment/ui/rest/middleware"
)

type stubDocumentUsecase struct {
	uploadErr error

	gotSessionID string
	gotFilename  string
	gotData      []byte

	clearedSessionID string
	status           session.Status
}

func (s *stubDocumentUsecase) Upload(ctx context.Context, sessionID, filename string, data []byte) (document.UploadResponse, error) {
	s.gotSessionID = sessionID
	s.gotFilename = filename
	s.gotData = data
	if s.uploadErr != nil {
		return document.UploadResponse{}, s.uploadErr
	}
	return document.UploadResponse{
		Message:     "File processed successfully",
		Filename:    filename,
		TextPreview: string(data),
	}, nil
}

func (s *stubDocumentUsecase) Clear(ctx context.Context, sessionID string) error {
	s.clearedSessionID = sessionID
	return nil
}

func (s *stubDocumentUsecase) Status(ctx context.Context, sessionID string) (session.Status, error) {
	return s.status, nil
}

func newDocumentTestApp(service document.IDocumentUsecase) *fiber.App {
	app := fiber.New()
	app.Use(middleware.Recovery())
	InitRestDocument(app, service)
	return app
}

func newUploadRequest(t *testing.T, sessionID, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("part write error: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("writer close error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	return req
}

func TestDocumentUpload_Success(t *testing.T) {
	service := &stubDocumentUsecase{}
	app := newDocumentTestApp(service)

	resp, err := app.Test(newUploadRequest(t, "sess-1", "notes.txt", "file body"))
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var payload document.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Message != "File processed successfully" || payload.Filename != "notes.txt" {
		t.Fatalf("payload = %+v", payload)
	}
	if service.gotSessionID != "sess-1" || string(service.gotData) != "file body" {
		t.Fatalf("usecase received session %q data %q", service.gotSessionID, service.gotData)
	}
}

func TestDocumentUpload_MissingFilePart(t *testing.T) {
	app := newDocumentTestApp(&stubDocumentUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.Header.Set("X-Session-ID", "sess-1")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDocumentUpload_UnsupportedType(t *testing.T) {
	service := &stubDocumentUsecase{uploadErr: pkgError.UnsupportedKindError("unsupported file type")}
	app := newDocumentTestApp(service)

	resp, err := app.Test(newUploadRequest(t, "sess-1", "photo.png", "binary"))
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var envelope struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if envelope.Code != "UNSUPPORTED_FILE_TYPE" {
		t.Fatalf("code = %q", envelope.Code)
	}
}

func TestDocumentClearAndStatus(t *testing.T) {
	name := "report.pdf"
	service := &stubDocumentUsecase{status: session.Status{
		HasDocument:  true,
		DocumentName: &name,
		MessageCount: 4,
	}}
	app := newDocumentTestApp(service)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/document/sess-1", nil))
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear status = %d, want 200", resp.StatusCode)
	}
	if service.clearedSessionID != "sess-1" {
		t.Fatalf("cleared session = %q", service.clearedSessionID)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/document/status/sess-1", nil))
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var status session.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !status.HasDocument || status.DocumentName == nil || *status.DocumentName != "report.pdf" {
		t.Fatalf("status = %+v", status)
	}
	if status.MessageCount != 4 {
		t.Fatalf("message count = %d, want 4", status.MessageCount)
	}
}
