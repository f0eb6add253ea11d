package document

import (
	"context"

	"github.com/ngophulan456hn/alice-assignment/domains/session"
)

type UploadResponse struct {
	Message     string `json:"message"`
	Filename    string `json:"filename"`
	TextPreview string `json:"text_preview"`
}

type IDocumentUsecase interface {
	// Upload extracts text from the file and scopes it to the session,
	// replacing any previously uploaded document.
	Upload(ctx context.Context, sessionID, filename string, data []byte) (UploadResponse, error)
	// Clear removes the session's document context, leaving history intact.
	Clear(ctx context.Context, sessionID string) error
	Status(ctx context.Context, sessionID string) (session.Status, error)
}
