package usecase

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/ngophulan456hn/alice-assignment/domains/document"
	"github.com/ngophulan456hn/alice-assignment/domains/session"
	pkgError "github.com/ngophulan456hn/alice-assignment/pkg/error"
	"github.com/ngophulan456hn/alice-assignment/pkg/extract"
	"github.com/ngophulan456hn/alice-assignment/validations"
)

type documentService struct {
	sessions session.ISessionManager
}

func NewDocumentService(sessions session.ISessionManager) document.IDocumentUsecase {
	return &documentService{sessions: sessions}
}

// Upload extracts text from the file and scopes it to the session, replacing
// any previous document. The preview is computed for display only and never
// stored.
func (s *documentService) Upload(ctx context.Context, sessionID, filename string, data []byte) (document.UploadResponse, error) {
	if err := validations.ValidateUpload(ctx, sessionID, filename); err != nil {
		return document.UploadResponse{}, err
	}

	text, err := extract.Text(data, extract.KindFromFilename(filename))
	if err != nil {
		if _, isTyped := err.(pkgError.GenericError); isTyped {
			return document.UploadResponse{}, err
		}
		return document.UploadResponse{}, pkgError.InternalServerError(fmt.Sprintf("error processing file: %v", err))
	}

	if err := s.sessions.SetContext(ctx, sessionID, text, filename); err != nil {
		return document.UploadResponse{}, err
	}

	logrus.Infof("[DOCUMENT] scoped %s (%s) to session %s", filename, humanize.Bytes(uint64(len(data))), sessionID)

	return document.UploadResponse{
		Message:     "File processed successfully",
		Filename:    filename,
		TextPreview: extract.Preview(text),
	}, nil
}

func (s *documentService) Clear(ctx context.Context, sessionID string) error {
	return s.sessions.ClearContext(ctx, sessionID)
}

func (s *documentService) Status(ctx context.Context, sessionID string) (session.Status, error) {
	docContext, err := s.sessions.GetContext(ctx, sessionID)
	if err != nil {
		return session.Status{}, err
	}
	count, err := s.sessions.MessageCount(ctx, sessionID)
	if err != nil {
		return session.Status{}, err
	}

	status := session.Status{
		HasDocument:  docContext != nil,
		MessageCount: count,
	}
	if docContext != nil {
		status.DocumentName = &docContext.Filename
	}
	return status, nil
}
