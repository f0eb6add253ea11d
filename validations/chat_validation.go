package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ngophulan456hn/alice-assignment/domains/chat"
	pkgError "github.com/ngophulan456hn/alice-assignment/pkg/error"
)

func ValidateSendChat(ctx context.Context, request chat.SendRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.SessionID, validation.Required),
		validation.Field(&request.Message, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateUpload(ctx context.Context, sessionID, filename string) error {
	if err := validation.Validate(sessionID, validation.Required); err != nil {
		return pkgError.ValidationError("session_id: " + err.Error())
	}
	if err := validation.Validate(filename, validation.Required); err != nil {
		return pkgError.ValidationError("filename: " + err.Error())
	}
	return nil
}
