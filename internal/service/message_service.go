package service

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/unclebandit/smsinbound-backend/internal/errors"
	"github.com/unclebandit/smsinbound-backend/internal/model"
	"github.com/unclebandit/smsinbound-backend/internal/repository"
	"github.com/unclebandit/smsinbound-backend/internal/signature"
)

var validate = model.NewValidator()

type MessageService struct {
	Repo     repository.MessageRepositoryInterface
	Verifier *signature.Verifier
}

// IngestResult reports how a verified delivery was stored.
type IngestResult struct {
	MessageID string
	Result    repository.InsertResult
	Duplicate bool
}

// MessagePage is the response envelope for message listings. Limit and
// Offset echo the clamped values actually applied.
type MessagePage struct {
	Data   []model.Message `json:"data"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// Ingest runs the full webhook pipeline: signature check over the raw body,
// strict decode, schema validation, idempotent insert. The signature is
// checked first so nothing downstream ever sees unauthenticated bytes.
func (s *MessageService) Ingest(body []byte, sig string) (*IngestResult, error) {
	if !s.Verifier.Verify(body, sig) {
		return nil, appErrors.ErrInvalidSignature
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	var payload model.WebhookPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, appErrors.NewValidationError(map[string]string{"body": "malformed payload: " + err.Error()})
	}

	if err := validate.Struct(&payload); err != nil {
		return nil, appErrors.NewValidationError(validationFields(err))
	}

	msg := payload.ToMessage()
	result, err := s.Repo.Insert(msg)
	if err != nil {
		return nil, err
	}

	return &IngestResult{
		MessageID: msg.MessageID,
		Result:    result,
		Duplicate: result == repository.ResultDuplicate,
	}, nil
}

// ListMessages clamps paging to the allowed window and fetches the page.
func (s *MessageService) ListMessages(limit, offset int, filter repository.MessageFilter) (*MessagePage, error) {
	if limit < 1 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	data, total, err := s.Repo.Query(limit, offset, filter)
	if err != nil {
		return nil, err
	}

	return &MessagePage{
		Data:   data,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

func (s *MessageService) Stats() (*repository.MessageStats, error) {
	return s.Repo.Stats()
}

func validationFields(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["body"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "field is required"
		case "msisdn":
			fields[fe.Field()] = "must be a + followed by digits"
		case "max":
			fields[fe.Field()] = "must be at most " + fe.Param() + " characters"
		default:
			fields[fe.Field()] = "invalid value"
		}
	}
	return fields
}
