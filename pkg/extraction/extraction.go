// Package extraction runs a document through Document AI, maps the vendor
// entities to application fields, archives the original and records the
// result.
package extraction

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yachtexcel/yachtexcel/pkg/audit"
	"github.com/yachtexcel/yachtexcel/pkg/blob"
	"github.com/yachtexcel/yachtexcel/pkg/docai"
	"github.com/yachtexcel/yachtexcel/pkg/fields"
	"github.com/yachtexcel/yachtexcel/pkg/metrics"
	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/server/store"
)

const archivePrefix = "documents"

var (
	ErrNotConfigured = errors.New("extraction: document processing is not configured")
	// ErrSave wraps failures to record an extraction after a successful
	// Document AI call.
	ErrSave = errors.New("extraction: failed to save result")
)

// Processor is the Document AI call.
type Processor interface {
	Process(ctx context.Context, req docai.Request) (*docai.Response, error)
}

// Input is a document submitted for extraction.
type Input struct {
	ProcessorID  string
	Content      string
	MimeType     string
	FileName     string
	DocumentType string
	YachtID      string

	UserID   string
	ClientIP string
}

// Output is the recorded extraction together with the mapped fields and the
// vendor response as received.
type Output struct {
	Extraction *model.DocumentExtraction `json:"extraction"`
	Fields     fields.Result             `json:"fields"`
	Values     map[string]any            `json:"values"`
	Raw        json.RawMessage           `json:"raw"`
}

type Service struct {
	processor Processor
	store     store.ExtractionsStore
	archive   blob.Store
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

type Option func(*Service)

func WithArchive(b blob.Store) Option {
	return func(s *Service) {
		if b != nil {
			s.archive = b
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(processor Processor, extractions store.ExtractionsStore, opts ...Option) *Service {
	s := &Service{
		processor: processor,
		store:     extractions,
		archive:   blob.NopStore{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status classifies a mapping result.
func Status(r fields.Result) model.ExtractionStatus {
	if len(r.Fields) == 0 {
		return model.ExtractionEmpty
	}
	if len(r.Unmapped) > 0 {
		return model.ExtractionPartial
	}
	for _, f := range r.Fields {
		if !f.Parsed {
			return model.ExtractionPartial
		}
	}
	return model.ExtractionCompleted
}

// Extract processes the document and records the outcome. Vendor failures
// are returned unwrapped enough for errors.As to find *docai.APIError.
func (s *Service) Extract(ctx context.Context, in Input) (*Output, error) {
	if s.processor == nil {
		return nil, ErrNotConfigured
	}

	resp, err := s.processor.Process(ctx, docai.Request{
		ProcessorID: in.ProcessorID,
		Content:     in.Content,
		MimeType:    in.MimeType,
	})
	s.metrics.ObserveDocumentAI(err)
	if err != nil {
		s.fail(ctx, in, err)
		return nil, err
	}

	result := fields.Map(resp.Entities)

	rec := &model.DocumentExtraction{
		ProcessorID:  in.ProcessorID,
		DocumentType: in.DocumentType,
		FileName:     in.FileName,
		MimeType:     in.MimeType,
		EntityCount:  len(resp.Entities),
		Unmapped:     len(result.Unmapped),
		Status:       Status(result),
		CreatedBy:    in.UserID,
	}
	rec.ID = uuid.NewString()
	if in.YachtID != "" {
		yachtID := in.YachtID
		rec.YachtID = &yachtID
	}
	if err := rec.SetFields(result); err != nil {
		return nil, fmt.Errorf("failed to encode fields: %w", err)
	}

	if data, err := decodeContent(in.Content); err == nil {
		uri, err := s.archive.Put(ctx, blob.Key(archivePrefix, rec.ID, in.FileName), in.MimeType, data)
		if err != nil {
			// The extraction is still useful without the archived copy.
			s.logger.Warn("failed to archive document",
				zap.String("extraction_id", rec.ID), zap.Error(err))
		}
		rec.ArchiveURI = uri
	}

	if err := s.store.CreateExtraction(ctx, rec); err != nil {
		err = fmt.Errorf("%w: %w", ErrSave, err)
		s.fail(ctx, in, err)
		return nil, err
	}

	audit.Log(ctx, audit.ExtractionEvent{
		UserID:       in.UserID,
		ClientIP:     in.ClientIP,
		ExtractionID: rec.ID,
		ProcessorID:  in.ProcessorID,
		FileName:     in.FileName,
		FieldCount:   len(result.Fields),
		Success:      true,
	})
	s.logger.Info("document extracted",
		zap.String("extraction_id", rec.ID),
		zap.String("processor_id", in.ProcessorID),
		zap.Int("entities", rec.EntityCount),
		zap.Int("fields", len(result.Fields)),
		zap.String("status", string(rec.Status)))

	return &Output{
		Extraction: rec,
		Fields:     result,
		Values:     result.Values(),
		Raw:        resp.Raw,
	}, nil
}

func (s *Service) fail(ctx context.Context, in Input, err error) {
	s.logger.Error("document extraction failed",
		zap.String("processor_id", in.ProcessorID),
		zap.String("file_name", in.FileName),
		zap.Error(err))
	audit.Log(ctx, audit.ExtractionEvent{
		UserID:       in.UserID,
		ClientIP:     in.ClientIP,
		ProcessorID:  in.ProcessorID,
		FileName:     in.FileName,
		ErrorMessage: err.Error(),
	})
}

func decodeContent(content string) ([]byte, error) {
	content = strings.TrimSpace(content)
	if i := strings.Index(content, ";base64,"); strings.HasPrefix(content, "data:") && i >= 0 {
		content = content[i+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(content)
}
