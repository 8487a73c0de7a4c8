package endpoints

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/yachtexcel/yachtexcel/pkg/docai"
	"github.com/yachtexcel/yachtexcel/pkg/extraction"
	"github.com/yachtexcel/yachtexcel/pkg/fields"
	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server"
	"github.com/yachtexcel/yachtexcel/pkg/server/store"
)

// ExtractRequest is the body of POST /documents/extract. Content is the
// base64 document, optionally as a data URL.
type ExtractRequest struct {
	ProcessorID  string `json:"processorId"`
	Content      string `json:"content"`
	MimeType     string `json:"mimeType"`
	FileName     string `json:"fileName"`
	DocumentType string `json:"documentType"`
	YachtID      string `json:"yachtId"`
}

// ExtractionResponse is a stored extraction with its decoded fields.
type ExtractionResponse struct {
	*model.DocumentExtraction
	Fields fields.Result `json:"fields"`
}

// ParseResponse is the result of mapping a Document AI response offline.
type ParseResponse struct {
	Fields fields.Result          `json:"fields"`
	Values map[string]any         `json:"values"`
	Status model.ExtractionStatus `json:"status"`
}

// RegisterDocumentsEndpoints registers document extraction and the offline
// field parser.
func RegisterDocumentsEndpoints(s *server.Server) {
	r := protected(s, "/documents")
	r.HandleFunc("/extract", requirePermission(s, role.ResourceDocuments, role.ActionWrite, handleExtract(s))).Methods("POST")
	r.HandleFunc("/extractions", requirePermission(s, role.ResourceDocuments, role.ActionRead, handleListExtractions(s))).Methods("GET")
	r.HandleFunc("/extractions/{id}", requirePermission(s, role.ResourceDocuments, role.ActionRead, handleGetExtraction(s))).Methods("GET")

	f := protected(s, "/fields")
	f.HandleFunc("/parse", requirePermission(s, role.ResourceDocuments, role.ActionRead, handleParseFields())).Methods("POST")
}

func handleExtract(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Extractor == nil {
			respondWithError(w, http.StatusNotImplemented, "document processing is not configured")
			return
		}

		var req ExtractRequest
		if !decodeJSON(w, r, maxDocumentBytes, &req) {
			return
		}
		if err := required(map[string]string{
			"processorId": req.ProcessorID,
			"content":     req.Content,
		}); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if req.YachtID != "" {
			if _, err := s.YachtsStore.GetYacht(r.Context(), req.YachtID); err != nil {
				respondWithStoreError(w, s.Logger, err, "yacht")
				return
			}
		}

		id := caller(r)
		out, err := s.Extractor.Extract(r.Context(), extraction.Input{
			ProcessorID:  strings.TrimSpace(req.ProcessorID),
			Content:      req.Content,
			MimeType:     req.MimeType,
			FileName:     req.FileName,
			DocumentType: req.DocumentType,
			YachtID:      req.YachtID,
			UserID:       id.UserID,
			ClientIP:     id.ClientIP(),
		})
		if err != nil {
			respondWithExtractionError(w, s.Logger, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, out)
	}
}

func respondWithExtractionError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var apiErr *docai.APIError
	switch {
	case errors.Is(err, docai.ErrInvalidProcessor), errors.Is(err, docai.ErrInvalidContent):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, extraction.ErrNotConfigured):
		respondWithError(w, http.StatusNotImplemented, "document processing is not configured")
	case errors.Is(err, extraction.ErrSave):
		respondWithStoreError(w, logger, err, "extraction")
	case errors.As(err, &apiErr):
		respondWithError(w, http.StatusBadGateway, apiErr.Error())
	default:
		respondWithError(w, http.StatusBadGateway, "document processing failed: "+err.Error())
	}
}

func handleListExtractions(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageFromRequest(r, s.Config())
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		q := r.URL.Query()
		filter := store.ExtractionFilter{YachtID: q.Get("yacht"), CreatedBy: q.Get("createdBy")}
		if q.Get("mine") == "true" {
			filter.CreatedBy = caller(r).UserID
		}

		list, err := s.ExtractionsStore.ListExtractions(r.Context(), filter, page)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "extraction")
			return
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleGetExtraction(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := s.ExtractionsStore.GetExtraction(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "extraction")
			return
		}

		out := ExtractionResponse{DocumentExtraction: rec}
		if err := rec.DecodeFields(&out.Fields); err != nil {
			s.Logger.Warn("stored extraction fields are unreadable", zap.String("extraction_id", rec.ID), zap.Error(err))
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}

// handleParseFields maps a Document AI process response posted as the body
// without calling the vendor.
func handleParseFields() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
		if err != nil {
			respondWithError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}

		resp, err := docai.ParseResponse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		result := fields.Map(resp.Entities)
		respondWithJSON(w, http.StatusOK, ParseResponse{
			Fields: result,
			Values: result.Values(),
			Status: extraction.Status(result),
		})
	}
}
