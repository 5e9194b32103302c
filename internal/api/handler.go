package api

import (
	"context"
	"errors"
	"net/http"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"

	"github.com/careerkb/profile-agent/internal/errs"
	"github.com/careerkb/profile-agent/internal/guardrails"
	"github.com/careerkb/profile-agent/internal/ingestion"
	"github.com/careerkb/profile-agent/internal/middleware"
	"github.com/careerkb/profile-agent/internal/pipeline"
	"github.com/careerkb/profile-agent/internal/store"
)

// AnswerCacheAdmin is the slice of the answer cache the admin endpoint needs.
type AnswerCacheAdmin interface {
	Clear(ctx context.Context) error
}

type Handler struct {
	pipeline   *pipeline.Pipeline
	ingestSvc  *ingestion.Service
	cache      AnswerCacheAdmin
	guardrails *guardrails.Guardrails
	health     HealthResponse
}

func NewHandler(p *pipeline.Pipeline, ingestSvc *ingestion.Service, health HealthResponse) *Handler {
	return &Handler{
		pipeline:  p,
		ingestSvc: ingestSvc,
		health:    health,
	}
}

// WithCacheAdmin enables the cache clear endpoint.
func (h *Handler) WithCacheAdmin(cache AnswerCacheAdmin) *Handler {
	h.cache = cache
	return h
}

// WithGuardrails screens chat questions before they reach the pipeline.
func (h *Handler) WithGuardrails(g *guardrails.Guardrails) *Handler {
	h.guardrails = g
	return h
}

// Chat handles POST /api/v1/chat
func (h *Handler) Chat(req *restful.Request, resp *restful.Response) {
	var chatRequest ChatRequest

	if err := req.ReadEntity(&chatRequest); err != nil {
		log.Error().Err(err).Msg("Failed to parse chat request")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if err := chatRequest.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	log.Info().
		Str("question", chatRequest.Question).
		Msg("Process chat request")

	ctx := req.Request.Context()

	if h.guardrails != nil {
		validation := h.guardrails.ValidateInput(ctx, chatRequest.Question)
		if !validation.IsValid {
			middleware.HandleError(resp, errors.New(validation.Reason), http.StatusBadRequest)
			return
		}
	}

	result, err := h.pipeline.Run(ctx, chatRequest.Question)
	if err != nil {
		log.Error().Err(err).Msg("Failed to answer question")
		middleware.HandleError(resp, err, statusForError(err))
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// Ingest handles POST /api/v1/ingest
func (h *Handler) Ingest(req *restful.Request, resp *restful.Response) {
	var ingestRequest IngestRequest

	if err := req.ReadEntity(&ingestRequest); err != nil {
		log.Error().Err(err).Msg("Failed to parse ingest request")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if err := ingestRequest.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	ctx := req.Request.Context()
	result, err := h.ingestSvc.IngestText(ctx, ingestRequest.Filename, ingestRequest.Text)
	if err != nil {
		log.Error().Err(err).Str("filename", ingestRequest.Filename).Msg("Failed to ingest document")
		middleware.HandleError(resp, err, statusForError(err))
		return
	}

	resp.WriteHeaderAndEntity(http.StatusCreated, result)
}

// ListDocuments handles GET /api/v1/documents
func (h *Handler) ListDocuments(req *restful.Request, resp *restful.Response) {
	docs, err := h.ingestSvc.ListDocuments(req.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list documents")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}
	resp.WriteHeaderAndEntity(http.StatusOK, docs)
}

// DeleteDocument handles DELETE /api/v1/documents/{id}
func (h *Handler) DeleteDocument(req *restful.Request, resp *restful.Response) {
	documentID := req.PathParameter("id")

	err := h.ingestSvc.DeleteDocument(req.Request.Context(), documentID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.HandleError(resp, err, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("document_id", documentID).Msg("Failed to delete document")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, map[string]string{"status": "deleted", "document_id": documentID})
}

// ClearCache handles POST /api/v1/admin/cache/clear
func (h *Handler) ClearCache(req *restful.Request, resp *restful.Response) {
	if h.cache == nil {
		resp.WriteHeaderAndEntity(http.StatusOK, map[string]string{"status": "cache disabled"})
		return
	}
	if err := h.cache.Clear(req.Request.Context()); err != nil {
		log.Error().Err(err).Msg("Failed to clear answer cache")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}
	resp.WriteHeaderAndEntity(http.StatusOK, map[string]string{"status": "cache cleared"})
}

// Health handles GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, h.health)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, errs.ErrUnsupportedInput):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
