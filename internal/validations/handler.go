package validations

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"meddoc-backend/internal/compliance"
	"meddoc-backend/internal/documents"
	"meddoc-backend/internal/llm"
	"meddoc-backend/internal/shared/server/middleware"
	"meddoc-backend/internal/shared/server/respond"
)

const providerHint = "check LLM_PROVIDER / API key configuration"

// Handler wires HTTP handlers to the validations service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches validation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/validate", h.validate)
	rg.GET("/validations", h.list)
	rg.GET("/validations/:id", h.get)
	rg.GET("/validations/:id/report.txt", h.reportText)
	rg.GET("/validations/:id/report.json", h.reportJSON)
}

type validateRequest struct {
	Regulation  string `json:"regulation"`
	DetailLevel string `json:"detailLevel"`
}

func (h *Handler) validate(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Regulation) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "regulation is required", []map[string]string{
			{"field": "regulation", "issue": "required"},
		})
		return
	}

	v, err := h.Svc.Run(c.Request.Context(), sessionID, documentID, req.Regulation, compliance.ParseDetailLevel(req.DetailLevel))
	if err != nil {
		h.runError(c, err)
		return
	}

	c.Set("validationId", v.ID)
	respond.JSON(c, http.StatusOK, toResponse(v))
}

func (h *Handler) runError(c *gin.Context, err error) {
	if pe, ok := llm.AsProviderError(err); ok {
		respond.Error(c, http.StatusBadGateway, "provider_error", "the language model provider failed", gin.H{
			"provider": pe.Provider,
			"category": pe.Category,
			"hint":     providerHint,
		})
		return
	}
	switch {
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, compliance.ErrRegulationRequired):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, compliance.ErrNoExtractableText):
		respond.Error(c, http.StatusUnprocessableEntity, "no_extractable_text", "no text could be extracted from the document", nil)
	case errors.Is(err, compliance.ErrNoClient):
		respond.Error(c, http.StatusServiceUnavailable, "provider_error", "no language model provider configured", gin.H{"hint": providerHint})
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to validate document", nil)
	}
}

func (h *Handler) get(c *gin.Context) {
	v, ok := h.load(c)
	if !ok {
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(v))
}

func (h *Handler) list(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	items, err := h.Svc.List(c.Request.Context(), sessionID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list validations", nil)
		return
	}
	resp := make([]ValidationSummary, 0, len(items))
	for _, v := range items {
		resp = append(resp, toSummary(v))
	}
	respond.JSON(c, http.StatusOK, gin.H{"validations": resp})
}

func (h *Handler) reportText(c *gin.Context) {
	v, ok := h.load(c)
	if !ok {
		return
	}
	respond.Attachment(c, reportFileName(v, "txt"), "text/plain; charset=utf-8", []byte(compliance.FormatText(v.Result)))
}

func (h *Handler) reportJSON(c *gin.Context) {
	v, ok := h.load(c)
	if !ok {
		return
	}
	body, err := compliance.ToJSON(v.Result)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render report", nil)
		return
	}
	respond.Attachment(c, reportFileName(v, "json"), "application/json; charset=utf-8", body)
}

func (h *Handler) load(c *gin.Context) (Validation, bool) {
	sessionID := middleware.SessionIDFromContext(c)
	v, err := h.Svc.Get(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "validation not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "validation id is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch validation", nil)
		}
		return Validation{}, false
	}
	c.Set("validationId", v.ID)
	return v, true
}

func reportFileName(v Validation, ext string) string {
	return fmt.Sprintf("compliance_report_%s.%s", v.CreatedAt.UTC().Format("20060102_150405"), ext)
}
