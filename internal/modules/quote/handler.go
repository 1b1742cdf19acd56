package quote

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"homeclean/internal/domain"
	"homeclean/internal/middleware"
	"homeclean/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the endpoints reachable without a session.
// The group should carry OptionalSessionAuth so an authed owner can also
// patch without presenting the draft key.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/quotes/draft", h.CreateDraft)
	rg.PATCH("/quotes/:id", h.Patch)
}

// RegisterProtectedRoutes mounts the endpoints that require a session.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/quotes/:id/claim", h.Claim)
	rg.POST("/quotes/:id/submit", h.Submit)
	rg.GET("/quotes/:id", h.Get)
	rg.GET("/quotes", h.List)

	staff := rg.Group("")
	staff.Use(middleware.RequireStaff())
	{
		staff.GET("/quotes/stats", h.Stats)
		staff.PATCH("/quotes/:id/lead-status", h.UpdateLeadStatus)
		staff.PATCH("/quotes/:id/assign", h.Assign)
	}
}

func (h *Handler) CreateDraft(c *gin.Context) {
	q, err := h.service.CreateDraft(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":       q.ID,
		"draftKey": derefString(q.DraftKey),
	})
}

func (h *Handler) Patch(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var fields map[string]json.RawMessage
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.Patch(c.Request.Context(), id, middleware.IdentityFrom(c), draftKeyFrom(c), fields)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) Claim(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	err := h.service.Claim(c.Request.Context(), id, middleware.IdentityFrom(c), draftKeyFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) Submit(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	q, err := h.service.Submit(c.Request.Context(), id, middleware.IdentityFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"ok": true,
		"quote": gin.H{
			"id":       q.ID,
			"status":   q.Status,
			"clientId": q.ClientID,
		},
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	q, err := h.service.GetByID(c.Request.Context(), id, middleware.IdentityFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quote": q})
}

func (h *Handler) List(c *gin.Context) {
	filters := ListFilters{
		Status:     c.Query("status"),
		LeadStatus: c.Query("leadStatus"),
	}

	quotes, err := h.service.List(c.Request.Context(), middleware.IdentityFrom(c), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quotes": quotes})
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

func (h *Handler) UpdateLeadStatus(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req LeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.UpdateLeadStatus(c.Request.Context(), id, middleware.IdentityFrom(c), domain.LeadStatus(req.LeadStatus), req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) Assign(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.Assign(c.Request.Context(), id, middleware.IdentityFrom(c), req.AssignedTo, req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

// respondError maps service failures to the HTTP taxonomy. Store internals
// never leak to the caller; unexpected errors become an opaque 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	var invalidState *InvalidStateError
	var validation *ValidationError

	switch {
	case errors.Is(err, ErrQuoteNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quote not found")
	case errors.As(err, &invalidState):
		response.Error(c, http.StatusBadRequest, "INVALID_STATE", invalidState.Error())
	case errors.Is(err, ErrNotAuthorized):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized for this quote")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Forbidden")
	case errors.As(err, &validation):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", validation.Message, gin.H{"field": validation.Field})
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}

func quoteID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid quote ID")
		return 0, false
	}
	return id, true
}

// draftKeyFrom reads the capability key from the X-Draft-Key header or the
// draftKey query parameter.
func draftKeyFrom(c *gin.Context) string {
	if key := c.GetHeader("X-Draft-Key"); key != "" {
		return key
	}
	return c.Query("draftKey")
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
