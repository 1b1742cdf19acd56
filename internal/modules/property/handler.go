package property

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"homeclean/internal/middleware"
	"homeclean/internal/pkg/response"
	pkgvalidator "homeclean/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/properties", h.Create)
	rg.GET("/properties", h.List)
	rg.GET("/properties/:id", h.Get)
}

func (h *Handler) Create(c *gin.Context) {
	ident := middleware.IdentityFrom(c)
	if ident == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Not authenticated")
		return
	}

	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing required fields")
		return
	}
	if errs := pkgvalidator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid property payload", errs)
		return
	}

	p, err := h.service.Create(c.Request.Context(), ident, req)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create property")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"property": p})
}

func (h *Handler) List(c *gin.Context) {
	ident := middleware.IdentityFrom(c)
	if ident == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Not authenticated")
		return
	}

	list, err := h.service.ListOwn(c.Request.Context(), ident)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list properties")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"properties": list})
}

func (h *Handler) Get(c *gin.Context) {
	ident := middleware.IdentityFrom(c)
	if ident == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Not authenticated")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid property id")
		return
	}

	p, err := h.service.Get(c.Request.Context(), ident, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrPropertyNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Property not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"property": p})
}
