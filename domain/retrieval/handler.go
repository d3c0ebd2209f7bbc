package retrieval

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shiftplan-ai/shiftplan/pkg/apperror"
)

// Handler handles HTTP requests for hybrid retrieval.
type Handler struct {
	svc *Service
}

// NewHandler creates a new retrieval handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) bindSearch(c echo.Context) (SearchRequest, error) {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return req, apperror.ErrBadRequest.WithInternal(err)
	}
	if req.Query == "" {
		return req, apperror.ErrBadRequest.WithMessage("query is required")
	}
	if req.StoreName == "" {
		return req, apperror.ErrBadRequest.WithMessage("storeName is required")
	}
	if req.ProjectID == "" {
		return req, apperror.ErrBadRequest.WithMessage("projectId is required")
	}
	return req, nil
}

// Search runs a hybrid search and returns enriched results in vector
// ranking order.
// POST /api/retrieval/search
func (h *Handler) Search(c echo.Context) error {
	req, err := h.bindSearch(c)
	if err != nil {
		return err
	}
	results, err := h.svc.Search(c.Request().Context(), req.Query, req.StoreName, req.ProjectID, req.Options)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SearchResponse{Results: results, Count: len(results)})
}

// FormatContext runs a hybrid search and renders the results as an
// LLM-ready context block.
// POST /api/retrieval/format
func (h *Handler) FormatContext(c echo.Context) error {
	req, err := h.bindSearch(c)
	if err != nil {
		return err
	}
	results, err := h.svc.Search(c.Request().Context(), req.Query, req.StoreName, req.ProjectID, req.Options)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, FormatResponse{
		Context: FormatForLLMContext(results),
		Count:   len(results),
	})
}

// Health reports per-backend reachability.
// GET /api/retrieval/health
func (h *Handler) Health(c echo.Context) error {
	status := h.svc.Health(c.Request().Context())
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, status)
}
