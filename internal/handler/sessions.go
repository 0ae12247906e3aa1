package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/fitri99main/winny-pos-sub002/internal/apierror"
	"github.com/fitri99main/winny-pos-sub002/internal/dto"
	"github.com/fitri99main/winny-pos-sub002/internal/infra"
	"github.com/fitri99main/winny-pos-sub002/internal/middleware"
	"github.com/fitri99main/winny-pos-sub002/internal/model"
	"github.com/fitri99main/winny-pos-sub002/internal/repository"
	"github.com/fitri99main/winny-pos-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionsHandler struct {
	svc     service.SessionService
	history *service.HistoryService
}

func NewSessionsHandler(svc service.SessionService, history *service.HistoryService) *SessionsHandler {
	return &SessionsHandler{svc: svc, history: history}
}

// Open godoc
// @Summary Opens a new cashier session for the authenticated user
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenSessionRequest true "Opening data"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/sessions/open [post]
func (h *SessionsHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid user id in token"))
		return
	}

	resp, err := h.svc.Open(c.Request.Context(), userID, claims.UserName, req)
	if err != nil {
		c.JSON(statusFor(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RecordSale godoc
// @Summary Records a sale amount against an open session
// @Tags sessions
// @Accept json
// @Security BearerAuth
// @Param id path string true "Session id"
// @Param body body dto.RecordSaleRequest true "Sale amount"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/sessions/{id}/sales [post]
func (h *SessionsHandler) RecordSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RecordSale(c.Request.Context(), id, req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("no open session with that id"))
			return
		}
		c.JSON(statusFor(err), apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Close godoc
// @Summary Reconciles and closes a session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session id"
// @Param body body dto.CloseSessionRequest true "Counted ending cash"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/sessions/{id}/close [post]
func (h *SessionsHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	var req dto.CloseSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(statusFor(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns a single session and marks it as the open detail view.
func (h *SessionsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), apierror.New(err.Error()))
		return
	}
	h.history.Select(id)
	c.JSON(http.StatusOK, resp)
}

// History godoc
// @Summary Lists sessions matching the filter, newest first, with aggregates
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param query     query string false "Substring match on cashier name or id"
// @Param date_from query string false "YYYY-MM-DD, inclusive"
// @Param date_to   query string false "YYYY-MM-DD, inclusive (end of day)"
// @Param status    query string false "all | open | closed"
// @Success 200 {object} dto.HistoryResponse
// @Failure 503 {object} apierror.APIError
// @Router /v1/sessions [get]
func (h *SessionsHandler) History(c *gin.Context) {
	var q dto.HistoryQuery
	if !bindAndValidateQuery(c, &q) {
		return
	}
	criteria, err := toCriteria(q)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	if err := h.history.Load(c.Request.Context()); err != nil {
		// The previous list stays intact; the client gets a retriable error.
		c.JSON(http.StatusServiceUnavailable, apierror.New("session store unavailable, please retry"))
		return
	}

	// Filter over a snapshot: each request renders its own criteria.
	visible := service.ApplyFilter(h.history.Sessions(), criteria)
	c.JSON(http.StatusOK, service.ToHistoryResponse(visible, service.Summarize(visible)))
}

// Export godoc
// @Summary Downloads the filtered history as csv, xlsx or pdf
// @Tags sessions
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv | xlsx | pdf (default csv)"
// @Success 200
// @Failure 503 {object} apierror.APIError
// @Router /v1/sessions/export [get]
func (h *SessionsHandler) Export(c *gin.Context) {
	var q dto.HistoryQuery
	if !bindAndValidateQuery(c, &q) {
		return
	}
	criteria, err := toCriteria(q)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	if err := h.history.Load(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("session store unavailable, please retry"))
		return
	}
	visible := service.ApplyFilter(h.history.Sessions(), criteria)

	now := time.Now()
	var (
		data        []byte
		contentType string
		filename    string
	)
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		data, err = service.ExportCSV(visible)
		contentType = "text/csv"
		filename = service.ExportFileName("csv", now)
	case "xlsx":
		data, err = service.ExportXLSX(visible)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = service.ExportFileName("xlsx", now)
	case "pdf":
		data, err = infra.GenerateHistoryPDF(visible, service.Summarize(visible), now)
		contentType = "application/pdf"
		filename = service.ExportFileName("pdf", now)
	default:
		c.JSON(http.StatusBadRequest, apierror.New("unsupported export format"))
		return
	}
	if err != nil {
		c.Error(err) // logged by the error middleware
		c.JSON(http.StatusInternalServerError, apierror.New("export failed"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// Delete commits the confirm-then-commit workflow in one request: the admin
// panel shows the confirmation dialog, this endpoint is the confirm step.
func (h *SessionsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}

	if err := h.history.Load(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("session store unavailable, please retry"))
		return
	}
	if err := h.history.DeleteSession(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Already gone: idempotent success.
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusServiceUnavailable, apierror.New("delete failed: "+err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// toCriteria converts validated query params into the filter value object.
func toCriteria(q dto.HistoryQuery) (model.FilterCriteria, error) {
	criteria := model.FilterCriteria{Query: q.Query, Status: q.Status}
	if q.Status == "" {
		criteria.Status = model.FilterAll
	}
	if q.DateFrom != "" {
		t, err := time.Parse("2006-01-02", q.DateFrom)
		if err != nil {
			return criteria, err
		}
		criteria.DateFrom = &t
	}
	if q.DateTo != "" {
		t, err := time.Parse("2006-01-02", q.DateTo)
		if err != nil {
			return criteria, err
		}
		criteria.DateTo = &t
	}
	return criteria, nil
}

// statusFor maps service/repository errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrSessionAlreadyOpen),
		errors.Is(err, service.ErrSessionClosed):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
