package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minwook-byun/recpool/internal/intake"
	"github.com/minwook-byun/recpool/internal/store"
)

// Error codes that do not come from intake.RejectionError.
const (
	codeBadRequest         = "BAD_REQUEST"
	codeRateLimited        = "RATE_LIMITED"
	codeStorageUnavailable = "STORAGE_UNAVAILABLE"
	codeInternal           = "INTERNAL"
)

type errorResponse struct {
	Error     errorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

type errorBody struct {
	Code         string              `json:"code"`
	Message      string              `json:"message"`
	Cycle        string              `json:"cycle,omitempty"`
	DisplayName  string              `json:"display_name,omitempty"`
	ExistingName string              `json:"existing_name,omitempty"`
	Fields       []intake.FieldError `json:"fields,omitempty"`
}

// submitRequest is the POST /recommendations body.
type submitRequest struct {
	CompanyName string `json:"company_name"`
	intake.Fields
}

type listResponse struct {
	Total int                    `json:"total"`
	Items []store.Recommendation `json:"items"`
}

type visitsResponse struct {
	Count int64 `json:"count"`
}

type poolResponse struct {
	Names []string `json:"names"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSearch(c *gin.Context) {
	res, err := s.svc.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleSubmit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badRequest("invalid JSON body", err))
		return
	}

	rec, err := s.svc.Submit(c.Request.Context(), req.CompanyName, req.Fields)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) handleList(c *gin.Context) {
	limit := DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(c, badRequest("limit must be a non-negative integer", err))
			return
		}
		limit = n
	}

	ctx := c.Request.Context()
	items, err := s.svc.ListRecent(ctx, limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	total, err := s.svc.Count(ctx)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if items == nil {
		items = []store.Recommendation{}
	}
	c.JSON(http.StatusOK, listResponse{Total: total, Items: items})
}

func (s *Server) handleVisits(c *gin.Context) {
	n, err := s.svc.Visits(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, visitsResponse{Count: n})
}

func (s *Server) handlePool(c *gin.Context) {
	c.JSON(http.StatusOK, poolResponse{Names: s.svc.Pool()})
}

// requestError is a client mistake detected by the HTTP layer itself.
type requestError struct {
	msg string
	err error
}

func (e *requestError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *requestError) Unwrap() error { return e.err }

func badRequest(msg string, err error) error {
	return &requestError{msg: msg, err: err}
}

// writeError maps err to a status code and JSON body and aborts the chain.
func (s *Server) writeError(c *gin.Context, err error) {
	status, body := classify(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{Error: body, RequestID: requestIDFrom(c)})
}

func classify(err error) (int, errorBody) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return http.StatusBadRequest, errorBody{Code: codeBadRequest, Message: reqErr.msg}
	}

	var re *intake.RejectionError
	if errors.As(err, &re) {
		body := errorBody{
			Code:         string(re.Code),
			Message:      re.Message,
			Cycle:        re.Cycle,
			DisplayName:  re.DisplayName,
			ExistingName: re.ExistingName,
			Fields:       re.Fields,
		}
		switch re.Code {
		case intake.ErrCodeEmptyName:
			return http.StatusBadRequest, body
		case intake.ErrCodeValidation:
			return http.StatusUnprocessableEntity, body
		case intake.ErrCodeHistorical, intake.ErrCodeDuplicate:
			return http.StatusConflict, body
		}
	}

	if intake.IsStorageUnavailable(err) {
		return http.StatusServiceUnavailable, errorBody{
			Code:    codeStorageUnavailable,
			Message: "storage is temporarily unavailable, retry later",
		}
	}

	return http.StatusInternalServerError, errorBody{Code: codeInternal, Message: "internal server error"}
}
