package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/AlibekovAA/auth-api/internal/common/errors"
	"github.com/AlibekovAA/auth-api/internal/common/httpmetrics"
	"github.com/AlibekovAA/auth-api/internal/common/logger"
	"github.com/AlibekovAA/auth-api/internal/observability/metrics"
)

const internalErrorMessage = "Internal server error"

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr)
		return
	}

	ctx := r.Context()
	h.log.WithFields(ctx, logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
		"path":   r.URL.Path,
	}).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.RouteLabel(r),
		r.Method,
	).Inc()

	WriteError(w, http.StatusInternalServerError, internalErrorMessage)
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, domainErr commonerrors.DomainError) {
	ctx := r.Context()
	status := domainErr.HTTPStatus()

	logFields := logger.Fields{
		"error_code": domainErr.Code(),
		"category":   string(domainErr.Category()),
		"status":     status,
		"action":     "domain_error",
	}

	if status >= http.StatusInternalServerError {
		h.log.WithFields(ctx, logFields).Errorf("domain error: %s", domainErr.Error())
	} else if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(ctx, logFields).Debugf("domain error: %s", domainErr.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(domainErr.Category()),
		domainErr.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.RouteLabel(r),
		r.Method,
	).Inc()

	body := ErrorResponse{Error: domainErr.Message()}
	if details := domainErr.Details(); details != "" {
		body.Details = details
	}
	WriteJSON(w, status, body)
}
