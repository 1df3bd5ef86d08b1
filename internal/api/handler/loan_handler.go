package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"loan-engine/internal/api/handler/dto"
	"loan-engine/internal/domain/loan"
	"loan-engine/internal/pkg/apperrors"
	"loan-engine/internal/pkg/calendar"
)

type LoanHandler struct {
	service loan.Service
	logger  *slog.Logger
	now     func() time.Time
}

func NewLoanHandler(s loan.Service, l *slog.Logger) *LoanHandler {
	if s == nil {
		panic("loan service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
		now:     time.Now,
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := dto.ErrorDetail{Message: "An unexpected error occurred."}
	var appErr *apperrors.AppError

	if fields := apperrors.ValidationErrors(err); len(fields) > 0 {
		status = http.StatusBadRequest
		detail = dto.ErrorDetail{Code: fields[0].Code(), Message: err.Error(), Field: fields[0].Field}
		if len(fields) > 1 {
			for _, f := range fields {
				detail.Details = append(detail.Details, dto.ErrorDetail{Code: f.Code(), Message: f.Message, Field: f.Field})
			}
		}
		respondJSON(w, status, dto.ErrorResponse{Error: detail})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, detail.Message = http.StatusNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, detail.Message = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, detail.Message = http.StatusBadRequest, err.Error()
	case errors.As(err, &appErr):
		detail.Code, detail.Message = appErr.Code, appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	respondJSON(w, status, dto.ErrorResponse{Error: detail})
}

// asOfFromQuery reads ?asOf=YYYY-MM-DD, falling back to today.
func (h *LoanHandler) asOfFromQuery(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("asOf")
	if raw == "" {
		return calendar.Normalize(h.now()), nil
	}
	asOf, err := calendar.Parse(raw)
	if err != nil {
		return time.Time{}, apperrors.NewFieldError("asOf", apperrors.ErrInvalidDate,
			"invalid asOf format (use YYYY-MM-DD): %q", raw)
	}
	return asOf, nil
}

func (h *LoanHandler) decodeRecord(r *http.Request) (loan.LoanRecord, error) {
	var req dto.LoanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		return loan.LoanRecord{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	params, err := req.ToParams()
	if err != nil {
		return loan.LoanRecord{}, err
	}
	return h.service.NewRecord(r.Context(), params)
}

// ValidateLoan handles POST /loans/validate
// @Summary Validate a loan
// @Description Validates the loan's static fields and returns the normalized record.
func (h *LoanHandler) ValidateLoan(w http.ResponseWriter, r *http.Request) {
	record, err := h.decodeRecord(r)
	if err != nil {
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Loan validated", slog.String("loanID", record.ID()))
	respondJSON(w, http.StatusOK, dto.NewLoanResponse(record))
}

// ProjectLoan handles POST /loans/projection?asOf=YYYY-MM-DD
// @Summary Project a loan's state
// @Description Derives balance, next due date, remaining term and percent paid as of a date.
func (h *LoanHandler) ProjectLoan(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOfFromQuery(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid asOf query parameter", slog.Any("error", err))
		respondError(w, err)
		return
	}

	record, err := h.decodeRecord(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projection, err := h.service.Project(r.Context(), record, asOf)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to project loan", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewProjectionResponse(record.ID(), projection))
}

// GetSchedule handles POST /loans/schedule
// @Summary Generate the amortization schedule
// @Description Returns one row per month of tenure plus totals.
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	record, err := h.decodeRecord(r)
	if err != nil {
		respondError(w, err)
		return
	}

	rows, totals, err := h.service.Schedule(r.Context(), record)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to generate schedule", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Schedule generated", slog.String("loanID", record.ID()), slog.Int("rows", len(rows)))
	respondJSON(w, http.StatusOK, dto.NewScheduleResponse(record.ID(), rows, totals))
}

// Summarize handles POST /loans/summary?asOf=YYYY-MM-DD
// @Summary Summarize a portfolio
// @Description Aggregates outstanding balance, monthly outflow and the next due payment.
func (h *LoanHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOfFromQuery(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.SummaryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	records := make([]loan.LoanRecord, 0, len(req.Loans))
	var errs []error
	for i := range req.Loans {
		params, err := req.Loans[i].ToParams()
		if err == nil {
			var record loan.LoanRecord
			record, err = h.service.NewRecord(r.Context(), params)
			records = append(records, record)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("loans[%d]: %w", i, err))
		}
	}
	if len(errs) > 0 {
		respondError(w, errors.Join(errs...))
		return
	}

	summary, err := h.service.Summarize(r.Context(), records, asOf)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to summarize portfolio", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Portfolio summarized", slog.Int("loans", summary.LoanCount))
	respondJSON(w, http.StatusOK, dto.NewSummaryResponse(summary))
}
