package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-engine/internal/infrastructure/monitoring"
	"loan-engine/internal/pkg/apperrors"
)

// ScheduleCache stores generated schedules keyed by LoanRecord.Fingerprint.
// Schedules depend only on static fields, so a cached copy never goes stale.
type ScheduleCache interface {
	Get(ctx context.Context, key string) ([]ScheduleRow, bool, error)
	Set(ctx context.Context, key string, rows []ScheduleRow) error
}

type Service interface {
	NewRecord(ctx context.Context, params LoanParams) (LoanRecord, error)

	Project(ctx context.Context, record LoanRecord, asOf time.Time) (Projection, error)

	Schedule(ctx context.Context, record LoanRecord) ([]ScheduleRow, ScheduleTotals, error)

	Summarize(ctx context.Context, records []LoanRecord, asOf time.Time) (PortfolioSummary, error)
}

type serviceImpl struct {
	cache  ScheduleCache
	logger *slog.Logger
}

// NewService builds the engine facade. cache may be nil.
func NewService(cache ScheduleCache, logger *slog.Logger) Service {
	return &serviceImpl{cache: cache, logger: logger.With("component", "LoanService")}
}

func (s *serviceImpl) NewRecord(ctx context.Context, params LoanParams) (LoanRecord, error) {
	record, err := NewLoanRecord(params)
	if err != nil {
		s.logger.WarnContext(ctx, "Rejected loan parameters", "error", err)
		monitoring.RecordOperation("validate", "invalid")
		return LoanRecord{}, err
	}
	monitoring.RecordOperation("validate", "success")
	s.logger.DebugContext(ctx, "Loan record accepted", "loanID", record.ID(), "type", record.Type())
	return record, nil
}

func (s *serviceImpl) Project(ctx context.Context, record LoanRecord, asOf time.Time) (Projection, error) {
	if err := s.check(ctx, "project", record); err != nil {
		return Projection{}, err
	}
	if asOf.IsZero() {
		monitoring.RecordOperation("project", "invalid")
		return Projection{}, apperrors.NewFieldError("asOf", apperrors.ErrInvalidDate, "is required")
	}

	projection := Project(record, asOf)
	monitoring.RecordOperation("project", "success")
	s.logger.DebugContext(ctx, "Projected loan state",
		"loanID", record.ID(), "asOf", asOf, "paymentsMade", projection.PaymentsMade)
	return projection, nil
}

func (s *serviceImpl) Schedule(ctx context.Context, record LoanRecord) ([]ScheduleRow, ScheduleTotals, error) {
	if err := s.check(ctx, "schedule", record); err != nil {
		return nil, ScheduleTotals{}, err
	}

	key := record.Fingerprint()
	if rows, ok := s.cachedSchedule(ctx, key); ok {
		monitoring.RecordOperation("schedule", "success")
		return rows, Totals(rows), nil
	}

	rows := GenerateSchedule(record)
	monitoring.RecordScheduleLength(len(rows))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, rows); err != nil {
			s.logger.WarnContext(ctx, "Failed to cache schedule", "loanID", record.ID(), "error", err)
		}
	}

	monitoring.RecordOperation("schedule", "success")
	s.logger.DebugContext(ctx, "Generated schedule", "loanID", record.ID(), "rows", len(rows))
	return rows, Totals(rows), nil
}

func (s *serviceImpl) Summarize(ctx context.Context, records []LoanRecord, asOf time.Time) (PortfolioSummary, error) {
	if asOf.IsZero() {
		monitoring.RecordOperation("summarize", "invalid")
		return PortfolioSummary{}, apperrors.NewFieldError("asOf", apperrors.ErrInvalidDate, "is required")
	}

	var errs []error
	for i, record := range records {
		if err := Validate(record.Params()); err != nil {
			errs = append(errs, fmt.Errorf("loans[%d]: %w", i, err))
		}
	}
	if len(errs) > 0 {
		monitoring.RecordOperation("summarize", "invalid")
		return PortfolioSummary{}, errors.Join(errs...)
	}

	summary := Summarize(records, asOf)
	monitoring.RecordOperation("summarize", "success")
	s.logger.DebugContext(ctx, "Summarized portfolio", "loans", summary.LoanCount, "active", summary.ActiveCount)
	return summary, nil
}

// check re-validates records handed in from outside; a zero LoanRecord would
// otherwise reach the math functions.
func (s *serviceImpl) check(ctx context.Context, operation string, record LoanRecord) error {
	if err := Validate(record.Params()); err != nil {
		s.logger.WarnContext(ctx, "Invalid loan record", "operation", operation, "loanID", record.ID(), "error", err)
		monitoring.RecordOperation(operation, "invalid")
		return err
	}
	return nil
}

func (s *serviceImpl) cachedSchedule(ctx context.Context, key string) ([]ScheduleRow, bool) {
	if s.cache == nil {
		return nil, false
	}

	rows, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		monitoring.RecordCacheLookup("error")
		s.logger.WarnContext(ctx, "Schedule cache lookup failed", "key", key, "error", err)
		return nil, false
	case !ok:
		monitoring.RecordCacheLookup("miss")
		return nil, false
	default:
		monitoring.RecordCacheLookup("hit")
		return rows, true
	}
}
