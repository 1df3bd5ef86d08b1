package loan

import (
	"errors"
	"math"

	"loan-engine/internal/pkg/apperrors"
)

// Validate reports every violated invariant of p, joined. Each entry is an
// *apperrors.ValidationError whose cause is one of ErrInvalidPrincipal,
// ErrInvalidRate, ErrInvalidTenure, ErrInvalidDate or ErrInvalidLoanType.
// Values are never clamped.
func Validate(p LoanParams) error {
	var errs []error

	switch {
	case math.IsNaN(p.Principal) || math.IsInf(p.Principal, 0):
		errs = append(errs, apperrors.NewFieldError("principal", apperrors.ErrInvalidPrincipal,
			"must be a finite number"))
	case p.Principal <= 0:
		errs = append(errs, apperrors.NewFieldError("principal", apperrors.ErrInvalidPrincipal,
			"must be greater than zero"))
	case p.Principal > MaxLoanAmount:
		errs = append(errs, apperrors.NewFieldError("principal", apperrors.ErrInvalidPrincipal,
			"must not exceed %.0f", MaxLoanAmount))
	}

	switch {
	case math.IsNaN(p.AnnualRatePercent) || math.IsInf(p.AnnualRatePercent, 0):
		errs = append(errs, apperrors.NewFieldError("annualRatePercent", apperrors.ErrInvalidRate,
			"must be a finite number"))
	case p.AnnualRatePercent < 0:
		errs = append(errs, apperrors.NewFieldError("annualRatePercent", apperrors.ErrInvalidRate,
			"must not be negative"))
	case p.AnnualRatePercent > MaxInterestRate:
		errs = append(errs, apperrors.NewFieldError("annualRatePercent", apperrors.ErrInvalidRate,
			"must not exceed %.0f%%", MaxInterestRate))
	}

	switch {
	case p.TenureMonths <= 0:
		errs = append(errs, apperrors.NewFieldError("tenureMonths", apperrors.ErrInvalidTenure,
			"must be at least one month"))
	case p.TenureMonths > MaxTenureMonths:
		errs = append(errs, apperrors.NewFieldError("tenureMonths", apperrors.ErrInvalidTenure,
			"must not exceed %d months", MaxTenureMonths))
	}

	if p.EMIStartDate.IsZero() {
		errs = append(errs, apperrors.NewFieldError("emiStartDate", apperrors.ErrInvalidDate,
			"is required"))
	}

	if !p.Type.Valid() {
		errs = append(errs, apperrors.NewFieldError("type", apperrors.ErrInvalidLoanType,
			"%q is not a supported loan type", p.Type))
	}

	return errors.Join(errs...)
}
