package dto

import (
	"errors"
	"strings"
	"time"

	"loan-engine/internal/domain/loan"
	"loan-engine/internal/pkg/apperrors"
	"loan-engine/internal/pkg/calendar"

	"github.com/shopspring/decimal"
)

// LoanRequest carries a loan's static fields. Amounts may be sent as JSON
// numbers or decimal strings.
type LoanRequest struct {
	ID                string          `json:"id,omitempty"`
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	Lender            string          `json:"lender"`
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent"`
	TenureMonths      int             `json:"tenureMonths"`
	EMIStartDate      string          `json:"emiStartDate"`
	InterestOnly      bool            `json:"interestOnly"`
}

var (
	maxLoanAmount   = decimal.NewFromFloat(loan.MaxLoanAmount)
	maxInterestRate = decimal.NewFromFloat(loan.MaxInterestRate)
)

// ToParams converts the request; range checks are left to loan.Validate.
// Reported here are a malformed date and amounts that only break a limit
// before float rounding, such as "1000000000.0000001".
func (r *LoanRequest) ToParams() (loan.LoanParams, error) {
	loanType, err := loan.ParseLoanType(r.Type)
	if err != nil {
		loanType = loan.LoanType(strings.TrimSpace(r.Type))
	}

	var start time.Time
	if strings.TrimSpace(r.EMIStartDate) != "" {
		start, err = calendar.Parse(strings.TrimSpace(r.EMIStartDate))
		if err != nil {
			return loan.LoanParams{}, apperrors.NewFieldError("emiStartDate", apperrors.ErrInvalidDate,
				"invalid emiStartDate format (use YYYY-MM-DD): %q", r.EMIStartDate)
		}
	}

	if err := r.exactLimitErrors(); err != nil {
		return loan.LoanParams{}, err
	}

	return loan.LoanParams{
		ID:                r.ID,
		Name:              r.Name,
		Type:              loanType,
		Lender:            r.Lender,
		Principal:         r.Principal.InexactFloat64(),
		AnnualRatePercent: r.AnnualRatePercent.InexactFloat64(),
		TenureMonths:      r.TenureMonths,
		EMIStartDate:      start,
		InterestOnly:      r.InterestOnly,
	}, nil
}

func (r *LoanRequest) exactLimitErrors() error {
	var errs []error
	if r.Principal.GreaterThan(maxLoanAmount) {
		errs = append(errs, apperrors.NewFieldError("principal", apperrors.ErrInvalidPrincipal,
			"must not exceed %s", maxLoanAmount.String()))
	}
	switch {
	case r.AnnualRatePercent.IsNegative():
		errs = append(errs, apperrors.NewFieldError("annualRatePercent", apperrors.ErrInvalidRate,
			"must not be negative"))
	case r.AnnualRatePercent.GreaterThan(maxInterestRate):
		errs = append(errs, apperrors.NewFieldError("annualRatePercent", apperrors.ErrInvalidRate,
			"must not exceed %s%%", maxInterestRate.String()))
	}
	return errors.Join(errs...)
}

type SummaryRequest struct {
	Loans []LoanRequest `json:"loans"`
}

type LoanResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	Lender            string `json:"lender"`
	Principal         string `json:"principal"`
	AnnualRatePercent string `json:"annualRatePercent"`
	TenureMonths      int    `json:"tenureMonths"`
	EMIStartDate      string `json:"emiStartDate"`
	MaturityDate      string `json:"maturityDate"`
	InterestOnly      bool   `json:"interestOnly"`
	InstallmentAmount string `json:"installmentAmount"`
}

type ProjectionResponse struct {
	LoanID               string `json:"loanId"`
	AsOf                 string `json:"asOf"`
	CurrentBalance       string `json:"currentBalance"`
	NextPaymentDate      string `json:"nextPaymentDate"`
	DaysUntilNextPayment int    `json:"daysUntilNextPayment"`
	DueLabel             string `json:"dueLabel"`
	RemainingTermMonths  int    `json:"remainingTermMonths"`
	PaymentsMade         int    `json:"paymentsMade"`
	PercentPaid          int    `json:"percentPaid"`
	InstallmentAmount    string `json:"installmentAmount"`
	Matured              bool   `json:"matured"`
}

type ScheduleRowResponse struct {
	Period           int    `json:"period"`
	DueDate          string `json:"dueDate"`
	Payment          string `json:"payment"`
	PrincipalPortion string `json:"principalPortion"`
	InterestPortion  string `json:"interestPortion"`
	EndingBalance    string `json:"endingBalance"`
}

type ScheduleTotalsResponse struct {
	TotalPayment   string `json:"totalPayment"`
	TotalPrincipal string `json:"totalPrincipal"`
	TotalInterest  string `json:"totalInterest"`
}

type ScheduleResponse struct {
	LoanID string                 `json:"loanId"`
	Rows   []ScheduleRowResponse  `json:"rows"`
	Totals ScheduleTotalsResponse `json:"totals"`
}

type UpcomingPaymentResponse struct {
	LoanID string `json:"loanId"`
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

type SummaryResponse struct {
	AsOf               string                   `json:"asOf"`
	LoanCount          int                      `json:"loanCount"`
	ActiveCount        int                      `json:"activeCount"`
	MaturedCount       int                      `json:"maturedCount"`
	TotalPrincipal     string                   `json:"totalPrincipal"`
	TotalOutstanding   string                   `json:"totalOutstanding"`
	MonthlyInstallment string                   `json:"monthlyInstallment"`
	NextPayment        *UpcomingPaymentResponse `json:"nextPayment,omitempty"`
}

type ErrorDetail struct {
	Code    string        `json:"code,omitempty"`
	Message string        `json:"message"`
	Field   string        `json:"field,omitempty"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// FormatMoney rounds half away from zero to two decimals for display.
func FormatMoney(v loan.Money) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func NewLoanResponse(record loan.LoanRecord) LoanResponse {
	return LoanResponse{
		ID:                record.ID(),
		Name:              record.Name(),
		Type:              string(record.Type()),
		Lender:            record.Lender(),
		Principal:         FormatMoney(record.Principal()),
		AnnualRatePercent: decimal.NewFromFloat(record.AnnualRatePercent()).String(),
		TenureMonths:      record.TenureMonths(),
		EMIStartDate:      calendar.Format(record.EMIStartDate()),
		MaturityDate:      calendar.Format(record.MaturityDate()),
		InterestOnly:      record.InterestOnly(),
		InstallmentAmount: FormatMoney(record.Installment()),
	}
}

func NewProjectionResponse(loanID string, p loan.Projection) ProjectionResponse {
	return ProjectionResponse{
		LoanID:               loanID,
		AsOf:                 calendar.Format(p.AsOf),
		CurrentBalance:       FormatMoney(p.CurrentBalance),
		NextPaymentDate:      calendar.Format(p.NextPaymentDate),
		DaysUntilNextPayment: p.DaysUntilNextPayment,
		DueLabel:             p.DueLabel(),
		RemainingTermMonths:  p.RemainingTermMonths,
		PaymentsMade:         p.PaymentsMade,
		PercentPaid:          p.PercentPaid,
		InstallmentAmount:    FormatMoney(p.InstallmentAmount),
		Matured:              p.Matured,
	}
}

func NewScheduleResponse(loanID string, rows []loan.ScheduleRow, totals loan.ScheduleTotals) ScheduleResponse {
	resp := ScheduleResponse{
		LoanID: loanID,
		Rows:   make([]ScheduleRowResponse, len(rows)),
		Totals: ScheduleTotalsResponse{
			TotalPayment:   FormatMoney(totals.TotalPayment),
			TotalPrincipal: FormatMoney(totals.TotalPrincipal),
			TotalInterest:  FormatMoney(totals.TotalInterest),
		},
	}
	for i, row := range rows {
		resp.Rows[i] = ScheduleRowResponse{
			Period:           row.Period,
			DueDate:          calendar.Format(row.DueDate),
			Payment:          FormatMoney(row.Payment),
			PrincipalPortion: FormatMoney(row.PrincipalPortion),
			InterestPortion:  FormatMoney(row.InterestPortion),
			EndingBalance:    FormatMoney(row.EndingBalance),
		}
	}
	return resp
}

func NewSummaryResponse(s loan.PortfolioSummary) SummaryResponse {
	resp := SummaryResponse{
		AsOf:               calendar.Format(s.AsOf),
		LoanCount:          s.LoanCount,
		ActiveCount:        s.ActiveCount,
		MaturedCount:       s.MaturedCount,
		TotalPrincipal:     FormatMoney(s.TotalPrincipal),
		TotalOutstanding:   FormatMoney(s.TotalOutstanding),
		MonthlyInstallment: FormatMoney(s.MonthlyInstallment),
	}
	if s.NextPayment != nil {
		resp.NextPayment = &UpcomingPaymentResponse{
			LoanID: s.NextPayment.LoanID,
			Date:   calendar.Format(s.NextPayment.Date),
			Amount: FormatMoney(s.NextPayment.Amount),
		}
	}
	return resp
}
