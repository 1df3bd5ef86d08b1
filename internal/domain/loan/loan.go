package loan

import (
	"fmt"
	"strings"
	"time"

	"loan-engine/internal/pkg/calendar"

	"github.com/google/uuid"
)

type Money = float64

const (
	MaxLoanAmount   Money   = 1_000_000_000.0
	MaxInterestRate float64 = 50.0
	MaxTenureMonths int     = 600
)

type LoanType string

const (
	TypePersonal       LoanType = "personal"
	TypeHome           LoanType = "home"
	TypeCar            LoanType = "car"
	TypeBusiness       LoanType = "business"
	TypeGold           LoanType = "gold"
	TypeEducation      LoanType = "education"
	TypePrivateLending LoanType = "privateLending"
	TypeOther          LoanType = "other"
)

var loanTypes = []LoanType{
	TypePersonal, TypeHome, TypeCar, TypeBusiness,
	TypeGold, TypeEducation, TypePrivateLending, TypeOther,
}

func LoanTypes() []LoanType {
	out := make([]LoanType, len(loanTypes))
	copy(out, loanTypes)
	return out
}

// ParseLoanType matches case-insensitively, so "privatelending" and
// "PrivateLending" both resolve to TypePrivateLending.
func ParseLoanType(s string) (LoanType, error) {
	for _, t := range loanTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown loan type %q", s)
}

func (t LoanType) Valid() bool {
	for _, known := range loanTypes {
		if t == known {
			return true
		}
	}
	return false
}

// InterestOnlyByDefault reports whether loans of this type pay interest only
// unless told otherwise.
func (t LoanType) InterestOnlyByDefault() bool {
	return t == TypeGold || t == TypePrivateLending
}

// LoanParams are the user-editable static fields of a loan.
type LoanParams struct {
	ID                string
	Name              string
	Type              LoanType
	Lender            string
	Principal         Money
	AnnualRatePercent float64
	TenureMonths      int
	EMIStartDate      time.Time
	InterestOnly      bool
}

// LoanRecord is an immutable, validated loan. It has no balance or
// payments-made fields: those are always derived with Project.
type LoanRecord struct {
	id                string
	name              string
	loanType          LoanType
	lender            string
	principal         Money
	annualRatePercent float64
	tenureMonths      int
	emiStartDate      time.Time
	interestOnly      bool
}

// NewLoanRecord validates params and builds the record. An empty ID gets a
// fresh UUID; InterestOnly is forced on for gold and private lending loans.
func NewLoanRecord(p LoanParams) (LoanRecord, error) {
	if err := Validate(p); err != nil {
		return LoanRecord{}, err
	}

	id := strings.TrimSpace(p.ID)
	if id == "" {
		id = uuid.New().String()
	}

	return LoanRecord{
		id:                id,
		name:              strings.TrimSpace(p.Name),
		loanType:          p.Type,
		lender:            strings.TrimSpace(p.Lender),
		principal:         p.Principal,
		annualRatePercent: p.AnnualRatePercent,
		tenureMonths:      p.TenureMonths,
		emiStartDate:      calendar.Normalize(p.EMIStartDate),
		interestOnly:      p.InterestOnly || p.Type.InterestOnlyByDefault(),
	}, nil
}

// Replace builds the edited version of r. The ID is kept; every other field
// comes from p and is validated again.
func (r LoanRecord) Replace(p LoanParams) (LoanRecord, error) {
	p.ID = r.id
	return NewLoanRecord(p)
}

func (r LoanRecord) Params() LoanParams {
	return LoanParams{
		ID:                r.id,
		Name:              r.name,
		Type:              r.loanType,
		Lender:            r.lender,
		Principal:         r.principal,
		AnnualRatePercent: r.annualRatePercent,
		TenureMonths:      r.tenureMonths,
		EMIStartDate:      r.emiStartDate,
		InterestOnly:      r.interestOnly,
	}
}

func (r LoanRecord) ID() string                 { return r.id }
func (r LoanRecord) Name() string               { return r.name }
func (r LoanRecord) Type() LoanType             { return r.loanType }
func (r LoanRecord) Lender() string             { return r.lender }
func (r LoanRecord) Principal() Money           { return r.principal }
func (r LoanRecord) AnnualRatePercent() float64 { return r.annualRatePercent }
func (r LoanRecord) TenureMonths() int          { return r.tenureMonths }
func (r LoanRecord) EMIStartDate() time.Time    { return r.emiStartDate }
func (r LoanRecord) InterestOnly() bool         { return r.interestOnly }

// Installment is the amount due every period.
func (r LoanRecord) Installment() Money {
	if r.interestOnly {
		return InterestOnlyPayment(r.principal, r.annualRatePercent)
	}
	return EMIPayment(r.principal, r.annualRatePercent, r.tenureMonths)
}

// MaturityDate is the due date of the last scheduled payment.
func (r LoanRecord) MaturityDate() time.Time {
	return calendar.AddMonths(r.emiStartDate, r.tenureMonths-1)
}

// Fingerprint identifies the inputs that determine the schedule. Records with
// equal fingerprints produce identical schedules regardless of ID or name.
func (r LoanRecord) Fingerprint() string {
	return fmt.Sprintf("v1:%x:%x:%d:%s:%t",
		r.principal, r.annualRatePercent, r.tenureMonths,
		calendar.Format(r.emiStartDate), r.interestOnly)
}
