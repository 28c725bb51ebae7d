// Package revenue implements the fixed compensation formula that converts
// an organization's payment terms and a contact count into the net
// management share for one shift.
package revenue

import (
	"math"
	"time"

	"promoboard-engine/internal/common/config"
	"promoboard-engine/internal/models"
)

const (
	// Cashless billing incurs a 7% tax deduction before the profit split.
	cashlessTaxRate = 0.07

	// AdministratorOrg is a special-cased ledger organization billed with
	// fixed constants instead of the rate-based formula. The constants
	// have no documented derivation; pending product clarification.
	AdministratorOrg = "Administrator role"

	adminBaseRevenue = 2968
	adminFlatTax     = 172
	adminFlatSalary  = 600
)

// Model holds the compensation constants. The salary tier pays
// tierSalaryRate per contact once the contact count reaches the
// threshold; whether the tier additionally requires the shift date to be
// on or after tierDate differs between the two historical call sites, so
// it is a flag rather than a hardcoded choice.
type Model struct {
	tierDate             time.Time
	tierThreshold        int
	baseSalaryRate       int
	tierSalaryRate       int
	tierRequiresDateGate bool
}

// NewModel builds a Model from config. A malformed tier date falls back
// to the production default.
func NewModel(cfg config.RevenueConfig) *Model {
	tierDate, err := time.Parse(models.DateLayout, cfg.TierDate)
	if err != nil {
		tierDate = time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Model{
		tierDate:             tierDate,
		tierThreshold:        cfg.TierThreshold,
		baseSalaryRate:       cfg.BaseSalaryRate,
		tierSalaryRate:       cfg.TierSalaryRate,
		tierRequiresDateGate: cfg.TierRequiresDateGate,
	}
}

// NewLedgerModel builds the model used to settle accounting ledger
// records. Realized shifts are settled under the current tier table
// regardless of when the tier activated, so the date gate is always off
// here no matter what the config says for the scheduler path.
func NewLedgerModel(cfg config.RevenueConfig) *Model {
	cfg.TierRequiresDateGate = false
	return NewModel(cfg)
}

// NewDefaultModel returns the canonical production model: 200/300 salary
// tiers at a threshold of 10 contacts, tier gated on 2025-10-01.
func NewDefaultModel() *Model {
	return &Model{
		tierDate:             time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		tierThreshold:        10,
		baseSalaryRate:       200,
		tierSalaryRate:       300,
		tierRequiresDateGate: true,
	}
}

// EstimateNetShare returns the projected 50% management share for one
// shift, in whole currency units. Negative results are valid and mean a
// loss-making assignment.
func (m *Model) EstimateNetShare(org models.Organization, avgContacts float64, shiftDate time.Time) int {
	if avgContacts <= 0 {
		return 0
	}

	contacts := roundHalfUp(avgContacts)
	revenue := contacts * org.ContactRate

	tax := 0
	if org.PaymentType == models.PaymentCashless {
		tax = roundHalfUp(float64(revenue) * cashlessTaxRate)
	}
	afterTax := revenue - tax

	netProfit := afterTax - m.salary(contacts, shiftDate)
	return halve(netProfit)
}

// EstimateLedgerNet returns the realized net share for one accounting
// ledger record: the rate-based formula plus the record's flat
// compensation, minus its flat expense. The Administrator organization
// uses fixed constants instead of rate-based revenue.
func (m *Model) EstimateLedgerNet(rec models.LedgerShift) int {
	if rec.Organization == AdministratorOrg {
		net := adminBaseRevenue - adminFlatTax - adminFlatSalary
		return halve(net) + rec.CompensationAmount - rec.ExpenseAmount
	}

	revenue := rec.ContactsCount * rec.ContactRate

	tax := 0
	if rec.PaymentType == models.PaymentCashless {
		tax = roundHalfUp(float64(revenue) * cashlessTaxRate)
	}
	afterTax := revenue - tax

	shiftDate, err := models.ParseDateKey(rec.Date)
	if err != nil {
		shiftDate = time.Time{}
	}

	netProfit := afterTax - m.salary(rec.ContactsCount, shiftDate)
	return halve(netProfit) + rec.CompensationAmount - rec.ExpenseAmount
}

// salary is the promoter compensation for one shift. The higher tier
// applies at or above the contact threshold; when the date gate is on,
// it additionally requires the shift date to be on or after the tier date.
func (m *Model) salary(contacts int, shiftDate time.Time) int {
	tier := contacts >= m.tierThreshold
	if m.tierRequiresDateGate {
		tier = tier && !shiftDate.Before(m.tierDate)
	}
	if tier {
		return contacts * m.tierSalaryRate
	}
	return contacts * m.baseSalaryRate
}

// halve is the 50% management split, rounded to the nearest whole unit.
func halve(netProfit int) int {
	return roundHalfUp(float64(netProfit) / 2)
}

// roundHalfUp rounds half-values toward positive infinity, matching the
// rounding the billing formula has always used. math.Round would send
// -570.5 to -571 instead of -570.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
