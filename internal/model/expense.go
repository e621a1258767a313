package model

import (
	"time"

	"github.com/google/uuid"
)

// ExpenseCategory classifies a non-fuel, non-maintenance cost. CategoryOther
// is the escape hatch and may carry a free-text name on the expense.
type ExpenseCategory string

const (
	CategoryInsurance     ExpenseCategory = "insurance"
	CategoryRegistration  ExpenseCategory = "registration"
	CategoryParking       ExpenseCategory = "parking"
	CategoryTolls         ExpenseCategory = "tolls"
	CategoryCarWash       ExpenseCategory = "car_wash"
	CategoryAccessories   ExpenseCategory = "accessories"
	CategoryModifications ExpenseCategory = "modifications"
	CategoryTickets       ExpenseCategory = "tickets"
	CategoryTowing        ExpenseCategory = "towing"
	CategoryRoadside      ExpenseCategory = "roadside"
	CategorySubscription  ExpenseCategory = "subscription"
	CategoryLoan          ExpenseCategory = "loan"
	CategoryLease         ExpenseCategory = "lease"
	CategoryTax           ExpenseCategory = "tax"
	CategoryInspection    ExpenseCategory = "inspection"
	CategoryOther         ExpenseCategory = "other"
)

var categoryNames = map[ExpenseCategory]string{
	CategoryInsurance:     "Insurance",
	CategoryRegistration:  "Registration",
	CategoryParking:       "Parking",
	CategoryTolls:         "Tolls",
	CategoryCarWash:       "Car Wash",
	CategoryAccessories:   "Accessories",
	CategoryModifications: "Modifications",
	CategoryTickets:       "Tickets/Fines",
	CategoryTowing:        "Towing",
	CategoryRoadside:      "Roadside Assistance",
	CategorySubscription:  "Subscription",
	CategoryLoan:          "Loan Payment",
	CategoryLease:         "Lease Payment",
	CategoryTax:           "Vehicle Tax",
	CategoryInspection:    "Inspection Fee",
	CategoryOther:         "Other",
}

// ParseExpenseCategory maps a raw string to an ExpenseCategory, falling back
// to the other escape hatch for unknown values.
func ParseExpenseCategory(raw string) ExpenseCategory {
	if _, ok := categoryNames[ExpenseCategory(raw)]; ok {
		return ExpenseCategory(raw)
	}
	return CategoryOther
}

// DisplayName returns the human-readable category name.
func (c ExpenseCategory) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return categoryNames[CategoryOther]
}

// RecurringInterval is the cadence of a recurring expense.
type RecurringInterval string

const (
	RecurWeekly       RecurringInterval = "Weekly"
	RecurBiweekly     RecurringInterval = "Bi-weekly"
	RecurMonthly      RecurringInterval = "Monthly"
	RecurQuarterly    RecurringInterval = "Quarterly"
	RecurSemiannually RecurringInterval = "Semi-annually"
	RecurAnnually     RecurringInterval = "Annually"
)

var recurringIntervals = map[RecurringInterval]bool{
	RecurWeekly: true, RecurBiweekly: true, RecurMonthly: true,
	RecurQuarterly: true, RecurSemiannually: true, RecurAnnually: true,
}

// ParseRecurringInterval maps a raw string to a RecurringInterval. Unlike the
// other enum parsers it reports false for unknown values: the interval is an
// optional field with no meaningful default.
func ParseRecurringInterval(raw string) (RecurringInterval, bool) {
	if recurringIntervals[RecurringInterval(raw)] {
		return RecurringInterval(raw), true
	}
	return "", false
}

// Expense is one non-fuel, non-maintenance cost.
type Expense struct {
	ID        uuid.UUID
	VehicleID uuid.UUID

	Date     time.Time
	Category ExpenseCategory

	// CustomCategoryName names the category when Category is CategoryOther.
	CustomCategoryName *string

	Amount      float64
	Vendor      *string
	Description *string
	Notes       *string

	IsRecurring       bool
	RecurringInterval *RecurringInterval

	CreatedAt time.Time
}

// NewExpense creates an expense for the given vehicle.
func NewExpense(vehicleID uuid.UUID, date time.Time, category ExpenseCategory, amount float64) *Expense {
	return &Expense{
		ID:        uuid.New(),
		VehicleID: vehicleID,
		Date:      date,
		Category:  category,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}

// DisplayCategory returns the custom name for an "other" expense when set,
// otherwise the category's display name.
func (e *Expense) DisplayCategory() string {
	if e.Category == CategoryOther && e.CustomCategoryName != nil {
		return *e.CustomCategoryName
	}
	return e.Category.DisplayName()
}
