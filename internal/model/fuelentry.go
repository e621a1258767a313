package model

import (
	"time"

	"github.com/google/uuid"
)

// FuelGrade is the grade of fuel purchased in a fill-up.
type FuelGrade string

const (
	GradeRegular  FuelGrade = "Regular"
	GradeMidGrade FuelGrade = "Mid-Grade"
	GradePremium  FuelGrade = "Premium"
	GradeDiesel   FuelGrade = "Diesel"
	GradeE85      FuelGrade = "E85"
)

var fuelGrades = map[FuelGrade]bool{
	GradeRegular: true, GradeMidGrade: true, GradePremium: true,
	GradeDiesel: true, GradeE85: true,
}

// ParseFuelGrade maps a raw string to a FuelGrade, falling back to regular
// for unknown values.
func ParseFuelGrade(raw string) FuelGrade {
	if fuelGrades[FuelGrade(raw)] {
		return FuelGrade(raw)
	}
	return GradeRegular
}

// FuelEntry records a single fill-up. Entries are immutable after creation as
// far as the sync protocol is concerned: once either replica holds an entry
// identity, that copy is never overwritten.
type FuelEntry struct {
	ID        uuid.UUID
	VehicleID uuid.UUID

	Date         time.Time
	Odometer     float64
	Quantity     float64
	PricePerUnit float64

	// TotalCost is quantity times unit price, computed once at creation and
	// persisted. It is not re-derived on read.
	TotalCost float64

	IsFullTank bool
	FuelGrade  FuelGrade
	Station    *string
	Location   *string
	Notes      *string
	CreatedAt  time.Time
}

// NewFuelEntry creates a fill-up record for the given vehicle.
func NewFuelEntry(vehicleID uuid.UUID, date time.Time, odometer, quantity, pricePerUnit float64) *FuelEntry {
	return &FuelEntry{
		ID:           uuid.New(),
		VehicleID:    vehicleID,
		Date:         date,
		Odometer:     odometer,
		Quantity:     quantity,
		PricePerUnit: pricePerUnit,
		TotalCost:    quantity * pricePerUnit,
		IsFullTank:   true,
		FuelGrade:    GradeRegular,
		CreatedAt:    time.Now().UTC(),
	}
}
