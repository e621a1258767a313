// Package model defines the vehicle aggregate and its dependent record types
// shared between the local store, the codec layer, and the sync engine.
//
// Every entity carries a client-generated UUID identity. The identity is
// immutable once assigned and is the only join key used when reconciling the
// local and cloud replicas. Dependent records additionally hold the owning
// vehicle's identity as a back-reference.
package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// OdometerUnit is the unit the vehicle's odometer is recorded in.
type OdometerUnit string

const (
	OdometerMiles      OdometerUnit = "miles"
	OdometerKilometers OdometerUnit = "km"
)

// Abbreviation returns the short display form of the unit.
func (u OdometerUnit) Abbreviation() string {
	if u == OdometerMiles {
		return "mi"
	}
	return "km"
}

// ParseOdometerUnit maps a raw string to an OdometerUnit, falling back to
// kilometers for unknown values.
func ParseOdometerUnit(raw string) OdometerUnit {
	if raw == string(OdometerMiles) {
		return OdometerMiles
	}
	return OdometerKilometers
}

// FuelType is the vehicle's power source.
type FuelType string

const (
	FuelGasoline     FuelType = "Gasoline"
	FuelDiesel       FuelType = "Diesel"
	FuelElectric     FuelType = "Electric"
	FuelHybrid       FuelType = "Hybrid"
	FuelPlugInHybrid FuelType = "Plug-in Hybrid"
	FuelHydrogen     FuelType = "Hydrogen"
	FuelFlexFuel     FuelType = "Flex Fuel"
)

var fuelTypes = map[FuelType]bool{
	FuelGasoline: true, FuelDiesel: true, FuelElectric: true,
	FuelHybrid: true, FuelPlugInHybrid: true, FuelHydrogen: true,
	FuelFlexFuel: true,
}

// ParseFuelType maps a raw string to a FuelType, falling back to gasoline
// for unknown values.
func ParseFuelType(raw string) FuelType {
	if fuelTypes[FuelType(raw)] {
		return FuelType(raw)
	}
	return FuelGasoline
}

// Vehicle is the aggregate root. It exclusively owns six collections of
// dependent records; the collections are always present (possibly empty),
// never nil.
//
// UpdatedAt is the mutation timestamp used as the conflict tiebreaker during
// reconciliation: it only ever increases, and a strictly greater remote value
// is the sole signal that the cloud copy is newer.
type Vehicle struct {
	ID   uuid.UUID
	Name string
	Make string
	Model string
	Year int

	VIN           *string
	LicensePlate  *string
	Color         *string
	PurchaseDate  *time.Time
	PurchasePrice *float64

	CurrentOdometer float64
	OdometerUnit    OdometerUnit
	FuelType        FuelType
	TankCapacity    *float64
	Notes           *string

	// IsActive is a soft-delete flag. Inactive vehicles still sync.
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time

	InsuranceProvider       *string
	InsurancePolicyNumber   *string
	InsuranceExpirationDate *time.Time

	RegistrationState          *string
	RegistrationExpirationDate *time.Time

	FuelEntries          []*FuelEntry
	MaintenanceRecords   []*MaintenanceRecord
	MaintenanceSchedules []*MaintenanceSchedule
	Trips                []*Trip
	Expenses             []*Expense
	Documents            []*Document
}

// NewVehicle creates a vehicle with a fresh identity and creation timestamps.
func NewVehicle(name, make, model string, year int) *Vehicle {
	now := time.Now().UTC()
	return &Vehicle{
		ID:           uuid.New(),
		Name:         name,
		Make:         make,
		Model:        model,
		Year:         year,
		OdometerUnit: OdometerMiles,
		FuelType:     FuelGasoline,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,

		FuelEntries:          []*FuelEntry{},
		MaintenanceRecords:   []*MaintenanceRecord{},
		MaintenanceSchedules: []*MaintenanceSchedule{},
		Trips:                []*Trip{},
		Expenses:             []*Expense{},
		Documents:            []*Document{},
	}
}

// Touch advances the mutation timestamp. Callers mutating vehicle-level
// fields must call this so the change wins last-writer-wins reconciliation.
func (v *Vehicle) Touch() {
	v.UpdatedAt = time.Now().UTC()
}

// DisplayName returns the user-facing name, falling back to
// "<year> <make> <model>" when no name is set.
func (v *Vehicle) DisplayName() string {
	if v.Name != "" {
		return v.Name
	}
	return fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model)
}

// TotalFuelCost sums the persisted total of every fuel entry.
func (v *Vehicle) TotalFuelCost() float64 {
	var total float64
	for _, e := range v.FuelEntries {
		total += e.TotalCost
	}
	return total
}

// TotalMaintenanceCost sums the total cost of every maintenance record.
func (v *Vehicle) TotalMaintenanceCost() float64 {
	var total float64
	for _, r := range v.MaintenanceRecords {
		total += r.Cost
	}
	return total
}

// AverageFuelEconomy computes distance per unit of fuel across consecutive
// full-tank fill-ups, ordered by date. It reports false when fewer than two
// entries exist or no consecutive full-tank pair is found.
func (v *Vehicle) AverageFuelEconomy() (float64, bool) {
	if len(v.FuelEntries) < 2 {
		return 0, false
	}

	entries := make([]*FuelEntry, len(v.FuelEntries))
	copy(entries, v.FuelEntries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })

	var distance, fuel float64
	for i := 1; i < len(entries); i++ {
		if entries[i].IsFullTank && entries[i-1].IsFullTank {
			distance += entries[i].Odometer - entries[i-1].Odometer
			fuel += entries[i].Quantity
		}
	}
	if fuel <= 0 {
		return 0, false
	}
	return distance / fuel, true
}
