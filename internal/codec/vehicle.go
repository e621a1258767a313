package codec

import (
	"time"

	"github.com/google/uuid"

	"github.com/autoledger/autoledger/internal/model"
)

// EncodeVehicle produces the remote document payload for a vehicle. Dependent
// collections are not part of the vehicle document; they live in nested
// collections keyed by their own identities. The local image payload is
// skipped (binary sync is deferred).
func EncodeVehicle(v *model.Vehicle) Fields {
	f := Fields{
		"id":              v.ID.String(),
		"name":            v.Name,
		"make":            v.Make,
		"model":           v.Model,
		"year":            v.Year,
		"currentOdometer": v.CurrentOdometer,
		"odometerUnit":    string(v.OdometerUnit),
		"fuelType":        string(v.FuelType),
		"isActive":        v.IsActive,
		"createdAt":       v.CreatedAt,
		"updatedAt":       v.UpdatedAt,
	}

	f.setStr("vin", v.VIN)
	f.setStr("licensePlate", v.LicensePlate)
	f.setStr("color", v.Color)
	f.setStr("notes", v.Notes)
	f.setTime("purchaseDate", v.PurchaseDate)
	f.setNum("purchasePrice", v.PurchasePrice)
	f.setNum("tankCapacity", v.TankCapacity)
	f.setStr("insuranceProvider", v.InsuranceProvider)
	f.setStr("insurancePolicyNumber", v.InsurancePolicyNumber)
	f.setTime("insuranceExpirationDate", v.InsuranceExpirationDate)
	f.setStr("registrationState", v.RegistrationState)
	f.setTime("registrationExpirationDate", v.RegistrationExpirationDate)

	return f
}

// DecodeVehicle reconstructs a vehicle from a remote document. The identity
// comes from the document ID, never from the payload. Missing or malformed
// fields are repaired with defaults; the result always has empty (non-nil)
// dependent collections for the pull path to fill in.
func DecodeVehicle(f Fields, id uuid.UUID) *model.Vehicle {
	now := time.Now().UTC()
	return &model.Vehicle{
		ID:              id,
		Name:            f.str("name", ""),
		Make:            f.str("make", ""),
		Model:           f.str("model", ""),
		Year:            f.integer("year", 2024),
		CurrentOdometer: f.num("currentOdometer", 0),
		OdometerUnit:    model.ParseOdometerUnit(f.str("odometerUnit", "")),
		FuelType:        model.ParseFuelType(f.str("fuelType", "")),
		IsActive:        f.boolean("isActive", true),
		CreatedAt:       f.timestamp("createdAt", now),
		UpdatedAt:       f.timestamp("updatedAt", now),

		VIN:           f.optStr("vin"),
		LicensePlate:  f.optStr("licensePlate"),
		Color:         f.optStr("color"),
		Notes:         f.optStr("notes"),
		PurchaseDate:  f.optTimestamp("purchaseDate"),
		PurchasePrice: f.optNum("purchasePrice"),
		TankCapacity:  f.optNum("tankCapacity"),

		InsuranceProvider:       f.optStr("insuranceProvider"),
		InsurancePolicyNumber:   f.optStr("insurancePolicyNumber"),
		InsuranceExpirationDate: f.optTimestamp("insuranceExpirationDate"),

		RegistrationState:          f.optStr("registrationState"),
		RegistrationExpirationDate: f.optTimestamp("registrationExpirationDate"),

		FuelEntries:          []*model.FuelEntry{},
		MaintenanceRecords:   []*model.MaintenanceRecord{},
		MaintenanceSchedules: []*model.MaintenanceSchedule{},
		Trips:                []*model.Trip{},
		Expenses:             []*model.Expense{},
		Documents:            []*model.Document{},
	}
}

// MergeVehicle overwrites the mutable fields of a local vehicle from a remote
// document, in place. Identity, creation timestamp, and dependent collections
// are untouched. Required fields keep their local value when the remote key
// is missing; optional fields take the remote state as-is (absent means
// cleared, matching a full-overwrite push from the winning replica).
func MergeVehicle(v *model.Vehicle, f Fields) {
	v.Name = f.str("name", v.Name)
	v.Make = f.str("make", v.Make)
	v.Model = f.str("model", v.Model)
	v.Year = f.integer("year", v.Year)
	v.CurrentOdometer = f.num("currentOdometer", v.CurrentOdometer)
	if raw, ok := f.String("odometerUnit"); ok {
		v.OdometerUnit = model.ParseOdometerUnit(raw)
	}
	if raw, ok := f.String("fuelType"); ok {
		v.FuelType = model.ParseFuelType(raw)
	}
	v.IsActive = f.boolean("isActive", v.IsActive)

	v.VIN = f.optStr("vin")
	v.LicensePlate = f.optStr("licensePlate")
	v.Color = f.optStr("color")
	v.Notes = f.optStr("notes")
	v.PurchaseDate = f.optTimestamp("purchaseDate")
	v.PurchasePrice = f.optNum("purchasePrice")
	v.TankCapacity = f.optNum("tankCapacity")
	v.InsuranceProvider = f.optStr("insuranceProvider")
	v.InsurancePolicyNumber = f.optStr("insurancePolicyNumber")
	v.InsuranceExpirationDate = f.optTimestamp("insuranceExpirationDate")
	v.RegistrationState = f.optStr("registrationState")
	v.RegistrationExpirationDate = f.optTimestamp("registrationExpirationDate")

	if updated, ok := f.Time("updatedAt"); ok {
		v.UpdatedAt = updated
	}
}
