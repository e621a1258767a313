package codec

import (
	"time"

	"github.com/google/uuid"

	"github.com/autoledger/autoledger/internal/model"
)

// EncodeFuelEntry produces the remote document payload for a fill-up.
func EncodeFuelEntry(e *model.FuelEntry) Fields {
	f := Fields{
		"id":           e.ID.String(),
		"date":         e.Date,
		"odometer":     e.Odometer,
		"quantity":     e.Quantity,
		"pricePerUnit": e.PricePerUnit,
		"totalCost":    e.TotalCost,
		"isFullTank":   e.IsFullTank,
		"fuelGrade":    string(e.FuelGrade),
		"createdAt":    e.CreatedAt,
	}
	f.setStr("station", e.Station)
	f.setStr("location", e.Location)
	f.setStr("notes", e.Notes)
	return f
}

// DecodeFuelEntry reconstructs a fill-up owned by the given vehicle.
func DecodeFuelEntry(f Fields, id, vehicleID uuid.UUID) *model.FuelEntry {
	return &model.FuelEntry{
		ID:           id,
		VehicleID:    vehicleID,
		Date:         f.timestamp("date", time.Now().UTC()),
		Odometer:     f.num("odometer", 0),
		Quantity:     f.num("quantity", 0),
		PricePerUnit: f.num("pricePerUnit", 0),
		TotalCost:    f.num("totalCost", 0),
		IsFullTank:   f.boolean("isFullTank", true),
		FuelGrade:    model.ParseFuelGrade(f.str("fuelGrade", "")),
		Station:      f.optStr("station"),
		Location:     f.optStr("location"),
		Notes:        f.optStr("notes"),
		CreatedAt:    f.timestamp("createdAt", time.Now().UTC()),
	}
}

// EncodeMaintenanceRecord produces the remote document payload for a service
// record. The receipt image is skipped (binary sync is deferred).
func EncodeMaintenanceRecord(r *model.MaintenanceRecord) Fields {
	f := Fields{
		"id":          r.ID.String(),
		"date":        r.Date,
		"odometer":    r.Odometer,
		"serviceType": string(r.ServiceType),
		"cost":        r.Cost,
		"laborCost":   r.LaborCost,
		"partsCost":   r.PartsCost,
		"isScheduled": r.IsScheduled,
		"createdAt":   r.CreatedAt,
	}
	f.setStr("customServiceName", r.CustomServiceName)
	f.setStr("serviceProvider", r.ServiceProvider)
	f.setStr("serviceProviderPhone", r.ServiceProviderPhone)
	f.setStr("serviceProviderAddress", r.ServiceProviderAddress)
	f.setStr("notes", r.Notes)
	f.setTime("reminderDate", r.ReminderDate)
	f.setNum("reminderOdometer", r.ReminderOdometer)
	return f
}

// DecodeMaintenanceRecord reconstructs a service record owned by the given
// vehicle.
func DecodeMaintenanceRecord(f Fields, id, vehicleID uuid.UUID) *model.MaintenanceRecord {
	return &model.MaintenanceRecord{
		ID:          id,
		VehicleID:   vehicleID,
		Date:        f.timestamp("date", time.Now().UTC()),
		Odometer:    f.num("odometer", 0),
		ServiceType: model.ParseServiceType(f.str("serviceType", "")),
		Cost:        f.num("cost", 0),
		LaborCost:   f.num("laborCost", 0),
		PartsCost:   f.num("partsCost", 0),
		IsScheduled: f.boolean("isScheduled", false),

		CustomServiceName:      f.optStr("customServiceName"),
		ServiceProvider:        f.optStr("serviceProvider"),
		ServiceProviderPhone:   f.optStr("serviceProviderPhone"),
		ServiceProviderAddress: f.optStr("serviceProviderAddress"),
		Notes:                  f.optStr("notes"),
		ReminderDate:           f.optTimestamp("reminderDate"),
		ReminderOdometer:       f.optNum("reminderOdometer"),

		CreatedAt: f.timestamp("createdAt", time.Now().UTC()),
	}
}

// EncodeMaintenanceSchedule produces the remote document payload for a
// service cadence.
func EncodeMaintenanceSchedule(s *model.MaintenanceSchedule) Fields {
	f := Fields{
		"id":          s.ID.String(),
		"serviceType": string(s.ServiceType),
		"isEnabled":   s.IsEnabled,
		"createdAt":   s.CreatedAt,
	}
	f.setStr("customServiceName", s.CustomServiceName)
	f.setNum("mileageInterval", s.MileageInterval)
	f.setInt("timeIntervalMonths", s.TimeIntervalMonths)
	f.setTime("lastServiceDate", s.LastServiceDate)
	f.setNum("lastServiceOdometer", s.LastServiceOdometer)
	f.setStr("notes", s.Notes)
	return f
}

// DecodeMaintenanceSchedule reconstructs a service cadence owned by the given
// vehicle.
func DecodeMaintenanceSchedule(f Fields, id, vehicleID uuid.UUID) *model.MaintenanceSchedule {
	return &model.MaintenanceSchedule{
		ID:          id,
		VehicleID:   vehicleID,
		ServiceType: model.ParseServiceType(f.str("serviceType", "")),
		IsEnabled:   f.boolean("isEnabled", true),

		CustomServiceName:   f.optStr("customServiceName"),
		MileageInterval:     f.optNum("mileageInterval"),
		TimeIntervalMonths:  f.optInt("timeIntervalMonths"),
		LastServiceDate:     f.optTimestamp("lastServiceDate"),
		LastServiceOdometer: f.optNum("lastServiceOdometer"),
		Notes:               f.optStr("notes"),

		CreatedAt: f.timestamp("createdAt", time.Now().UTC()),
	}
}

// EncodeTrip produces the remote document payload for a logged drive.
func EncodeTrip(t *model.Trip) Fields {
	f := Fields{
		"id":            t.ID.String(),
		"date":          t.Date,
		"startOdometer": t.StartOdometer,
		"tripType":      string(t.TripType),
		"isActive":      t.IsActive,
		"createdAt":     t.CreatedAt,
	}
	f.setNum("endOdometer", t.EndOdometer)
	f.setNum("distance", t.Distance)
	f.setStr("purpose", t.Purpose)
	f.setStr("startLocation", t.StartLocation)
	f.setStr("endLocation", t.EndLocation)
	f.setStr("notes", t.Notes)
	return f
}

// DecodeTrip reconstructs a logged drive owned by the given vehicle.
func DecodeTrip(f Fields, id, vehicleID uuid.UUID) *model.Trip {
	return &model.Trip{
		ID:            id,
		VehicleID:     vehicleID,
		Date:          f.timestamp("date", time.Now().UTC()),
		StartOdometer: f.num("startOdometer", 0),
		TripType:      model.ParseTripType(f.str("tripType", "")),
		IsActive:      f.boolean("isActive", false),

		EndOdometer:   f.optNum("endOdometer"),
		Distance:      f.optNum("distance"),
		Purpose:       f.optStr("purpose"),
		StartLocation: f.optStr("startLocation"),
		EndLocation:   f.optStr("endLocation"),
		Notes:         f.optStr("notes"),

		CreatedAt: f.timestamp("createdAt", time.Now().UTC()),
	}
}

// EncodeExpense produces the remote document payload for an expense. The
// receipt image is skipped (binary sync is deferred).
func EncodeExpense(e *model.Expense) Fields {
	f := Fields{
		"id":          e.ID.String(),
		"date":        e.Date,
		"category":    string(e.Category),
		"amount":      e.Amount,
		"isRecurring": e.IsRecurring,
		"createdAt":   e.CreatedAt,
	}
	f.setStr("customCategoryName", e.CustomCategoryName)
	f.setStr("vendor", e.Vendor)
	f.setStr("expenseDescription", e.Description)
	f.setStr("notes", e.Notes)
	if e.RecurringInterval != nil {
		f["recurringInterval"] = string(*e.RecurringInterval)
	}
	return f
}

// DecodeExpense reconstructs an expense owned by the given vehicle.
func DecodeExpense(f Fields, id, vehicleID uuid.UUID) *model.Expense {
	e := &model.Expense{
		ID:          id,
		VehicleID:   vehicleID,
		Date:        f.timestamp("date", time.Now().UTC()),
		Category:    model.ParseExpenseCategory(f.str("category", "")),
		Amount:      f.num("amount", 0),
		IsRecurring: f.boolean("isRecurring", false),

		CustomCategoryName: f.optStr("customCategoryName"),
		Vendor:             f.optStr("vendor"),
		Description:        f.optStr("expenseDescription"),
		Notes:              f.optStr("notes"),

		CreatedAt: f.timestamp("createdAt", time.Now().UTC()),
	}
	if raw, ok := f.String("recurringInterval"); ok {
		if interval, valid := model.ParseRecurringInterval(raw); valid {
			e.RecurringInterval = &interval
		}
	}
	return e
}

// EncodeDocument produces the remote document payload for a stored document.
// Image and PDF payloads are skipped (binary sync is deferred).
func EncodeDocument(d *model.Document) Fields {
	f := Fields{
		"id":           d.ID.String(),
		"name":         d.Name,
		"documentType": string(d.DocumentType),
		"createdAt":    d.CreatedAt,
		"updatedAt":    d.UpdatedAt,
	}
	f.setTime("expirationDate", d.ExpirationDate)
	f.setStr("notes", d.Notes)
	return f
}

// DecodeDocument reconstructs a stored document owned by the given vehicle.
func DecodeDocument(f Fields, id, vehicleID uuid.UUID) *model.Document {
	now := time.Now().UTC()
	return &model.Document{
		ID:           id,
		VehicleID:    vehicleID,
		Name:         f.str("name", ""),
		DocumentType: model.ParseDocumentType(f.str("documentType", "")),

		ExpirationDate: f.optTimestamp("expirationDate"),
		Notes:          f.optStr("notes"),

		CreatedAt: f.timestamp("createdAt", now),
		UpdatedAt: f.timestamp("updatedAt", now),
	}
}
