package codec

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/autoledger/autoledger/internal/model"
)

func strPtr(s string) *string        { return &s }
func f64Ptr(f float64) *float64      { return &f }
func timePtr(t time.Time) *time.Time { return &t }

var (
	testDate    = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	testCreated = time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
)

// fullVehicle builds a vehicle with every optional field populated.
func fullVehicle() *model.Vehicle {
	v := model.NewVehicle("Weekend Car", "Mazda", "MX-5", 2019)
	v.CreatedAt = testCreated
	v.UpdatedAt = testDate
	v.CurrentOdometer = 42195
	v.OdometerUnit = model.OdometerKilometers
	v.FuelType = model.FuelGasoline
	v.VIN = strPtr("JM1NDAB75K0301234")
	v.LicensePlate = strPtr("MX5-019")
	v.Color = strPtr("Soul Red")
	v.Notes = strPtr("garage queen")
	v.PurchaseDate = timePtr(testCreated)
	v.PurchasePrice = f64Ptr(28500)
	v.TankCapacity = f64Ptr(45)
	v.InsuranceProvider = strPtr("Acme Mutual")
	v.InsurancePolicyNumber = strPtr("POL-88421")
	v.InsuranceExpirationDate = timePtr(testDate.AddDate(1, 0, 0))
	v.RegistrationState = strPtr("OR")
	v.RegistrationExpirationDate = timePtr(testDate.AddDate(0, 6, 0))
	return v
}

// ---------------------------------------------------------------------------
// Round-trip: decode(encode(x)) == x for every entity type
// ---------------------------------------------------------------------------

func TestVehicleRoundTrip(t *testing.T) {
	v := fullVehicle()
	got := DecodeVehicle(EncodeVehicle(v), v.ID)
	if !reflect.DeepEqual(got, v) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, v)
	}
}

func TestFuelEntryRoundTrip(t *testing.T) {
	vid := uuid.New()
	e := model.NewFuelEntry(vid, testDate, 42195, 38.2, 1.72)
	e.CreatedAt = testCreated
	e.IsFullTank = false
	e.FuelGrade = model.GradePremium
	e.Station = strPtr("Shell")
	e.Location = strPtr("Portland, OR")
	e.Notes = strPtr("road trip")

	got := DecodeFuelEntry(EncodeFuelEntry(e), e.ID, vid)
	if !reflect.DeepEqual(got, e) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, e)
	}
}

func TestMaintenanceRecordRoundTrip(t *testing.T) {
	vid := uuid.New()
	r := model.NewMaintenanceRecord(vid, testDate, 42000, model.ServiceCustom)
	r.CreatedAt = testCreated
	r.CustomServiceName = strPtr("Undercoating")
	r.Cost = 250
	r.LaborCost = 180
	r.PartsCost = 70
	r.ServiceProvider = strPtr("Joe's Garage")
	r.ServiceProviderPhone = strPtr("+1 555 0100")
	r.ServiceProviderAddress = strPtr("12 Main St")
	r.Notes = strPtr("annual")
	r.IsScheduled = true
	r.ReminderDate = timePtr(testDate.AddDate(1, 0, 0))
	r.ReminderOdometer = f64Ptr(50000)

	got := DecodeMaintenanceRecord(EncodeMaintenanceRecord(r), r.ID, vid)
	if !reflect.DeepEqual(got, r) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, r)
	}
}

func TestMaintenanceScheduleRoundTrip(t *testing.T) {
	vid := uuid.New()
	s := model.NewMaintenanceSchedule(vid, model.ServiceOilChange)
	s.CreatedAt = testCreated
	s.LastServiceDate = timePtr(testDate)
	s.LastServiceOdometer = f64Ptr(40000)
	s.Notes = strPtr("full synthetic")
	s.IsEnabled = false

	got := DecodeMaintenanceSchedule(EncodeMaintenanceSchedule(s), s.ID, vid)
	if !reflect.DeepEqual(got, s) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, s)
	}
}

func TestTripRoundTrip(t *testing.T) {
	vid := uuid.New()
	trip := model.NewTrip(vid, testDate, 42000)
	trip.CreatedAt = testCreated
	trip.TripType = model.TripBusiness
	trip.Purpose = strPtr("client visit")
	trip.StartLocation = strPtr("Home")
	trip.End(42150, strPtr("Office"))
	trip.Notes = strPtr("toll road")

	got := DecodeTrip(EncodeTrip(trip), trip.ID, vid)
	if !reflect.DeepEqual(got, trip) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, trip)
	}
}

func TestExpenseRoundTrip(t *testing.T) {
	vid := uuid.New()
	e := model.NewExpense(vid, testDate, model.CategoryParking, 12.50)
	e.CreatedAt = testCreated
	e.Vendor = strPtr("City Parking")
	e.Description = strPtr("airport lot")
	e.Notes = strPtr("reimbursable")
	e.IsRecurring = true
	interval := model.RecurMonthly
	e.RecurringInterval = &interval

	got := DecodeExpense(EncodeExpense(e), e.ID, vid)
	if !reflect.DeepEqual(got, e) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, e)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	vid := uuid.New()
	d := model.NewDocument(vid, "Insurance card", model.DocInsuranceCard)
	d.CreatedAt = testCreated
	d.UpdatedAt = testDate
	d.ExpirationDate = timePtr(testDate.AddDate(1, 0, 0))
	d.Notes = strPtr("glovebox copy")

	got := DecodeDocument(EncodeDocument(d), d.ID, vid)
	if !reflect.DeepEqual(got, d) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, d)
	}
}

// ---------------------------------------------------------------------------
// Optional fields are omitted, not null-valued
// ---------------------------------------------------------------------------

func TestEncodeOmitsUnsetOptionals(t *testing.T) {
	v := model.NewVehicle("", "Honda", "Civic", 2021)
	f := EncodeVehicle(v)

	for _, key := range []string{
		"vin", "licensePlate", "color", "notes", "purchaseDate",
		"purchasePrice", "tankCapacity", "insuranceProvider",
		"insurancePolicyNumber", "insuranceExpirationDate",
		"registrationState", "registrationExpirationDate",
	} {
		if _, present := f[key]; present {
			t.Errorf("unset optional %q must be absent, not null", key)
		}
	}

	if _, present := f["updatedAt"]; !present {
		t.Error("updatedAt is required and must always be encoded")
	}
}

func TestEncodeTimestampsAreNative(t *testing.T) {
	e := model.NewFuelEntry(uuid.New(), testDate, 1000, 10, 1.50)
	f := EncodeFuelEntry(e)
	if _, ok := f["date"].(time.Time); !ok {
		t.Errorf("date encoded as %T, want time.Time", f["date"])
	}
}

// ---------------------------------------------------------------------------
// Fallback decode: garbage in, structurally valid entity out
// ---------------------------------------------------------------------------

func TestDecodeVehicleFromGarbage(t *testing.T) {
	id := uuid.New()
	f := Fields{
		"name":            42,               // wrong type
		"year":            "two thousand",   // wrong type
		"odometerUnit":    "parsecs",        // unknown enum
		"fuelType":        "antimatter",     // unknown enum
		"currentOdometer": "far",            // wrong type
		"isActive":        "yes",            // wrong type
		"updatedAt":       "2026-03-14",     // string, not a timestamp
		"purchasePrice":   []string{"oops"}, // wrong type
	}

	before := time.Now().UTC()
	v := DecodeVehicle(f, id)
	after := time.Now().UTC()

	if v.ID != id {
		t.Errorf("ID = %v, want %v", v.ID, id)
	}
	if v.Name != "" || v.Year != 2024 || v.CurrentOdometer != 0 {
		t.Errorf("defaults not applied: name=%q year=%d odo=%v", v.Name, v.Year, v.CurrentOdometer)
	}
	if v.OdometerUnit != model.OdometerKilometers {
		t.Errorf("OdometerUnit = %v, want km fallback", v.OdometerUnit)
	}
	if v.FuelType != model.FuelGasoline {
		t.Errorf("FuelType = %v, want gasoline fallback", v.FuelType)
	}
	if !v.IsActive {
		t.Error("IsActive should default to true")
	}
	if v.PurchasePrice != nil {
		t.Error("malformed optional must decode as unset")
	}
	if v.UpdatedAt.Before(before) || v.UpdatedAt.After(after) {
		t.Errorf("missing timestamp should default to now, got %v", v.UpdatedAt)
	}
	if v.FuelEntries == nil || v.Trips == nil {
		t.Error("dependent collections must be non-nil")
	}
}

func TestDecodeRecordsFromEmptyDocuments(t *testing.T) {
	id, vid := uuid.New(), uuid.New()

	e := DecodeFuelEntry(Fields{}, id, vid)
	if e.FuelGrade != model.GradeRegular || !e.IsFullTank || e.VehicleID != vid {
		t.Errorf("fuel entry defaults: %+v", e)
	}

	r := DecodeMaintenanceRecord(Fields{"serviceType": "warp_core"}, id, vid)
	if r.ServiceType != model.ServiceCustom {
		t.Errorf("ServiceType = %v, want custom fallback", r.ServiceType)
	}

	s := DecodeMaintenanceSchedule(Fields{}, id, vid)
	if !s.IsEnabled || s.MileageInterval != nil {
		t.Errorf("schedule defaults: %+v", s)
	}

	trip := DecodeTrip(Fields{"tripType": "Teleport"}, id, vid)
	if trip.TripType != model.TripPersonal || trip.IsActive {
		t.Errorf("trip defaults: %+v", trip)
	}

	exp := DecodeExpense(Fields{"category": "bribes", "recurringInterval": "Sometimes"}, id, vid)
	if exp.Category != model.CategoryOther {
		t.Errorf("Category = %v, want other fallback", exp.Category)
	}
	if exp.RecurringInterval != nil {
		t.Error("invalid recurring interval must decode as unset")
	}

	d := DecodeDocument(Fields{"documentType": "napkin"}, id, vid)
	if d.DocumentType != model.DocOther {
		t.Errorf("DocumentType = %v, want other fallback", d.DocumentType)
	}
}

// ---------------------------------------------------------------------------
// Numeric coercion: the document store hands integers back as int64
// ---------------------------------------------------------------------------

func TestDecodeCoercesIntegerWidths(t *testing.T) {
	f := Fields{"odometer": int64(42195), "quantity": 38.2, "year": int64(2019)}

	e := DecodeFuelEntry(f, uuid.New(), uuid.New())
	if e.Odometer != 42195 || e.Quantity != 38.2 {
		t.Errorf("odometer=%v quantity=%v", e.Odometer, e.Quantity)
	}

	v := DecodeVehicle(f, uuid.New())
	if v.Year != 2019 {
		t.Errorf("Year = %d, want 2019", v.Year)
	}
}

// ---------------------------------------------------------------------------
// MergeVehicle: in-place overwrite of mutable fields only
// ---------------------------------------------------------------------------

func TestMergeVehicleOverwritesMutableFields(t *testing.T) {
	local := fullVehicle()
	localID := local.ID
	localCreated := local.CreatedAt
	entry := model.NewFuelEntry(local.ID, testDate, 42000, 10, 1.50)
	local.FuelEntries = append(local.FuelEntries, entry)

	remote := fullVehicle()
	remote.Name = "Track Car"
	remote.CurrentOdometer = 43000
	remote.UpdatedAt = testDate.AddDate(0, 0, 7)
	remote.Notes = nil // cleared on the winning replica

	MergeVehicle(local, EncodeVehicle(remote))

	if local.ID != localID {
		t.Error("identity must never change")
	}
	if !local.CreatedAt.Equal(localCreated) {
		t.Error("creation timestamp must never change")
	}
	if local.Name != "Track Car" || local.CurrentOdometer != 43000 {
		t.Errorf("mutable fields not merged: name=%q odo=%v", local.Name, local.CurrentOdometer)
	}
	if !local.UpdatedAt.Equal(remote.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", local.UpdatedAt, remote.UpdatedAt)
	}
	if local.Notes != nil {
		t.Error("optional absent on the winning replica must be cleared")
	}
	if len(local.FuelEntries) != 1 || local.FuelEntries[0] != entry {
		t.Error("dependent collections must be untouched by a vehicle merge")
	}
}

func TestMergeVehicleKeepsLocalOnMissingRequiredFields(t *testing.T) {
	local := fullVehicle()
	MergeVehicle(local, Fields{"name": "Renamed"})

	if local.Name != "Renamed" {
		t.Errorf("Name = %q, want Renamed", local.Name)
	}
	if local.Make != "Mazda" || local.Year != 2019 {
		t.Errorf("missing required fields must keep local values: %q %d", local.Make, local.Year)
	}
	if local.OdometerUnit != model.OdometerKilometers {
		t.Error("missing enum must keep local value")
	}
}

func TestMergeVehicleIgnoresMissingUpdatedAt(t *testing.T) {
	local := fullVehicle()
	want := local.UpdatedAt
	MergeVehicle(local, Fields{"name": "Renamed"})
	if !local.UpdatedAt.Equal(want) {
		t.Error("UpdatedAt must be untouched when the document carries none")
	}
}
