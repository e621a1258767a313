// Package local manages the SQLite database holding the on-device replica:
// vehicles and their six dependent record collections.
//
// Only this package may open or query the ledger database. All other packages
// receive a [*Store] and call its methods.
//
// Mutations are buffered: the Insert*/UpdateVehicle methods only record the
// intent, and [Store.Save] commits everything recorded since the last save in
// a single transaction. A failed save leaves the database exactly as it was,
// even though in-memory entities have already been handed out.
package local

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/autoledger/autoledger/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS vehicles (
    id                           TEXT PRIMARY KEY,
    name                         TEXT NOT NULL DEFAULT '',
    make                         TEXT NOT NULL DEFAULT '',
    model                        TEXT NOT NULL DEFAULT '',
    year                         INTEGER NOT NULL DEFAULT 0,
    vin                          TEXT,
    license_plate                TEXT,
    color                        TEXT,
    purchase_date                TEXT,
    purchase_price               REAL,
    current_odometer             REAL NOT NULL DEFAULT 0,
    odometer_unit                TEXT NOT NULL DEFAULT 'km',
    fuel_type                    TEXT NOT NULL DEFAULT 'Gasoline',
    tank_capacity                REAL,
    notes                        TEXT,
    is_active                    INTEGER NOT NULL DEFAULT 1,
    created_at                   TEXT NOT NULL,
    updated_at                   TEXT NOT NULL,
    insurance_provider           TEXT,
    insurance_policy_number      TEXT,
    insurance_expiration_date    TEXT,
    registration_state           TEXT,
    registration_expiration_date TEXT
);

CREATE TABLE IF NOT EXISTS fuel_entries (
    id             TEXT PRIMARY KEY,
    vehicle_id     TEXT NOT NULL REFERENCES vehicles (id) ON DELETE CASCADE,
    date           TEXT NOT NULL,
    odometer       REAL NOT NULL DEFAULT 0,
    quantity       REAL NOT NULL DEFAULT 0,
    price_per_unit REAL NOT NULL DEFAULT 0,
    total_cost     REAL NOT NULL DEFAULT 0,
    is_full_tank   INTEGER NOT NULL DEFAULT 1,
    fuel_grade     TEXT NOT NULL DEFAULT 'Regular',
    station        TEXT,
    location       TEXT,
    notes          TEXT,
    created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS maintenance_records (
    id                       TEXT PRIMARY KEY,
    vehicle_id               TEXT NOT NULL REFERENCES vehicles (id) ON DELETE CASCADE,
    date                     TEXT NOT NULL,
    odometer                 REAL NOT NULL DEFAULT 0,
    service_type             TEXT NOT NULL DEFAULT 'custom',
    custom_service_name      TEXT,
    cost                     REAL NOT NULL DEFAULT 0,
    labor_cost               REAL NOT NULL DEFAULT 0,
    parts_cost               REAL NOT NULL DEFAULT 0,
    service_provider         TEXT,
    service_provider_phone   TEXT,
    service_provider_address TEXT,
    notes                    TEXT,
    is_scheduled             INTEGER NOT NULL DEFAULT 0,
    reminder_date            TEXT,
    reminder_odometer        REAL,
    created_at               TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS maintenance_schedules (
    id                    TEXT PRIMARY KEY,
    vehicle_id            TEXT NOT NULL REFERENCES vehicles (id) ON DELETE CASCADE,
    service_type          TEXT NOT NULL DEFAULT 'custom',
    custom_service_name   TEXT,
    mileage_interval      REAL,
    time_interval_months  INTEGER,
    last_service_date     TEXT,
    last_service_odometer REAL,
    is_enabled            INTEGER NOT NULL DEFAULT 1,
    notes                 TEXT,
    created_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trips (
    id             TEXT PRIMARY KEY,
    vehicle_id     TEXT NOT NULL REFERENCES vehicles (id) ON DELETE CASCADE,
    date           TEXT NOT NULL,
    start_odometer REAL NOT NULL DEFAULT 0,
    end_odometer   REAL,
    distance       REAL,
    trip_type      TEXT NOT NULL DEFAULT 'Personal',
    purpose        TEXT,
    start_location TEXT,
    end_location   TEXT,
    notes          TEXT,
    is_active      INTEGER NOT NULL DEFAULT 0,
    created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS expenses (
    id                   TEXT PRIMARY KEY,
    vehicle_id           TEXT NOT NULL REFERENCES vehicles (id) ON DELETE CASCADE,
    date                 TEXT NOT NULL,
    category             TEXT NOT NULL DEFAULT 'other',
    custom_category_name TEXT,
    amount               REAL NOT NULL DEFAULT 0,
    vendor               TEXT,
    description          TEXT,
    notes                TEXT,
    is_recurring         INTEGER NOT NULL DEFAULT 0,
    recurring_interval   TEXT,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
    id              TEXT PRIMARY KEY,
    vehicle_id      TEXT NOT NULL REFERENCES vehicles (id) ON DELETE CASCADE,
    name            TEXT NOT NULL DEFAULT '',
    document_type   TEXT NOT NULL DEFAULT 'other',
    expiration_date TEXT,
    notes           TEXT,
    created_at      TEXT NOT NULL,
    updated_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fuel_entries_vehicle          ON fuel_entries (vehicle_id);
CREATE INDEX IF NOT EXISTS idx_maintenance_records_vehicle   ON maintenance_records (vehicle_id);
CREATE INDEX IF NOT EXISTS idx_maintenance_schedules_vehicle ON maintenance_schedules (vehicle_id);
CREATE INDEX IF NOT EXISTS idx_trips_vehicle                 ON trips (vehicle_id);
CREATE INDEX IF NOT EXISTS idx_expenses_vehicle              ON expenses (vehicle_id);
CREATE INDEX IF NOT EXISTS idx_documents_vehicle             ON documents (vehicle_id);
`

// Store is the SQLite-backed local replica.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	pending []func(*sql.Tx) error
}

// DefaultDBPath returns the default path for the ledger database:
// ~/.local/share/autoledger/ledger.db
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "autoledger", "ledger.db"), nil
}

// Open opens (or creates) the ledger database at path, applies the schema,
// and configures WAL mode with foreign keys enforced (vehicle deletion
// cascades to every dependent table).
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}

	// Single writer to avoid SQLITE_BUSY under WAL.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database connection. Pending unsaved
// mutations are discarded.
func (s *Store) Close() error {
	return s.db.Close()
}

// --- reads -------------------------------------------------------------------

// FetchVehicles loads every vehicle with all six dependent collections
// attached. The collections are always non-nil. Dependent rows whose owning
// vehicle is missing are skipped.
func (s *Store) FetchVehicles(ctx context.Context) ([]*model.Vehicle, error) {
	vehicles, err := s.fetchVehicleRows(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*model.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byID[v.ID] = v
	}

	if err := s.attachFuelEntries(ctx, byID); err != nil {
		return nil, err
	}
	if err := s.attachMaintenanceRecords(ctx, byID); err != nil {
		return nil, err
	}
	if err := s.attachMaintenanceSchedules(ctx, byID); err != nil {
		return nil, err
	}
	if err := s.attachTrips(ctx, byID); err != nil {
		return nil, err
	}
	if err := s.attachExpenses(ctx, byID); err != nil {
		return nil, err
	}
	if err := s.attachDocuments(ctx, byID); err != nil {
		return nil, err
	}

	return vehicles, nil
}

func (s *Store) fetchVehicleRows(ctx context.Context) ([]*model.Vehicle, error) {
	const q = `
		SELECT id, name, make, model, year, vin, license_plate, color,
		       purchase_date, purchase_price, current_odometer, odometer_unit,
		       fuel_type, tank_capacity, notes, is_active, created_at, updated_at,
		       insurance_provider, insurance_policy_number, insurance_expiration_date,
		       registration_state, registration_expiration_date
		FROM vehicles ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying vehicles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var vehicles []*model.Vehicle
	for rows.Next() {
		var (
			v                                  model.Vehicle
			id, unit, fuel, createdAt, updated string
			purchaseDate, insExp, regExp       sql.NullString
			vin, plate, color, notes           sql.NullString
			insProv, insPolicy, regState       sql.NullString
			purchasePrice, tankCap             sql.NullFloat64
		)
		err := rows.Scan(&id, &v.Name, &v.Make, &v.Model, &v.Year,
			&vin, &plate, &color, &purchaseDate, &purchasePrice,
			&v.CurrentOdometer, &unit, &fuel, &tankCap, &notes, &v.IsActive,
			&createdAt, &updated, &insProv, &insPolicy, &insExp,
			&regState, &regExp)
		if err != nil {
			return nil, fmt.Errorf("scanning vehicle row: %w", err)
		}

		v.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("vehicle row has invalid id %q: %w", id, err)
		}
		v.OdometerUnit = model.ParseOdometerUnit(unit)
		v.FuelType = model.ParseFuelType(fuel)
		v.CreatedAt, _ = parseTime(createdAt)
		v.UpdatedAt, _ = parseTime(updated)
		v.VIN = optStr(vin)
		v.LicensePlate = optStr(plate)
		v.Color = optStr(color)
		v.Notes = optStr(notes)
		v.PurchaseDate = optTime(purchaseDate)
		v.PurchasePrice = optFloat(purchasePrice)
		v.TankCapacity = optFloat(tankCap)
		v.InsuranceProvider = optStr(insProv)
		v.InsurancePolicyNumber = optStr(insPolicy)
		v.InsuranceExpirationDate = optTime(insExp)
		v.RegistrationState = optStr(regState)
		v.RegistrationExpirationDate = optTime(regExp)

		v.FuelEntries = []*model.FuelEntry{}
		v.MaintenanceRecords = []*model.MaintenanceRecord{}
		v.MaintenanceSchedules = []*model.MaintenanceSchedule{}
		v.Trips = []*model.Trip{}
		v.Expenses = []*model.Expense{}
		v.Documents = []*model.Document{}

		vehicles = append(vehicles, &v)
	}
	return vehicles, rows.Err()
}

func (s *Store) attachFuelEntries(ctx context.Context, byID map[uuid.UUID]*model.Vehicle) error {
	const q = `
		SELECT id, vehicle_id, date, odometer, quantity, price_per_unit,
		       total_cost, is_full_tank, fuel_grade, station, location, notes,
		       created_at
		FROM fuel_entries ORDER BY date`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("querying fuel entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			e                             model.FuelEntry
			id, vid, date, grade, created string
			station, location, notes      sql.NullString
		)
		err := rows.Scan(&id, &vid, &date, &e.Odometer, &e.Quantity,
			&e.PricePerUnit, &e.TotalCost, &e.IsFullTank, &grade,
			&station, &location, &notes, &created)
		if err != nil {
			return fmt.Errorf("scanning fuel entry row: %w", err)
		}

		owner, ids, err := resolveOwner(byID, id, vid)
		if err != nil || owner == nil {
			if err != nil {
				return fmt.Errorf("fuel entry: %w", err)
			}
			continue
		}
		e.ID, e.VehicleID = ids[0], ids[1]
		e.Date, _ = parseTime(date)
		e.FuelGrade = model.ParseFuelGrade(grade)
		e.Station = optStr(station)
		e.Location = optStr(location)
		e.Notes = optStr(notes)
		e.CreatedAt, _ = parseTime(created)

		owner.FuelEntries = append(owner.FuelEntries, &e)
	}
	return rows.Err()
}

func (s *Store) attachMaintenanceRecords(ctx context.Context, byID map[uuid.UUID]*model.Vehicle) error {
	const q = `
		SELECT id, vehicle_id, date, odometer, service_type, custom_service_name,
		       cost, labor_cost, parts_cost, service_provider,
		       service_provider_phone, service_provider_address, notes,
		       is_scheduled, reminder_date, reminder_odometer, created_at
		FROM maintenance_records ORDER BY date`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("querying maintenance records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			r                               model.MaintenanceRecord
			id, vid, date, svc, created     string
			custom, provider, phone         sql.NullString
			address, notes, reminderDate    sql.NullString
			reminderOdo                     sql.NullFloat64
		)
		err := rows.Scan(&id, &vid, &date, &r.Odometer, &svc, &custom,
			&r.Cost, &r.LaborCost, &r.PartsCost, &provider, &phone,
			&address, &notes, &r.IsScheduled, &reminderDate, &reminderOdo,
			&created)
		if err != nil {
			return fmt.Errorf("scanning maintenance record row: %w", err)
		}

		owner, ids, err := resolveOwner(byID, id, vid)
		if err != nil || owner == nil {
			if err != nil {
				return fmt.Errorf("maintenance record: %w", err)
			}
			continue
		}
		r.ID, r.VehicleID = ids[0], ids[1]
		r.Date, _ = parseTime(date)
		r.ServiceType = model.ParseServiceType(svc)
		r.CustomServiceName = optStr(custom)
		r.ServiceProvider = optStr(provider)
		r.ServiceProviderPhone = optStr(phone)
		r.ServiceProviderAddress = optStr(address)
		r.Notes = optStr(notes)
		r.ReminderDate = optTime(reminderDate)
		r.ReminderOdometer = optFloat(reminderOdo)
		r.CreatedAt, _ = parseTime(created)

		owner.MaintenanceRecords = append(owner.MaintenanceRecords, &r)
	}
	return rows.Err()
}

func (s *Store) attachMaintenanceSchedules(ctx context.Context, byID map[uuid.UUID]*model.Vehicle) error {
	const q = `
		SELECT id, vehicle_id, service_type, custom_service_name,
		       mileage_interval, time_interval_months, last_service_date,
		       last_service_odometer, is_enabled, notes, created_at
		FROM maintenance_schedules ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("querying maintenance schedules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			sch                    model.MaintenanceSchedule
			id, vid, svc, created  string
			custom, lastDate, notes sql.NullString
			mileage, lastOdo       sql.NullFloat64
			months                 sql.NullInt64
		)
		err := rows.Scan(&id, &vid, &svc, &custom, &mileage, &months,
			&lastDate, &lastOdo, &sch.IsEnabled, &notes, &created)
		if err != nil {
			return fmt.Errorf("scanning maintenance schedule row: %w", err)
		}

		owner, ids, err := resolveOwner(byID, id, vid)
		if err != nil || owner == nil {
			if err != nil {
				return fmt.Errorf("maintenance schedule: %w", err)
			}
			continue
		}
		sch.ID, sch.VehicleID = ids[0], ids[1]
		sch.ServiceType = model.ParseServiceType(svc)
		sch.CustomServiceName = optStr(custom)
		sch.MileageInterval = optFloat(mileage)
		if months.Valid {
			m := int(months.Int64)
			sch.TimeIntervalMonths = &m
		}
		sch.LastServiceDate = optTime(lastDate)
		sch.LastServiceOdometer = optFloat(lastOdo)
		sch.Notes = optStr(notes)
		sch.CreatedAt, _ = parseTime(created)

		owner.MaintenanceSchedules = append(owner.MaintenanceSchedules, &sch)
	}
	return rows.Err()
}

func (s *Store) attachTrips(ctx context.Context, byID map[uuid.UUID]*model.Vehicle) error {
	const q = `
		SELECT id, vehicle_id, date, start_odometer, end_odometer, distance,
		       trip_type, purpose, start_location, end_location, notes,
		       is_active, created_at
		FROM trips ORDER BY date`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("querying trips: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			t                            model.Trip
			id, vid, date, typ, created  string
			purpose, startLoc, endLoc    sql.NullString
			notes                        sql.NullString
			endOdo, distance             sql.NullFloat64
		)
		err := rows.Scan(&id, &vid, &date, &t.StartOdometer, &endOdo,
			&distance, &typ, &purpose, &startLoc, &endLoc, &notes,
			&t.IsActive, &created)
		if err != nil {
			return fmt.Errorf("scanning trip row: %w", err)
		}

		owner, ids, err := resolveOwner(byID, id, vid)
		if err != nil || owner == nil {
			if err != nil {
				return fmt.Errorf("trip: %w", err)
			}
			continue
		}
		t.ID, t.VehicleID = ids[0], ids[1]
		t.Date, _ = parseTime(date)
		t.EndOdometer = optFloat(endOdo)
		t.Distance = optFloat(distance)
		t.TripType = model.ParseTripType(typ)
		t.Purpose = optStr(purpose)
		t.StartLocation = optStr(startLoc)
		t.EndLocation = optStr(endLoc)
		t.Notes = optStr(notes)
		t.CreatedAt, _ = parseTime(created)

		owner.Trips = append(owner.Trips, &t)
	}
	return rows.Err()
}

func (s *Store) attachExpenses(ctx context.Context, byID map[uuid.UUID]*model.Vehicle) error {
	const q = `
		SELECT id, vehicle_id, date, category, custom_category_name, amount,
		       vendor, description, notes, is_recurring, recurring_interval,
		       created_at
		FROM expenses ORDER BY date`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("querying expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			e                            model.Expense
			id, vid, date, cat, created  string
			custom, vendor, desc, notes  sql.NullString
			interval                     sql.NullString
		)
		err := rows.Scan(&id, &vid, &date, &cat, &custom, &e.Amount,
			&vendor, &desc, &notes, &e.IsRecurring, &interval, &created)
		if err != nil {
			return fmt.Errorf("scanning expense row: %w", err)
		}

		owner, ids, err := resolveOwner(byID, id, vid)
		if err != nil || owner == nil {
			if err != nil {
				return fmt.Errorf("expense: %w", err)
			}
			continue
		}
		e.ID, e.VehicleID = ids[0], ids[1]
		e.Date, _ = parseTime(date)
		e.Category = model.ParseExpenseCategory(cat)
		e.CustomCategoryName = optStr(custom)
		e.Vendor = optStr(vendor)
		e.Description = optStr(desc)
		e.Notes = optStr(notes)
		if interval.Valid {
			if iv, ok := model.ParseRecurringInterval(interval.String); ok {
				e.RecurringInterval = &iv
			}
		}
		e.CreatedAt, _ = parseTime(created)

		owner.Expenses = append(owner.Expenses, &e)
	}
	return rows.Err()
}

func (s *Store) attachDocuments(ctx context.Context, byID map[uuid.UUID]*model.Vehicle) error {
	const q = `
		SELECT id, vehicle_id, name, document_type, expiration_date, notes,
		       created_at, updated_at
		FROM documents ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("querying documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			d                              model.Document
			id, vid, typ, created, updated string
			expiration, notes              sql.NullString
		)
		err := rows.Scan(&id, &vid, &d.Name, &typ, &expiration, &notes,
			&created, &updated)
		if err != nil {
			return fmt.Errorf("scanning document row: %w", err)
		}

		owner, ids, err := resolveOwner(byID, id, vid)
		if err != nil || owner == nil {
			if err != nil {
				return fmt.Errorf("document: %w", err)
			}
			continue
		}
		d.ID, d.VehicleID = ids[0], ids[1]
		d.DocumentType = model.ParseDocumentType(typ)
		d.ExpirationDate = optTime(expiration)
		d.Notes = optStr(notes)
		d.CreatedAt, _ = parseTime(created)
		d.UpdatedAt, _ = parseTime(updated)

		owner.Documents = append(owner.Documents, &d)
	}
	return rows.Err()
}

// --- buffered writes ---------------------------------------------------------

func (s *Store) enqueue(op func(*sql.Tx) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, op)
}

// InsertVehicle records a new vehicle for the next Save.
func (s *Store) InsertVehicle(v *model.Vehicle) {
	s.enqueue(func(tx *sql.Tx) error { return execVehicle(tx, v) })
}

// UpdateVehicle records a full overwrite of a vehicle's own fields for the
// next Save. Dependent rows are untouched.
func (s *Store) UpdateVehicle(v *model.Vehicle) {
	s.enqueue(func(tx *sql.Tx) error { return execVehicle(tx, v) })
}

// InsertFuelEntry records a new fill-up for the next Save.
func (s *Store) InsertFuelEntry(e *model.FuelEntry) {
	s.enqueue(func(tx *sql.Tx) error {
		const q = `
			INSERT OR REPLACE INTO fuel_entries
			    (id, vehicle_id, date, odometer, quantity, price_per_unit,
			     total_cost, is_full_tank, fuel_grade, station, location,
			     notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.Exec(q, e.ID.String(), e.VehicleID.String(),
			formatTime(e.Date), e.Odometer, e.Quantity, e.PricePerUnit,
			e.TotalCost, e.IsFullTank, string(e.FuelGrade),
			nullStr(e.Station), nullStr(e.Location), nullStr(e.Notes),
			formatTime(e.CreatedAt))
		if err != nil {
			return fmt.Errorf("inserting fuel entry %s: %w", e.ID, err)
		}
		return nil
	})
}

// InsertMaintenanceRecord records a new service record for the next Save.
func (s *Store) InsertMaintenanceRecord(r *model.MaintenanceRecord) {
	s.enqueue(func(tx *sql.Tx) error {
		const q = `
			INSERT OR REPLACE INTO maintenance_records
			    (id, vehicle_id, date, odometer, service_type,
			     custom_service_name, cost, labor_cost, parts_cost,
			     service_provider, service_provider_phone,
			     service_provider_address, notes, is_scheduled,
			     reminder_date, reminder_odometer, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.Exec(q, r.ID.String(), r.VehicleID.String(),
			formatTime(r.Date), r.Odometer, string(r.ServiceType),
			nullStr(r.CustomServiceName), r.Cost, r.LaborCost, r.PartsCost,
			nullStr(r.ServiceProvider), nullStr(r.ServiceProviderPhone),
			nullStr(r.ServiceProviderAddress), nullStr(r.Notes),
			r.IsScheduled, nullTime(r.ReminderDate),
			nullFloat(r.ReminderOdometer), formatTime(r.CreatedAt))
		if err != nil {
			return fmt.Errorf("inserting maintenance record %s: %w", r.ID, err)
		}
		return nil
	})
}

// InsertMaintenanceSchedule records a new service cadence for the next Save.
func (s *Store) InsertMaintenanceSchedule(sch *model.MaintenanceSchedule) {
	s.enqueue(func(tx *sql.Tx) error {
		const q = `
			INSERT OR REPLACE INTO maintenance_schedules
			    (id, vehicle_id, service_type, custom_service_name,
			     mileage_interval, time_interval_months, last_service_date,
			     last_service_odometer, is_enabled, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.Exec(q, sch.ID.String(), sch.VehicleID.String(),
			string(sch.ServiceType), nullStr(sch.CustomServiceName),
			nullFloat(sch.MileageInterval), nullInt(sch.TimeIntervalMonths),
			nullTime(sch.LastServiceDate), nullFloat(sch.LastServiceOdometer),
			sch.IsEnabled, nullStr(sch.Notes), formatTime(sch.CreatedAt))
		if err != nil {
			return fmt.Errorf("inserting maintenance schedule %s: %w", sch.ID, err)
		}
		return nil
	})
}

// InsertTrip records a new trip for the next Save.
func (s *Store) InsertTrip(t *model.Trip) {
	s.enqueue(func(tx *sql.Tx) error {
		const q = `
			INSERT OR REPLACE INTO trips
			    (id, vehicle_id, date, start_odometer, end_odometer, distance,
			     trip_type, purpose, start_location, end_location, notes,
			     is_active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.Exec(q, t.ID.String(), t.VehicleID.String(),
			formatTime(t.Date), t.StartOdometer, nullFloat(t.EndOdometer),
			nullFloat(t.Distance), string(t.TripType), nullStr(t.Purpose),
			nullStr(t.StartLocation), nullStr(t.EndLocation), nullStr(t.Notes),
			t.IsActive, formatTime(t.CreatedAt))
		if err != nil {
			return fmt.Errorf("inserting trip %s: %w", t.ID, err)
		}
		return nil
	})
}

// InsertExpense records a new expense for the next Save.
func (s *Store) InsertExpense(e *model.Expense) {
	s.enqueue(func(tx *sql.Tx) error {
		const q = `
			INSERT OR REPLACE INTO expenses
			    (id, vehicle_id, date, category, custom_category_name, amount,
			     vendor, description, notes, is_recurring, recurring_interval,
			     created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		var interval any
		if e.RecurringInterval != nil {
			interval = string(*e.RecurringInterval)
		}
		_, err := tx.Exec(q, e.ID.String(), e.VehicleID.String(),
			formatTime(e.Date), string(e.Category),
			nullStr(e.CustomCategoryName), e.Amount, nullStr(e.Vendor),
			nullStr(e.Description), nullStr(e.Notes), e.IsRecurring,
			interval, formatTime(e.CreatedAt))
		if err != nil {
			return fmt.Errorf("inserting expense %s: %w", e.ID, err)
		}
		return nil
	})
}

// InsertDocument records a new document for the next Save.
func (s *Store) InsertDocument(d *model.Document) {
	s.enqueue(func(tx *sql.Tx) error {
		const q = `
			INSERT OR REPLACE INTO documents
			    (id, vehicle_id, name, document_type, expiration_date, notes,
			     created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.Exec(q, d.ID.String(), d.VehicleID.String(), d.Name,
			string(d.DocumentType), nullTime(d.ExpirationDate),
			nullStr(d.Notes), formatTime(d.CreatedAt), formatTime(d.UpdatedAt))
		if err != nil {
			return fmt.Errorf("inserting document %s: %w", d.ID, err)
		}
		return nil
	})
}

// Save commits every mutation recorded since the last save in one
// transaction. On failure nothing is persisted and the pending set is kept so
// a retry can commit it.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}

	for _, op := range s.pending {
		if err := op(tx); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}

	s.pending = nil
	return nil
}

// DeleteVehicle immediately hard-deletes a vehicle. Foreign keys cascade the
// deletion to every dependent table. This is a local-only operation; it does
// not touch the cloud replica.
func (s *Store) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("deleting vehicle %s: %w", id, err)
	}
	return nil
}

// --- helpers -----------------------------------------------------------------

func execVehicle(tx *sql.Tx, v *model.Vehicle) error {
	const q = `
		INSERT OR REPLACE INTO vehicles
		    (id, name, make, model, year, vin, license_plate, color,
		     purchase_date, purchase_price, current_odometer, odometer_unit,
		     fuel_type, tank_capacity, notes, is_active, created_at,
		     updated_at, insurance_provider, insurance_policy_number,
		     insurance_expiration_date, registration_state,
		     registration_expiration_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.Exec(q, v.ID.String(), v.Name, v.Make, v.Model, v.Year,
		nullStr(v.VIN), nullStr(v.LicensePlate), nullStr(v.Color),
		nullTime(v.PurchaseDate), nullFloat(v.PurchasePrice),
		v.CurrentOdometer, string(v.OdometerUnit), string(v.FuelType),
		nullFloat(v.TankCapacity), nullStr(v.Notes), v.IsActive,
		formatTime(v.CreatedAt), formatTime(v.UpdatedAt),
		nullStr(v.InsuranceProvider), nullStr(v.InsurancePolicyNumber),
		nullTime(v.InsuranceExpirationDate), nullStr(v.RegistrationState),
		nullTime(v.RegistrationExpirationDate))
	if err != nil {
		return fmt.Errorf("writing vehicle %s: %w", v.ID, err)
	}
	return nil
}

// resolveOwner parses a dependent row's identities and looks up the owning
// vehicle. A nil owner with nil error means the row is orphaned and should be
// skipped.
func resolveOwner(byID map[uuid.UUID]*model.Vehicle, id, vid string) (*model.Vehicle, [2]uuid.UUID, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return nil, [2]uuid.UUID{}, fmt.Errorf("invalid record id %q: %w", id, err)
	}
	vehicleID, err := uuid.Parse(vid)
	if err != nil {
		return nil, [2]uuid.UUID{}, fmt.Errorf("invalid vehicle id %q: %w", vid, err)
	}
	return byID[vehicleID], [2]uuid.UUID{recordID, vehicleID}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func nullStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return formatTime(*p)
}

func optStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func optFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func optTime(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil
	}
	return &t
}
