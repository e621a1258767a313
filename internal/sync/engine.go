package sync

import (
	"context"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/autoledger/autoledger/internal/codec"
	"github.com/autoledger/autoledger/internal/model"
)

const (
	otelScope = "autoledger/sync"

	metricVehiclesPushed = "autoledger.sync.vehicles.pushed"
	metricRecordsPushed  = "autoledger.sync.records.pushed"
	metricVehiclesPulled = "autoledger.sync.vehicles.pulled"
	metricRecordsPulled  = "autoledger.sync.records.pulled"
	metricErrors         = "autoledger.sync.errors"
)

// The six nested collections under each remote vehicle document, in the order
// they are pushed, pulled, and wiped.
const (
	collectionFuelEntries          = "fuelEntries"
	collectionMaintenanceRecords   = "maintenanceRecords"
	collectionMaintenanceSchedules = "maintenanceSchedules"
	collectionTrips                = "trips"
	collectionExpenses             = "expenses"
	collectionDocuments            = "documents"
)

var recordCollections = []string{
	collectionFuelEntries,
	collectionMaintenanceRecords,
	collectionMaintenanceSchedules,
	collectionTrips,
	collectionExpenses,
	collectionDocuments,
}

// Status is a read-only snapshot of the engine's sync state, surfaced to the
// caller (CLI or UI layer).
type Status struct {
	IsSyncing    bool
	LastSyncDate *time.Time
	Progress     string
	Error        string
}

// Engine orchestrates the sync operations. Create one with [NewEngine]; call
// [Engine.LoadState] once at startup to restore the persisted last-sync
// timestamp.
type Engine struct {
	local    LocalStore
	remote   RemoteStore
	identity Identity
	state    StateStore
	log      *slog.Logger

	// Single-flight: one operation at a time; concurrent invocations are
	// rejected, never queued.
	opMu gosync.Mutex

	stMu     gosync.RWMutex
	syncing  bool
	lastSync *time.Time
	progress string
	errMsg   string

	// OTel instruments — always non-nil (no-op when telemetry is disabled).
	tracer             trace.Tracer
	cntVehiclesPushed  metric.Int64Counter
	cntRecordsPushed   metric.Int64Counter
	cntVehiclesPulled  metric.Int64Counter
	cntRecordsPulled   metric.Int64Counter
	cntErrors          metric.Int64Counter
}

// NewEngine creates an Engine with all collaborators injected.
func NewEngine(localStore LocalStore, remoteStore RemoteStore, identity Identity, stateStore StateStore, logger *slog.Logger) *Engine {
	tracer := otel.Tracer(otelScope)
	meter := otel.Meter(otelScope)

	mustCounter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			logger.Error("creating OTel counter", "name", name, "error", err)
			return noop.Int64Counter{}
		}
		return c
	}

	return &Engine{
		local:    localStore,
		remote:   remoteStore,
		identity: identity,
		state:    stateStore,
		log:      logger,

		tracer:            tracer,
		cntVehiclesPushed: mustCounter(metricVehiclesPushed, "Vehicle documents pushed to the cloud"),
		cntRecordsPushed:  mustCounter(metricRecordsPushed, "Dependent-record documents pushed to the cloud"),
		cntVehiclesPulled: mustCounter(metricVehiclesPulled, "Vehicles inserted or merged from the cloud"),
		cntRecordsPulled:  mustCounter(metricRecordsPulled, "Dependent records inserted from the cloud"),
		cntErrors:         mustCounter(metricErrors, "Failed sync operations"),
	}
}

// LoadState restores the persisted last-sync timestamp into the status
// snapshot. Call once at startup.
func (e *Engine) LoadState(ctx context.Context) error {
	t, ok, err := e.state.LastSyncDate(ctx)
	if err != nil {
		return err
	}
	e.stMu.Lock()
	defer e.stMu.Unlock()
	if ok {
		e.lastSync = &t
	} else {
		e.lastSync = nil
	}
	return nil
}

// Status returns the current sync state snapshot.
func (e *Engine) Status() Status {
	e.stMu.RLock()
	defer e.stMu.RUnlock()
	return Status{
		IsSyncing:    e.syncing,
		LastSyncDate: e.lastSync,
		Progress:     e.progress,
		Error:        e.errMsg,
	}
}

// Sync pushes the full local dataset, then pulls whatever the cloud has that
// the local replica lacks. Either half failing aborts the operation; a
// partially-completed push is not rolled back (push is idempotent).
func (e *Engine) Sync(ctx context.Context) error {
	return e.run(ctx, "sync", "Please sign in to sync", func(ctx context.Context, uid string) error {
		if err := e.pushAll(ctx, uid); err != nil {
			return err
		}
		return e.pullMissing(ctx, uid)
	})
}

// Backup pushes the full local dataset to the cloud without pulling.
func (e *Engine) Backup(ctx context.Context) error {
	return e.run(ctx, "backup", "Please sign in to back up", e.pushAll)
}

// Restore pulls missing cloud data into the local replica without pushing.
func (e *Engine) Restore(ctx context.Context) error {
	return e.run(ctx, "restore", "Please sign in to restore", e.pullMissing)
}

// WipeRemote deletes every cloud document for the current user: each
// vehicle's six nested collections first, then the vehicle document itself.
// The remote store does not cascade, so the engine walks every collection
// explicitly. On success the persisted last-sync date is cleared.
func (e *Engine) WipeRemote(ctx context.Context) error {
	return e.run(ctx, "wipe", "Not signed in", e.wipeAll)
}

// run is the shared operation boundary: single-flight admission, sign-in
// check, status lifecycle, tracing, and last-sync bookkeeping.
func (e *Engine) run(ctx context.Context, op, signInMsg string, fn func(ctx context.Context, uid string) error) error {
	if !e.opMu.TryLock() {
		return ErrSyncInProgress
	}
	defer e.opMu.Unlock()

	uid, signedIn, err := e.identity.CurrentUID()
	if err != nil {
		e.setIdle(err.Error())
		return fmt.Errorf("resolving signed-in user: %w", err)
	}
	if !signedIn {
		e.setIdle(signInMsg)
		return ErrNotSignedIn
	}

	ctx, span := e.tracer.Start(ctx, "sync."+op)
	defer span.End()
	span.SetAttributes(attribute.String("sync.operation", op))

	e.begin()
	e.log.Info("sync operation started", "operation", op, "uid", uid)

	if err := fn(ctx, uid); err != nil {
		span.RecordError(err)
		e.cntErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
		e.log.Error("sync operation failed", "operation", op, "error", err)
		e.finish(err.Error())
		return err
	}

	if op == "wipe" {
		if err := e.state.ClearLastSyncDate(ctx); err != nil {
			e.finish(err.Error())
			return err
		}
		e.stMu.Lock()
		e.lastSync = nil
		e.stMu.Unlock()
	} else {
		now := time.Now().UTC()
		if err := e.state.SetLastSyncDate(ctx, now); err != nil {
			e.finish(err.Error())
			return err
		}
		e.stMu.Lock()
		e.lastSync = &now
		e.stMu.Unlock()
	}

	e.log.Info("sync operation finished", "operation", op)
	e.finish("")
	return nil
}

// --- status transitions ------------------------------------------------------

// begin marks the operation in flight, clearing the previous error and
// progress.
func (e *Engine) begin() {
	e.stMu.Lock()
	defer e.stMu.Unlock()
	e.syncing = true
	e.errMsg = ""
	e.progress = ""
}

// finish clears the in-flight flag and progress; errMsg is empty on success.
func (e *Engine) finish(errMsg string) {
	e.stMu.Lock()
	defer e.stMu.Unlock()
	e.syncing = false
	e.progress = ""
	e.errMsg = errMsg
}

// setIdle surfaces an error without the operation ever having started.
func (e *Engine) setIdle(errMsg string) {
	e.stMu.Lock()
	defer e.stMu.Unlock()
	e.errMsg = errMsg
}

func (e *Engine) setProgress(msg string) {
	e.stMu.Lock()
	defer e.stMu.Unlock()
	e.progress = msg
}

// --- push --------------------------------------------------------------------

// pushAll upserts every local vehicle and every dependent record into the
// cloud. Full overwrite on every call; no delta tracking. The vehicle
// document is always written before its records so the cloud never holds
// orphaned records without a parent.
func (e *Engine) pushAll(ctx context.Context, uid string) error {
	vehicles, err := e.local.FetchVehicles(ctx)
	if err != nil {
		return fmt.Errorf("loading local vehicles: %w", err)
	}

	for i, v := range vehicles {
		e.setProgress(fmt.Sprintf("Backing up %s (%d/%d)...", v.DisplayName(), i+1, len(vehicles)))

		vid := v.ID.String()
		if err := e.remote.SetVehicle(ctx, uid, vid, codec.EncodeVehicle(v)); err != nil {
			return &RemoteIOError{Err: err}
		}
		e.cntVehiclesPushed.Add(ctx, 1)

		records := 0
		for _, fe := range v.FuelEntries {
			if err := e.remote.SetRecord(ctx, uid, vid, collectionFuelEntries, fe.ID.String(), codec.EncodeFuelEntry(fe)); err != nil {
				return &RemoteIOError{Err: err}
			}
			records++
		}
		for _, r := range v.MaintenanceRecords {
			if err := e.remote.SetRecord(ctx, uid, vid, collectionMaintenanceRecords, r.ID.String(), codec.EncodeMaintenanceRecord(r)); err != nil {
				return &RemoteIOError{Err: err}
			}
			records++
		}
		for _, s := range v.MaintenanceSchedules {
			if err := e.remote.SetRecord(ctx, uid, vid, collectionMaintenanceSchedules, s.ID.String(), codec.EncodeMaintenanceSchedule(s)); err != nil {
				return &RemoteIOError{Err: err}
			}
			records++
		}
		for _, t := range v.Trips {
			if err := e.remote.SetRecord(ctx, uid, vid, collectionTrips, t.ID.String(), codec.EncodeTrip(t)); err != nil {
				return &RemoteIOError{Err: err}
			}
			records++
		}
		for _, ex := range v.Expenses {
			if err := e.remote.SetRecord(ctx, uid, vid, collectionExpenses, ex.ID.String(), codec.EncodeExpense(ex)); err != nil {
				return &RemoteIOError{Err: err}
			}
			records++
		}
		for _, d := range v.Documents {
			if err := e.remote.SetRecord(ctx, uid, vid, collectionDocuments, d.ID.String(), codec.EncodeDocument(d)); err != nil {
				return &RemoteIOError{Err: err}
			}
			records++
		}
		e.cntRecordsPushed.Add(ctx, int64(records))
	}
	return nil
}

// --- pull --------------------------------------------------------------------

// pullMissing walks every remote vehicle. Unknown vehicles are decoded and
// inserted; known vehicles are merged in place when the remote updatedAt is
// strictly newer. Dependent records are append-only: a record identity
// already present locally is never touched, regardless of field differences.
// All local mutations are committed in one save at the end.
func (e *Engine) pullMissing(ctx context.Context, uid string) error {
	docs, err := e.remote.Vehicles(ctx, uid)
	if err != nil {
		return &RemoteIOError{Err: err}
	}

	locals, err := e.local.FetchVehicles(ctx)
	if err != nil {
		return fmt.Errorf("loading local vehicles: %w", err)
	}
	byID := make(map[uuid.UUID]*model.Vehicle, len(locals))
	for _, v := range locals {
		byID[v.ID] = v
	}

	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			e.log.Warn("skipping remote vehicle with malformed document id", "doc_id", doc.ID)
			continue
		}

		v, known := byID[id]
		if !known {
			v = codec.DecodeVehicle(doc.Fields, id)
			byID[id] = v
			e.local.InsertVehicle(v)
			e.cntVehiclesPulled.Add(ctx, 1)
		} else if remoteUpdated, ok := doc.Fields.Time("updatedAt"); ok && remoteUpdated.After(v.UpdatedAt) {
			codec.MergeVehicle(v, doc.Fields)
			e.local.UpdateVehicle(v)
			e.cntVehiclesPulled.Add(ctx, 1)
		}

		e.setProgress(fmt.Sprintf("Restoring %s...", v.DisplayName()))

		pulled, err := e.pullRecords(ctx, uid, v)
		if err != nil {
			return err
		}
		if pulled > 0 {
			e.cntRecordsPulled.Add(ctx, int64(pulled))
		}
	}

	if err := e.local.Save(ctx); err != nil {
		return &LocalSaveError{Err: err}
	}
	return nil
}

// pullRecords pulls the six dependent collections of one vehicle, inserting
// only records whose identity is not yet present locally.
func (e *Engine) pullRecords(ctx context.Context, uid string, v *model.Vehicle) (int, error) {
	total := 0
	for _, collection := range recordCollections {
		docs, err := e.remote.Records(ctx, uid, v.ID.String(), collection)
		if err != nil {
			return total, &RemoteIOError{Err: err}
		}

		for _, doc := range docs {
			id, err := uuid.Parse(doc.ID)
			if err != nil {
				e.log.Warn("skipping remote record with malformed document id",
					"collection", collection, "doc_id", doc.ID)
				continue
			}
			if e.insertMissingRecord(v, collection, id, doc.Fields) {
				total++
			}
		}
	}
	return total, nil
}

// insertMissingRecord decodes and attaches one remote record unless its
// identity already exists locally. Reports whether an insert happened.
func (e *Engine) insertMissingRecord(v *model.Vehicle, collection string, id uuid.UUID, f codec.Fields) bool {
	switch collection {
	case collectionFuelEntries:
		for _, existing := range v.FuelEntries {
			if existing.ID == id {
				return false
			}
		}
		fe := codec.DecodeFuelEntry(f, id, v.ID)
		v.FuelEntries = append(v.FuelEntries, fe)
		e.local.InsertFuelEntry(fe)
	case collectionMaintenanceRecords:
		for _, existing := range v.MaintenanceRecords {
			if existing.ID == id {
				return false
			}
		}
		r := codec.DecodeMaintenanceRecord(f, id, v.ID)
		v.MaintenanceRecords = append(v.MaintenanceRecords, r)
		e.local.InsertMaintenanceRecord(r)
	case collectionMaintenanceSchedules:
		for _, existing := range v.MaintenanceSchedules {
			if existing.ID == id {
				return false
			}
		}
		s := codec.DecodeMaintenanceSchedule(f, id, v.ID)
		v.MaintenanceSchedules = append(v.MaintenanceSchedules, s)
		e.local.InsertMaintenanceSchedule(s)
	case collectionTrips:
		for _, existing := range v.Trips {
			if existing.ID == id {
				return false
			}
		}
		t := codec.DecodeTrip(f, id, v.ID)
		v.Trips = append(v.Trips, t)
		e.local.InsertTrip(t)
	case collectionExpenses:
		for _, existing := range v.Expenses {
			if existing.ID == id {
				return false
			}
		}
		ex := codec.DecodeExpense(f, id, v.ID)
		v.Expenses = append(v.Expenses, ex)
		e.local.InsertExpense(ex)
	case collectionDocuments:
		for _, existing := range v.Documents {
			if existing.ID == id {
				return false
			}
		}
		d := codec.DecodeDocument(f, id, v.ID)
		v.Documents = append(v.Documents, d)
		e.local.InsertDocument(d)
	default:
		return false
	}
	return true
}

// --- wipe --------------------------------------------------------------------

// wipeAll deletes every cloud document for the user: for each vehicle, every
// record in each of the six nested collections, then the vehicle itself.
func (e *Engine) wipeAll(ctx context.Context, uid string) error {
	e.setProgress("Deleting cloud data...")

	docs, err := e.remote.Vehicles(ctx, uid)
	if err != nil {
		return &RemoteIOError{Err: err}
	}

	for _, doc := range docs {
		for _, collection := range recordCollections {
			records, err := e.remote.Records(ctx, uid, doc.ID, collection)
			if err != nil {
				return &RemoteIOError{Err: err}
			}
			for _, r := range records {
				if err := e.remote.DeleteRecord(ctx, uid, doc.ID, collection, r.ID); err != nil {
					return &RemoteIOError{Err: err}
				}
			}
		}
		if err := e.remote.DeleteVehicle(ctx, uid, doc.ID); err != nil {
			return &RemoteIOError{Err: err}
		}
	}
	return nil
}
