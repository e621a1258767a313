// Package sync implements the bidirectional reconciliation engine between the
// on-device ledger and the per-user cloud document store. It pushes the full
// local dataset (idempotent upsert), pulls missing remote data back, and
// applies the reconciliation policy: last-writer-wins by updatedAt for the
// Vehicle aggregate, first-writer-wins by record identity for the six
// dependent collections.
//
// [Engine] is the single entry point. Operations run one at a time; a second
// invocation while one is in flight is rejected with [ErrSyncInProgress].
package sync

import (
	"context"
	"time"

	"github.com/autoledger/autoledger/internal/codec"
	"github.com/autoledger/autoledger/internal/model"
	"github.com/autoledger/autoledger/internal/remote"
)

// LocalStore provides access to the on-device replica.
// Implemented by [local.Store].
//
// The Insert*/UpdateVehicle methods buffer mutations; nothing is persisted
// until Save commits the whole batch atomically.
type LocalStore interface {
	FetchVehicles(ctx context.Context) ([]*model.Vehicle, error)
	InsertVehicle(v *model.Vehicle)
	UpdateVehicle(v *model.Vehicle)
	InsertFuelEntry(e *model.FuelEntry)
	InsertMaintenanceRecord(r *model.MaintenanceRecord)
	InsertMaintenanceSchedule(s *model.MaintenanceSchedule)
	InsertTrip(t *model.Trip)
	InsertExpense(e *model.Expense)
	InsertDocument(d *model.Document)
	Save(ctx context.Context) error
}

// RemoteStore provides access to the per-user cloud replica.
// Implemented by [remote.Store].
type RemoteStore interface {
	Vehicles(ctx context.Context, uid string) ([]remote.Doc, error)
	SetVehicle(ctx context.Context, uid, vehicleID string, f codec.Fields) error
	DeleteVehicle(ctx context.Context, uid, vehicleID string) error
	Records(ctx context.Context, uid, vehicleID, collection string) ([]remote.Doc, error)
	SetRecord(ctx context.Context, uid, vehicleID, collection, recordID string, f codec.Fields) error
	DeleteRecord(ctx context.Context, uid, vehicleID, collection, recordID string) error
}

// Identity resolves the signed-in account. Implemented by [auth.FileSession]
// and [auth.Static].
type Identity interface {
	CurrentUID() (uid string, signedIn bool, err error)
}

// StateStore persists sync metadata across process restarts.
// Implemented by [state.Store].
type StateStore interface {
	LastSyncDate(ctx context.Context) (time.Time, bool, error)
	SetLastSyncDate(ctx context.Context, t time.Time) error
	ClearLastSyncDate(ctx context.Context) error
}
