package sync

import (
	"context"
	"fmt"
	"sort"
	"strings"
	gosync "sync"
	"time"

	"github.com/autoledger/autoledger/internal/codec"
	"github.com/autoledger/autoledger/internal/model"
	"github.com/autoledger/autoledger/internal/remote"
)

// --- Mock Local Store --------------------------------------------------------

type mockLocal struct {
	mu       gosync.Mutex
	vehicles []*model.Vehicle
	pending  int // buffered mutations since the last save
	saves    int
	fetchErr error
	saveErr  error
}

func newMockLocal(vehicles ...*model.Vehicle) *mockLocal {
	return &mockLocal{vehicles: vehicles}
}

func (m *mockLocal) FetchVehicles(_ context.Context) ([]*model.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	result := make([]*model.Vehicle, len(m.vehicles))
	copy(result, m.vehicles)
	return result, nil
}

func (m *mockLocal) InsertVehicle(v *model.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles = append(m.vehicles, v)
	m.pending++
}

func (m *mockLocal) UpdateVehicle(*model.Vehicle) { m.bump() }

func (m *mockLocal) InsertFuelEntry(*model.FuelEntry)                     { m.bump() }
func (m *mockLocal) InsertMaintenanceRecord(*model.MaintenanceRecord)     { m.bump() }
func (m *mockLocal) InsertMaintenanceSchedule(*model.MaintenanceSchedule) { m.bump() }
func (m *mockLocal) InsertTrip(*model.Trip)                               { m.bump() }
func (m *mockLocal) InsertExpense(*model.Expense)                         { m.bump() }
func (m *mockLocal) InsertDocument(*model.Document)                       { m.bump() }

func (m *mockLocal) bump() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending++
}

func (m *mockLocal) Save(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.pending = 0
	return nil
}

func (m *mockLocal) vehicle(id string) *model.Vehicle {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.vehicles {
		if v.ID.String() == id {
			return v
		}
	}
	return nil
}

func (m *mockLocal) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// --- Mock Remote Store -------------------------------------------------------

// mockRemote keeps the cloud replica in nested maps and records every
// mutation in ops so tests can assert ordering. Setting failOn makes every
// operation whose ops entry starts with that prefix fail.
type mockRemote struct {
	mu       gosync.Mutex
	vehicles map[string]map[string]codec.Fields            // uid → vehicleID → doc
	records  map[string]map[string]map[string]codec.Fields // uid → vehicleID/collection → recordID → doc
	ops      []string
	failOn   string
}

func newMockRemote() *mockRemote {
	return &mockRemote{
		vehicles: make(map[string]map[string]codec.Fields),
		records:  make(map[string]map[string]map[string]codec.Fields),
	}
}

func (m *mockRemote) op(format string, args ...any) error {
	entry := fmt.Sprintf(format, args...)
	m.ops = append(m.ops, entry)
	if m.failOn != "" && strings.HasPrefix(entry, m.failOn) {
		return fmt.Errorf("injected failure on %s", entry)
	}
	return nil
}

func (m *mockRemote) Vehicles(_ context.Context, uid string) ([]remote.Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.op("scanVehicles %s", uid); err != nil {
		return nil, err
	}
	var docs []remote.Doc
	for id, f := range m.vehicles[uid] {
		docs = append(docs, remote.Doc{ID: id, Fields: f})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *mockRemote) SetVehicle(_ context.Context, uid, vehicleID string, f codec.Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.op("setVehicle %s", vehicleID); err != nil {
		return err
	}
	if m.vehicles[uid] == nil {
		m.vehicles[uid] = make(map[string]codec.Fields)
	}
	m.vehicles[uid][vehicleID] = f
	return nil
}

func (m *mockRemote) DeleteVehicle(_ context.Context, uid, vehicleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.op("deleteVehicle %s", vehicleID); err != nil {
		return err
	}
	delete(m.vehicles[uid], vehicleID)
	return nil
}

func (m *mockRemote) Records(_ context.Context, uid, vehicleID, collection string) ([]remote.Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.op("scanRecords %s/%s", vehicleID, collection); err != nil {
		return nil, err
	}
	var docs []remote.Doc
	for id, f := range m.records[uid][vehicleID+"/"+collection] {
		docs = append(docs, remote.Doc{ID: id, Fields: f})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *mockRemote) SetRecord(_ context.Context, uid, vehicleID, collection, recordID string, f codec.Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.op("setRecord %s/%s/%s", vehicleID, collection, recordID); err != nil {
		return err
	}
	if m.records[uid] == nil {
		m.records[uid] = make(map[string]map[string]codec.Fields)
	}
	key := vehicleID + "/" + collection
	if m.records[uid][key] == nil {
		m.records[uid][key] = make(map[string]codec.Fields)
	}
	m.records[uid][key][recordID] = f
	return nil
}

func (m *mockRemote) DeleteRecord(_ context.Context, uid, vehicleID, collection, recordID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.op("deleteRecord %s/%s/%s", vehicleID, collection, recordID); err != nil {
		return err
	}
	delete(m.records[uid][vehicleID+"/"+collection], recordID)
	return nil
}

// seedVehicleDoc plants a vehicle document directly in the cloud replica
// without going through the ops log.
func (m *mockRemote) seedVehicleDoc(uid, vehicleID string, f codec.Fields) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vehicles[uid] == nil {
		m.vehicles[uid] = make(map[string]codec.Fields)
	}
	m.vehicles[uid][vehicleID] = f
}

func (m *mockRemote) seedRecordDoc(uid, vehicleID, collection, recordID string, f codec.Fields) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records[uid] == nil {
		m.records[uid] = make(map[string]map[string]codec.Fields)
	}
	key := vehicleID + "/" + collection
	if m.records[uid][key] == nil {
		m.records[uid][key] = make(map[string]codec.Fields)
	}
	m.records[uid][key][recordID] = f
}

func (m *mockRemote) vehicleDoc(uid, vehicleID string) codec.Fields {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vehicles[uid][vehicleID]
}

func (m *mockRemote) recordCount(uid string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, coll := range m.records[uid] {
		n += len(coll)
	}
	return n
}

func (m *mockRemote) vehicleCount(uid string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.vehicles[uid])
}

func (m *mockRemote) opLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	log := make([]string, len(m.ops))
	copy(log, m.ops)
	return log
}

// --- Mock State Store --------------------------------------------------------

type mockState struct {
	mu     gosync.Mutex
	last   *time.Time
	setErr error
}

func (m *mockState) LastSyncDate(_ context.Context) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return time.Time{}, false, nil
	}
	return *m.last, true, nil
}

func (m *mockState) SetLastSyncDate(_ context.Context, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.last = &t
	return nil
}

func (m *mockState) ClearLastSyncDate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = nil
	return nil
}

func (m *mockState) lastSync() *time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}
