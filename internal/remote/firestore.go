// Package remote wraps the Cloud Firestore client behind the narrow document
// operations the sync engine needs: full-collection scans, full-overwrite
// writes, and single-document deletes, all inside the per-user hierarchy
//
//	users/{uid}/vehicles/{vehicleId}/{collection}/{recordId}
//
// No queries, filters, or orderings are used; the dataset is small enough
// that whole-collection scans are the simplest correct primitive.
package remote

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/autoledger/autoledger/internal/codec"
)

const (
	usersCollection    = "users"
	vehiclesCollection = "vehicles"
)

// Doc is one remote document: its identity plus the raw payload.
type Doc struct {
	ID     string
	Fields codec.Fields
}

// Store is the Firestore-backed remote document store. Create one with
// [NewStore].
type Store struct {
	client *firestore.Client
	log    *slog.Logger
}

// NewStore connects to Firestore for the given project. When credentialsFile
// is empty, application default credentials are used.
func NewStore(ctx context.Context, projectID, credentialsFile string, logger *slog.Logger) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Firestore client for project %q: %w", projectID, err)
	}
	return &Store{client: client, log: logger}, nil
}

// Close releases the underlying client connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) vehicleRef(uid, vehicleID string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(uid).
		Collection(vehiclesCollection).Doc(vehicleID)
}

// Vehicles scans every vehicle document for the user.
func (s *Store) Vehicles(ctx context.Context, uid string) ([]Doc, error) {
	iter := s.client.Collection(usersCollection).Doc(uid).
		Collection(vehiclesCollection).Documents(ctx)
	docs, err := collect(iter)
	if err != nil {
		return nil, fmt.Errorf("scanning vehicles: %w", err)
	}
	return docs, nil
}

// SetVehicle writes the full vehicle document, creating or overwriting it.
func (s *Store) SetVehicle(ctx context.Context, uid, vehicleID string, f codec.Fields) error {
	if _, err := s.vehicleRef(uid, vehicleID).Set(ctx, map[string]any(f)); err != nil {
		return fmt.Errorf("writing vehicle %s: %w", vehicleID, err)
	}
	return nil
}

// DeleteVehicle removes the vehicle document. Nested collections are not
// cascaded by the store; callers must walk them first.
func (s *Store) DeleteVehicle(ctx context.Context, uid, vehicleID string) error {
	if _, err := s.vehicleRef(uid, vehicleID).Delete(ctx); err != nil {
		return fmt.Errorf("deleting vehicle %s: %w", vehicleID, err)
	}
	return nil
}

// Records scans every document in one nested collection of a vehicle.
func (s *Store) Records(ctx context.Context, uid, vehicleID, collection string) ([]Doc, error) {
	iter := s.vehicleRef(uid, vehicleID).Collection(collection).Documents(ctx)
	docs, err := collect(iter)
	if err != nil {
		return nil, fmt.Errorf("scanning %s for vehicle %s: %w", collection, vehicleID, err)
	}
	return docs, nil
}

// SetRecord writes one dependent-record document, creating or overwriting it.
func (s *Store) SetRecord(ctx context.Context, uid, vehicleID, collection, recordID string, f codec.Fields) error {
	ref := s.vehicleRef(uid, vehicleID).Collection(collection).Doc(recordID)
	if _, err := ref.Set(ctx, map[string]any(f)); err != nil {
		return fmt.Errorf("writing %s/%s for vehicle %s: %w", collection, recordID, vehicleID, err)
	}
	return nil
}

// DeleteRecord removes one dependent-record document.
func (s *Store) DeleteRecord(ctx context.Context, uid, vehicleID, collection, recordID string) error {
	ref := s.vehicleRef(uid, vehicleID).Collection(collection).Doc(recordID)
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("deleting %s/%s for vehicle %s: %w", collection, recordID, vehicleID, err)
	}
	return nil
}

// collect drains a document iterator into Doc values.
func collect(iter *firestore.DocumentIterator) ([]Doc, error) {
	defer iter.Stop()

	var docs []Doc
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, Doc{ID: snap.Ref.ID, Fields: codec.Fields(snap.Data())})
	}
}
