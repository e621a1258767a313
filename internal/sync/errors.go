package sync

import (
	"errors"
	"fmt"
)

// ErrSyncInProgress is returned when an operation is invoked while another is
// still running. The in-flight operation is unaffected.
var ErrSyncInProgress = errors.New("a sync operation is already in progress")

// ErrNotSignedIn is returned when no account is signed in. No store I/O is
// attempted.
var ErrNotSignedIn = errors.New("not signed in")

// RemoteIOError wraps any failure from the remote adapter (network,
// permission, quota). It aborts the whole top-level operation; writes that
// already completed are not rolled back.
type RemoteIOError struct {
	Err error
}

func (e *RemoteIOError) Error() string { return fmt.Sprintf("cloud store: %v", e.Err) }
func (e *RemoteIOError) Unwrap() error { return e.Err }

// LocalSaveError wraps a failure committing the local store at the end of a
// pull. In-memory entities stay inserted but unpersisted; the operation must
// be treated as failed.
type LocalSaveError struct {
	Err error
}

func (e *LocalSaveError) Error() string { return fmt.Sprintf("saving local store: %v", e.Err) }
func (e *LocalSaveError) Unwrap() error { return e.Err }
