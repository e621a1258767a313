package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSession_SignedIn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"uid":"user-123","email":"a@b.c"}`), 0o600); err != nil {
		t.Fatalf("writing session file: %v", err)
	}

	uid, ok, err := (&FileSession{Path: path}).CurrentUID()
	if err != nil {
		t.Fatalf("CurrentUID: %v", err)
	}
	if !ok || uid != "user-123" {
		t.Errorf("CurrentUID = %q ok=%v, want user-123 true", uid, ok)
	}
}

func TestFileSession_MissingFileMeansSignedOut(t *testing.T) {
	f := &FileSession{Path: filepath.Join(t.TempDir(), "nope.json")}
	uid, ok, err := f.CurrentUID()
	if err != nil {
		t.Fatalf("CurrentUID: %v", err)
	}
	if ok || uid != "" {
		t.Errorf("CurrentUID = %q ok=%v, want signed out", uid, ok)
	}
}

func TestFileSession_EmptyUIDMeansSignedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"uid":"  "}`), 0o600); err != nil {
		t.Fatalf("writing session file: %v", err)
	}

	_, ok, err := (&FileSession{Path: path}).CurrentUID()
	if err != nil {
		t.Fatalf("CurrentUID: %v", err)
	}
	if ok {
		t.Error("blank uid should mean signed out")
	}
}

func TestFileSession_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0o600); err != nil {
		t.Fatalf("writing session file: %v", err)
	}

	if _, _, err := (&FileSession{Path: path}).CurrentUID(); err == nil {
		t.Error("corrupt session file should be an error, not silent sign-out")
	}
}

func TestStatic(t *testing.T) {
	uid, ok, err := Static{UID: "fixed"}.CurrentUID()
	if err != nil || !ok || uid != "fixed" {
		t.Errorf("Static = %q %v %v, want fixed true nil", uid, ok, err)
	}

	if _, ok, _ := (Static{}).CurrentUID(); ok {
		t.Error("empty Static should be signed out")
	}
}
