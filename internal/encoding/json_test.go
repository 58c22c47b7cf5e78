package encoding

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSaveAndLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.json")

	want := sample{Name: "acme", Count: 3}
	if err := SaveJSON(path, want); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	got, err := LoadJSON[sample](path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}

	if got == nil || *got != want {
		t.Errorf("LoadJSON = %+v, want %+v", got, want)
	}
}

func TestSaveJSON_OwnerOnlyPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permission bits not meaningful on Windows")
	}

	dir := filepath.Join(t.TempDir(), "secrets")
	path := filepath.Join(dir, "creds.json")

	if err := SaveJSON(path, sample{Name: "s"}); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat file: %v", err)
	}

	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 0600", perm)
	}

	dirInfo, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat dir: %v", err)
	}

	if perm := dirInfo.Mode().Perm(); perm != 0700 {
		t.Errorf("dir mode = %o, want 0700", perm)
	}
}

func TestLoadJSON_MissingFile(t *testing.T) {
	got, err := LoadJSON[sample](filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}

	if got != nil {
		t.Errorf("LoadJSON on missing file = %+v, want nil", got)
	}
}

func TestLoadJSON_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadJSON[sample](path); err == nil {
		t.Error("LoadJSON on corrupt file should error")
	}
}
