package codec

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProfile_ReadsFieldsFromTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codec.toml")
	contents := "include_ref_metadata = true\nmax_depth = 64\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	profile, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if !profile.IncludeRefMetadata || profile.MaxDepth != 64 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestLoadProfileIfExists_FallsBackToDefault(t *testing.T) {
	profile, err := LoadProfileIfExists(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadProfileIfExists failed: %v", err)
	}
	if profile != DefaultProfile() {
		t.Fatalf("expected the default profile, got %+v", profile)
	}
}
