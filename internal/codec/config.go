package codec

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Profile is the encoding/decoding policy a caller would otherwise have
// to thread through every Encode/Decode call. Loadable from TOML so a
// project can ship one codec.toml instead of wiring booleans through
// every call site.
type Profile struct {
	IncludeRefMetadata bool `toml:"include_ref_metadata"`
	MaxDepth           int  `toml:"max_depth"`
}

// DefaultProfile matches spec §4.6's behavior when no profile is
// supplied: no ref metadata, no depth limit.
func DefaultProfile() Profile {
	return Profile{IncludeRefMetadata: false, MaxDepth: 0}
}

// LoadProfile reads a Profile from a TOML file at path.
func LoadProfile(path string) (Profile, error) {
	cfg := DefaultProfile()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Profile{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, nil
}

// LoadProfileIfExists behaves like LoadProfile but returns the default
// profile, unmodified, if path does not exist.
func LoadProfileIfExists(path string) (Profile, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultProfile(), nil
		}
		return Profile{}, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	return LoadProfile(path)
}
