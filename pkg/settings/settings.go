// Package settings persists the operator-facing beep and verbose
// flags. The relay state owns the live values; the store is only told
// when they change.
package settings

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Settings are the persisted operator preferences.
type Settings struct {
	Beep    bool `toml:"beep"`
	Verbose bool `toml:"verbose"`
}

// Default returns the settings used when no file exists yet.
func Default() Settings {
	return Settings{Beep: true}
}

// Store reads and writes the settings file. An empty path disables
// persistence.
type Store struct {
	Path string
}

// Load reads the settings file. A missing file yields the defaults;
// an unreadable one yields the defaults and the error.
func (s *Store) Load() (Settings, error) {
	v := Default()
	if s.Path == "" {
		return v, nil
	}
	if _, err := toml.DecodeFile(s.Path, &v); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), err
	}
	return v, nil
}

// Save writes the settings file, creating it on the first toggle.
func (s *Store) Save(v Settings) error {
	if s.Path == "" {
		return nil
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(v)
}
