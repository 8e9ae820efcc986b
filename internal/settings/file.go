package settings

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// DefaultDirName is created under the user's home directory
const DefaultDirName = ".resume-studio"

// FileName is the settings file inside the settings directory
const FileName = "settings.toml"

// FileStore keeps settings in a TOML file readable only by the owner
type FileStore struct {
	mu       sync.Mutex
	filePath string
}

// NewFileStore creates the settings directory if needed. An empty dir
// defaults to ~/.resume-studio.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, &Error{Message: "cannot locate home directory", Cause: err}
		}
		dir = filepath.Join(home, DefaultDirName)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, &Error{Message: "cannot create settings directory", Cause: err}
	}
	return &FileStore{filePath: filepath.Join(dir, FileName)}, nil
}

// Path returns the settings file location
func (f *FileStore) Path() string {
	return f.filePath
}

// Load reads the settings file. A missing file yields empty settings.
func (f *FileStore) Load(_ context.Context) (Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, &Error{Message: "cannot read settings file", Cause: err}
	}

	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, &Error{Message: "malformed settings file", Cause: err}
	}
	return s, nil
}

// Save validates and writes the settings
func (f *FileStore) Save(_ context.Context, s Settings) error {
	s = s.Normalized()
	if err := s.Validate(); err != nil {
		return err
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return &Error{Message: "cannot encode settings", Cause: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.WriteFile(f.filePath, data, 0o600); err != nil {
		return &Error{Message: "cannot write settings file", Cause: err}
	}
	return nil
}

// Close is a no-op for the file store
func (f *FileStore) Close() error {
	return nil
}
