package trakt

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"trakt2letterboxd/internal/fileutil"
	"trakt2letterboxd/internal/logging"
)

// TokenStore abstracts persistence for the Trakt credential.
type TokenStore interface {
	// Load returns the cached credential, or false when none is usable.
	Load() (Credential, bool)
	Save(Credential) error
	Clear() error
}

// FileTokenStore keeps the credential in a single JSON file.
type FileTokenStore struct {
	path   string
	logger *slog.Logger
}

// NewFileTokenStore builds a FileTokenStore rooted at the provided path.
func NewFileTokenStore(path string, logger *slog.Logger) *FileTokenStore {
	return &FileTokenStore{
		path:   path,
		logger: logging.NewComponentLogger(logger, "token-store"),
	}
}

// Path returns the credential file location.
func (s *FileTokenStore) Path() string {
	return s.path
}

// Load reads the credential from disk. A missing or unreadable file resolves
// to no credential; problems other than absence are logged.
func (s *FileTokenStore) Load() (Credential, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("cached credential unreadable", logging.String("path", s.path), logging.Error(err))
		}
		return Credential{}, false
	}

	var file credentialFile
	if err := json.Unmarshal(data, &file); err != nil {
		s.logger.Warn("cached credential is not valid JSON", logging.String("path", s.path), logging.Error(err))
		return Credential{}, false
	}
	cred := file.credential()
	if !cred.Usable() {
		s.logger.Warn("cached credential has no access token", logging.String("path", s.path))
		return Credential{}, false
	}
	return cred, true
}

// Save atomically replaces the credential file with restricted permissions.
func (s *FileTokenStore) Save(cred Credential) error {
	data, err := json.Marshal(newCredentialFile(cred))
	if err != nil {
		return fmt.Errorf("encode trakt credential: %w", err)
	}
	if err := fileutil.WriteFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write trakt credential: %w", err)
	}
	s.logger.Debug("credential cached", logging.String("path", s.path))
	return nil
}

// Clear deletes the credential file if present.
func (s *FileTokenStore) Clear() error {
	if err := fileutil.RemoveIfExists(s.path); err != nil {
		return fmt.Errorf("remove trakt credential: %w", err)
	}
	s.logger.Debug("credential cache cleared", logging.String("path", s.path))
	return nil
}
