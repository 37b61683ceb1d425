package transport

import (
	"fmt"
	"os"
)

// FileCredentials persists credential material as a whole-file overwrite, so
// the stored blob is always the latest complete snapshot.
type FileCredentials struct {
	path string
}

func NewFileCredentials(path string) *FileCredentials {
	return &FileCredentials{path: path}
}

func (f *FileCredentials) Save(data []byte) error {
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}
