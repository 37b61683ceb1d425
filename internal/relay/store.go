package relay

import (
	"encoding/json"
	"os"
	"sync"

	"go.uber.org/zap"
)

// FileStore keeps the greeted set in memory, mirrored to a JSON snapshot
// file. Every mark rewrites the whole file, so the stored state is always a
// complete snapshot even after a torn earlier write.
type FileStore struct {
	path string
	log  *zap.Logger

	mu      sync.Mutex
	greeted map[CorrespondentID]bool
}

var _ GreetedStore = (*FileStore)(nil)

// NewFileStore loads the snapshot at path. A missing or unparsable snapshot
// starts the set empty; startup never fails on bad state.
func NewFileStore(path string, log *zap.Logger) *FileStore {
	s := &FileStore{
		path:    path,
		log:     log,
		greeted: make(map[CorrespondentID]bool),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("greeted store unreadable, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return s
	}
	if err := json.Unmarshal(data, &s.greeted); err != nil {
		log.Warn("greeted store corrupt, starting empty",
			zap.String("path", path), zap.Error(err))
		s.greeted = make(map[CorrespondentID]bool)
	}
	return s
}

func (s *FileStore) HasGreeted(id CorrespondentID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.greeted[id]
}

func (s *FileStore) MarkGreeted(id CorrespondentID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.greeted[id] {
		return false, nil
	}
	s.greeted[id] = true

	// The in-memory mark stands even if the write fails; the next mark
	// rewrites the full set anyway.
	data, err := json.MarshalIndent(s.greeted, "", "  ")
	if err != nil {
		return true, err
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.log.Error("greeted store write failed",
			zap.String("path", s.path), zap.Error(err))
		return true, err
	}
	return true, nil
}

// Count reports how many correspondents have been greeted.
func (s *FileStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.greeted)
}
