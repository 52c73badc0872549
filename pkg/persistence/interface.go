package persistence

import (
	"errors"

	"github.com/ottermq/brokeradmin/internal/core/models"
)

// ErrSnapshotNotFound is returned when a named snapshot does not exist.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Persistence defines the interface for definitions snapshot storage
type Persistence interface {
	// SaveDefinitions stores a definitions document exported from broker under name
	SaveDefinitions(name, broker string, defs models.Definitions) error
	// LoadDefinitions loads the document stored under name
	LoadDefinitions(name string) (models.Definitions, error)
	// ListSnapshots lists stored snapshots, oldest first
	ListSnapshots() ([]SnapshotInfo, error)
	// DeleteSnapshot removes the snapshot stored under name
	DeleteSnapshot(name string) error

	// Lifecycle
	Initialize() error
	Close() error
}

// Config for persistence implementations
type Config struct {
	Type    string            `json:"type"`     // "json"
	DataDir string            `json:"data_dir"` // Base directory for storage
	Options map[string]string `json:"options"`  // Implementation-specific options
}
