package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SnapshotInfo describes a stored snapshot without its document.
type SnapshotInfo struct {
	Name      string    `json:"name" yaml:"name"`
	Broker    string    `json:"broker" yaml:"broker"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Size      int64     `json:"size" yaml:"size"`
}

// Snapshot is the stored form. Definitions is kept as raw JSON so numbers
// are written back with the digits they were exported with.
type Snapshot struct {
	Name        string          `json:"name"`
	Broker      string          `json:"broker"`
	CreatedAt   time.Time       `json:"created_at"`
	Definitions json.RawMessage `json:"definitions"`
}

// NewSnapshotName returns a unique, sortable name for a snapshot of host.
func NewSnapshotName(host string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s", host, now.UTC().Format("20060102T150405"), uuid.NewString()[:8])
}
