package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ottermq/brokeradmin/internal/core/models"
	"github.com/ottermq/brokeradmin/pkg/persistence"
)

const snapshotExt = ".json"

var _ persistence.Persistence = (*JsonPersistence)(nil)

type JsonPersistence struct {
	dataDir string
}

func NewJsonPersistence(config *persistence.Config) (*JsonPersistence, error) {
	jp := &JsonPersistence{
		dataDir: config.DataDir,
	}
	return jp, jp.Initialize()
}

func (jp *JsonPersistence) Initialize() error {
	// Create the snapshot directory if it doesn't exist
	if err := os.MkdirAll(jp.dir(), 0755); err != nil {
		return err
	}
	return nil
}

func (jp *JsonPersistence) Close() error {
	// JSON implementation doesn't need to clean up
	return nil
}

func (jp *JsonPersistence) dir() string {
	return filepath.Join(jp.dataDir, "definitions")
}

// safeSnapshotName encodes snapshot names for safe filesystem usage
func safeSnapshotName(name string) string {
	return url.PathEscape(name)
}

func (jp *JsonPersistence) file(name string) string {
	return filepath.Join(jp.dir(), safeSnapshotName(name)+snapshotExt)
}

// SaveDefinitions persists a definitions document to a JSON file
func (jp *JsonPersistence) SaveDefinitions(name, broker string, defs models.Definitions) error {
	if name == "" {
		return fmt.Errorf("snapshot name is required")
	}
	if defs == nil {
		defs = models.Definitions{}
	}
	raw, err := json.Marshal(defs)
	if err != nil {
		return err
	}

	snapshot := persistence.Snapshot{
		Name:        name,
		Broker:      broker,
		CreatedAt:   time.Now().UTC(),
		Definitions: raw,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(jp.dir(), 0755); err != nil {
		return err
	}
	return os.WriteFile(jp.file(name), data, 0644)
}

// LoadDefinitions loads the definitions document of a snapshot
func (jp *JsonPersistence) LoadDefinitions(name string) (models.Definitions, error) {
	snapshot, err := jp.load(jp.file(name))
	if err != nil {
		return nil, err
	}
	return models.DecodeDefinitions(snapshot.Definitions)
}

func (jp *JsonPersistence) load(file string) (persistence.Snapshot, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return persistence.Snapshot{}, persistence.ErrSnapshotNotFound
		}
		return persistence.Snapshot{}, err
	}

	var snapshot persistence.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return persistence.Snapshot{}, fmt.Errorf("corrupt snapshot %s: %w", filepath.Base(file), err)
	}
	return snapshot, nil
}

// ListSnapshots returns every readable snapshot, oldest first
func (jp *JsonPersistence) ListSnapshots() ([]persistence.SnapshotInfo, error) {
	entries, err := os.ReadDir(jp.dir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []persistence.SnapshotInfo{}, nil
		}
		return nil, err
	}

	snapshots := make([]persistence.SnapshotInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), snapshotExt) {
			continue
		}
		file := filepath.Join(jp.dir(), entry.Name())
		snapshot, err := jp.load(file)
		if err != nil {
			// skip files we cannot parse
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		snapshots = append(snapshots, persistence.SnapshotInfo{
			Name:      snapshot.Name,
			Broker:    snapshot.Broker,
			CreatedAt: snapshot.CreatedAt,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		if snapshots[i].CreatedAt.Equal(snapshots[j].CreatedAt) {
			return snapshots[i].Name < snapshots[j].Name
		}
		return snapshots[i].CreatedAt.Before(snapshots[j].CreatedAt)
	})
	return snapshots, nil
}

// DeleteSnapshot removes a single snapshot JSON file
func (jp *JsonPersistence) DeleteSnapshot(name string) error {
	if err := os.Remove(jp.file(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return persistence.ErrSnapshotNotFound
		}
		return err
	}
	return nil
}
