package store

import (
	"fmt"
	"path/filepath"

	"github.com/Makepad-fr/tada/internal/store/boltstore"
	"github.com/Makepad-fr/tada/internal/store/diskvstore"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/store/sqlitestore"
)

// Supported backends.
const (
	BackendJSON   = "json"
	BackendDiskv  = "diskv"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Backends lists every backend accepted by NewMedium.
var Backends = []string{BackendJSON, BackendDiskv, BackendBolt, BackendSQLite, BackendMemory}

// NewMedium opens the named backend under dir.
func NewMedium(backend, dir string) (Medium, error) {
	switch backend {
	case BackendJSON, "":
		return jsonstore.New(dir)
	case BackendDiskv:
		return diskvstore.New(filepath.Join(dir, "diskv"))
	case BackendBolt:
		return boltstore.New(filepath.Join(dir, "todos.db"))
	case BackendSQLite:
		return sqlitestore.New(filepath.Join(dir, "todos.sqlite"))
	case BackendMemory:
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", backend)
	}
}
