// Package journal persists the user's plan inputs. Only inputs are stored;
// projected series are always recomputed.
package journal

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rustyeddy/nestegg/plan"
)

// Store saves and loads the single current plan input. Save replaces what was
// there before; Load returns what the last successful Save wrote.
type Store interface {
	Save(ctx context.Context, in plan.SimulationInput) error
	Load(ctx context.Context) (plan.SimulationInput, error)
	Close() error
}

// ErrNoData is returned by Load when nothing has been saved yet.
var ErrNoData = plan.PersistenceFailure("no saved data found", nil)

// IsNoData reports whether err is ErrNoData itself. errors.Is would also
// match every other PERSISTENCE_FAILURE.
func IsNoData(err error) bool {
	var e *plan.Error
	return errors.As(err, &e) && e == ErrNoData
}

// Open returns the store described by kind and path. kind is "json", "yaml"
// or "sqlite"; an empty kind is taken from the path's extension.
func Open(kind, path string) (Store, error) {
	if kind == "" {
		kind = kindFromExt(path)
	}
	switch strings.ToLower(kind) {
	case "json", "yaml", "yml":
		return NewFileStore(path), nil
	case "sqlite", "sqlite3":
		return NewSQLiteStore(path)
	}
	return nil, fmt.Errorf("unknown store type %q", kind)
}

func kindFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

// Status is the outcome shape reported to callers of save and load.
type Status struct {
	Status  string `json:"status" yaml:"status"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// StatusOf maps the result of a store operation to a Status.
func StatusOf(err error) Status {
	if err == nil {
		return Status{Status: StatusSuccess, Message: "Data saved successfully"}
	}
	var pe *plan.Error
	if errors.As(err, &pe) && pe.Code == plan.CodePersistenceFailure && pe.Cause == nil {
		return Status{Status: StatusError, Message: capitalize(pe.Message)}
	}
	return Status{Status: StatusError, Message: err.Error()}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
