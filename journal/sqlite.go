package journal

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/nestegg/pkg/id"
	"github.com/rustyeddy/nestegg/plan"
)

// SQLiteStore keeps every saved input as a revision. Load returns the latest.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// Revision describes one saved input.
type Revision struct {
	ID      string    `json:"id" yaml:"id"`
	SavedAt time.Time `json:"saved_at" yaml:"saved_at"`
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, plan.PersistenceFailure("open "+path, err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, plan.PersistenceFailure("create schema", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Save records in as a new revision after assigning ids to new entities.
func (s *SQLiteStore) Save(ctx context.Context, in plan.SimulationInput) error {
	_, err := s.SaveRevision(ctx, in)
	return err
}

// SaveRevision is Save that also reports the revision it wrote.
func (s *SQLiteStore) SaveRevision(ctx context.Context, in plan.SimulationInput) (Revision, error) {
	payload, err := json.Marshal(plan.WithIDs(in))
	if err != nil {
		return Revision{}, plan.PersistenceFailure("encode input", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.now().UTC()
	rev := Revision{ID: id.NewAt(at), SavedAt: at}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO inputs (id, saved_at, payload)
		VALUES (?, ?, ?)`,
		rev.ID, rev.SavedAt, string(payload),
	)
	if err != nil {
		return Revision{}, plan.PersistenceFailure("insert revision", err)
	}
	return rev, nil
}

// Load returns the most recently saved input, or ErrNoData.
func (s *SQLiteStore) Load(ctx context.Context) (plan.SimulationInput, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT payload FROM inputs
		ORDER BY id DESC
		LIMIT 1`)
	in, err := scanInput(row)
	if errors.Is(err, sql.ErrNoRows) {
		return plan.SimulationInput{}, ErrNoData
	}
	return in, err
}

// LoadRevision returns the input saved as revision id.
func (s *SQLiteStore) LoadRevision(ctx context.Context, revID string) (plan.SimulationInput, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM inputs WHERE id = ?`, revID)
	in, err := scanInput(row)
	if errors.Is(err, sql.ErrNoRows) {
		return plan.SimulationInput{}, plan.NotFound("revision %q not found", revID)
	}
	return in, err
}

// List returns every revision, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, saved_at FROM inputs
		ORDER BY id DESC`)
	if err != nil {
		return nil, plan.PersistenceFailure("list revisions", err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var r Revision
		if err := rows.Scan(&r.ID, &r.SavedAt); err != nil {
			return nil, plan.PersistenceFailure("scan revision", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, plan.PersistenceFailure("list revisions", err)
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanInput(row *sql.Row) (plan.SimulationInput, error) {
	var (
		in      plan.SimulationInput
		payload string
	)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return in, err
		}
		return in, plan.PersistenceFailure("read revision", err)
	}
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		return plan.SimulationInput{}, plan.PersistenceFailure("decode revision", err)
	}
	return in, nil
}
