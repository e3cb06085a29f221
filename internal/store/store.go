// Package store persists element property values in SQLite so a live
// document can be restored after a restart.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/dom"
	"github.com/vango-dev/reactive/pkg/element"
)

const schema = `
CREATE TABLE IF NOT EXISTS props (
	element_id TEXT NOT NULL,
	name       TEXT NOT NULL,
	value_json TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (element_id, name)
)`

// Store is a SQLite-backed property store. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.New("E150").WithDetailf("open %s", path).Wrap(err)
	}
	// A second connection to ":memory:" would see a different database.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, errors.New("E150").WithDetail(pragma).Wrap(err)
		}
	}

	s := New(db, opts...)
	if err := s.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database. Call Init before use.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init creates the props table if needed.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.New("E150").WithDetail("create schema").Wrap(err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores one property value, replacing any earlier value.
func (s *Store) Save(ctx context.Context, elementID, name string, value any) error {
	data, err := json.Marshal(encodable(value))
	if err != nil {
		return errors.New("E150").WithDetailf("encode %s.%s", elementID, name).Wrap(err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO props (element_id, name, value_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (element_id, name) DO UPDATE SET
			value_json = excluded.value_json,
			updated_at = excluded.updated_at`,
		elementID, name, string(data), time.Now().UnixMilli())
	if err != nil {
		return errors.New("E150").WithDetailf("save %s.%s", elementID, name).Wrap(err)
	}
	return nil
}

// Load returns the stored values of one element. Numbers come back as
// float64.
func (s *Store) Load(ctx context.Context, elementID string) (map[string]any, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, value_json FROM props WHERE element_id = ? ORDER BY name`, elementID)
	if err != nil {
		return nil, errors.New("E150").WithDetailf("load %s", elementID).Wrap(err)
	}
	defer rows.Close()

	out := make(map[string]any)
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, errors.New("E150").Wrap(err)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, errors.New("E150").WithDetailf("decode %s.%s", elementID, name).Wrap(err)
		}
		out[name] = v
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New("E150").Wrap(err)
	}
	return out, nil
}

// IDs returns the element IDs that have stored values, sorted.
func (s *Store) IDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT element_id FROM props ORDER BY element_id`)
	if err != nil {
		return nil, errors.New("E150").Wrap(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.New("E150").Wrap(err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes every stored value of one element.
func (s *Store) Delete(ctx context.Context, elementID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM props WHERE element_id = ?`, elementID); err != nil {
		return errors.New("E150").WithDetailf("delete %s", elementID).Wrap(err)
	}
	return nil
}

// Restore writes stored values into doc as attributes of the elements with
// matching ids, so property initialisation picks them up. Call it before
// doc.Upgrade. Values for undeclared properties or unknown elements are
// skipped. It returns the number of attributes written or removed.
func (s *Store) Restore(ctx context.Context, doc *dom.Document, reg *element.Registry) (int, error) {
	ids, err := s.IDs(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, id := range ids {
		n := doc.GetElementByID(id)
		if n == nil {
			s.logger.Debug("store: no element for stored id", "id", id)
			continue
		}
		def, ok := reg.Lookup(n.Data)
		if !ok {
			continue
		}
		values, err := s.Load(ctx, id)
		if err != nil {
			return restored, err
		}
		for _, p := range def.Props {
			v, ok := values[p.Name]
			if !ok {
				continue
			}
			if attr, ok := element.Serialize(p.Type, element.Cast(p.Type, v)); ok {
				doc.SetAttribute(n, p.Attr(), attr)
			} else {
				doc.RemoveAttribute(n, p.Attr())
			}
			restored++
		}
	}
	s.logger.Info("store: restored properties", "elements", len(ids), "attributes", restored)
	return restored, nil
}

// Observer returns an element.Observer that saves every property change of
// elements that have an id. Failures are logged.
func (s *Store) Observer(ctx context.Context) element.Observer {
	return &saver{store: s, ctx: ctx}
}

type saver struct {
	element.NopObserver
	store *Store
	ctx   context.Context
}

func (o *saver) PropertyChanged(e *element.Element, name string, _, newValue any) {
	id := e.ID()
	if id == "" {
		return
	}
	if err := o.store.Save(o.ctx, id, name, newValue); err != nil {
		o.store.logger.Error("store: save failed", "id", id, "property", name, "error", err)
	}
}

// encodable replaces non-finite numbers, which JSON cannot carry, with the
// strings number coercion parses back.
func encodable(v any) any {
	f, ok := v.(float64)
	if !ok {
		return v
	}
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return v
}
