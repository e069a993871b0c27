package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the content tree in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS nodes (
    id INTEGER PRIMARY KEY,
    parent_id INTEGER NOT NULL DEFAULT 0,
    sort_order INTEGER NOT NULL DEFAULT 0,
    name TEXT NOT NULL,
    doc_type TEXT NOT NULL,
    url_segment TEXT NOT NULL DEFAULT '',
    culture_segments TEXT NOT NULL DEFAULT '{}'
);
CREATE TABLE IF NOT EXISTS properties (
    node_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    alias TEXT NOT NULL,
    editor_alias TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (node_id, alias)
);
CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id);
`)
	return err
}

// ContentAtRoot loads every node, links the tree and returns the top-level nodes.
func (s *SQLiteStore) ContentAtRoot(ctx context.Context) ([]*Node, error) {
	nodes, err := s.loadNodes(ctx, `SELECT id, parent_id, sort_order, name, doc_type, url_segment, culture_segments FROM nodes`)
	if err != nil {
		return nil, err
	}
	return BuildTree(nodes), nil
}

// GetByID returns a single node with its properties. Children are not loaded.
func (s *SQLiteStore) GetByID(ctx context.Context, id int) (*Node, error) {
	nodes, err := s.loadNodes(ctx, `SELECT id, parent_id, sort_order, name, doc_type, url_segment, culture_segments FROM nodes WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nodes[0], nil
}

func (s *SQLiteStore) loadNodes(ctx context.Context, query string, args ...any) ([]*Node, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []*Node
	byID := make(map[int]*Node)
	for rows.Next() {
		var n Node
		var cultures string
		if err := rows.Scan(&n.ID, &n.ParentID, &n.SortOrder, &n.Name, &n.DocType, &n.URLSegment, &cultures); err != nil {
			return nil, err
		}
		if cultures != "" && cultures != "{}" {
			if err := json.Unmarshal([]byte(cultures), &n.CultureSegments); err != nil {
				return nil, fmt.Errorf("content: node %d culture segments: %w", n.ID, err)
			}
		}
		nodes = append(nodes, &n)
		byID[n.ID] = &n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	propQuery := `SELECT node_id, alias, editor_alias, value FROM properties ORDER BY node_id, position`
	var propArgs []any
	if len(nodes) == 1 {
		propQuery = `SELECT node_id, alias, editor_alias, value FROM properties WHERE node_id = ? ORDER BY position`
		propArgs = append(propArgs, nodes[0].ID)
	}
	prows, err := s.db.QueryContext(ctx, propQuery, propArgs...)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var nodeID int
		var p Property
		var raw string
		if err := prows.Scan(&nodeID, &p.Alias, &p.EditorAlias, &raw); err != nil {
			return nil, err
		}
		n, ok := byID[nodeID]
		if !ok {
			continue
		}
		p.Value, err = DecodeValue(p.Kind(), raw)
		if err != nil {
			return nil, fmt.Errorf("content: node %d property %q: %w", nodeID, p.Alias, err)
		}
		n.Properties = append(n.Properties, p)
	}
	return nodes, prows.Err()
}

// SaveNode upserts a node and replaces its properties.
func (s *SQLiteStore) SaveNode(ctx context.Context, n *Node) error {
	if n == nil || n.ID <= 0 {
		return errors.New("content: invalid node id")
	}
	cultures := []byte("{}")
	if len(n.CultureSegments) > 0 {
		var err error
		if cultures, err = json.Marshal(n.CultureSegments); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO nodes (id, parent_id, sort_order, name, doc_type, url_segment, culture_segments)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET parent_id = excluded.parent_id, sort_order = excluded.sort_order, name = excluded.name,
    doc_type = excluded.doc_type, url_segment = excluded.url_segment, culture_segments = excluded.culture_segments`,
		n.ID, n.ParentID, n.SortOrder, n.Name, n.DocType, n.URLSegment, string(cultures)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM properties WHERE node_id = ?`, n.ID); err != nil {
		return err
	}
	for i, p := range n.Properties {
		raw, err := json.Marshal(p.Value)
		if err != nil {
			return fmt.Errorf("content: encode property %q: %w", p.Alias, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO properties (node_id, position, alias, editor_alias, value) VALUES (?, ?, ?, ?, ?)`,
			n.ID, i, p.Alias, p.EditorAlias, string(raw)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteNode removes a node and its properties.
func (s *SQLiteStore) DeleteNode(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM properties WHERE node_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// DecodeValue turns a stored JSON value into the Go type its editor produces.
func DecodeValue(kind EditorKind, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	switch raw[0] {
	case '{':
		var img Image
		err := json.Unmarshal([]byte(raw), &img)
		return img, err
	case '[':
		if kind == EditorMediaPicker {
			var imgs []Image
			err := json.Unmarshal([]byte(raw), &imgs)
			return imgs, err
		}
		var vals []string
		err := json.Unmarshal([]byte(raw), &vals)
		return vals, err
	default:
		var str string
		if err := json.Unmarshal([]byte(raw), &str); err != nil {
			// numbers and booleans are kept in their text form
			return raw, nil
		}
		return str, nil
	}
}
