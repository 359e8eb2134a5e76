// Package sqlite persists canvas documents. One database holds any number
// of canvases; nodes, permanent edges and mini-pins hang off their canvas
// row by foreign key. Preview edges are refused at the API boundary.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goflowspace/linksnap/internal/domain"

	_ "modernc.org/sqlite"
)

// Repository is a canvas document store backed by SQLite.
type Repository struct {
	db *sql.DB
}

// New opens or creates the database at dbPath and migrates the schema.
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL for concurrent readers, busy timeout for the write-through path,
	// foreign keys for cascade deletes.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS canvases (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS nodes (
		canvas_id TEXT NOT NULL,
		id TEXT NOT NULL,
		type TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		position_x REAL NOT NULL DEFAULT 0,
		position_y REAL NOT NULL DEFAULT 0,
		width REAL NOT NULL DEFAULT 0,
		height REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (canvas_id, id),
		FOREIGN KEY (canvas_id) REFERENCES canvases(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS edges (
		canvas_id TEXT NOT NULL,
		id TEXT NOT NULL,
		source_id TEXT NOT NULL,
		target_id TEXT NOT NULL,
		source_handle TEXT,
		target_handle TEXT,
		style JSON NOT NULL DEFAULT '{}',
		PRIMARY KEY (canvas_id, id),
		FOREIGN KEY (canvas_id) REFERENCES canvases(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS mini_pins (
		canvas_id TEXT NOT NULL,
		layer_id TEXT NOT NULL,
		id TEXT NOT NULL,
		kind TEXT NOT NULL,
		ordinal INTEGER NOT NULL DEFAULT 0,
		connected INTEGER NOT NULL DEFAULT 0,
		connection_ids JSON NOT NULL DEFAULT '[]',
		PRIMARY KEY (canvas_id, layer_id, id),
		FOREIGN KEY (canvas_id) REFERENCES canvases(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(canvas_id, source_id);
	CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(canvas_id, target_id);
	CREATE INDEX IF NOT EXISTS idx_mini_pins_layer ON mini_pins(canvas_id, layer_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveCanvas replaces the stored document for c.ID in one transaction.
func (r *Repository) SaveCanvas(ctx context.Context, c *domain.Canvas) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO canvases (id, name, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = CURRENT_TIMESTAMP
	`, c.ID, c.Name); err != nil {
		return fmt.Errorf("failed to upsert canvas: %w", err)
	}

	for _, table := range []string{"mini_pins", "edges", "nodes"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE canvas_id = ?`, c.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	nodeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (canvas_id, id, type, label, position_x, position_y, width, height)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare node statement: %w", err)
	}
	defer nodeStmt.Close()

	for i := range c.Nodes {
		n := &c.Nodes[i]
		if _, err := nodeStmt.ExecContext(ctx, c.ID, n.ID, string(n.Type), n.Label,
			n.Position.X, n.Position.Y, n.Size.Width, n.Size.Height); err != nil {
			return fmt.Errorf("failed to insert node %s: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO edges (canvas_id, id, source_id, target_id, source_handle, target_handle, style)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge statement: %w", err)
	}
	defer edgeStmt.Close()

	for i := range c.Edges {
		e := &c.Edges[i]
		if e.IsPreview() {
			continue
		}
		style, err := json.Marshal(e.Style)
		if err != nil {
			return fmt.Errorf("failed to marshal style for %s: %w", e.ID, err)
		}
		if _, err := edgeStmt.ExecContext(ctx, c.ID, e.ID, e.Source, e.Target,
			nullString(e.SourceHandle), nullString(e.TargetHandle), style); err != nil {
			return fmt.Errorf("failed to insert edge %s: %w", e.ID, err)
		}
	}

	pinStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO mini_pins (canvas_id, layer_id, id, kind, ordinal, connected, connection_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare pin statement: %w", err)
	}
	defer pinStmt.Close()

	for layerID, pins := range c.Pins {
		for _, p := range append(append([]domain.MiniPin{}, pins.Starting...), pins.Ending...) {
			ids, err := json.Marshal(p.ConnectionIDs)
			if err != nil {
				return fmt.Errorf("failed to marshal connections for %s: %w", p.ID, err)
			}
			if _, err := pinStmt.ExecContext(ctx, c.ID, layerID, p.ID, string(p.Kind),
				p.Ordinal, p.Connected, ids); err != nil {
				return fmt.Errorf("failed to insert pin %s: %w", p.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadCanvas returns the stored document, or nil when the canvas does not
// exist.
func (r *Repository) LoadCanvas(ctx context.Context, id string) (*domain.Canvas, error) {
	c := &domain.Canvas{ID: id, Pins: make(map[string]domain.MiniPins)}

	err := r.db.QueryRowContext(ctx, `SELECT name FROM canvases WHERE id = ?`, id).Scan(&c.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query canvas: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, label, position_x, position_y, width, height
		FROM nodes WHERE canvas_id = ? ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n domain.Node
		var nodeType string
		if err := rows.Scan(&n.ID, &nodeType, &n.Label,
			&n.Position.X, &n.Position.Y, &n.Size.Width, &n.Size.Height); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		n.Type = domain.NodeType(nodeType)
		c.Nodes = append(c.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}

	edgeRows, err := r.db.QueryContext(ctx, `
		SELECT id, source_id, target_id, source_handle, target_handle, style
		FROM edges WHERE canvas_id = ? ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var e domain.Edge
		var srcHandle, tgtHandle sql.NullString
		var style []byte
		if err := edgeRows.Scan(&e.ID, &e.Source, &e.Target, &srcHandle, &tgtHandle, &style); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		e.SourceHandle = srcHandle.String
		e.TargetHandle = tgtHandle.String
		e.Kind = domain.EdgeKindPermanent
		if err := json.Unmarshal(style, &e.Style); err != nil {
			return nil, fmt.Errorf("failed to unmarshal style for %s: %w", e.ID, err)
		}
		c.Edges = append(c.Edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edges: %w", err)
	}

	pinRows, err := r.db.QueryContext(ctx, `
		SELECT layer_id, id, kind, ordinal, connected, connection_ids
		FROM mini_pins WHERE canvas_id = ? ORDER BY layer_id, kind, ordinal
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query pins: %w", err)
	}
	defer pinRows.Close()

	for pinRows.Next() {
		var layerID, kind string
		var p domain.MiniPin
		var ids []byte
		if err := pinRows.Scan(&layerID, &p.ID, &kind, &p.Ordinal, &p.Connected, &ids); err != nil {
			return nil, fmt.Errorf("failed to scan pin: %w", err)
		}
		p.Kind = domain.MiniPinKind(kind)
		if err := json.Unmarshal(ids, &p.ConnectionIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal connections for %s: %w", p.ID, err)
		}
		pins := c.Pins[layerID]
		if p.Kind == domain.MiniPinStarting {
			pins.Starting = append(pins.Starting, p)
		} else {
			pins.Ending = append(pins.Ending, p)
		}
		c.Pins[layerID] = pins
	}
	if err := pinRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pins: %w", err)
	}

	return c, nil
}

// CanvasInfo is a directory entry for a stored canvas.
type CanvasInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListCanvases returns the stored canvases sorted by id.
func (r *Repository) ListCanvases(ctx context.Context) ([]CanvasInfo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM canvases`)
	if err != nil {
		return nil, fmt.Errorf("failed to query canvases: %w", err)
	}
	defer rows.Close()

	var out []CanvasInfo
	for rows.Next() {
		var info CanvasInfo
		if err := rows.Scan(&info.ID, &info.Name); err != nil {
			return nil, fmt.Errorf("failed to scan canvas: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating canvases: %w", err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DeleteCanvas removes a canvas; nodes, edges and pins go with it.
func (r *Repository) DeleteCanvas(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM canvases WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete canvas: %w", err)
	}
	return nil
}

// SaveEdge upserts one permanent edge; the commit path writes through here.
func (r *Repository) SaveEdge(ctx context.Context, canvasID string, e *domain.Edge) error {
	if e.IsPreview() {
		return fmt.Errorf("preview edge %s cannot be persisted", e.ID)
	}
	style, err := json.Marshal(e.Style)
	if err != nil {
		return fmt.Errorf("failed to marshal style: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO edges (canvas_id, id, source_id, target_id, source_handle, target_handle, style)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(canvas_id, id) DO UPDATE SET
			source_id = excluded.source_id,
			target_id = excluded.target_id,
			source_handle = excluded.source_handle,
			target_handle = excluded.target_handle,
			style = excluded.style
	`, canvasID, e.ID, e.Source, e.Target, nullString(e.SourceHandle), nullString(e.TargetHandle), style)
	if err != nil {
		return fmt.Errorf("failed to upsert edge: %w", err)
	}
	return nil
}

// DeleteEdge removes one edge; the undo path writes through here.
func (r *Repository) DeleteEdge(ctx context.Context, canvasID, edgeID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM edges WHERE canvas_id = ? AND id = ?`, canvasID, edgeID); err != nil {
		return fmt.Errorf("failed to delete edge: %w", err)
	}
	return nil
}

// SavePositions updates node positions in one transaction.
func (r *Repository) SavePositions(ctx context.Context, canvasID string, positions map[string]domain.Point) error {
	if len(positions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE nodes SET position_x = ?, position_y = ? WHERE canvas_id = ? AND id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for id, pos := range positions {
		if _, err := stmt.ExecContext(ctx, pos.X, pos.Y, canvasID, id); err != nil {
			return fmt.Errorf("failed to update position for %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SavePins replaces one layer's pin rows.
func (r *Repository) SavePins(ctx context.Context, canvasID, layerID string, pins domain.MiniPins) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM mini_pins WHERE canvas_id = ? AND layer_id = ?`, canvasID, layerID); err != nil {
		return fmt.Errorf("failed to clear pins: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO mini_pins (canvas_id, layer_id, id, kind, ordinal, connected, connection_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range append(append([]domain.MiniPin{}, pins.Starting...), pins.Ending...) {
		ids, err := json.Marshal(p.ConnectionIDs)
		if err != nil {
			return fmt.Errorf("failed to marshal connections for %s: %w", p.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, canvasID, layerID, p.ID, string(p.Kind), p.Ordinal, p.Connected, ids); err != nil {
			return fmt.Errorf("failed to insert pin %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
