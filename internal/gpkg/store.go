package gpkg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"sirsphoto/internal/table"
)

// ErrLayerNotFound is returned when the requested layer is not registered.
var ErrLayerNotFound = errors.New("layer not found")

// Store wraps a GeoPackage database.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Open connects to an existing GeoPackage file.
func Open(path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat geopackage: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("geopackage path is a directory: %s", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open geopackage: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragma busy_timeout: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the GeoPackage file path.
func (s *Store) Path() string {
	return s.path
}

// Layers lists the feature and attribute layers in gpkg_contents order.
func (s *Store) Layers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT table_name FROM gpkg_contents WHERE data_type IN ('features', 'attributes') ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("list layers: %w", err)
	}
	defer rows.Close()

	var layers []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan layer: %w", err)
		}
		layers = append(layers, name)
	}
	return layers, rows.Err()
}

// ResolveLayer returns name when it is a registered layer, or the only
// layer of the file when name is empty.
func (s *Store) ResolveLayer(ctx context.Context, name string) (string, error) {
	layers, err := s.Layers(ctx)
	if err != nil {
		return "", err
	}
	if name == "" {
		switch len(layers) {
		case 0:
			return "", fmt.Errorf("%w: %s has no layers", ErrLayerNotFound, s.path)
		case 1:
			return layers[0], nil
		default:
			return "", fmt.Errorf("%s has several layers (%s); set paths.gpkg_layer", s.path, strings.Join(layers, ", "))
		}
	}
	for _, l := range layers {
		if l == name {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrLayerNotFound, name, s.path)
}

type layerSchema struct {
	key     string
	columns []string
}

func (s *Store) schema(ctx context.Context, layer string) (layerSchema, error) {
	geometry := make(map[string]struct{})
	geomRows, err := s.db.QueryContext(ctx, `SELECT column_name FROM gpkg_geometry_columns WHERE table_name = ?`, layer)
	if err != nil {
		return layerSchema{}, fmt.Errorf("read geometry columns: %w", err)
	}
	for geomRows.Next() {
		var col string
		if err := geomRows.Scan(&col); err != nil {
			geomRows.Close()
			return layerSchema{}, fmt.Errorf("scan geometry column: %w", err)
		}
		geometry[col] = struct{}{}
	}
	geomRows.Close()

	rows, err := s.db.QueryContext(ctx, "PRAGMA table_info("+quoteIdent(layer)+")")
	if err != nil {
		return layerSchema{}, fmt.Errorf("read layer schema: %w", err)
	}
	defer rows.Close()

	sch := layerSchema{key: "rowid"}
	for rows.Next() {
		var (
			cid      int
			name     string
			declType string
			notNull  int
			dflt     sql.NullString
			pk       int
		)
		if err := rows.Scan(&cid, &name, &declType, &notNull, &dflt, &pk); err != nil {
			return layerSchema{}, fmt.Errorf("scan layer schema: %w", err)
		}
		if pk == 1 && strings.EqualFold(declType, "INTEGER") {
			sch.key = name
			continue
		}
		if _, isGeom := geometry[name]; isGeom {
			continue
		}
		sch.columns = append(sch.columns, name)
	}
	if err := rows.Err(); err != nil {
		return layerSchema{}, err
	}
	if len(sch.columns) == 0 {
		return layerSchema{}, fmt.Errorf("%w: %s has no attribute columns", ErrLayerNotFound, layer)
	}
	return sch, nil
}

// Load reads the attribute columns of layer. The integer primary key (or
// the SQLite rowid) becomes the row id.
func (s *Store) Load(ctx context.Context, layer string) (*table.Table, error) {
	sch, err := s.schema(ctx, layer)
	if err != nil {
		return nil, err
	}
	tbl, err := table.New(sch.columns...)
	if err != nil {
		return nil, err
	}

	selectCols := make([]string, 0, len(sch.columns)+1)
	selectCols = append(selectCols, quoteIdent(sch.key))
	for _, c := range sch.columns {
		selectCols = append(selectCols, quoteIdent(c))
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(selectCols, ", "), quoteIdent(layer), quoteIdent(sch.key))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read layer %s: %w", layer, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		raw := make([]any, len(sch.columns))
		dest := make([]any, 0, len(raw)+1)
		dest = append(dest, &id)
		for i := range raw {
			dest = append(dest, &raw[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan layer %s: %w", layer, err)
		}
		values := make(map[string]table.Value, len(raw))
		for i, c := range sch.columns {
			values[c] = toValue(raw[i])
		}
		if _, err := tbl.Append(id, values); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read layer %s: %w", layer, err)
	}
	return tbl, nil
}

// WriteColumns stores the given columns of every table row in one
// transaction and returns the number of updated rows.
func (s *Store) WriteColumns(ctx context.Context, layer string, tbl *table.Table, columns []string) (int, error) {
	if len(columns) == 0 || tbl.Len() == 0 {
		return 0, nil
	}
	sch, err := s.schema(ctx, layer)
	if err != nil {
		return 0, err
	}
	known := make(map[string]struct{}, len(sch.columns))
	for _, c := range sch.columns {
		known[c] = struct{}{}
	}
	assignments := make([]string, len(columns))
	for i, c := range columns {
		if _, ok := known[c]; !ok {
			return 0, fmt.Errorf("%w: %s", table.ErrUnknownColumn, c)
		}
		assignments[i] = quoteIdent(c) + " = ?"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		quoteIdent(layer), strings.Join(assignments, ", "), quoteIdent(sch.key))

	var updated int
	err = retryOnBusy(ctx, func() error {
		updated = 0
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, row := range tbl.Rows() {
			args := make([]any, 0, len(columns)+1)
			for _, c := range columns {
				args = append(args, fromValue(tbl.Get(row, c)))
			}
			args = append(args, row.ID)
			res, err := stmt.ExecContext(ctx, args...)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err == nil {
				updated += int(n)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, fmt.Errorf("write layer %s: %w", layer, err)
	}
	return updated, nil
}

func toValue(v any) table.Value {
	switch x := v.(type) {
	case nil:
		return table.Null()
	case string:
		return table.Text(x)
	case []byte:
		return table.Text(string(x))
	case int64:
		return table.Text(strconv.FormatInt(x, 10))
	case float64:
		return table.Text(strconv.FormatFloat(x, 'f', -1, 64))
	case bool:
		return table.Text(strconv.FormatBool(x))
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return table.Text(x.Format("2006-01-02"))
		}
		return table.Text(x.Format(time.RFC3339))
	default:
		return table.Text(fmt.Sprint(x))
	}
}

func fromValue(v table.Value) any {
	if !v.Valid {
		return nil
	}
	return v.Text
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
