// Package duck keeps dissected captures and filter history in duckdb.
package duck

import (
	"context"
	"database/sql"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/pkg/errors"

	nt "dfilter/entity"
)

// Duck is a duckdb backed record store.
// Records are kept field by field so order and mixed value types survive a round trip.
type Duck struct {
	db     *sql.DB
	path   string
	logger nt.Logger
}

// New opens duckdb at path, in memory when path is empty.
func New(path string, lgr nt.Logger) (dk *Duck, err error) {

	db, err := sql.Open("duckdb", path)
	if err != nil {
		err = errors.Wrapf(err, "failed to open duck at %q", path)
		return
	}

	dk = &Duck{
		db:     db,
		path:   path,
		logger: lgr,
	}

	err = dk.createTables()
	if err != nil {
		db.Close()
		dk = nil
	}
	return
}

func (dk *Duck) Close() {
	dk.db.Close()
}

// Name returns the database path.
func (dk *Duck) Name() string {
	if dk.path == "" {
		return "memory"
	}
	return dk.path
}

// Ingest stores records under name, replacing any earlier copy.
func (dk *Duck) Ingest(ctx context.Context, name string, records []nt.Record) (err error) {

	tx, err := dk.db.BeginTx(ctx, nil)
	if err != nil {
		err = errors.Wrapf(err, "failed to begin ingest")
		return
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, "DELETE FROM fields WHERE capture = ?", name)
	if err != nil {
		err = errors.Wrapf(err, "failed to delete previous %s", name)
		return
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO fields VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		err = errors.Wrapf(err, "failed to prepare insert")
		return
	}
	defer stmt.Close()

	for id, rec := range records {
		for pos, fld := range rec.Fields() {
			str, num := split(fld.Value)
			_, err = stmt.ExecContext(ctx, name, id, pos, fld.Name, str, num)
			if err != nil {
				err = errors.Wrapf(err, "failed to insert record %d", id)
				return
			}
		}
	}

	err = tx.Commit()
	if err != nil {
		err = errors.Wrapf(err, "failed to commit ingest")
		return
	}

	dk.logger.Info(ctx, "ingested capture", "name", name, "records", len(records))
	return
}

// Records returns the records stored under name, ok is false when there are none.
func (dk *Duck) Records(ctx context.Context, name string) (records []nt.Record, ok bool, err error) {

	rows, err := dk.db.QueryContext(ctx, `
		SELECT id, name, str, num
		FROM fields
		WHERE capture = ?
		ORDER BY id, pos
	`, name)
	if err != nil {
		err = errors.Wrapf(err, "failed to query records")
		return
	}
	defer rows.Close()

	var fields []nt.Field
	last := int64(-1)
	for rows.Next() {
		var (
			id    int64
			field string
			str   sql.NullString
			num   sql.NullFloat64
		)
		err = rows.Scan(&id, &field, &str, &num)
		if err != nil {
			err = errors.Wrapf(err, "failed to scan field")
			return
		}

		if id != last && last >= 0 {
			records = append(records, nt.NewRecord(fields...))
			fields = nil
		}
		last = id
		fields = append(fields, nt.Field{Name: field, Value: join(str, num)})
	}
	if last >= 0 {
		records = append(records, nt.NewRecord(fields...))
	}

	err = rows.Err()
	if err != nil {
		err = errors.Wrapf(err, "error iterating rows")
		return
	}

	ok = len(records) > 0
	return
}

// Count returns the number of records stored under name.
func (dk *Duck) Count(ctx context.Context, name string) (count int, err error) {

	err = dk.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT id) FROM fields WHERE capture = ?", name).Scan(&count)
	err = errors.Wrapf(err, "failed to count records")
	return
}

// unexported

func (dk *Duck) createTables() (err error) {

	_, err = dk.db.Exec(`
		CREATE TABLE IF NOT EXISTS fields (
			capture VARCHAR NOT NULL,
			id BIGINT NOT NULL,
			pos INTEGER NOT NULL,
			name VARCHAR NOT NULL,
			str VARCHAR,
			num DOUBLE
		)
	`)
	if err != nil {
		err = errors.Wrapf(err, "failed to create fields table")
		return
	}

	_, err = dk.db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key VARCHAR PRIMARY KEY,
			value VARCHAR NOT NULL
		)
	`)
	err = errors.Wrapf(err, "failed to create kv table")
	return
}

// split stores numbers in num and everything else as text.
func split(val nt.Value) (str, num any) {

	if val.IsNumber() {
		flt, err := val.Float()
		if err == nil {
			return nil, flt
		}
	}
	if val.Raw == nil {
		return nil, nil
	}
	return val.String(), nil
}

func join(str sql.NullString, num sql.NullFloat64) nt.Value {

	switch {
	case num.Valid:
		return nt.Num(num.Float64)
	case str.Valid:
		return nt.Str(str.String)
	}
	return nt.Value{}
}
