package tracing

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/sarchlab/cachesim/simulation"
	"github.com/tebeka/atexit"
)

// SQLiteTracer is an access tracer that writes every access to a SQLite
// database.
type SQLiteTracer struct {
	*sql.DB
	statement *sql.Stmt

	dbName    string
	pending   []simulation.AccessResult
	batchSize int
}

// NewSQLiteTracer creates a new SQLiteTracer. The database file is
// path+".sqlite3"; an empty path picks a unique name.
func NewSQLiteTracer(path string) *SQLiteTracer {
	return &SQLiteTracer{
		dbName:    path,
		batchSize: 100000,
	}
}

// FileName returns the database file name.
func (t *SQLiteTracer) FileName() string {
	return t.dbName + ".sqlite3"
}

// Init creates the database and the access table.
func (t *SQLiteTracer) Init() error {
	if t.dbName == "" {
		t.dbName = "cachesim_trace_" + xid.New().String()
	}

	filename := t.FileName()
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return err
	}

	t.DB = db

	if err := t.createTable(); err != nil {
		return t.abortInit(err)
	}

	stmt, err := t.Prepare(`INSERT INTO access VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return t.abortInit(err)
	}

	t.statement = stmt

	atexit.Register(func() { _ = t.Flush() })

	return nil
}

// abortInit releases the database opened by a failed Init.
func (t *SQLiteTracer) abortInit(err error) error {
	if closeErr := t.DB.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}

	t.DB = nil

	return err
}

func (t *SQLiteTracer) createTable() error {
	_, err := t.Exec(`
		create table access
		(
			seq         integer not null,
			kind        varchar(1) not null,
			address     varchar(18) not null,
			set_id      integer not null,
			way_id      integer not null,
			tag         varchar(18) not null,
			hit         integer not null,
			evicted     integer not null,
			evicted_tag varchar(18) not null
		);
	`)
	if err != nil {
		return err
	}

	_, err = t.Exec(`create index access_set_id_index on access (set_id);`)

	return err
}

// Func buffers accesses and flushes at the end of a run.
func (t *SQLiteTracer) Func(ctx simulation.HookCtx) {
	if ctx.Pos == simulation.HookPosRunEnd {
		t.mustFlush()
		return
	}

	r, ok := accessFromCtx(ctx)
	if !ok {
		return
	}

	t.pending = append(t.pending, r)
	if len(t.pending) >= t.batchSize {
		t.mustFlush()
	}
}

func (t *SQLiteTracer) mustFlush() {
	if err := t.Flush(); err != nil {
		panic(err)
	}
}

// Flush writes all the buffered accesses to the database in one transaction.
func (t *SQLiteTracer) Flush() error {
	if len(t.pending) == 0 || t.DB == nil {
		return nil
	}

	tx, err := t.Begin()
	if err != nil {
		return err
	}

	stmt := tx.Stmt(t.statement)
	for _, r := range t.pending {
		_, err := stmt.Exec(
			r.Seq,
			r.Entry.Kind.String(),
			hex(r.Entry.Address),
			r.SetID,
			r.WayID,
			hex(r.Tag),
			boolToInt(r.Hit),
			boolToInt(r.Evicted),
			hex(r.EvictedTag),
		)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	t.pending = nil

	return nil
}

// Close flushes the buffered accesses and closes the database.
func (t *SQLiteTracer) Close() error {
	if t.DB == nil {
		return nil
	}

	if err := t.Flush(); err != nil {
		return err
	}

	err := t.DB.Close()
	t.DB = nil

	return err
}
