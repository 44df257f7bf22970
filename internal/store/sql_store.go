package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

type Credentials struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// SQLStore implements Store over database/sql. Both dialects accept $n
// placeholders and RETURNING.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewPostgresStore(cred *Credentials) (*SQLStore, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	return &SQLStore{db: db, dialect: DialectPostgres}, nil
}

func NewSQLiteStore(dbPath string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLStore{db: db, dialect: DialectSQLite}, nil
}

// RunMigrations applies the dialect's migrations found under
// migrationsRoot/<dialect>.
func (s *SQLStore) RunMigrations(migrationsRoot string) error {
	var (
		driver database.Driver
		err    error
	)
	switch s.dialect {
	case DialectPostgres:
		driver, err = postgres.WithInstance(s.db, &postgres.Config{})
	case DialectSQLite:
		driver, err = sqlite.WithInstance(s.db, &sqlite.Config{})
	default:
		return fmt.Errorf("unsupported dialect %q", s.dialect)
	}
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", filepath.ToSlash(filepath.Join(migrationsRoot, string(s.dialect)))),
		string(s.dialect),
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func sortedColumns(r Row) []string {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func (s *SQLStore) Insert(ctx context.Context, entity string, rows ...Row) ([]Row, error) {
	if err := checkEntity(entity); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInsert
	}
	if err := checkColumns(rows[0]); err != nil {
		return nil, err
	}

	cols := sortedColumns(rows[0])
	args := make([]any, 0, len(cols)*len(rows))
	tuples := make([]string, 0, len(rows))
	for _, r := range rows {
		if len(r) != len(cols) {
			return nil, fmt.Errorf("%w: rows in one insert must share columns", ErrInvalidColumn)
		}
		marks := make([]string, len(cols))
		for i, c := range cols {
			v, ok := r[c]
			if !ok {
				return nil, fmt.Errorf("%w: rows in one insert must share columns", ErrInvalidColumn)
			}
			args = append(args, v)
			marks[i] = fmt.Sprintf("$%d", len(args))
		}
		tuples = append(tuples, "("+strings.Join(marks, ", ")+")")
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s RETURNING *",
		entity, strings.Join(cols, ", "), strings.Join(tuples, ", "))

	result, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", entity, err)
	}
	return result, nil
}

func whereClause(filter Filter, args []any) (string, []any) {
	if len(filter) == 0 {
		return "", args
	}
	cols := make([]string, 0, len(filter))
	for c := range filter {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	conds := make([]string, len(cols))
	for i, c := range cols {
		args = append(args, filter[c])
		conds[i] = fmt.Sprintf("%s = $%d", c, len(args))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *SQLStore) Select(ctx context.Context, entity string, filter Filter, orders ...Order) ([]Row, error) {
	if err := checkEntity(entity); err != nil {
		return nil, err
	}
	if err := checkColumns(filter); err != nil {
		return nil, err
	}
	if err := checkOrders(orders); err != nil {
		return nil, err
	}

	where, args := whereClause(filter, nil)
	query := "SELECT * FROM " + entity + where
	if len(orders) > 0 {
		parts := make([]string, len(orders))
		for i, o := range orders {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts[i] = o.Column + " " + dir
		}
		query += " ORDER BY " + strings.Join(parts, ", ")
	}

	result, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", entity, err)
	}
	return result, nil
}

func (s *SQLStore) Update(ctx context.Context, entity string, filter Filter, patch Row) (int64, error) {
	if err := checkEntity(entity); err != nil {
		return 0, err
	}
	if err := checkColumns(filter); err != nil {
		return 0, err
	}
	if err := checkColumns(patch); err != nil {
		return 0, err
	}
	if len(patch) == 0 {
		return 0, nil
	}

	cols := sortedColumns(patch)
	args := make([]any, 0, len(patch)+len(filter))
	sets := make([]string, len(cols))
	for i, c := range cols {
		args = append(args, patch[c])
		sets[i] = fmt.Sprintf("%s = $%d", c, len(args))
	}
	where, args := whereClause(filter, args)

	res, err := s.db.ExecContext(ctx, "UPDATE "+entity+" SET "+strings.Join(sets, ", ")+where, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", entity, s.classify(err))
	}
	return res.RowsAffected()
}

func (s *SQLStore) Delete(ctx context.Context, entity string, filter Filter) (int64, error) {
	if err := checkEntity(entity); err != nil {
		return 0, err
	}
	if err := checkColumns(filter); err != nil {
		return 0, err
	}

	where, args := whereClause(filter, nil)
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+entity+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", entity, s.classify(err))
	}
	return res.RowsAffected()
}

func (s *SQLStore) query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.classify(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			row[c] = normalize(values[i])
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, s.classify(err)
	}
	return result, nil
}

// classify maps driver errors onto store errors. Constraint messages are kept
// so callers can tell the reason apart.
func (s *SQLStore) classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrConflict, pqErr.Message)
		case "23502", "23503", "23514", "P0001":
			return fmt.Errorf("%w: %s", ErrConstraint, pqErr.Message)
		}
		return err
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	case strings.Contains(msg, "insufficient stock"),
		strings.Contains(msg, "constraint failed"):
		return fmt.Errorf("%w: %s", ErrConstraint, msg)
	}
	return err
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
