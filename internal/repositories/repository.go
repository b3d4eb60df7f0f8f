package repositories

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"schoolerp/internal/common"
	"schoolerp/internal/models"
	"schoolerp/internal/tenancy"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the query surface shared by *pgxpool.Pool, pgx.Tx and pgxmock.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Table describes where a record kind lives.
type Table struct {
	Name string
	// Scoped tables carry a tenant_id column that every statement filters on.
	Scoped bool
	// Filterable lists the columns a list query may match on.
	Filterable []string
}

// Repository is the single tenant-aware data access path for a record kind.
// Every single-row statement filters on id and, when a tenant is given, on
// tenant_id in the same statement.
type Repository[T any, PT models.RecordPtr[T]] struct {
	db    DB
	table Table
}

func NewRepository[T any, PT models.RecordPtr[T]](db DB, table Table) *Repository[T, PT] {
	return &Repository[T, PT]{db: db, table: table}
}

// WithDB returns a copy of the repository bound to db, typically a pgx.Tx.
func (r *Repository[T, PT]) WithDB(db DB) *Repository[T, PT] {
	return &Repository[T, PT]{db: db, table: r.table}
}

func (r *Repository[T, PT]) Table() Table { return r.table }

func (r *Repository[T, PT]) dataColumns() []string {
	cols := PT(new(T)).Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func (r *Repository[T, PT]) selectList() string {
	names := []string{"id"}
	if r.table.Scoped {
		names = append(names, "tenant_id")
	}
	names = append(names, r.dataColumns()...)
	names = append(names, "created_at", "updated_at")
	return strings.Join(names, ", ")
}

// Create inserts rec. The id is generated when unset; tenant_id is taken from
// the record, which the caller must already have set from the principal.
func (r *Repository[T, PT]) Create(ctx context.Context, rec PT) error {
	if rec.RecordID() == uuid.Nil {
		rec.SetRecordID(uuid.New())
	}

	names := []string{"id"}
	args := []any{rec.RecordID()}
	if r.table.Scoped {
		owned, ok := any(rec).(models.TenantOwned)
		if !ok {
			return fmt.Errorf("%s: record type %T has no tenant", r.table.Name, rec)
		}
		if owned.OwnerID() == uuid.Nil {
			return fmt.Errorf("%s: refusing insert without tenant", r.table.Name)
		}
		names = append(names, "tenant_id")
		args = append(args, owned.OwnerID())
	}
	for _, c := range rec.Columns() {
		names = append(names, c.Name)
		args = append(args, c.Value)
	}

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING created_at, updated_at`,
		r.table.Name, strings.Join(names, ", "), strings.Join(placeholders, ", "))

	var createdAt, updatedAt time.Time
	if err := r.db.QueryRow(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		if verr := constraintError(err); verr != nil {
			return verr
		}
		return fmt.Errorf("insert into %s: %w", r.table.Name, err)
	}
	rec.SetTimestamps(createdAt, updatedAt)
	return nil
}

// Find loads one record. tenantID nil means unrestricted and is only ever
// passed for super_admin; it is ignored for global tables.
func (r *Repository[T, PT]) Find(ctx context.Context, id uuid.UUID, tenantID *uuid.UUID) (*T, error) {
	where, args := r.identity(id, tenantID, 1)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, r.selectList(), r.table.Name, where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", r.table.Name, err)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s %s", common.ErrNotFound, r.table.Name, id)
		}
		return nil, fmt.Errorf("select from %s: %w", r.table.Name, err)
	}
	return rec, nil
}

// List returns the rows matching f. The tenant predicate comes from
// f.TenantID only, which the guard has already rewritten.
func (r *Repository[T, PT]) List(ctx context.Context, f tenancy.Filter) ([]*T, error) {
	var conds []string
	var args []any

	if r.table.Scoped && f.TenantID != nil {
		args = append(args, *f.TenantID)
		conds = append(conds, fmt.Sprintf("tenant_id = $%d", len(args)))
	}

	keys := make([]string, 0, len(f.Match))
	for k := range f.Match {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !slices.Contains(r.table.Filterable, k) {
			return nil, common.NewValidationError(k, "unsupported filter")
		}
		args = append(args, f.Match[k])
		conds = append(conds, fmt.Sprintf("%s = $%d", k, len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM %s`, r.selectList(), r.table.Name)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = common.DefaultPageLimit
	}
	args = append(args, limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table.Name, err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table.Name, err)
	}
	return recs, nil
}

// Update writes every data column of rec. No row matching both id and tenant
// yields ErrNotFound.
func (r *Repository[T, PT]) Update(ctx context.Context, rec PT, tenantID *uuid.UUID) error {
	var sets []string
	var args []any
	for _, c := range rec.Columns() {
		args = append(args, c.Value)
		sets = append(sets, fmt.Sprintf("%s = $%d", c.Name, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")

	where, idArgs := r.identity(rec.RecordID(), tenantID, len(args)+1)
	args = append(args, idArgs...)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s RETURNING created_at, updated_at`,
		r.table.Name, strings.Join(sets, ", "), where)

	var createdAt, updatedAt time.Time
	if err := r.db.QueryRow(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s %s", common.ErrNotFound, r.table.Name, rec.RecordID())
		}
		if verr := constraintError(err); verr != nil {
			return verr
		}
		return fmt.Errorf("update %s: %w", r.table.Name, err)
	}
	rec.SetTimestamps(createdAt, updatedAt)
	return nil
}

// Delete removes one row in a single statement carrying both predicates.
func (r *Repository[T, PT]) Delete(ctx context.Context, id uuid.UUID, tenantID *uuid.UUID) error {
	where, args := r.identity(id, tenantID, 1)
	tag, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s`, r.table.Name, where), args...)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", r.table.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", common.ErrNotFound, r.table.Name, id)
	}
	return nil
}

func (r *Repository[T, PT]) identity(id uuid.UUID, tenantID *uuid.UUID, first int) (string, []any) {
	if r.table.Scoped && tenantID != nil {
		return fmt.Sprintf("id = $%d AND tenant_id = $%d", first, first+1), []any{id, *tenantID}
	}
	return fmt.Sprintf("id = $%d", first), []any{id}
}

// constraintError turns unique and foreign key violations into validation
// errors keyed by the violated constraint. Other errors yield nil.
func constraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case "23505":
		return common.NewValidationError(pgErr.ConstraintName, "already exists")
	case "23503":
		return common.NewValidationError(pgErr.ConstraintName, "references a missing record")
	}
	return nil
}
