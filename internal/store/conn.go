package store

import (
	"context"
	"database/sql"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// conn is the statement runner shared by every repository. It wraps either
// the driver or an open transaction.
type conn struct {
	dialect.ExecQuerier
	dialect string
}

func (c conn) builder() *entsql.DialectBuilder {
	return entsql.Dialect(c.dialect)
}

func (c conn) table(name string) *entsql.SelectTable {
	return c.builder().Table(name)
}

// all runs q and scans every row into v, a pointer to a slice.
func (c conn) all(ctx context.Context, q entsql.Querier, v any) error {
	query, args := q.Query()
	var rows entsql.Rows
	if err := c.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	return entsql.ScanSlice(rows, v)
}

// count runs a COUNT(*) selector.
func (c conn) count(ctx context.Context, s *entsql.Selector) (int, error) {
	query, args := s.Count().Query()
	var rows entsql.Rows
	if err := c.Query(ctx, query, args, &rows); err != nil {
		return 0, err
	}
	defer rows.Close()
	return entsql.ScanInt(rows)
}

// insert runs ib and returns the generated id.
func (c conn) insert(ctx context.Context, ib *entsql.InsertBuilder) (int64, error) {
	query, args, err := ib.Returning("id").QueryErr()
	if err != nil {
		return 0, err
	}
	var rows entsql.Rows
	if err := c.Query(ctx, query, args, &rows); err != nil {
		return 0, err
	}
	defer rows.Close()
	return entsql.ScanInt64(rows)
}

// exec runs a statement that returns no rows and reports rows affected.
func (c conn) exec(ctx context.Context, q entsql.Querier) (int64, error) {
	query, args := q.Query()
	var res sql.Result
	if err := c.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
