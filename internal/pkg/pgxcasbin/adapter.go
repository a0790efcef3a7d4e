// Package pgxcasbin persists casbin policies in Postgres through pgx.
//
// Rules live in one table with columns (ptype, v0..v5). The adapter supports
// full load/save plus single and batch add/remove, which is what the
// enforcer needs for auto-save.
package pgxcasbin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/persist"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/lo"
)

const (
	defaultTableName = "access_casbin_rules"
	fieldCount       = 6
)

var (
	// ErrRuleTooLong indicates a rule with more than six values.
	ErrRuleTooLong = errors.New("rule length exceeds field count")
	// ErrEmptyPtype indicates a rule without policy type.
	ErrEmptyPtype = errors.New("ptype is empty")
)

// Commander is the subset of pgxpool.Pool used by the adapter.
type Commander interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Adapter stores and retrieves casbin policies using pgx.
type Adapter struct {
	db    Commander
	table string
}

var (
	_ persist.Adapter      = (*Adapter)(nil)
	_ persist.BatchAdapter = (*Adapter)(nil)
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithTableName overrides the default rule table name.
func WithTableName(name string) Option {
	return func(a *Adapter) { a.table = lo.SnakeCase(name) }
}

// NewAdapter returns an Adapter over db.
func NewAdapter(db Commander, opts ...Option) *Adapter {
	a := &Adapter{db: db, table: defaultTableName}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var columns = lo.Times(fieldCount, func(i int) string { return "v" + strconv.Itoa(i) })

func (a *Adapter) insertSQL() string {
	placeholders := lo.Times(fieldCount, func(i int) string { return "$" + strconv.Itoa(i+2) })
	cols := strings.Join(columns, ", ")
	return fmt.Sprintf("insert into %s (ptype, %s) values ($1, %s) on conflict (ptype, %s) do nothing",
		a.table, cols, strings.Join(placeholders, ", "), cols)
}

func (a *Adapter) deleteSQL() string {
	conds := lo.Times(fieldCount, func(i int) string { return fmt.Sprintf("v%d = $%d", i, i+2) })
	return fmt.Sprintf("delete from %s where ptype = $1 and %s", a.table, strings.Join(conds, " and "))
}

// row pads rule to the column count and prepends ptype.
func row(ptype string, rule []string) ([]any, error) {
	if ptype == "" {
		return nil, ErrEmptyPtype
	}
	if len(rule) > fieldCount {
		return nil, ErrRuleTooLong
	}
	args := make([]any, 0, fieldCount+1)
	args = append(args, ptype)
	for i := range fieldCount {
		v := ""
		if i < len(rule) {
			v = rule[i]
		}
		args = append(args, v)
	}
	return args, nil
}

// LoadPolicy loads every stored rule into m.
func (a *Adapter) LoadPolicy(m model.Model) error {
	ctx := context.Background()
	rows, err := a.db.Query(ctx, fmt.Sprintf("select ptype, %s from %s order by id", strings.Join(columns, ", "), a.table))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		vals := make([]string, fieldCount+1)
		dest := lo.Map(vals, func(_ string, i int) any { return &vals[i] })
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		line := lo.DropRightWhile(vals, func(v string) bool { return v == "" })
		if err := persist.LoadPolicyArray(line, m); err != nil {
			return err
		}
	}

	return rows.Err()
}

// SavePolicy replaces the table content with the rules of m.
func (a *Adapter) SavePolicy(m model.Model) (err error) {
	ctx := context.Background()
	tx, err := a.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if _, err = tx.Exec(ctx, "delete from "+a.table); err != nil {
		return err
	}

	insert := a.insertSQL()
	for _, sec := range []string{"p", "g"} {
		for ptype, ast := range m[sec] {
			for _, rule := range ast.Policy {
				args, rerr := row(ptype, rule)
				if rerr != nil {
					return rerr
				}
				if _, err = tx.Exec(ctx, insert, args...); err != nil {
					return err
				}
			}
		}
	}

	return tx.Commit(ctx)
}

func (a *Adapter) AddPolicy(_ string, ptype string, rule []string) error {
	args, err := row(ptype, rule)
	if err != nil {
		return err
	}
	_, err = a.db.Exec(context.Background(), a.insertSQL(), args...)
	return err
}

func (a *Adapter) AddPolicies(sec string, ptype string, rules [][]string) error {
	for _, rule := range rules {
		if err := a.AddPolicy(sec, ptype, rule); err != nil {
			return err
		}
	}
	return nil
}

func (a *Adapter) RemovePolicy(_ string, ptype string, rule []string) error {
	args, err := row(ptype, rule)
	if err != nil {
		return err
	}
	_, err = a.db.Exec(context.Background(), a.deleteSQL(), args...)
	return err
}

func (a *Adapter) RemovePolicies(sec string, ptype string, rules [][]string) error {
	for _, rule := range rules {
		if err := a.RemovePolicy(sec, ptype, rule); err != nil {
			return err
		}
	}
	return nil
}

// RemoveFilteredPolicy deletes rules whose values starting at fieldIndex
// match fieldValues; empty values match anything.
func (a *Adapter) RemoveFilteredPolicy(_ string, ptype string, fieldIndex int, fieldValues ...string) error {
	if fieldIndex < 0 || fieldIndex+len(fieldValues) > fieldCount {
		return ErrRuleTooLong
	}

	conds := []string{"ptype = $1"}
	args := []any{ptype}
	for i, v := range fieldValues {
		if v == "" {
			continue
		}
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("v%d = $%d", fieldIndex+i, len(args)))
	}

	_, err := a.db.Exec(context.Background(),
		fmt.Sprintf("delete from %s where %s", a.table, strings.Join(conds, " and ")), args...)
	return err
}
