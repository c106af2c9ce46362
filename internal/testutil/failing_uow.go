package testutil

import (
	"context"
	"database/sql"
	"regexp"
	"sync"

	"github.com/alexanderramin/racecoach/internal/db"
)

// FailingUoW runs transactions like the real unit of work but makes one write
// fail, to prove multi-row writes such as a training plan roll back whole.
//
// Writes are counted from 1 and only those touching Table count; an empty
// Table counts every ExecContext. Reads are never counted.
type FailingUoW struct {
	DB     *sql.DB
	Table  string
	FailOn int
	Err    error
}

// FailPlanWeek fails the nth training plan row of the next transaction.
func FailPlanWeek(database *sql.DB, n int, err error) *FailingUoW {
	return &FailingUoW{DB: database, Table: "training_plans", FailOn: n, Err: err}
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	inner := db.NewSQLiteUnitOfWork(u.DB)
	return inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingTx{DBTX: tx, uow: u, match: tableMatcher(u.Table)})
	})
}

var _ db.UnitOfWork = (*FailingUoW)(nil)

func tableMatcher(table string) *regexp.Regexp {
	if table == "" {
		return nil
	}
	return regexp.MustCompile(`(?i)\b(INTO|UPDATE|FROM)\s+` + regexp.QuoteMeta(table) + `\b`)
}

type failingTx struct {
	db.DBTX
	uow   *FailingUoW
	match *regexp.Regexp

	mu     sync.Mutex
	writes int
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.match == nil || f.match.MatchString(query) {
		f.mu.Lock()
		f.writes++
		hit := f.writes == f.uow.FailOn
		f.mu.Unlock()
		if hit {
			return nil, f.uow.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
