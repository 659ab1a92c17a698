package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/punchkeeper/internal/dbx"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/adjustments"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/employees"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/expenses"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/leaves"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/timeentries"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	TimeEntries(db dbx.DBTX) timeentries.Repository
	Adjustments(db dbx.DBTX) adjustments.Repository
	Leaves(db dbx.DBTX) leaves.Repository
	Expenses(db dbx.DBTX) expenses.Repository
	Employees(db dbx.DBTX) employees.Repository
}
