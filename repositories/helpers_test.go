package repositories

import (
	"database/sql"
	"errors"
	"testing"
)

// И пул, и транзакция должны подходить репозиториям как исполнитель.
var (
	_ SQLExecutor = (*sql.DB)(nil)
	_ SQLExecutor = (*sql.Tx)(nil)
)

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckAffectedRows(t *testing.T) {
	sentinel := errors.New("row not found")

	if err := checkAffectedRows(fakeResult{rows: 1}, sentinel); err != nil {
		t.Errorf("1 affected row: err = %v, expected nil", err)
	}
	if err := checkAffectedRows(fakeResult{rows: 0}, sentinel); !errors.Is(err, sentinel) {
		t.Errorf("0 affected rows: err = %v, expected sentinel", err)
	}

	driverErr := errors.New("driver does not support RowsAffected")
	if err := checkAffectedRows(fakeResult{err: driverErr}, sentinel); !errors.Is(err, driverErr) {
		t.Errorf("driver error: err = %v, expected wrapped driver error", err)
	}
}
