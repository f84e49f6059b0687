package controllers

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/spiritcity/spirit-api/models"
)

// The stub driver satisfies database/sql so gorm can build SQL without a
// server. Nothing is ever executed against it.
type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConnector struct{}

func (stubConnector) Connect(context.Context) (driver.Conn, error) { return stubConn{}, nil }
func (stubConnector) Driver() driver.Driver                        { return stubDriver{} }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("statements not supported") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return nil, errors.New("transactions not supported") }

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sql.OpenDB(stubConnector{}),
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func TestEventForUpdateLocksRow(t *testing.T) {
	db := dryRunDB(t)

	stmt := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var ev models.Event
		return eventForUpdate(tx, "evt-1").First(&ev)
	})

	if !strings.Contains(stmt, "FOR UPDATE") {
		t.Errorf("event read is not locked: %s", stmt)
	}
	if !strings.Contains(stmt, "evt-1") {
		t.Errorf("event read does not filter by id: %s", stmt)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"mysql duplicate entry", &mysql.MySQLError{Number: 1062}, true},
		{"wrapped mysql duplicate entry", fmt.Errorf("create participation: %w", &mysql.MySQLError{Number: 1062}), true},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"other mysql error", &mysql.MySQLError{Number: 1054}, false},
		{"plain error", errors.New("connection reset"), false},
		{"nil", nil, false},
	}
	for _, c := range cases {
		if got := isDuplicateKey(c.err); got != c.want {
			t.Errorf("%s: isDuplicateKey = %v, want %v", c.name, got, c.want)
		}
	}
}
