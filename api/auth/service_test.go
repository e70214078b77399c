package auth

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"
)

// credConn is a single-connection stub for the users lookup: the query
// returns the stored row only when the bound email and password match, the
// same shape the crypt() comparison gives against Postgres.
type credConn struct {
	email    string
	password string
	row      []driver.Value
}

func (c *credConn) Prepare(q string) (driver.Stmt, error) { return &credStmt{c: c}, nil }
func (c *credConn) Close() error                          { return nil }
func (c *credConn) Begin() (driver.Tx, error)             { return nil, errors.New("not supported") }

type credStmt struct{ c *credConn }

func (s *credStmt) Close() error  { return nil }
func (s *credStmt) NumInput() int { return -1 }
func (s *credStmt) Exec(args []driver.Value) (driver.Result, error) {
	return nil, errors.New("not supported")
}
func (s *credStmt) Query(args []driver.Value) (driver.Rows, error) {
	if len(args) == 2 && args[0] == s.c.email && args[1] == s.c.password {
		return &credRows{rows: [][]driver.Value{s.c.row}}, nil
	}
	return &credRows{}, nil
}

type credRows struct {
	rows [][]driver.Value
	i    int
}

func (r *credRows) Columns() []string {
	return []string{"id", "tenant_id", "display_name", "role", "status"}
}
func (r *credRows) Close() error { return nil }
func (r *credRows) Next(dest []driver.Value) error {
	if r.i >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.i])
	r.i++
	return nil
}

type credConnector struct{ conn *credConn }

func (c credConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }
func (c credConnector) Driver() driver.Driver                        { return nil }

func newTestAuthService(conn *credConn) *AuthService {
	return &AuthService{
		db:             sql.OpenDB(credConnector{conn}),
		maxUsers:       10,
		sessionTimeout: time.Hour,
		sessions:       make(map[string]*UserSession),
		byUserID:       make(map[string]*UserSession),
		stopCh:         make(chan struct{}),
	}
}

func TestLoginChecksPasswordOnRelogin(t *testing.T) {
	a := newTestAuthService(&credConn{
		email:    "clerk@springfield.gov",
		password: "s3cret",
		row:      []driver.Value{"u-1", "t-1", "Pat Clerk", "admin", "active"},
	})

	first, err := a.Login("clerk@springfield.gov", "s3cret", "10.0.0.1")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}

	// A wrong password must not hand back the live session.
	if s, err := a.Login("clerk@springfield.gov", "wrong", "10.0.0.2"); err == nil {
		t.Fatalf("login with wrong password succeeded, returned session %s", s.SessionID)
	}

	second, err := a.Login("clerk@springfield.gov", "s3cret", "10.0.0.2")
	if err != nil {
		t.Fatalf("re-login failed: %v", err)
	}
	if second.SessionID != first.SessionID {
		t.Errorf("re-login created a new session %s, want existing %s",
			second.SessionID, first.SessionID)
	}
	if second.ClientIP != "10.0.0.2" {
		t.Errorf("re-login did not refresh client IP: got %s", second.ClientIP)
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	a := newTestAuthService(&credConn{
		email:    "former@springfield.gov",
		password: "s3cret",
		row:      []driver.Value{"u-2", "t-1", "Gone Clerk", "viewer", "deleted"},
	})

	if _, err := a.Login("former@springfield.gov", "s3cret", "10.0.0.1"); err == nil {
		t.Fatal("login on a deleted account succeeded")
	}
}
