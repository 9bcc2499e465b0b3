package postgres

import (
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"reflect"
	"testing"
	"time"
)

func TestSelectByTokenQuery(t *testing.T) {
	sql, vals, err := selectByTokenQuery("hash", time.Unix(1000, 0)).ToSql()
	if err != nil {
		t.Fatalf("ToSql() error = %v", err)
	}
	want := "SELECT token, access_token, user_id, email, roles, expires FROM sessions WHERE token = $1 AND expires > $2"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(vals, []interface{}{"hash", int64(1000)}) {
		t.Errorf("vals = %v", vals)
	}
}

func TestInsertQuery(t *testing.T) {
	sql, vals, err := insertQuery("hash", &session.Create{
		AccessToken: "access",
		UserID:      "user",
		Expires:     42,
	}).ToSql()
	if err != nil {
		t.Fatalf("ToSql() error = %v", err)
	}
	want := "INSERT INTO sessions (token,access_token,user_id,email,roles,expires) VALUES ($1,$2,$3,$4,$5,$6)"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if roles, ok := vals[4].([]string); !ok || roles == nil {
		t.Errorf("roles value = %#v, want an empty non-nil slice", vals[4])
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("embedded migrations = %d, want 2", len(entries))
	}
}
