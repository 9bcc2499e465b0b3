package inmem

import (
	"context"
	"github.com/hashicorp/go-memdb"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/secret"
	"time"
)

var tokenLength = 32

var dbSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"sessions": {
			Name: "sessions",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:         "id",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "Token"},
				},
				"userID": {
					Name:         "userID",
					Unique:       false,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "UserID"},
				},
			},
		},
	},
}

// Driver represents the in-memory session storage driver built using hashicorp/go-memdb
type Driver struct {
	db  *memdb.MemDB
	now func() time.Time
}

var _ session.Storage = (*Driver)(nil)

// New creates a new empty in-memory session storage driver
func New() (*Driver, error) {
	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return nil, err
	}
	return &Driver{db: db, now: time.Now}, nil
}

// GetByRawToken retrieves a session by its raw (prior hashing) token.
// Expired sessions that were not terminated yet are not returned.
func (driver *Driver) GetByRawToken(_ context.Context, rawToken string) (*session.Session, error) {
	txn := driver.db.Txn(false)
	obj, err := txn.First("sessions", "id", secret.Hash(rawToken))
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}

	ses := obj.(*session.Session)
	if ses.IsExpired(driver.now()) {
		return nil, nil
	}
	cpy := *ses
	return &cpy, nil
}

// Create creates a new session
func (driver *Driver) Create(_ context.Context, create *session.Create) (string, error) {
	rawToken, token := secret.MustNewToken(tokenLength)

	ses := &session.Session{
		Token:       token,
		AccessToken: create.AccessToken,
		UserID:      create.UserID,
		Email:       create.Email,
		Roles:       append([]string(nil), create.Roles...),
		Expires:     create.Expires,
	}

	txn := driver.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert("sessions", ses); err != nil {
		return "", err
	}
	txn.Commit()

	return rawToken, nil
}

// TerminateByRawToken terminates a session by its raw (prior hashing) token
func (driver *Driver) TerminateByRawToken(_ context.Context, rawToken string) error {
	txn := driver.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll("sessions", "id", secret.Hash(rawToken)); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// TerminateByUserID terminates all sessions of a specific user ID
func (driver *Driver) TerminateByUserID(_ context.Context, userID string) error {
	txn := driver.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll("sessions", "userID", userID); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// TerminateExpired terminates all sessions that are expired
func (driver *Driver) TerminateExpired(_ context.Context) (int, error) {
	txn := driver.db.Txn(true)
	defer txn.Abort()

	it, err := txn.Get("sessions", "id")
	if err != nil {
		return 0, err
	}

	now := driver.now()
	var expired []*session.Session
	for obj := it.Next(); obj != nil; obj = it.Next() {
		ses := obj.(*session.Session)
		if ses.IsExpired(now) {
			expired = append(expired, ses)
		}
	}
	for _, ses := range expired {
		if err := txn.Delete("sessions", ses); err != nil {
			return 0, err
		}
	}

	txn.Commit()
	return len(expired), nil
}

// Close is a no-op for the in-memory driver
func (driver *Driver) Close() {}
