package postgres

import (
	"context"
	"embed"
	"errors"
	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/secret"
	"time"
)

//go:embed migrations/*.sql
var migrations embed.FS

var tokenLength = 32

var sessionColumns = []string{"token", "access_token", "user_id", "email", "roles", "expires"}

// Driver represents the PostgreSQL session storage driver implementation
type Driver struct {
	dsn string
	db  *pgxpool.Pool
	now func() time.Time
}

var _ session.Storage = (*Driver)(nil)

// New creates a new empty PostgreSQL session storage driver.
// Use Initialize to migrate the database and open the connection pool.
func New(dsn string) *Driver {
	return &Driver{
		dsn: dsn,
		now: time.Now,
	}
}

// Initialize migrates the database and opens the connection pool
func (driver *Driver) Initialize(ctx context.Context) error {
	// Perform SQL migrations
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	migrator, err := migrate.NewWithSourceInstance("iofs", source, driver.dsn)
	if err != nil {
		return err
	}
	defer migrator.Close()
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	// Initialize the database connection pool
	pool, err := pgxpool.Connect(ctx, driver.dsn)
	if err != nil {
		return err
	}
	driver.db = pool
	return nil
}

// GetByRawToken retrieves a non-expired session by its raw (prior hashing) token
func (driver *Driver) GetByRawToken(ctx context.Context, rawToken string) (*session.Session, error) {
	sql, vals, err := selectByTokenQuery(secret.Hash(rawToken), driver.now()).ToSql()
	if err != nil {
		return nil, err
	}

	obj := new(session.Session)
	err = driver.db.QueryRow(ctx, sql, vals...).Scan(
		&obj.Token,
		&obj.AccessToken,
		&obj.UserID,
		&obj.Email,
		&obj.Roles,
		&obj.Expires,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return obj, nil
}

// Create creates a new session
func (driver *Driver) Create(ctx context.Context, create *session.Create) (string, error) {
	rawToken, token := secret.MustNewToken(tokenLength)

	sql, vals, err := insertQuery(token, create).ToSql()
	if err != nil {
		return "", err
	}
	if _, err := driver.db.Exec(ctx, sql, vals...); err != nil {
		return "", err
	}
	return rawToken, nil
}

// TerminateByRawToken terminates a session by its raw (prior hashing) token
func (driver *Driver) TerminateByRawToken(ctx context.Context, rawToken string) error {
	_, err := driver.db.Exec(ctx, "DELETE FROM sessions WHERE token = $1", secret.Hash(rawToken))
	return err
}

// TerminateByUserID terminates all sessions of a specific user ID
func (driver *Driver) TerminateByUserID(ctx context.Context, userID string) error {
	_, err := driver.db.Exec(ctx, "DELETE FROM sessions WHERE user_id = $1", userID)
	return err
}

// TerminateExpired terminates all sessions that are expired
func (driver *Driver) TerminateExpired(ctx context.Context) (int, error) {
	tag, err := driver.db.Exec(ctx, "DELETE FROM sessions WHERE expires <= $1", driver.now().Unix())
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// Close closes the database connection pool
func (driver *Driver) Close() {
	if driver.db != nil {
		driver.db.Close()
		driver.db = nil
	}
}

func selectByTokenQuery(token string, now time.Time) squirrel.SelectBuilder {
	return squirrel.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"token": token}).
		Where(squirrel.Gt{"expires": now.Unix()}).
		PlaceholderFormat(squirrel.Dollar)
}

func insertQuery(token string, create *session.Create) squirrel.InsertBuilder {
	roles := create.Roles
	if roles == nil {
		roles = []string{}
	}
	return squirrel.Insert("sessions").
		Columns(sessionColumns...).
		Values(token, create.AccessToken, create.UserID, create.Email, roles, create.Expires).
		PlaceholderFormat(squirrel.Dollar)
}
