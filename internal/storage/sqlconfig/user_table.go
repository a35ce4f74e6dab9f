package sqlconfig

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

const usersTable = "users"

var userColumns = []any{"id", "username", "email", "password_hash", "role", "created_at"}

type userRow struct {
	ID           uuid.UUID `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

var _ storage.IUserTable = (*UsersTable)(nil)

// UsersTable is the credential store.
type UsersTable struct {
	exec bob.Executor
}

func NewUsersTable(exec bob.Executor) *UsersTable {
	return &UsersTable{exec: exec}
}

func (t *UsersTable) FindByID(ctx context.Context, id uuid.UUID) (*storage.User, error) {
	return t.findBy(ctx, "id", id)
}

func (t *UsersTable) FindByUsername(ctx context.Context, username string) (*storage.User, error) {
	return t.findBy(ctx, "username", username)
}

func (t *UsersTable) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return t.existsBy(ctx, "username", username)
}

func (t *UsersTable) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return t.existsBy(ctx, "email", email)
}

// Insert stores a new user. A username or email collision surfaces as
// storage.ErrDuplicate.
func (t *UsersTable) Insert(ctx context.Context, create *storage.UserCreate) (*storage.User, error) {
	query := psql.Insert(
		im.Into(usersTable, "username", "email", "password_hash", "role"),
		im.Values(
			psql.Arg(create.Username),
			psql.Arg(create.Email),
			psql.Arg(create.PasswordHash),
			psql.Arg(string(create.Role)),
		),
		im.Returning(userColumns...),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[userRow]())
	if err != nil {
		return nil, mapError(err)
	}
	return rowToUser(row), nil
}

func (t *UsersTable) findBy(ctx context.Context, column string, value any) (*storage.User, error) {
	query := psql.Select(
		sm.Columns(userColumns...),
		sm.From(usersTable),
		sm.Where(psql.Quote(column).EQ(psql.Arg(value))),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[userRow]())
	if err != nil {
		return nil, mapError(err)
	}
	return rowToUser(row), nil
}

func (t *UsersTable) existsBy(ctx context.Context, column string, value any) (bool, error) {
	query := psql.Select(
		sm.Columns(psql.Raw("count(*)")),
		sm.From(usersTable),
		sm.Where(psql.Quote(column).EQ(psql.Arg(value))),
	)
	count, err := bob.One(ctx, t.exec, query, scan.SingleColumnMapper[int64])
	if err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}

func rowToUser(row userRow) *storage.User {
	return &storage.User{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         storage.Role(row.Role),
		CreatedAt:    row.CreatedAt,
	}
}
