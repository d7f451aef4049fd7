package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core/user"
)

type userRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Role         string    `db:"role"`
	Name         string    `db:"name"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r userRow) toUser() user.User {
	return user.User{
		ID:           r.ID,
		Email:        r.Email,
		Role:         user.Role(r.Role),
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

const userColumns = "id, email, role, name, password_hash, created_at"

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO users (id, email, role, name, password_hash, created_at) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET email = $2, role = $3, name = $4, password_hash = $5, created_at = $6`,
		usr.ID, usr.Email, string(usr.Role), usr.Name, usr.PasswordHash, usr.CreatedAt,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT "+userColumns+" FROM users ORDER BY "+insertionOrder.String()); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toUser())
	}
	return users, nil
}

func (repo *userRepository) get(ctx context.Context, where string, arg interface{}) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, "SELECT "+userColumns+" FROM users WHERE "+where+" ORDER BY "+insertionOrder.String()+" LIMIT 1", arg)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user")
	}
	return row.toUser(), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	return repo.get(ctx, "id = $1", id)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.get(ctx, "email = $1", email)
}

func (repo *userRepository) CountUsers(ctx context.Context) (int, map[user.Role]int, error) {
	var rows []struct {
		Role  string `db:"role"`
		Count int    `db:"count"`
	}
	if err := repo.db.SelectContext(ctx, &rows, "SELECT role, COUNT(*) AS count FROM users GROUP BY role"); err != nil {
		return 0, nil, errors.Wrap(err, "counting users")
	}
	byRole := make(map[user.Role]int, len(user.Roles))
	for _, r := range user.Roles {
		byRole[r] = 0
	}
	var total int
	for _, r := range rows {
		byRole[user.Role(r.Role)] = r.Count
		total += r.Count
	}
	return total, byRole, nil
}
