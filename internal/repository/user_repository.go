package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// UserRepo persists rows of the 'user' table. The scope column is a JSON
// array of role tags.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,first_name,last_name,username,email,password,scope,created_at,updated_at"

// Create inserts a user and returns the stored row. The password must
// already be hashed by the caller.
func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	scope, err := json.Marshal(u.Scope)
	if err != nil {
		return model.User{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO user (first_name, last_name, username, email, password, scope) VALUES (?,?,?,?,?,?)",
		u.FirstName, u.LastName, u.Username, u.Email, u.Password, scope)
	if err != nil {
		if isDuplicateKey(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM user WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM user WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM user ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update patches only the supplied fields and bumps updated_at. It returns
// ErrNotFound when no row matched the id.
func (r *UserRepo) Update(ctx context.Context, id uint64, p model.UserPatch) error {
	sets := make([]string, 0, 7)
	args := make([]interface{}, 0, 8)
	if p.FirstName != nil {
		sets = append(sets, "first_name=?")
		args = append(args, *p.FirstName)
	}
	if p.LastName != nil {
		sets = append(sets, "last_name=?")
		args = append(args, *p.LastName)
	}
	if p.Username != nil {
		sets = append(sets, "username=?")
		args = append(args, *p.Username)
	}
	if p.Email != nil {
		sets = append(sets, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(*p.Email)))
	}
	if p.Password != nil {
		sets = append(sets, "password=?")
		args = append(args, *p.Password)
	}
	if p.Scope != nil {
		scope, err := json.Marshal(*p.Scope)
		if err != nil {
			return err
		}
		sets = append(sets, "scope=?")
		args = append(args, scope)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)

	res, err := r.DB.ExecContext(ctx,
		"UPDATE user SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	// RowsAffected is 0 for a no-op patch too; check existence so a patch
	// that repeats the current values is not reported as a missing user.
	if n == 0 {
		var exists int
		err := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM user WHERE id=? LIMIT 1", id).Scan(&exists)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a user by id. Favorite rows cascade at the schema level.
func (r *UserRepo) Delete(ctx context.Context, id uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM user WHERE id=?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...interface{}) error }

func scanUser(s scanner) (model.User, error) {
	var (
		u     model.User
		scope []byte
	)
	err := s.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email,
		&u.Password, &scope, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	if len(scope) > 0 {
		if err := json.Unmarshal(scope, &u.Scope); err != nil {
			return model.User{}, err
		}
	}
	return u, nil
}

// isDuplicateKey detects MySQL error 1062 (duplicate entry) without
// importing the driver's error types.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
