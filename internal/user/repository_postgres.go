package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	userColumns = `user_id, email, password, full_name, phone, role, created_at, updated_at`

	listUsersQuery      = `SELECT ` + userColumns + ` FROM users ORDER BY user_id`
	getUserByIDQuery    = `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	getUserByEmailQuery = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	insertUserQuery = `
		INSERT INTO users (email, password, full_name, phone, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING user_id
	`
	updateUserQuery = `
		UPDATE users
		SET full_name = $1,
			phone = $2,
			password = COALESCE(NULLIF($3, ''), password),
			updated_at = $4
		WHERE user_id = $5
	`

	uniqueViolation = "23505"
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, listUsersQuery)
	if err != nil {
		return nil, apperr.IO("user.List", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperr.IO("user.List", err)
		}
		users = append(users, user)
	}

	return users, apperr.IO("user.List", rows.Err())
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (User, error) {
	return r.getOne(ctx, "user.GetByID", getUserByIDQuery, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.getOne(ctx, "user.GetByEmail", getUserByEmailQuery, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, op, q string, arg any) (User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, apperr.IO(op, err)
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		insertUserQuery,
		user.Email,
		user.Password,
		user.FullName,
		user.Phone,
		string(user.Role),
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return User{}, ErrEmailExists
	}
	if err != nil {
		return User{}, apperr.IO("user.Create", err)
	}

	user.ID = id
	return user, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int, userUpdate User) (User, error) {
	result, err := r.db.ExecContext(ctx,
		updateUserQuery,
		userUpdate.FullName,
		userUpdate.Phone,
		userUpdate.Password,
		userUpdate.UpdatedAt,
		id,
	)
	if err != nil {
		return User{}, apperr.IO("user.Update", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return User{}, apperr.IO("user.Update", err)
	}
	if affected == 0 {
		return User{}, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func scanUser(scanner rowScanner) (User, error) {
	user := User{}
	var phone sql.NullString
	var role string

	if err := scanner.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.FullName,
		&phone,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return User{}, err
	}

	if phone.Valid {
		user.Phone = phone.String
	}
	user.Role = Role(role)
	return user, nil
}
