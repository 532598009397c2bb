package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/quickchat/quickchat-go/internal/model"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("email already exists")
)

// mysqlDuplicateEntry is the server error number for a UNIQUE violation.
const mysqlDuplicateEntry = 1062

const accountColumns = `id, full_name, email, password_hash, bio, profile_pic, created_at, updated_at`

// ProfileUpdate lists the fields UpdateProfile writes. A nil ProfilePic
// leaves the stored picture untouched.
type ProfileUpdate struct {
	FullName   string
	Bio        string
	ProfilePic *string
}

// AccountRepository handles account persistence operations.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account, assigning its ID and timestamps.
func (r *AccountRepository) Create(ctx context.Context, acc *model.Account) error {
	query := `INSERT INTO users (` + accountColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Millisecond)

	_, err := r.db.ExecContext(ctx, query,
		id, acc.FullName, acc.Email, acc.PasswordHash, acc.Bio, acc.ProfilePic, now, now,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting account: %w", err)
	}

	acc.ID = id
	acc.CreatedAt = now
	acc.UpdatedAt = now
	return nil
}

// GetByEmail retrieves an account by its email address.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE email = ?`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

// GetByID retrieves an account by its ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE id = ?`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// UpdateProfile writes the profile fields in a single statement and returns
// the account as stored afterwards.
func (r *AccountRepository) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*model.Account, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Truncate(time.Millisecond)
	set := []string{"full_name = ?", "bio = ?"}
	args := []any{upd.FullName, upd.Bio}
	if upd.ProfilePic != nil {
		set = append(set, "profile_pic = ?")
		args = append(args, *upd.ProfilePic)
	}
	set = append(set, "updated_at = ?")
	args = append(args, now, id)

	query := `UPDATE users SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("updating account: %w", err)
	}

	acc, err := scanAccount(tx.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing account update: %w", err)
	}
	return acc, nil
}

func scanAccount(row *sql.Row) (*model.Account, error) {
	acc := &model.Account{}
	err := row.Scan(
		&acc.ID, &acc.FullName, &acc.Email, &acc.PasswordHash,
		&acc.Bio, &acc.ProfilePic, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("reading account: %w", err)
	}
	return acc, nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
