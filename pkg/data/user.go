package data

import (
	"database/sql"
	"errors"
	"fmt"
)

const (
	insertUserSQL = `INSERT INTO user (
			name,
			major,
			year,
			bio,
			contact,
			email
		)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectUserSQL = `SELECT
			id,
			name,
			COALESCE(major, ''),
			COALESCE(year, ''),
			COALESCE(bio, ''),
			COALESCE(contact, ''),
			COALESCE(email, '')
		FROM user
		WHERE id = ?
	`

	selectUsersSQL = `SELECT
			id,
			name,
			COALESCE(major, ''),
			COALESCE(year, ''),
			COALESCE(bio, ''),
			COALESCE(contact, ''),
			COALESCE(email, '')
		FROM user
		ORDER BY id ASC
	`

	selectUserIDsSQL = `SELECT id FROM user ORDER BY id ASC`
)

type User struct {
	ID      int64  `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Major   string `json:"major,omitempty" yaml:"major,omitempty"`
	Year    string `json:"year,omitempty" yaml:"year,omitempty"`
	Bio     string `json:"bio,omitempty" yaml:"bio,omitempty"`
	Contact string `json:"contact,omitempty" yaml:"contact,omitempty"`
	Email   string `json:"email,omitempty" yaml:"email,omitempty"`
}

// AddUser inserts one user and returns its assigned id.
func AddUser(db *sql.DB, u *User) (int64, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}
	if u == nil || u.Name == "" {
		return 0, errors.New("user name required")
	}

	res, err := db.Exec(insertUserSQL, u.Name, u.Major, u.Year, u.Bio, u.Contact, u.Email)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user %s: %w", u.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted user id: %w", err)
	}
	u.ID = id
	return id, nil
}

// SaveUsers batch-inserts users in a single transaction.
func SaveUsers(db *sql.DB, users []*User) error {
	if db == nil {
		return errDBNotInitialized
	}
	if len(users) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin user tx: %w", err)
	}

	stmt, err := tx.Prepare(insertUserSQL)
	if err != nil {
		rollbackTransaction(tx)
		return fmt.Errorf("failed to prepare user insert: %w", err)
	}

	for _, u := range users {
		res, execErr := stmt.Exec(u.Name, u.Major, u.Year, u.Bio, u.Contact, u.Email)
		if execErr != nil {
			rollbackTransaction(tx)
			return fmt.Errorf("failed to insert user %s: %w", u.Name, execErr)
		}
		if id, idErr := res.LastInsertId(); idErr == nil {
			u.ID = id
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user tx: %w", err)
	}
	return nil
}

// GetUser returns one user by id, nil when not found.
func GetUser(db *sql.DB, id int64) (*User, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	var u User
	err := db.QueryRow(selectUserSQL, id).Scan(&u.ID, &u.Name, &u.Major, &u.Year, &u.Bio, &u.Contact, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select user %d: %w", id, err)
	}
	return &u, nil
}

// ListUsers returns all users ordered by id.
func ListUsers(db *sql.DB) ([]*User, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectUsersSQL)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	list := make([]*User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Major, &u.Year, &u.Bio, &u.Contact, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		list = append(list, &u)
	}

	return list, nil
}

// GetUserIDs returns all known user ids, the full node set of the trust
// graph regardless of rating activity.
func GetUserIDs(db *sql.DB) ([]int64, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectUserIDsSQL)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query user ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
