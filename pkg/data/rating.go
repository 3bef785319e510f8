package data

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/teamtrust/tctl/pkg/trust"
)

const (
	insertRatingSQL = `INSERT INTO rating (
			team_id,
			rater_id,
			target_user_id,
			contribution,
			communication,
			would_work_again,
			comment
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	selectRatingsSQL = `SELECT
			id,
			COALESCE(team_id, 0),
			rater_id,
			target_user_id,
			contribution,
			communication,
			would_work_again,
			COALESCE(comment, ''),
			created_at
		FROM rating
		ORDER BY id ASC
	`

	selectTargetRatingsSQL = `SELECT
			id,
			COALESCE(team_id, 0),
			rater_id,
			target_user_id,
			contribution,
			communication,
			would_work_again,
			COALESCE(comment, ''),
			created_at
		FROM rating
		WHERE target_user_id = ?
		ORDER BY id ASC
	`
)

// Rating is one stored peer rating row. Created is kept so a future
// time-decay pass has the data, but nothing weights by it.
type Rating struct {
	ID             int64  `json:"id" yaml:"id"`
	TeamID         int64  `json:"team_id,omitempty" yaml:"teamId,omitempty"`
	RaterID        int64  `json:"rater_id" yaml:"raterId"`
	TargetID       int64  `json:"target_user_id" yaml:"targetUserId"`
	Contribution   int    `json:"contribution" yaml:"contribution"`
	Communication  int    `json:"communication" yaml:"communication"`
	WouldWorkAgain bool   `json:"would_work_again" yaml:"wouldWorkAgain"`
	Comment        string `json:"comment,omitempty" yaml:"comment,omitempty"`
	Created        string `json:"created_at,omitempty" yaml:"createdAt,omitempty"`
}

// toTrust converts the stored row to the engine's rating value.
func (r *Rating) toTrust() trust.Rating {
	return trust.Rating{
		RaterID:        r.RaterID,
		TargetID:       r.TargetID,
		Contribution:   r.Contribution,
		Communication:  r.Communication,
		WouldWorkAgain: r.WouldWorkAgain,
	}
}

func toTrustRatings(list []*Rating) []trust.Rating {
	out := make([]trust.Rating, 0, len(list))
	for _, r := range list {
		out = append(out, r.toTrust())
	}
	return out
}

// SaveRating validates and inserts one rating. Rows the engine would
// reject never reach the store, so later graph builds cannot fail on
// structural grounds.
func SaveRating(db *sql.DB, r *Rating) error {
	if db == nil {
		return errDBNotInitialized
	}
	if r == nil {
		return errors.New("rating required")
	}

	if err := trust.ValidateRating(r.toTrust()); err != nil {
		return err
	}

	teamID := sql.NullInt64{Int64: r.TeamID, Valid: r.TeamID != 0}
	res, err := db.Exec(insertRatingSQL,
		teamID, r.RaterID, r.TargetID, r.Contribution, r.Communication, r.WouldWorkAgain, r.Comment)
	if err != nil {
		return fmt.Errorf("failed to insert rating %d -> %d: %w", r.RaterID, r.TargetID, err)
	}

	if id, idErr := res.LastInsertId(); idErr == nil {
		r.ID = id
	}
	return nil
}

// SaveRatings batch-inserts pre-validated ratings in one transaction.
func SaveRatings(db *sql.DB, list []*Rating) error {
	if db == nil {
		return errDBNotInitialized
	}
	if len(list) == 0 {
		return nil
	}

	for _, r := range list {
		if err := trust.ValidateRating(r.toTrust()); err != nil {
			return err
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin rating tx: %w", err)
	}

	stmt, err := tx.Prepare(insertRatingSQL)
	if err != nil {
		rollbackTransaction(tx)
		return fmt.Errorf("failed to prepare rating insert: %w", err)
	}

	for _, r := range list {
		teamID := sql.NullInt64{Int64: r.TeamID, Valid: r.TeamID != 0}
		if _, execErr := stmt.Exec(teamID, r.RaterID, r.TargetID,
			r.Contribution, r.Communication, r.WouldWorkAgain, r.Comment); execErr != nil {
			rollbackTransaction(tx)
			return fmt.Errorf("failed to insert rating %d -> %d: %w", r.RaterID, r.TargetID, execErr)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rating tx: %w", err)
	}
	return nil
}

// ListRatings returns the full rating snapshot in one query.
func ListRatings(db *sql.DB) ([]*Rating, error) {
	return queryRatings(db, selectRatingsSQL)
}

// ListRatingsForTarget returns the incoming ratings of one user.
func ListRatingsForTarget(db *sql.DB, targetID int64) ([]*Rating, error) {
	return queryRatings(db, selectTargetRatingsSQL, targetID)
}

func queryRatings(db *sql.DB, query string, args ...any) ([]*Rating, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(query, args...)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	list := make([]*Rating, 0)
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.ID, &r.TeamID, &r.RaterID, &r.TargetID,
			&r.Contribution, &r.Communication, &r.WouldWorkAgain, &r.Comment, &r.Created); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %w", err)
		}
		list = append(list, &r)
	}

	return list, nil
}

func rollbackTransaction(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		slog.Debug("error rolling back transaction", "error", err)
	}
}
