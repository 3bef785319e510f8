package data

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// SeedResult reports what the demo seed inserted.
type SeedResult struct {
	Users   int `json:"users" yaml:"users"`
	Ratings int `json:"ratings" yaml:"ratings"`
}

// SeedDemo loads a small deterministic population: a well-connected core
// team, a member who is rated but never rates back (dangling), and a
// newcomer with no ratings at all (isolated). Refuses to run on a
// non-empty store.
func SeedDemo(db *sql.DB) (*SeedResult, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM user").Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil, errors.New("store is not empty, refusing to seed")
	}

	users := []*User{
		{Name: "Alice", Major: "CS", Year: "Senior", Bio: "Full-stack developer, likes algorithms and mentoring.", Email: "alice@example.com"},
		{Name: "Bob", Major: "Design", Year: "Junior", Bio: "UI/UX designer focused on clean interfaces.", Email: "bob@example.com"},
		{Name: "Carol", Major: "Business", Year: "Senior", Bio: "Business analyst, good at planning and coordination.", Email: "carol@example.com"},
		{Name: "Dave", Major: "EE", Year: "Sophomore", Bio: "Hardware tinkerer, joins every hackathon.", Email: "dave@example.com"},
		{Name: "Erin", Major: "Math", Year: "Freshman", Bio: "New to team projects.", Email: "erin@example.com"},
	}
	if err := SaveUsers(db, users); err != nil {
		return nil, err
	}

	alice, bob, carol, dave := users[0].ID, users[1].ID, users[2].ID, users[3].ID
	ratings := []*Rating{
		{TeamID: 1, RaterID: alice, TargetID: bob, Contribution: 9, Communication: 8, WouldWorkAgain: true, Comment: "great prototypes"},
		{TeamID: 1, RaterID: bob, TargetID: alice, Contribution: 10, Communication: 9, WouldWorkAgain: true, Comment: "carried the backend"},
		{TeamID: 1, RaterID: alice, TargetID: carol, Contribution: 7, Communication: 9, WouldWorkAgain: true},
		{TeamID: 1, RaterID: carol, TargetID: alice, Contribution: 8, Communication: 8, WouldWorkAgain: true},
		{TeamID: 1, RaterID: bob, TargetID: carol, Contribution: 6, Communication: 7, WouldWorkAgain: false},
		{TeamID: 1, RaterID: carol, TargetID: bob, Contribution: 7, Communication: 6, WouldWorkAgain: true},
		// Dave gets rated but never rates anyone back.
		{TeamID: 2, RaterID: alice, TargetID: dave, Contribution: 5, Communication: 4, WouldWorkAgain: false},
		{TeamID: 2, RaterID: bob, TargetID: dave, Contribution: 6, Communication: 5, WouldWorkAgain: true},
	}
	if err := SaveRatings(db, ratings); err != nil {
		return nil, err
	}

	slog.Info("seeded demo data", "users", len(users), "ratings", len(ratings))
	return &SeedResult{Users: len(users), Ratings: len(ratings)}, nil
}
