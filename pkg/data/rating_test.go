package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamtrust/tctl/pkg/trust"
)

func TestAddUserAndGet(t *testing.T) {
	db := setupTestDB(t)

	id, err := AddUser(db, &User{Name: "Alice", Major: "CS", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	u, err := GetUser(db, id)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "CS", u.Major)

	missing, err := GetUser(db, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAddUser_Validation(t *testing.T) {
	db := setupTestDB(t)

	_, err := AddUser(nil, &User{Name: "x"})
	assert.Error(t, err)

	_, err = AddUser(db, &User{})
	assert.Error(t, err)
}

func TestSaveUsers_AssignsIDs(t *testing.T) {
	db := setupTestDB(t)

	users := []*User{{Name: "Alice"}, {Name: "Bob"}, {Name: "Carol"}}
	require.NoError(t, SaveUsers(db, users))

	ids, err := GetUserIDs(db)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
	for i, u := range users {
		assert.Equal(t, ids[i], u.ID)
	}

	list, err := ListUsers(db)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alice", list[0].Name)
}

func TestSaveRating_RoundTrip(t *testing.T) {
	db := setupTestDB(t)

	users := []*User{{Name: "Alice"}, {Name: "Bob"}}
	require.NoError(t, SaveUsers(db, users))

	r := &Rating{
		TeamID:         1,
		RaterID:        users[0].ID,
		TargetID:       users[1].ID,
		Contribution:   8,
		Communication:  9,
		WouldWorkAgain: true,
		Comment:        "solid teammate",
	}
	require.NoError(t, SaveRating(db, r))
	assert.Greater(t, r.ID, int64(0))

	list, err := ListRatings(db)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, users[0].ID, list[0].RaterID)
	assert.Equal(t, users[1].ID, list[0].TargetID)
	assert.Equal(t, 8, list[0].Contribution)
	assert.True(t, list[0].WouldWorkAgain)
	assert.Equal(t, "solid teammate", list[0].Comment)
	assert.NotEmpty(t, list[0].Created)

	incoming, err := ListRatingsForTarget(db, users[1].ID)
	require.NoError(t, err)
	assert.Len(t, incoming, 1)

	none, err := ListRatingsForTarget(db, users[0].ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSaveRating_RejectsInvalid(t *testing.T) {
	db := setupTestDB(t)

	users := []*User{{Name: "Alice"}, {Name: "Bob"}}
	require.NoError(t, SaveUsers(db, users))

	var iee *trust.InvalidEdgeError

	err := SaveRating(db, &Rating{RaterID: users[0].ID, TargetID: users[0].ID, Contribution: 5, Communication: 5})
	require.ErrorAs(t, err, &iee)

	err = SaveRating(db, &Rating{RaterID: users[0].ID, TargetID: users[1].ID, Contribution: 11, Communication: 5})
	require.ErrorAs(t, err, &iee)

	// Nothing reached the store.
	list, err := ListRatings(db)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSaveRatings_Batch(t *testing.T) {
	db := setupTestDB(t)

	users := []*User{{Name: "Alice"}, {Name: "Bob"}, {Name: "Carol"}}
	require.NoError(t, SaveUsers(db, users))

	batch := []*Rating{
		{RaterID: users[0].ID, TargetID: users[1].ID, Contribution: 7, Communication: 7},
		{RaterID: users[1].ID, TargetID: users[2].ID, Contribution: 6, Communication: 8, WouldWorkAgain: true},
	}
	require.NoError(t, SaveRatings(db, batch))

	list, err := ListRatings(db)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSaveRatings_RejectsWholeBatchOnInvalidRow(t *testing.T) {
	db := setupTestDB(t)

	users := []*User{{Name: "Alice"}, {Name: "Bob"}}
	require.NoError(t, SaveUsers(db, users))

	batch := []*Rating{
		{RaterID: users[0].ID, TargetID: users[1].ID, Contribution: 7, Communication: 7},
		{RaterID: users[1].ID, TargetID: users[1].ID, Contribution: 5, Communication: 5},
	}
	err := SaveRatings(db, batch)
	var iee *trust.InvalidEdgeError
	require.ErrorAs(t, err, &iee)

	list, err := ListRatings(db)
	require.NoError(t, err)
	assert.Empty(t, list)
}
