package customer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testAccounts() []Account {
	return []Account{
		{ID: "acc_001", ProfileID: "prof_001", UserID: "user_1", Name: "Main Office", IsActive: true},
		{ID: "acc_002", ProfileID: "prof_001", UserID: "user_2", Name: "Warehouse"},
		{ID: "acc_003", ProfileID: "prof_002", UserID: "user_1", Name: "Cafe", IsActive: true},
		{ID: "acc_004", ProfileID: "prof_003", Name: "Unassigned"},
	}
}

func TestActivityOf(t *testing.T) {
	assert.Equal(t, StatusActive, ActivityOf(true))
	assert.Equal(t, StatusInactive, ActivityOf(false))
	assert.Equal(t, StatusInactive, Profile{}.Activity())
}

func TestAccount_IsOwnedBy(t *testing.T) {
	acc := testAccounts()[0]
	assert.True(t, acc.IsOwnedBy("user_1"))
	assert.False(t, acc.IsOwnedBy("user_2"))
	assert.False(t, Account{}.IsOwnedBy(""))
}

func TestOwnership(t *testing.T) {
	o := NewOwnership(testAccounts())

	t.Run("account ownership", func(t *testing.T) {
		assert.True(t, o.OwnsAccount("user_1", "acc_001"))
		assert.True(t, o.OwnsAccount("user_1", "acc_003"))
		assert.False(t, o.OwnsAccount("user_1", "acc_002"))
		assert.False(t, o.OwnsAccount("user_1", "acc_missing"))
		assert.False(t, o.OwnsAccount("", "acc_004"))
	})

	t.Run("profiles are owned through accounts", func(t *testing.T) {
		assert.True(t, o.OwnsProfile("user_1", "prof_001"))
		assert.True(t, o.OwnsProfile("user_2", "prof_001"))
		assert.True(t, o.OwnsProfile("user_1", "prof_002"))
		assert.False(t, o.OwnsProfile("user_2", "prof_002"))
		assert.False(t, o.OwnsProfile("user_1", "prof_003"))
	})

	t.Run("lookups and counts", func(t *testing.T) {
		owner, ok := o.OwnerOf("acc_002")
		assert.True(t, ok)
		assert.Equal(t, "user_2", owner)

		profile, ok := o.ProfileOf("acc_003")
		assert.True(t, ok)
		assert.Equal(t, "prof_002", profile)

		assert.Equal(t, 2, o.AccountCount("prof_001"))
		assert.Equal(t, 1, o.AccountCount("prof_003"))
		assert.Equal(t, 0, o.AccountCount("prof_none"))
	})

	t.Run("nil index owns nothing", func(t *testing.T) {
		var empty *Ownership
		assert.False(t, empty.OwnsAccount("user_1", "acc_001"))
		assert.False(t, empty.OwnsProfile("user_1", "prof_001"))
		assert.Equal(t, 0, empty.AccountCount("prof_001"))
	})
}
