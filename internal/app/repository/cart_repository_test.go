package repository

import (
	"testing"

	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartRepoTest(t *testing.T) (CartRepository, *model.User, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{
		Email:        "repo@example.com",
		PasswordHash: "hash",
		Name:         "Repo User",
	}
	require.NoError(t, testDB.Create(user).Error)

	return NewCartRepository(testDB), user, testDB
}

func TestCartRepository_SaveBumpsVersion(t *testing.T) {
	repo, user, _ := setupCartRepoTest(t)

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.Create(cart))
	assert.Equal(t, uint(0), cart.Version)

	cart.Items = []model.CartItem{{
		ProductID: 1,
		Name:      "Phone X",
		Color:     "Red",
		UnitPrice: 900,
		Quantity:  1,
	}}
	require.NoError(t, repo.Save(cart))
	assert.Equal(t, uint(1), cart.Version)

	loaded, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), loaded.Version)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Red", loaded.Items[0].Color)
}

func TestCartRepository_SaveReplacesItems(t *testing.T) {
	repo, user, _ := setupCartRepoTest(t)

	cart := &model.Cart{UserID: user.ID, Items: []model.CartItem{
		{ProductID: 1, Name: "A", Color: "Red", UnitPrice: 100, Quantity: 1},
		{ProductID: 2, Name: "B", Color: "Blue", UnitPrice: 200, Quantity: 2},
	}}
	require.NoError(t, repo.Create(cart))

	cart.Items = cart.Items[:1]
	require.NoError(t, repo.Save(cart))

	loaded, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, uint(1), loaded.Items[0].ProductID)
}

func TestCartRepository_SaveDetectsVersionConflict(t *testing.T) {
	repo, user, _ := setupCartRepoTest(t)

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.Create(cart))

	// Two readers load the same version
	first, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	second, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)

	first.Items = []model.CartItem{{ProductID: 1, Name: "A", Color: "Red", UnitPrice: 100, Quantity: 1}}
	require.NoError(t, repo.Save(first))

	// The second writer is working from a stale version
	second.Items = []model.CartItem{{ProductID: 2, Name: "B", Color: "Blue", UnitPrice: 200, Quantity: 1}}
	err = repo.Save(second)
	assert.ErrorIs(t, err, ErrVersionConflict)

	// The first write won
	loaded, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, uint(1), loaded.Items[0].ProductID)
}

func TestCartRepository_FindByUserID_NotFound(t *testing.T) {
	repo, user, _ := setupCartRepoTest(t)

	_, err := repo.FindByUserID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
