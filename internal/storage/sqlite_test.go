package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwiz/cardwiz/internal/model"
)

// Helper function to create a migrated test cache.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err, "failed to create storage")
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()), "failed to migrate")
	return store
}

func testValidation(id int64, merchant string, daysAgo int, amount float64) model.Validation {
	return model.Validation{
		ID:       id,
		Merchant: merchant,
		Category: "dining",
		Currency: "INR",
		Amount:   amount,
		Date:     time.Now().AddDate(0, 0, -daysAgo).Truncate(time.Second),
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := createTestStorage(t)
	assert.NoError(t, store.Migrate(context.Background()))
}

func TestSaveAndRecentValidations(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	validations := []model.Validation{
		testValidation(1, "Starbucks", 3, 450),
		testValidation(2, "BigBasket", 1, 2200.50),
		testValidation(3, "Uber", 2, 320),
	}
	require.NoError(t, store.SaveValidations(ctx, validations))

	recent, err := store.RecentValidations(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "BigBasket", recent[0].Merchant, "most recent first")
	assert.Equal(t, "Uber", recent[1].Merchant)
	assert.Equal(t, "Starbucks", recent[2].Merchant)
	assert.InDelta(t, 2200.50, recent[0].Amount, 0.001)
}

func TestRecentValidationsRespectsLimit(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	var validations []model.Validation
	for i := int64(1); i <= 8; i++ {
		validations = append(validations, testValidation(i, "Merchant", int(i), float64(i)*100))
	}
	require.NoError(t, store.SaveValidations(ctx, validations))

	recent, err := store.RecentValidations(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, recent, 5)
	assert.Equal(t, int64(1), recent[0].ID, "one day ago is the newest")
}

func TestRecentValidationsBreaksDateTiesByID(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	sameDay := time.Now().Truncate(time.Second)
	validations := []model.Validation{
		{ID: 10, Merchant: "First", Category: "general", Currency: "INR", Amount: 1, Date: sameDay},
		{ID: 20, Merchant: "Second", Category: "general", Currency: "INR", Amount: 2, Date: sameDay},
	}
	require.NoError(t, store.SaveValidations(ctx, validations))

	recent, err := store.RecentValidations(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(20), recent[0].ID)
}

func TestSaveValidationsIsIdempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	v := testValidation(1, "Starbucks", 1, 450)
	require.NoError(t, store.SaveValidations(ctx, []model.Validation{v}))

	v.Amount = 500
	require.NoError(t, store.SaveValidations(ctx, []model.Validation{v}))

	count, err := store.ValidationCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	recent, err := store.RecentValidations(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 500, recent[0].Amount, 0.001, "re-import updates in place")
}

func TestSaveValidationsRejectsInvalid(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	err := store.SaveValidations(ctx, []model.Validation{{ID: 0, Merchant: "X", Date: time.Now()}})
	assert.ErrorIs(t, err, ErrInvalidValidation)

	err = store.SaveValidations(ctx, []model.Validation{{ID: 1, Date: time.Now()}})
	assert.ErrorIs(t, err, ErrInvalidValidation)
}

func TestReplaceCards(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	first := []model.Card{
		{ID: 1, CardName: "Infinia", Issuer: "HDFC", Network: model.NetworkVisa, LastFourDigits: "4242", Active: true},
		{ID: 2, CardName: "Amazon Pay", Issuer: "ICICI", Network: model.NetworkVisa, LastFourDigits: "1111", Active: true},
	}
	require.NoError(t, store.ReplaceCards(ctx, first))

	second := []model.Card{
		{ID: 3, CardName: "Atlas", Issuer: "Axis", Network: model.NetworkMastercard, Active: true, DocStatus: "INDEXED"},
	}
	require.NoError(t, store.ReplaceCards(ctx, second))

	cards, err := store.ListCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1, "replace drops cards no longer in the wallet")
	assert.Equal(t, "Atlas", cards[0].CardName)
	assert.Equal(t, model.NetworkMastercard, cards[0].Network)
	assert.Equal(t, "INDEXED", cards[0].DocStatus)
}

func TestListCardsOrdersByName(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	cards := []model.Card{
		{ID: 1, CardName: "zeta", Issuer: "A", Network: model.NetworkVisa, Active: true},
		{ID: 2, CardName: "Alpha", Issuer: "B", Network: model.NetworkVisa, Active: true},
	}
	require.NoError(t, store.ReplaceCards(ctx, cards))

	listed, err := store.ListCards(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Alpha", listed[0].CardName, "case-insensitive name order")
}

func TestSyncStateRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	value, err := store.GetSyncState(ctx, "plaid_cursor")
	require.NoError(t, err)
	assert.Empty(t, value, "missing key reads as empty")

	require.NoError(t, store.SetSyncState(ctx, "plaid_cursor", "cursor-1"))
	require.NoError(t, store.SetSyncState(ctx, "plaid_cursor", "cursor-2"))

	value, err = store.GetSyncState(ctx, "plaid_cursor")
	require.NoError(t, err)
	assert.Equal(t, "cursor-2", value)
}
