package checkout_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"magazyn/cart"
	"magazyn/checkout"
	"magazyn/database"
	"magazyn/loader"
	"magazyn/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, loader.InitDatabase(db))
	return db
}

func seedProduct(t *testing.T, db *sqlx.DB, name string, price float64, qty int) *model.Product {
	t.Helper()
	c, err := database.CreateCategory(db, &model.Category{Name: "Test"})
	require.NoError(t, err)
	p, err := database.CreateProduct(db, &model.Product{
		Name:       name,
		CategoryID: c.ID,
		UnitPrice:  price,
		Quantity:   qty,
	})
	require.NoError(t, err)
	return p
}

func stockOf(t *testing.T, db *sqlx.DB, id int64) int {
	t.Helper()
	p, err := database.GetProduct(db, id)
	require.NoError(t, err)
	return p.Quantity
}

func TestConfirmFullSuccess(t *testing.T) {
	db := newTestDB(t)
	a := seedProduct(t, db, "Herbata", 8.00, 10)

	c := cart.NewRegistry().Create()
	_, err := c.AddLine(a, 4)
	require.NoError(t, err)
	_, err = c.AddLine(a, 2)
	require.NoError(t, err)

	result, err := checkout.Confirm(db, c)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Committed)
	assert.Equal(t, 0, result.Failed)
	assert.True(t, result.Cleared)

	// Cart cleared only because every line committed.
	assert.Empty(t, c.Lines())
	assert.Equal(t, 4, stockOf(t, db, a.ID))

	records, err := database.GetAllSaleRecords(db)
	require.NoError(t, err)
	require.Len(t, records, 2)
	var total float64
	for _, rec := range records {
		assert.Equal(t, a.ID, rec.ProductID)
		total += rec.TotalAmount
	}
	assert.Equal(t, 48.0, total)
}

func TestConfirmPartialFailure(t *testing.T) {
	db := newTestDB(t)
	a := seedProduct(t, db, "Masło", 7.00, 10)
	b := seedProduct(t, db, "Ser", 12.00, 1)

	c := cart.NewRegistry().Create()
	lineA, err := c.AddLine(a, 3)
	require.NoError(t, err)

	// Stale snapshot: the cart was built when B appeared to have 2.
	stale := *b
	stale.Quantity = 2
	lineB, err := c.AddLine(&stale, 2)
	require.NoError(t, err)

	result, err := checkout.Confirm(db, c)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Committed)
	assert.Equal(t, 1, result.Failed)
	assert.False(t, result.Cleared)
	require.Len(t, result.Outcomes, 2)
	assert.True(t, result.Outcomes[0].Committed)
	assert.Equal(t, lineA.ID, result.Outcomes[0].Line.ID)
	assert.False(t, result.Outcomes[1].Committed)
	assert.Contains(t, result.Outcomes[1].Reason, "insufficient stock")

	// A decremented, B untouched.
	assert.Equal(t, 7, stockOf(t, db, a.ID))
	assert.Equal(t, 1, stockOf(t, db, b.ID))

	// Only the failed line stays in the cart for retry.
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, lineB.ID, lines[0].ID)

	// No sale record for the failed line.
	records, err := database.GetAllSaleRecords(db)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, a.ID, records[0].ProductID)
	assert.Equal(t, 21.0, records[0].TotalAmount)
}

func TestConfirmRetryAfterAdjustment(t *testing.T) {
	db := newTestDB(t)
	b := seedProduct(t, db, "Ser", 12.00, 1)

	c := cart.NewRegistry().Create()
	stale := *b
	stale.Quantity = 2
	_, err := c.AddLine(&stale, 2)
	require.NoError(t, err)

	result, err := checkout.Confirm(db, c)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, c.Lines(), 1)

	// Stock arrives; the retained line can be retried as-is.
	newQty := 5
	_, err = database.UpdateProduct(db, b.ID, database.ProductUpdate{Quantity: &newQty})
	require.NoError(t, err)

	result, err = checkout.Confirm(db, c)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Committed)
	assert.True(t, result.Cleared)
	assert.Equal(t, 3, stockOf(t, db, b.ID))
}

func TestStockConservation(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Dżem", 9.00, 20)
	reg := cart.NewRegistry()

	sold := 0
	for _, qty := range []int{5, 7, 2} {
		c := reg.Create()
		snap, err := database.GetProduct(db, p.ID)
		require.NoError(t, err)
		_, err = c.AddLine(snap, qty)
		require.NoError(t, err)

		result, err := checkout.Confirm(db, c)
		require.NoError(t, err)
		require.True(t, result.Cleared)
		sold += qty
	}

	assert.Equal(t, 20-sold, stockOf(t, db, p.ID))
	assert.GreaterOrEqual(t, stockOf(t, db, p.ID), 0)
}
