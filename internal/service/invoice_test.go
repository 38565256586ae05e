package service

import (
	"context"
	"testing"
	"time"

	"flour-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddInvoice_Defaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	inv, err := env.invoices.AddInvoice(ctx, InvoiceInput{
		Year: 2026, Month: 10, Day: 16,
		Title: "Flour sack",
		Price: dec("250"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, inv.ID)
	assert.Equal(t, 1, inv.Quantity)
	assert.Nil(t, inv.Description)
	assert.Nil(t, inv.Time)

	got, err := env.invoices.GetInvoices(ctx, 2026, 10, intPtr(16))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Flour sack", got[0].Title)
	assert.Equal(t, 1, got[0].Quantity)
	requireDecimal(t, "250", got[0].Price)
}

func TestUpdateInvoice_Partial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	inv, err := env.invoices.AddInvoice(ctx, InvoiceInput{
		Year: 2026, Month: 10, Day: 16,
		Title:       "Yeast",
		Price:       dec("3.5"),
		Quantity:    intPtr(4),
		Description: strPtr("dry"),
		Time:        strPtr("09:30"),
	})
	require.NoError(t, err)

	price := dec("4")
	updated, err := env.invoices.UpdateInvoice(ctx, inv.ID, InvoiceUpdate{Price: &price, Day: intPtr(17)})
	require.NoError(t, err)
	requireDecimal(t, "4", updated.Price)
	assert.Equal(t, 17, updated.Day)
	assert.Equal(t, "Yeast", updated.Title)
	assert.Equal(t, 4, updated.Quantity)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "dry", *updated.Description)
	require.NotNil(t, updated.Time)
	assert.Equal(t, "09:30", *updated.Time)
}

func TestUpdateInvoice_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.invoices.UpdateInvoice(context.Background(), "missing", InvoiceUpdate{Title: strPtr("x")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteInvoice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	inv, err := env.invoices.AddInvoice(ctx, InvoiceInput{Year: 2026, Month: 1, Day: 1, Title: "t", Price: dec("1")})
	require.NoError(t, err)

	require.NoError(t, env.invoices.DeleteInvoice(ctx, inv.ID))
	var count int64
	require.NoError(t, env.db.Model(&models.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)

	// absent ids are a no-op
	require.NoError(t, env.invoices.DeleteInvoice(ctx, inv.ID))
	require.NoError(t, env.invoices.DeleteInvoice(ctx, "never-existed"))
}

func TestGetInvoices_NewestFirstAndDefaultDay(t *testing.T) {
	start := time.Date(2026, 4, 9, 10, 0, 0, 0, time.Local)
	env := newTestEnvAt(t, start.UTC())
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		inv, err := env.invoices.AddInvoice(ctx, InvoiceInput{Year: 2026, Month: 4, Day: 9, Title: title, Price: dec("1")})
		require.NoError(t, err)
		ids = append(ids, inv.ID)
	}
	_, err := env.invoices.AddInvoice(ctx, InvoiceInput{Year: 2026, Month: 4, Day: 10, Title: "other", Price: dec("1")})
	require.NoError(t, err)

	got, err := env.invoices.GetInvoices(ctx, 2026, 4, nil)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestGetDaysWithInvoices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, day := range []int{20, 3, 20, 7, 3} {
		_, err := env.invoices.AddInvoice(ctx, InvoiceInput{Year: 2026, Month: 2, Day: day, Title: "t", Price: dec("1")})
		require.NoError(t, err)
	}
	_, err := env.invoices.AddInvoice(ctx, InvoiceInput{Year: 2026, Month: 3, Day: 1, Title: "t", Price: dec("1")})
	require.NoError(t, err)

	days, err := env.invoices.GetDaysWithInvoices(ctx, 2026, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 7, 20}, days)

	days, err = env.invoices.GetDaysWithInvoices(ctx, 2025, 2)
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestGetTotalAmountForDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	inputs := []InvoiceInput{
		{Title: "a", Price: dec("10.5"), Quantity: intPtr(2)},
		{Title: "b", Price: dec("3")},
		{Title: "c", Price: dec("4"), Quantity: intPtr(0)},
	}
	for _, in := range inputs {
		in.Year, in.Month, in.Day = 2026, 5, 1
		_, err := env.invoices.AddInvoice(ctx, in)
		require.NoError(t, err)
	}

	total, err := env.invoices.GetTotalAmountForDate(ctx, 2026, 5, intPtr(1))
	require.NoError(t, err)
	requireDecimal(t, "28", total)

	total, err = env.invoices.GetTotalAmountForDate(ctx, 2026, 5, intPtr(2))
	require.NoError(t, err)
	requireDecimal(t, "0", total)
}
