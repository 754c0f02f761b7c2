package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	i, err := NewInvoice("INV-2026-00093", uuid.New(), decimal.NewFromInt(2000), gstRate)
	require.NoError(t, err)
	return i
}

func TestNewInvoice(t *testing.T) {
	t.Run("computes tax and total", func(t *testing.T) {
		i := newTestInvoice(t)
		assert.True(t, i.Tax.Equal(decimal.NewFromInt(300)))
		assert.True(t, i.Total.Equal(decimal.NewFromInt(2300)))
		assert.False(t, i.Paid)
	})

	t.Run("rejects empty number", func(t *testing.T) {
		_, err := NewInvoice("", uuid.New(), decimal.NewFromInt(100), gstRate)
		assert.Error(t, err)
	})
}

func TestInvoice_Lifecycle(t *testing.T) {
	t.Run("mark paid emits event", func(t *testing.T) {
		i := newTestInvoice(t)
		paidOn := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)

		require.NoError(t, i.Submit())
		require.NoError(t, i.Authorise())
		require.NoError(t, i.MarkPaid(paidOn))

		assert.Equal(t, InvoicePaid, i.Status)
		assert.True(t, i.Paid)
		require.NotNil(t, i.FullyPaidOn)
		assert.Equal(t, paidOn, *i.FullyPaidOn)

		events := i.GetDomainEvents()
		require.Len(t, events, 1)
		evt, ok := events[0].(*InvoicePaidEvent)
		require.True(t, ok)
		assert.Equal(t, i.JobID, evt.JobID)
	})

	t.Run("cannot pay before authorisation", func(t *testing.T) {
		i := newTestInvoice(t)
		assert.Error(t, i.MarkPaid(time.Now()))
		require.NoError(t, i.Submit())
		assert.Error(t, i.MarkPaid(time.Now()))
	})

	t.Run("void blocked after payment", func(t *testing.T) {
		i := newTestInvoice(t)
		require.NoError(t, i.Submit())
		require.NoError(t, i.Authorise())
		require.NoError(t, i.MarkPaid(time.Now()))

		assert.Error(t, i.Void())
	})

	t.Run("void allowed while unpaid", func(t *testing.T) {
		i := newTestInvoice(t)
		require.NoError(t, i.Void())
		assert.Equal(t, InvoiceVoided, i.Status)
		assert.Error(t, i.Void())
	})
}

func TestInvoice_AmountDue(t *testing.T) {
	i := newTestInvoice(t)
	assert.Equal(t, "NZD 2300.00", i.AmountDue().String())

	require.NoError(t, i.Submit())
	require.NoError(t, i.Authorise())
	require.NoError(t, i.MarkPaid(time.Now()))
	assert.True(t, i.AmountDue().IsZero())
}

func TestInvoice_AmountDueVoided(t *testing.T) {
	i := newTestInvoice(t)
	require.NoError(t, i.Void())
	assert.True(t, i.AmountDue().IsZero())
}
