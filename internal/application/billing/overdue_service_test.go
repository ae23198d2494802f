package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/billadmin/backend/internal/domain/access"
	"github.com/billadmin/backend/internal/domain/billing"
	"github.com/billadmin/backend/internal/domain/customer"
	"github.com/billadmin/backend/internal/domain/shared"
	"github.com/billadmin/backend/internal/infrastructure/dataset"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockInvoiceSource struct {
	mock.Mock
}

func (m *mockInvoiceSource) Snapshot(ctx context.Context) (dataset.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(dataset.Snapshot), args.Error(1)
}

var testNow = time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)

func createTestAccounts() []customer.Account {
	return []customer.Account{
		{ID: "acc-1", ProfileID: "prof-1", UserID: "user-1", Name: "Acme Corp"},
		{ID: "acc-2", ProfileID: "prof-2", UserID: "user-2", Name: "Globex"},
	}
}

func createTestInvoices() []billing.Invoice {
	return []billing.Invoice{
		{ID: "inv-1", InvoiceNumber: "INV-001", AccountID: "acc-1", AccountName: "Acme Corp", TotalAmount: decimal.RequireFromString("187.25"), DueDate: shared.MustParseDate("2024-03-10"), Status: billing.InvoiceStatusSent},
		{ID: "inv-2", InvoiceNumber: "INV-002", AccountID: "acc-1", AccountName: "Acme Corp", TotalAmount: decimal.RequireFromString("295.50"), DueDate: shared.MustParseDate("2024-02-15"), Status: billing.InvoiceStatusPaid, PaidStatus: true},
		{ID: "inv-3", InvoiceNumber: "INV-003", AccountID: "acc-1", AccountName: "Acme Corp", TotalAmount: decimal.RequireFromString("425.80"), DueDate: shared.MustParseDate("2024-04-01"), Status: billing.InvoiceStatusSent},
		{ID: "inv-4", InvoiceNumber: "INV-004", AccountID: "acc-2", AccountName: "Globex", TotalAmount: decimal.RequireFromString("100"), DueDate: shared.ParseDate("someday"), Status: billing.InvoiceStatusSent},
		{ID: "inv-5", InvoiceNumber: "INV-005", AccountID: "acc-2", AccountName: "Globex", TotalAmount: decimal.RequireFromString("-5"), DueDate: shared.ParseDate(""), Status: billing.InvoiceStatusDraft},
	}
}

func createTestOverdueService(t *testing.T) (*OverdueService, *mockInvoiceSource, *observer.ObservedLogs) {
	t.Helper()
	src := new(mockInvoiceSource)
	src.On("Snapshot", mock.Anything).Return(dataset.Snapshot{
		Accounts: createTestAccounts(),
		Invoices: createTestInvoices(),
	}, nil)

	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewOverdueService(src, billing.NewCalculator(decimal.Zero), zap.New(core)).
		WithClock(func() time.Time { return testNow })
	return svc, src, logs
}

// ============================================
// Summary
// ============================================

func TestOverdueService_Summary_User(t *testing.T) {
	svc, _, logs := createTestOverdueService(t)

	summary, err := svc.Summary(context.Background(), access.Principal{ID: "user-1", Role: access.RoleUser})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("613.05").Equal(summary.OutstandingBalance), "late fees are not part of the balance")
	require.Len(t, summary.OverdueAlerts, 1)
	alert := summary.OverdueAlerts[0]
	assert.Equal(t, "inv-1", alert.InvoiceID)
	assert.Equal(t, 15, alert.DaysOverdue)
	assert.True(t, decimal.RequireFromString("37.50").Equal(alert.LateFee))
	assert.True(t, decimal.RequireFromString("224.75").Equal(alert.AmountWithLateFee))
	assert.True(t, decimal.RequireFromString("187.25").Equal(summary.OverdueAmount))
	assert.True(t, decimal.RequireFromString("37.5").Equal(summary.AccruedLateFees))
	assert.Equal(t, 3, summary.InvoiceCount)
	assert.Equal(t, 0, summary.Skipped)
	assert.Empty(t, summary.SkippedMessage)
	assert.Equal(t, testNow, summary.AsOf)
	assert.Zero(t, logs.Len())
}

func TestOverdueService_Summary_SkipsMalformed(t *testing.T) {
	svc, _, logs := createTestOverdueService(t)

	summary, err := svc.Summary(context.Background(), access.Principal{ID: "admin-1", Role: access.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, 5, summary.InvoiceCount)
	assert.True(t, decimal.RequireFromString("713.05").Equal(summary.OutstandingBalance))
	assert.Equal(t, 2, summary.Skipped, "each malformed invoice is counted once")
	assert.Equal(t, "2 records could not be evaluated", summary.SkippedMessage)

	entries := logs.FilterMessage("Skipped malformed invoices").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["count"])
}

func TestOverdueService_Summary_UnknownRoleFailsClosed(t *testing.T) {
	svc, _, _ := createTestOverdueService(t)

	summary, err := svc.Summary(context.Background(), access.Principal{ID: "user-1", Role: access.Role("owner")})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.InvoiceCount)
}

func TestOverdueService_Summary_SourceError(t *testing.T) {
	src := new(mockInvoiceSource)
	src.On("Snapshot", mock.Anything).Return(dataset.Snapshot{}, errors.New("boom"))
	svc := NewOverdueService(src, billing.NewCalculator(decimal.Zero), nil)

	_, err := svc.Summary(context.Background(), access.Principal{ID: "x", Role: access.RoleSuperAdmin})
	assert.EqualError(t, err, "boom")
}

// ============================================
// Invoice
// ============================================

func TestOverdueService_Invoice(t *testing.T) {
	ctx := context.Background()

	t.Run("evaluates an owned invoice", func(t *testing.T) {
		svc, _, _ := createTestOverdueService(t)

		detail, err := svc.Invoice(ctx, access.Principal{ID: "user-1", Role: access.RoleUser}, "inv-1")
		require.NoError(t, err)
		assert.Equal(t, "INV-001", detail.InvoiceNumber)
		assert.Equal(t, billing.InvoiceStatusOverdue, detail.Evaluation.Status)
		assert.Equal(t, 15, detail.Evaluation.DaysOverdue)
		assert.True(t, decimal.RequireFromString("224.75").Equal(detail.Evaluation.AmountWithLateFee))
	})

	t.Run("paid invoice is never overdue", func(t *testing.T) {
		svc, _, _ := createTestOverdueService(t)

		detail, err := svc.Invoice(ctx, access.Principal{ID: "user-1", Role: access.RoleUser}, "inv-2")
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPaid, detail.Evaluation.Status)
		assert.Equal(t, 0, detail.Evaluation.DaysOverdue)
		assert.True(t, detail.Evaluation.LateFee.IsZero())
	})

	t.Run("invoice of another user is not found", func(t *testing.T) {
		svc, _, _ := createTestOverdueService(t)

		_, err := svc.Invoice(ctx, access.Principal{ID: "user-1", Role: access.RoleUser}, "inv-4")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("malformed invoice fails the lookup", func(t *testing.T) {
		svc, _, logs := createTestOverdueService(t)

		_, err := svc.Invoice(ctx, access.Principal{ID: "root", Role: access.RoleSuperAdmin}, "inv-4")
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrMalformedRecord))

		var malformed *shared.MalformedRecordError
		require.True(t, errors.As(err, &malformed))
		assert.Equal(t, "due_date", malformed.Field)
		assert.Equal(t, 1, logs.FilterMessage("Malformed invoice").Len())
	})

	t.Run("missing invoice is not found", func(t *testing.T) {
		svc, _, _ := createTestOverdueService(t)

		_, err := svc.Invoice(ctx, access.Principal{ID: "root", Role: access.RoleSuperAdmin}, "nope")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("source error is passed through", func(t *testing.T) {
		src := new(mockInvoiceSource)
		src.On("Snapshot", mock.Anything).Return(dataset.Snapshot{}, errors.New("boom"))
		svc := NewOverdueService(src, billing.NewCalculator(decimal.Zero), nil)

		_, err := svc.Invoice(ctx, access.Principal{ID: "root", Role: access.RoleSuperAdmin}, "inv-1")
		assert.EqualError(t, err, "boom")
	})
}
