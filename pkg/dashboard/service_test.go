package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/billbook/billbook/internal/event_bus"
	"github.com/billbook/billbook/internal/utils"
	"github.com/billbook/billbook/pkg/client"
	"github.com/billbook/billbook/pkg/payment"
	"github.com/billbook/billbook/pkg/project"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type fixture struct {
	service  *ServiceImpl
	clients  *client.RepositoryStub
	payments *payment.RepositoryStub
	bus      *event_bus.EventBus
	paySvc   *payment.ServiceImpl
	clientSv *client.ServiceImpl
	projects *project.ServiceImpl
	clock    *utils.MockClock
	acme     client.Client
	globex   client.Client
}

func setup(t *testing.T) (*fixture, func()) {
	clients := client.NewRepositoryStub()
	payments := payment.NewRepositoryStub()
	bus := event_bus.NewEventBus()

	clientService := client.NewService(clients, bus)
	projectService := project.NewService(clientService)
	paymentService := payment.NewService(payments, clientService, bus)

	acme, err := clients.Create(ctx, client.Client{
		Name: "Acme Ltd", Email: "a@acme.test", Phone: "1", ProjectName: "Website",
		Budget: decimal.NewNullDecimal(decimal.NewFromInt(10000)),
	})
	require.NoError(t, err)
	globex, err := clients.Create(ctx, client.Client{
		Name: "Globex", Email: "g@globex.test", Phone: "2", ProjectName: "App",
		Budget: decimal.NewNullDecimal(decimal.NewFromInt(5000)),
	})
	require.NoError(t, err)

	clock := utils.NewMockClock(time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC))
	service := NewService(clientService, projectService, paymentService, time.UTC, "₹")
	service.clock = clock

	return &fixture{
			service:  service,
			clients:  clients,
			payments: payments,
			bus:      bus,
			paySvc:   paymentService,
			clientSv: clientService,
			projects: projectService,
			clock:    clock,
			acme:     acme,
			globex:   globex,
		}, func() {
			t.Log("Teardown after test")
			clients.Cleanup()
			payments.Cleanup()
		}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) seed(payments ...payment.Payment) {
	f.payments.Add(payments...)
}

func pay(id string, owner client.Client, d time.Time, amount int64, paymentType payment.Type) payment.Payment {
	return payment.Payment{
		Id:         id,
		ClientName: owner.Name,
		Date:       d,
		Amount:     decimal.NewFromInt(amount),
		ProjectId:  owner.Id,
		Type:       paymentType,
	}
}

func TestServiceImpl_Summary(t *testing.T) {
	t.Run("should total payments and count clients", func(t *testing.T) {
		f, teardown := setup(t)
		defer teardown()

		// given
		f.seed(
			pay("1", f.acme, date(2024, 1, 5), 3000, payment.ConsultingFee),
			pay("2", f.acme, date(2024, 1, 6), 500, payment.Bonus),
			pay("3", f.globex, date(2024, 2, 1), 1000, payment.ConsultingFee),
			pay("4", f.globex, date(2024, 2, 2), 50, payment.Type("Refund")),
		)

		// when
		summary, err := f.service.Summary(ctx)

		// then
		require.NoError(t, err)
		assert.Equal(t, "4550", summary.TotalEarnings.String())
		assert.Equal(t, "4000", summary.ConsultingFees.String())
		assert.Equal(t, "500", summary.Bonuses.String())
		assert.Equal(t, 2, summary.ClientCount)
		assert.Equal(t, 1, summary.Skipped)
		assert.Equal(t, "₹", summary.Currency)
	})

	t.Run("should fail when payments cannot be loaded", func(t *testing.T) {
		f, teardown := setup(t)
		defer teardown()

		// given
		storeErr := errors.New("connection refused")
		f.payments.FailWith(storeErr)

		// when
		_, err := f.service.Summary(ctx)

		// then
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestServiceImpl_Overview(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()

	f.seed(
		pay("1", f.acme, date(2024, 2, 1), 100, payment.ConsultingFee),
		pay("2", f.globex, date(2024, 1, 15), 200, payment.ConsultingFee),
		pay("3", f.acme, date(2024, 1, 15), 300, payment.Bonus),
	)

	t.Run("should group every project by default", func(t *testing.T) {
		// when
		overview, err := f.service.Overview(ctx, "")

		// then
		require.NoError(t, err)
		assert.Equal(t, "all", overview.ProjectId)
		require.Len(t, overview.Groups, 2)
		assert.Equal(t, "15 Jan 2024", overview.Groups[0].Label)
		assert.Equal(t, "500", overview.Groups[0].Total.String())
		assert.Equal(t, "Globex", overview.Groups[0].Payments[0].DisplayName)
		assert.Equal(t, "01 Feb 2024", overview.Groups[1].Label)
		assert.Equal(t, "600", overview.Total.String())
	})

	t.Run("should narrow to one project", func(t *testing.T) {
		// when
		overview, err := f.service.Overview(ctx, f.acme.Id)

		// then
		require.NoError(t, err)
		require.Len(t, overview.Groups, 2)
		assert.Equal(t, "300", overview.Groups[0].Total.String())
		assert.Equal(t, "400", overview.Total.String())
	})

	t.Run("should use the current client name over the stored one", func(t *testing.T) {
		// given
		renamed := f.acme
		renamed.Name = "Acme Group"
		_, err := f.clients.Update(ctx, renamed)
		require.NoError(t, err)

		// when
		overview, err := f.service.Overview(ctx, f.acme.Id)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Acme Group", overview.Groups[0].Payments[0].DisplayName)
		assert.Equal(t, "Acme Ltd", overview.Groups[0].Payments[0].ClientName)
	})
}

func TestServiceImpl_Calendar(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()

	f.seed(
		pay("1", f.acme, date(2024, 3, 1), 200, payment.ConsultingFee),
		pay("2", f.globex, date(2024, 3, 1), 300, payment.Bonus),
		pay("3", f.acme, date(2024, 4, 2), 50, payment.ConsultingFee),
		pay("4", f.acme, date(2023, 3, 20), 70, payment.ConsultingFee),
	)

	t.Run("should default to the current month", func(t *testing.T) {
		// when
		calendar, err := f.service.Calendar(ctx, "")

		// then
		require.NoError(t, err)
		assert.Equal(t, date(2024, 3, 1), calendar.Month)
		require.Len(t, calendar.Days, 1)
		assert.Equal(t, "01 Mar 2024", calendar.Days[0].Label)
		assert.Equal(t, "500", calendar.Days[0].Total.String())
	})

	t.Run("should use the display timezone for the current month", func(t *testing.T) {
		// given
		kolkata, err := time.LoadLocation("Asia/Kolkata")
		require.NoError(t, err)
		f.service.location = kolkata
		defer func() { f.service.location = time.UTC }()
		f.clock.SetNow(time.Date(2024, time.March, 31, 20, 0, 0, 0, time.UTC))

		// when
		calendar, err := f.service.Calendar(ctx, "")

		// then
		require.NoError(t, err)
		assert.Equal(t, date(2024, 4, 1), calendar.Month)
		require.Len(t, calendar.Days, 1)
		assert.Equal(t, "02 Apr 2024", calendar.Days[0].Label)
	})

	t.Run("should load a requested month", func(t *testing.T) {
		calendar, err := f.service.Calendar(ctx, "2023-03")

		require.NoError(t, err)
		require.Len(t, calendar.Days, 1)
		assert.Equal(t, "20 Mar 2023", calendar.Days[0].Label)
	})

	t.Run("should reject a malformed month", func(t *testing.T) {
		_, err := f.service.Calendar(ctx, "March")

		assert.ErrorIs(t, err, ErrInvalidMonth)
	})
}

func TestServiceImpl_Timeline(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()

	// given
	f.seed(
		pay("late", f.acme, date(2024, 2, 1), 100, payment.ConsultingFee),
		pay("early", f.globex, date(2024, 1, 15), 200, payment.Bonus),
		pay("late-2", f.acme, date(2024, 2, 1), 100, payment.Bonus),
	)

	// when
	entries, err := f.service.Timeline(ctx)

	// then
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "early", entries[0].Payment.Id)
	assert.Equal(t, "Jan 15", entries[0].Label)
	assert.Equal(t, "late", entries[1].Payment.Id)
	assert.Equal(t, "late-2", entries[2].Payment.Id)
	assert.Equal(t, "Feb 1", entries[2].Label)
}

func TestServiceImpl_ProjectBalance(t *testing.T) {
	t.Run("should compute the remaining balance without touching the budget", func(t *testing.T) {
		f, teardown := setup(t)
		defer teardown()

		// given
		f.seed(
			pay("1", f.globex, date(2024, 1, 1), 4000, payment.ConsultingFee),
			pay("2", f.globex, date(2024, 1, 2), 2000, payment.ConsultingFee),
			pay("3", f.globex, date(2024, 1, 3), 700, payment.Bonus),
			pay("4", f.acme, date(2024, 1, 3), 900, payment.ConsultingFee),
		)

		// when
		balance, err := f.service.ProjectBalance(ctx, f.globex.Id)

		// then
		require.NoError(t, err)
		assert.Equal(t, "App", balance.Project.Name)
		assert.Equal(t, "5000", balance.Budget.String())
		assert.Equal(t, "6000", balance.Paid.String())
		assert.Equal(t, "700", balance.Bonuses.String())
		assert.Equal(t, "-1000", balance.Remaining.String())
		assert.True(t, balance.Overpaid())

		stored, err := f.clients.Get(ctx, f.globex.Id)
		require.NoError(t, err)
		assert.Equal(t, "5000", stored.Budget.Decimal.String())
	})

	t.Run("should report an unknown project", func(t *testing.T) {
		f, teardown := setup(t)
		defer teardown()

		_, err := f.service.ProjectBalance(ctx, "missing")

		assert.ErrorIs(t, err, project.ErrProjectNotFound)
	})
}

func TestServiceImpl_UndatedPayments(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()

	// given
	f.seed(
		pay("dated", f.acme, date(2024, 3, 1), 200, payment.ConsultingFee),
		pay("undated", f.acme, time.Time{}, 300, payment.ConsultingFee),
	)

	t.Run("should count undated payments in the earnings", func(t *testing.T) {
		summary, err := f.service.Summary(ctx)

		require.NoError(t, err)
		assert.Equal(t, "500", summary.TotalEarnings.String())
		assert.Equal(t, "500", summary.ConsultingFees.String())
	})

	t.Run("should leave undated payments off the chart", func(t *testing.T) {
		overview, err := f.service.Overview(ctx, "")

		require.NoError(t, err)
		require.Len(t, overview.Groups, 1)
		assert.Equal(t, "200", overview.Groups[0].Total.String())
		assert.Equal(t, "500", overview.Total.String())
		assert.Equal(t, 1, overview.Undated)
	})

	t.Run("should leave undated payments off the calendar and timeline", func(t *testing.T) {
		calendar, err := f.service.Calendar(ctx, "0001-01")
		require.NoError(t, err)
		assert.Empty(t, calendar.Days)

		entries, err := f.service.Timeline(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "dated", entries[0].Payment.Id)
	})

	t.Run("should deduct undated consulting fees from the balance", func(t *testing.T) {
		balance, err := f.service.ProjectBalance(ctx, f.acme.Id)

		require.NoError(t, err)
		assert.Equal(t, "9500", balance.Remaining.String())
	})
}
