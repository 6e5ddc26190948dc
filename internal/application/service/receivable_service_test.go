package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/internal/domain/enum"
	"github.com/matconsys/matcon-api/pkg/apperror"
)

func newReceivableServiceForTest() (*ReceivableService, *fakeReceivableRepo) {
	repo := newFakeReceivableRepo()
	svc := NewReceivableService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC) }
	return svc, repo
}

func pendingReceivable(repo *fakeReceivableRepo, value int64) *entity.Receivable {
	return repo.add(&entity.Receivable{
		UserID:      uuid.New(),
		Description: "Cimento 50kg x10",
		Customer:    "Construtora Silva",
		Value:       value,
		DueDate:     time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
	})
}

func TestCreateReceivable(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending receivable", func(t *testing.T) {
		svc, _ := newReceivableServiceForTest()

		rec, err := svc.CreateReceivable(ctx, &CreateReceivableInput{
			UserID:      uuid.New(),
			Description: "Areia média 5m³",
			Customer:    "João Pedreiro",
			Value:       35000,
			DueDate:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Equal(t, enum.ReceivableStatusPending, rec.Status)
		assert.Equal(t, int64(35000), rec.Value)
	})

	t.Run("rejects non-positive value", func(t *testing.T) {
		svc, _ := newReceivableServiceForTest()

		for _, value := range []int64{0, -100} {
			_, err := svc.CreateReceivable(ctx, &CreateReceivableInput{
				UserID:      uuid.New(),
				Description: "x",
				Customer:    "y",
				Value:       value,
				DueDate:     time.Now(),
			})
			require.Error(t, err)
			assert.Equal(t, 400, apperror.GetAppError(err).Code)
		}
	})
}

func TestUpdateReceivable(t *testing.T) {
	ctx := context.Background()

	t.Run("updates pending fields", func(t *testing.T) {
		svc, repo := newReceivableServiceForTest()
		rec := pendingReceivable(repo, 10000)

		newValue := int64(12000)
		updated, err := svc.UpdateReceivable(ctx, rec.ID, &UpdateReceivableInput{Value: &newValue})
		require.NoError(t, err)
		assert.Equal(t, int64(12000), updated.Value)
	})

	t.Run("settled receivables are immutable", func(t *testing.T) {
		svc, repo := newReceivableServiceForTest()
		rec := pendingReceivable(repo, 10000)
		rec.Status = enum.ReceivableStatusSettled

		newValue := int64(12000)
		_, err := svc.UpdateReceivable(ctx, rec.ID, &UpdateReceivableInput{Value: &newValue})
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)

		err = svc.DeleteReceivable(ctx, rec.ID)
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)
	})
}

func TestSettle(t *testing.T) {
	ctx := context.Background()

	t.Run("settles a single receivable with per-item discount", func(t *testing.T) {
		svc, repo := newReceivableServiceForTest()
		rec := pendingReceivable(repo, 50000)

		result, err := svc.Settle(ctx, &SettleInput{
			Items:         []SettleItemInput{{ID: rec.ID, Discount: 5000}},
			PaymentMethod: "pix",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.SettledCount)
		assert.Equal(t, 0, result.FailedCount)
		assert.Equal(t, int64(45000), result.TotalPaid)

		stored, err := svc.GetReceivable(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, enum.ReceivableStatusSettled, stored.Status)
		assert.Equal(t, int64(45000), stored.Value)
		require.NotNil(t, stored.OriginalValue)
		assert.Equal(t, int64(50000), *stored.OriginalValue)
		require.NotNil(t, stored.Discount)
		assert.Equal(t, int64(5000), *stored.Discount)
		require.NotNil(t, stored.PaymentMethod)
		assert.Equal(t, "pix", *stored.PaymentMethod)
		require.NotNil(t, stored.PaymentDate)
	})

	t.Run("addition increases the paid amount", func(t *testing.T) {
		svc, repo := newReceivableServiceForTest()
		rec := pendingReceivable(repo, 10000)

		result, err := svc.Settle(ctx, &SettleInput{
			Items:         []SettleItemInput{{ID: rec.ID, Addition: 250}},
			PaymentMethod: "dinheiro",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(10250), result.TotalPaid)
	})

	t.Run("re-settling fails without duplicating payment", func(t *testing.T) {
		svc, repo := newReceivableServiceForTest()
		rec := pendingReceivable(repo, 10000)

		first, err := svc.Settle(ctx, &SettleInput{
			Items:         []SettleItemInput{{ID: rec.ID}},
			PaymentMethod: "pix",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, first.SettledCount)

		second, err := svc.Settle(ctx, &SettleInput{
			Items:         []SettleItemInput{{ID: rec.ID}},
			PaymentMethod: "pix",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, second.SettledCount)
		assert.Equal(t, 1, second.FailedCount)
		require.NotNil(t, second.Outcomes[0].Error)
		assert.Equal(t, 409, second.Outcomes[0].Error.Code)
		assert.Equal(t, "Receivable is already settled", second.Outcomes[0].Error.Message)
		assert.Equal(t, int64(0), second.TotalPaid)
	})

	t.Run("batch succeeds partially", func(t *testing.T) {
		svc, repo := newReceivableServiceForTest()
		ok1 := pendingReceivable(repo, 10000)
		settled := pendingReceivable(repo, 20000)
		settled.Status = enum.ReceivableStatusSettled
		ok2 := pendingReceivable(repo, 30000)
		missing := uuid.New()

		result, err := svc.Settle(ctx, &SettleInput{
			Items: []SettleItemInput{
				{ID: ok1.ID},
				{ID: settled.ID},
				{ID: ok2.ID},
				{ID: missing},
			},
			PaymentMethod: "cartao",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.SettledCount)
		assert.Equal(t, 2, result.FailedCount)
		assert.Equal(t, int64(40000), result.TotalPaid)
		require.Len(t, result.Outcomes, 4)
		assert.Nil(t, result.Outcomes[0].Error)
		assert.Equal(t, 409, result.Outcomes[1].Error.Code)
		assert.Nil(t, result.Outcomes[2].Error)
		assert.Equal(t, 404, result.Outcomes[3].Error.Code)
	})

	t.Run("per-item discount above value fails that item only", func(t *testing.T) {
		svc, repo := newReceivableServiceForTest()
		over := pendingReceivable(repo, 1000)
		fine := pendingReceivable(repo, 5000)

		result, err := svc.Settle(ctx, &SettleInput{
			Items: []SettleItemInput{
				{ID: over.ID, Discount: 1500},
				{ID: fine.ID},
			},
			PaymentMethod: "pix",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.SettledCount)
		assert.Equal(t, 1, result.FailedCount)
		assert.Equal(t, 400, result.Outcomes[0].Error.Code)

		stored, err := svc.GetReceivable(ctx, over.ID)
		require.NoError(t, err)
		assert.Equal(t, enum.ReceivableStatusPending, stored.Status)
	})

	t.Run("aggregate discount is display-only by default", func(t *testing.T) {
		svc, repo := newReceivableServiceForTest()
		a := pendingReceivable(repo, 30000)
		b := pendingReceivable(repo, 20000)

		result, err := svc.Settle(ctx, &SettleInput{
			Items:             []SettleItemInput{{ID: a.ID}, {ID: b.ID}},
			PaymentMethod:     "dinheiro",
			AggregateDiscount: 3000,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(47000), result.TotalPaid)

		// Nothing was persisted to the items themselves.
		for _, id := range []uuid.UUID{a.ID, b.ID} {
			stored, err := svc.GetReceivable(ctx, id)
			require.NoError(t, err)
			require.NotNil(t, stored.Discount)
			assert.Equal(t, int64(0), *stored.Discount)
			require.NotNil(t, stored.OriginalValue)
			assert.Equal(t, *stored.OriginalValue, stored.Value)
		}
	})

	t.Run("display-only aggregate floors the total at zero", func(t *testing.T) {
		svc, repo := newReceivableServiceForTest()
		rec := pendingReceivable(repo, 1000)

		result, err := svc.Settle(ctx, &SettleInput{
			Items:             []SettleItemInput{{ID: rec.ID}},
			PaymentMethod:     "pix",
			AggregateDiscount: 5000,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.TotalPaid)
	})

	t.Run("distributed aggregate persists pro-rata shares", func(t *testing.T) {
		svc, repo := newReceivableServiceForTest()
		a := pendingReceivable(repo, 30000)
		b := pendingReceivable(repo, 10000)

		result, err := svc.Settle(ctx, &SettleInput{
			Items:               []SettleItemInput{{ID: a.ID}, {ID: b.ID}},
			PaymentMethod:       "pix",
			AggregateDiscount:   1000,
			DistributeAggregate: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.SettledCount)
		assert.Equal(t, int64(39000), result.TotalPaid)

		storedA, err := svc.GetReceivable(ctx, a.ID)
		require.NoError(t, err)
		storedB, err := svc.GetReceivable(ctx, b.ID)
		require.NoError(t, err)

		require.NotNil(t, storedA.Discount)
		require.NotNil(t, storedB.Discount)
		assert.Equal(t, int64(750), *storedA.Discount)
		assert.Equal(t, int64(250), *storedB.Discount)
		assert.Equal(t, int64(29250), storedA.Value)
		assert.Equal(t, int64(9750), storedB.Value)
	})

	t.Run("failed items' aggregate shares are reported, not lost", func(t *testing.T) {
		svc, repo := newReceivableServiceForTest()
		small := pendingReceivable(repo, 100)
		large := pendingReceivable(repo, 30000)

		// The small item's per-item discount plus its pro-rata share exceeds
		// its value, so it fails; its share must surface as undistributed.
		result, err := svc.Settle(ctx, &SettleInput{
			Items: []SettleItemInput{
				{ID: small.ID, Discount: 99},
				{ID: large.ID},
			},
			PaymentMethod:       "pix",
			AggregateDiscount:   1000,
			DistributeAggregate: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.SettledCount)
		assert.Equal(t, 1, result.FailedCount)
		assert.Equal(t, 400, result.Outcomes[0].Error.Code)

		storedSmall, err := svc.GetReceivable(ctx, small.ID)
		require.NoError(t, err)
		assert.Equal(t, enum.ReceivableStatusPending, storedSmall.Status)

		storedLarge, err := svc.GetReceivable(ctx, large.ID)
		require.NoError(t, err)
		require.NotNil(t, storedLarge.Discount)

		// Persisted discount plus the reported remainder accounts for the
		// whole aggregate.
		assert.Equal(t, int64(997), *storedLarge.Discount)
		assert.Equal(t, int64(3), result.UndistributedDiscount)
		assert.Equal(t, int64(1000), *storedLarge.Discount+result.UndistributedDiscount)
	})

	t.Run("rejects empty batch and negative adjustments up front", func(t *testing.T) {
		svc, repo := newReceivableServiceForTest()
		rec := pendingReceivable(repo, 1000)

		_, err := svc.Settle(ctx, &SettleInput{PaymentMethod: "pix"})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)

		_, err = svc.Settle(ctx, &SettleInput{
			Items:         []SettleItemInput{{ID: rec.ID, Discount: -1}},
			PaymentMethod: "pix",
		})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)

		_, err = svc.Settle(ctx, &SettleInput{
			Items: []SettleItemInput{{ID: rec.ID}},
		})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})
}

func TestDistributeDiscount(t *testing.T) {
	rec := func(value int64) *entity.Receivable {
		return &entity.Receivable{ID: uuid.New(), Value: value}
	}

	t.Run("shares sum to exactly the discount", func(t *testing.T) {
		recs := []*entity.Receivable{rec(3333), rec(3333), rec(3334)}
		shares := distributeDiscount(1000, recs)

		var total int64
		for _, r := range recs {
			total += shares[r.ID]
		}
		assert.Equal(t, int64(1000), total)
	})

	t.Run("splits proportionally", func(t *testing.T) {
		a, b := rec(30000), rec(10000)
		shares := distributeDiscount(1000, []*entity.Receivable{a, b})
		assert.Equal(t, int64(750), shares[a.ID])
		assert.Equal(t, int64(250), shares[b.ID])
	})

	t.Run("ties go to earlier batch positions", func(t *testing.T) {
		a, b, c := rec(100), rec(100), rec(100)
		shares := distributeDiscount(100, []*entity.Receivable{a, b, c})
		// 33 each plus one leftover cent for the first item.
		assert.Equal(t, int64(34), shares[a.ID])
		assert.Equal(t, int64(33), shares[b.ID])
		assert.Equal(t, int64(33), shares[c.ID])
	})

	t.Run("no receivables or no discount yields empty shares", func(t *testing.T) {
		assert.Empty(t, distributeDiscount(1000, nil))
		assert.Empty(t, distributeDiscount(0, []*entity.Receivable{rec(100)}))
	})
}
