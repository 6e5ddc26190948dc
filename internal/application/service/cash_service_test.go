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
	"github.com/matconsys/matcon-api/internal/domain/repository"
	"github.com/matconsys/matcon-api/pkg/apperror"
)

func newCashServiceForTest() (*CashService, *fakeCashSessionRepo, *fakeLedgerEntryRepo) {
	sessionRepo, entryRepo := newFakeCashSessionRepo()
	svc := NewCashService(sessionRepo, entryRepo)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc, sessionRepo, entryRepo
}

func TestOpenRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("opens session with opening entry", func(t *testing.T) {
		svc, _, entryRepo := newCashServiceForTest()

		session, err := svc.OpenRegister(ctx, &OpenRegisterInput{
			OpeningAmount: 20000, // R$ 200,00
			Operator:      "Maria",
		})
		require.NoError(t, err)

		assert.Equal(t, enum.SessionStatusOpen, session.Status)
		assert.Equal(t, int64(20000), session.OpeningAmount)
		assert.True(t, session.IsOpen())

		require.Len(t, entryRepo.rows, 1)
		opening := entryRepo.rows[0]
		assert.Equal(t, enum.EntryKindOpening, opening.Kind)
		assert.Equal(t, int64(20000), opening.Amount)
		assert.Equal(t, session.ID, opening.SessionID)
		require.NotNil(t, opening.Description)
		assert.Equal(t, "Abertura de caixa - R$ 200,00", *opening.Description)
	})

	t.Run("allows zero opening amount", func(t *testing.T) {
		svc, _, _ := newCashServiceForTest()

		session, err := svc.OpenRegister(ctx, &OpenRegisterInput{OpeningAmount: 0, Operator: "Maria"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), session.OpeningAmount)
	})

	t.Run("rejects negative opening amount", func(t *testing.T) {
		svc, _, _ := newCashServiceForTest()

		_, err := svc.OpenRegister(ctx, &OpenRegisterInput{OpeningAmount: -100, Operator: "Maria"})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("rejects missing operator", func(t *testing.T) {
		svc, _, _ := newCashServiceForTest()

		_, err := svc.OpenRegister(ctx, &OpenRegisterInput{OpeningAmount: 1000})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("failed open leaves no session behind", func(t *testing.T) {
		svc, sessionRepo, entryRepo := newCashServiceForTest()
		sessionRepo.openErr = assert.AnError

		_, err := svc.OpenRegister(ctx, &OpenRegisterInput{OpeningAmount: 1000, Operator: "Maria"})
		require.Error(t, err)
		assert.Equal(t, 500, apperror.GetAppError(err).Code)
		assert.Empty(t, sessionRepo.sessions)
		assert.Empty(t, entryRepo.rows)
	})

	t.Run("conflicts when a session is already open", func(t *testing.T) {
		svc, _, _ := newCashServiceForTest()

		_, err := svc.OpenRegister(ctx, &OpenRegisterInput{OpeningAmount: 1000, Operator: "Maria"})
		require.NoError(t, err)

		_, err = svc.OpenRegister(ctx, &OpenRegisterInput{OpeningAmount: 5000, Operator: "João"})
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)
		assert.Equal(t, "A cash session is already open", apperror.GetAppError(err).Message)
	})

	t.Run("losing an open race is a conflict, not a store failure", func(t *testing.T) {
		svc, sessionRepo, _ := newCashServiceForTest()
		// A concurrent open commits between the pre-check and the insert;
		// the store rejects the insert against the uniqueness constraint.
		sessionRepo.openErr = repository.ErrSessionAlreadyOpen

		_, err := svc.OpenRegister(ctx, &OpenRegisterInput{OpeningAmount: 1000, Operator: "Maria"})
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)
		assert.Equal(t, "A cash session is already open", apperror.GetAppError(err).Message)
	})
}

func TestRecordMovement(t *testing.T) {
	ctx := context.Background()

	open := func(t *testing.T, svc *CashService) *entity.CashSession {
		t.Helper()
		session, err := svc.OpenRegister(ctx, &OpenRegisterInput{OpeningAmount: 10000, Operator: "Maria"})
		require.NoError(t, err)
		return session
	}

	t.Run("appends a sale entry", func(t *testing.T) {
		svc, _, entryRepo := newCashServiceForTest()
		session := open(t, svc)

		entry, err := svc.RecordMovement(ctx, session.ID, &RecordMovementInput{
			Kind:   enum.EntryKindSale,
			Amount: 4590,
		})
		require.NoError(t, err)
		assert.Equal(t, enum.EntryKindSale, entry.Kind)
		assert.Equal(t, int64(4590), entry.Amount)
		assert.Equal(t, session.ID, entry.SessionID)
		assert.Len(t, entryRepo.rows, 2) // opening + sale
	})

	t.Run("rejects opening and closing kinds", func(t *testing.T) {
		svc, _, _ := newCashServiceForTest()
		session := open(t, svc)

		for _, kind := range []enum.EntryKind{enum.EntryKindOpening, enum.EntryKindClosing} {
			_, err := svc.RecordMovement(ctx, session.ID, &RecordMovementInput{Kind: kind, Amount: 100})
			require.Error(t, err)
			assert.Equal(t, 400, apperror.GetAppError(err).Code)
		}
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc, _, _ := newCashServiceForTest()
		session := open(t, svc)

		for _, amount := range []int64{0, -500} {
			_, err := svc.RecordMovement(ctx, session.ID, &RecordMovementInput{Kind: enum.EntryKindWithdrawal, Amount: amount})
			require.Error(t, err)
			assert.Equal(t, 400, apperror.GetAppError(err).Code)
		}
	})

	t.Run("fails on a closed session", func(t *testing.T) {
		svc, _, _ := newCashServiceForTest()
		session := open(t, svc)

		_, err := svc.CloseRegister(ctx, session.ID, &CloseRegisterInput{CountedAmount: 10000})
		require.NoError(t, err)

		_, err = svc.RecordMovement(ctx, session.ID, &RecordMovementInput{Kind: enum.EntryKindSale, Amount: 100})
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)
		assert.Equal(t, "Cash session is closed", apperror.GetAppError(err).Message)
	})

	t.Run("store failure is propagated, not swallowed", func(t *testing.T) {
		svc, _, entryRepo := newCashServiceForTest()
		session := open(t, svc)
		entryRepo.appendErr = assert.AnError

		_, err := svc.RecordMovement(ctx, session.ID, &RecordMovementInput{Kind: enum.EntryKindSale, Amount: 100})
		require.Error(t, err)
		assert.Equal(t, 500, apperror.GetAppError(err).Code)
	})

	t.Run("fails on unknown session", func(t *testing.T) {
		svc, _, _ := newCashServiceForTest()

		_, err := svc.RecordMovement(ctx, uuid.New(), &RecordMovementInput{Kind: enum.EntryKindSale, Amount: 100})
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})
}

func TestComputeExpectedBalance(t *testing.T) {
	sessionID := uuid.New()
	entry := func(kind enum.EntryKind, amount int64) entity.LedgerEntry {
		return entity.LedgerEntry{SessionID: sessionID, Kind: kind, Amount: amount}
	}

	t.Run("adds sales and supplements, subtracts withdrawals", func(t *testing.T) {
		entries := []entity.LedgerEntry{
			entry(enum.EntryKindOpening, 10000),
			entry(enum.EntryKindSale, 4500),
			entry(enum.EntryKindSale, 2550),
			entry(enum.EntryKindSupplement, 5000),
			entry(enum.EntryKindWithdrawal, 3000),
		}
		// 100,00 + 45,00 + 25,50 + 50,00 - 30,00 = 190,50
		assert.Equal(t, int64(19050), ComputeExpectedBalance(entries))
	})

	t.Run("closing entry contributes nothing", func(t *testing.T) {
		entries := []entity.LedgerEntry{
			entry(enum.EntryKindOpening, 10000),
			entry(enum.EntryKindClosing, 99999),
		}
		assert.Equal(t, int64(10000), ComputeExpectedBalance(entries))
	})

	t.Run("empty ledger is zero", func(t *testing.T) {
		assert.Equal(t, int64(0), ComputeExpectedBalance(nil))
	})
}

func TestCloseRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("stores counted, expected and difference", func(t *testing.T) {
		svc, _, _ := newCashServiceForTest()
		session, err := svc.OpenRegister(ctx, &OpenRegisterInput{OpeningAmount: 10000, Operator: "Maria"})
		require.NoError(t, err)

		_, err = svc.RecordMovement(ctx, session.ID, &RecordMovementInput{Kind: enum.EntryKindSale, Amount: 5000})
		require.NoError(t, err)
		_, err = svc.RecordMovement(ctx, session.ID, &RecordMovementInput{Kind: enum.EntryKindWithdrawal, Amount: 2000})
		require.NoError(t, err)

		// Expected: 100,00 + 50,00 - 20,00 = 130,00. Counted 128,50 -> short R$ 1,50.
		closed, err := svc.CloseRegister(ctx, session.ID, &CloseRegisterInput{CountedAmount: 12850})
		require.NoError(t, err)

		assert.Equal(t, enum.SessionStatusClosed, closed.Status)
		require.NotNil(t, closed.ExpectedAmount)
		assert.Equal(t, int64(13000), *closed.ExpectedAmount)
		require.NotNil(t, closed.ClosingAmount)
		assert.Equal(t, int64(12850), *closed.ClosingAmount)
		require.NotNil(t, closed.Difference)
		assert.Equal(t, int64(-150), *closed.Difference)
		require.NotNil(t, closed.ClosedAt)

		last := closed.Entries[len(closed.Entries)-1]
		assert.Equal(t, enum.EntryKindClosing, last.Kind)
		require.NotNil(t, last.Description)
		assert.Equal(t, "Fechamento de caixa - Diferença: R$ -1,50", *last.Description)
	})

	t.Run("surplus yields positive difference", func(t *testing.T) {
		svc, _, _ := newCashServiceForTest()
		session, err := svc.OpenRegister(ctx, &OpenRegisterInput{OpeningAmount: 10000, Operator: "Maria"})
		require.NoError(t, err)

		closed, err := svc.CloseRegister(ctx, session.ID, &CloseRegisterInput{CountedAmount: 10200})
		require.NoError(t, err)
		require.NotNil(t, closed.Difference)
		assert.Equal(t, int64(200), *closed.Difference)
	})

	t.Run("closing is terminal", func(t *testing.T) {
		svc, _, _ := newCashServiceForTest()
		session, err := svc.OpenRegister(ctx, &OpenRegisterInput{OpeningAmount: 10000, Operator: "Maria"})
		require.NoError(t, err)

		_, err = svc.CloseRegister(ctx, session.ID, &CloseRegisterInput{CountedAmount: 10000})
		require.NoError(t, err)

		_, err = svc.CloseRegister(ctx, session.ID, &CloseRegisterInput{CountedAmount: 10000})
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)
	})

	t.Run("rejects negative counted amount", func(t *testing.T) {
		svc, _, _ := newCashServiceForTest()
		session, err := svc.OpenRegister(ctx, &OpenRegisterInput{OpeningAmount: 10000, Operator: "Maria"})
		require.NoError(t, err)

		_, err = svc.CloseRegister(ctx, session.ID, &CloseRegisterInput{CountedAmount: -1})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})
}

func TestCurrentBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("derives balance from the open session ledger", func(t *testing.T) {
		svc, _, _ := newCashServiceForTest()
		session, err := svc.OpenRegister(ctx, &OpenRegisterInput{OpeningAmount: 10000, Operator: "Maria"})
		require.NoError(t, err)

		_, err = svc.RecordMovement(ctx, session.ID, &RecordMovementInput{Kind: enum.EntryKindSupplement, Amount: 2500})
		require.NoError(t, err)

		balance, err := svc.CurrentBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(12500), balance)
	})

	t.Run("not found when the register is closed", func(t *testing.T) {
		svc, _, _ := newCashServiceForTest()

		_, err := svc.CurrentBalance(ctx)
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})
}
