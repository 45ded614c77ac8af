package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/assetbalance-backend/internal/domain"
)

func TestLedgerRepository_Replace(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLedgerRepository(db)
	batchID := uuid.New()

	rows := []domain.LedgerRow{
		{InstrumentID: 1, Amount: decimal.RequireFromString("1200")},
		{InstrumentID: 2, Amount: decimal.RequireFromString("-35.5")},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM assets").WillReturnResult(sqlmock.NewResult(0, 7))
	prep := mock.ExpectPrepare("INSERT INTO assets")
	prep.ExpectExec().WithArgs(int64(1), "1200", batchID).WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(int64(2), "-35.5", batchID).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Replace(context.Background(), batchID, rows))
}

func TestLedgerRepository_Replace_EmptyClearsLedger(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLedgerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM assets").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectPrepare("INSERT INTO assets")
	mock.ExpectCommit()

	require.NoError(t, repo.Replace(context.Background(), uuid.New(), []domain.LedgerRow{}))
}

func TestLedgerRepository_Replace_Errors(t *testing.T) {
	rows := []domain.LedgerRow{{InstrumentID: 9, Amount: decimal.RequireFromString("10")}}

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantID  int64
		wantMsg string
	}{
		{
			name: "delete fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM assets").WillReturnError(errors.New("lock timeout"))
				mock.ExpectRollback()
			},
			wantMsg: "failed to clear ledger",
		},
		{
			name: "instrument removed concurrently",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM assets").WillReturnResult(sqlmock.NewResult(0, 0))
				prep := mock.ExpectPrepare("INSERT INTO assets")
				prep.ExpectExec().WillReturnError(&pq.Error{Code: foreignKeyViolation})
				mock.ExpectRollback()
			},
			wantID:  9,
			wantMsg: "instrument 9 no longer in asset master",
		},
		{
			name: "insert fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM assets").WillReturnResult(sqlmock.NewResult(0, 0))
				prep := mock.ExpectPrepare("INSERT INTO assets")
				prep.ExpectExec().WillReturnError(errors.New("disk full"))
				mock.ExpectRollback()
			},
			wantMsg: "failed to insert ledger row",
		},
		{
			name: "commit fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM assets").WillReturnResult(sqlmock.NewResult(0, 0))
				prep := mock.ExpectPrepare("INSERT INTO assets")
				prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))
			},
			wantMsg: "failed to commit transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setup(mock)

			err := NewLedgerRepository(db).Replace(context.Background(), uuid.New(), rows)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			if tt.wantID != 0 {
				var unresolved *domain.UnresolvedInstrumentError
				require.ErrorAs(t, err, &unresolved)
				assert.Equal(t, tt.wantID, unresolved.InstrumentID)
			}
		})
	}
}
