package repository

import (
	"context"
	"errors"
	"portfolio-dashboard/internal/model"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	return NewPostgresStore(db, func() time.Time { return fixedNow }), mock
}

var holdingColumns = []string{"id", "portfolio_id", "symbol", "company_name", "shares", "purchase_price", "purchase_date", "current_price", "sector", "last_updated"}

func TestPostgresStore_GetUserByUsername(t *testing.T) {
	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		err     error
		want    *model.User
		wantErr bool
	}{
		{
			name: "found",
			rows: sqlmock.NewRows([]string{"id", "username", "password"}).AddRow("u1", "demo", "demo123"),
			want: &model.User{ID: "u1", Username: "demo", Password: "demo123"},
		},
		{
			name: "missing user is not an error",
			rows: sqlmock.NewRows([]string{"id", "username", "password"}),
		},
		{
			name:    "query failure",
			err:     errors.New("connection reset"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			q := mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username = $1`))
			if tt.err != nil {
				q.WillReturnError(tt.err)
			} else {
				q.WillReturnRows(tt.rows)
			}

			got, err := s.GetUserByUsername(context.Background(), "demo")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_CreateHolding(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "holdings"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := s.CreateHolding(context.Background(), model.NewHolding{
		PortfolioID:   "p1",
		Symbol:        "msft",
		Shares:        "5.0000",
		PurchasePrice: "300.00",
		PurchaseDate:  fixedNow,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "MSFT", got.Symbol)
	assert.Equal(t, fixedNow, got.LastUpdated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateHolding(t *testing.T) {
	t.Run("updates whitelisted columns", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "holdings" SET "current_price"=$1,"last_updated"=$2 WHERE id = $3`)).
			WithArgs("180.00", fixedNow, "h1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "holdings" WHERE id = $1`)).
			WillReturnRows(sqlmock.NewRows(holdingColumns).
				AddRow("h1", "p1", "AAPL", nil, "10.0000", "150.00", fixedNow, "180.00", nil, fixedNow))

		got, err := s.UpdateHolding(context.Background(), "h1", model.HoldingUpdate{CurrentPrice: strPtr("180.00")})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "180.00", *got.CurrentPrice)
		assert.Nil(t, got.CompanyName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing holding", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "holdings" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		got, err := s.UpdateHolding(context.Background(), "nope", model.HoldingUpdate{Shares: strPtr("1.0000")})
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_DeleteHolding(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int64
		want         bool
	}{
		{name: "deleted", rowsAffected: 1, want: true},
		{name: "already gone", rowsAffected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "holdings" WHERE id = $1`)).
				WithArgs("h1").
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))

			got, err := s.DeleteHolding(context.Background(), "h1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_CreateOrUpdateStockData(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "stock_data"`) + `.*` + regexp.QuoteMeta(`ON CONFLICT ("symbol") DO UPDATE SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := s.CreateOrUpdateStockData(context.Background(), model.StockData{
		Symbol:       "nvda",
		CompanyName:  "NVIDIA Corporation",
		CurrentPrice: "820.50",
	})
	require.NoError(t, err)
	assert.Equal(t, "NVDA", got.Symbol)
	assert.Equal(t, fixedNow, got.LastUpdated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetPortfolioWithHoldings(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "portfolios" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "created_at"}).
			AddRow("p1", "u1", "AUROVA Portfolio", fixedNow))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "holdings" WHERE portfolio_id = $1 ORDER BY purchase_date, id`)).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(holdingColumns).
			AddRow("h1", "p1", "AAPL", "Apple Inc.", "10.0000", "150.00", fixedNow, nil, "Technology", fixedNow).
			AddRow("h2", "p1", "KO", nil, "18.0000", "60.00", fixedNow, nil, nil, fixedNow))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "stock_data" WHERE symbol IN ($1,$2)`)).
		WithArgs("AAPL", "KO").
		WillReturnRows(sqlmock.NewRows([]string{"symbol", "company_name", "current_price", "change_percent", "sector", "market_cap", "pe_ratio", "last_updated"}).
			AddRow("AAPL", "Apple Inc.", "175.43", "1.20", "Technology", nil, nil, fixedNow))

	got, err := s.GetPortfolioWithHoldings(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "AUROVA Portfolio", got.Name)
	require.Len(t, got.Holdings, 2)
	require.NotNil(t, got.Holdings[0].StockData)
	assert.Equal(t, "175.43", got.Holdings[0].StockData.CurrentPrice)
	assert.Nil(t, got.Holdings[1].StockData)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetPortfolioWithHoldingsMissing(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "portfolios" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "created_at"}))

	got, err := s.GetPortfolioWithHoldings(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateUser(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "created"},
		{name: "duplicate username", err: &pgconn.PgError{Code: "23505"}, wantErr: ErrUsernameTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			exec := mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`))
			if tt.err != nil {
				exec.WillReturnError(tt.err)
			} else {
				exec.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			got, err := s.CreateUser(context.Background(), model.User{Username: "demo", Password: "demo123"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, got.ID)
				assert.Equal(t, "demo", got.Username)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
