//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/credit-risk-dashboard/internal/infrastructure/postgres"
	"github.com/jhoicas/credit-risk-dashboard/pkg/config"
)

// startPostgres levanta un PostgreSQL efímero con las migraciones aplicadas.
func startPostgres(t *testing.T) *postgres.CustomerRepo {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("customer_bank_details"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminar contenedor: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, postgres.RunMigrations(dsn, "file://migrations"))

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `
		INSERT INTO credit_risk VALUES
		  (1, 0.766126609, 45, 2, 0.802982, 9120, 13, 0, 6, 0, 2),
		  (2, 0.957151019, 40, 0, 0.121876, 2600, 4, 0, 0, 0, 1),
		  (3, 0.658180140, 38, 1, 0.085113, NULL, 2, 1, 0, 0, NULL)`)
	require.NoError(t, err)

	return postgres.NewCustomerRepository(pool)
}

func TestCustomerRepo_Integration(t *testing.T) {
	repo := startPostgres(t)
	ctx := context.Background()

	t.Run("GetByID existente", func(t *testing.T) {
		c, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, c)

		assert.Equal(t, int64(1), c.ID)
		assert.Equal(t, 45, c.Age)
		assert.Equal(t, 2, c.PastDue30to59)
		assert.True(t, c.MonthlyIncome.Valid)
		assert.True(t, c.MonthlyIncome.Decimal.Equal(decimal.NewFromInt(9120)))
		require.NotNil(t, c.NumberOfDependents)
		assert.Equal(t, 2, *c.NumberOfDependents)
	})

	t.Run("columnas nulas", func(t *testing.T) {
		c, err := repo.GetByID(ctx, 3)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.False(t, c.MonthlyIncome.Valid)
		assert.Nil(t, c.NumberOfDependents)
	})

	t.Run("GetByID inexistente devuelve nil sin error", func(t *testing.T) {
		c, err := repo.GetByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("ListFirst respeta el límite y el orden", func(t *testing.T) {
		list, err := repo.ListFirst(ctx, 2)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, int64(1), list[0].ID)
		assert.Equal(t, int64(2), list[1].ID)
	})
}
