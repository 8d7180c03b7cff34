package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chronokeeper/chronokeeper-backend/internal/adapter/postgres"
	"github.com/chronokeeper/chronokeeper-backend/internal/adapter/postgres/testhelper"
)

var txSeq atomic.Int64

func txEmail() string {
	return fmt.Sprintf("tx-test-%d@example.com", txSeq.Add(1))
}

// statsExist checks whether a user_stats row with the given email exists.
func statsExist(t *testing.T, pool *pgxpool.Pool, email string) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(
		context.Background(),
		`SELECT EXISTS(SELECT 1 FROM user_stats WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("statsExist query: %v", err)
	}
	return exists
}

func insertStats(ctx context.Context, q postgres.Querier, email string) error {
	_, err := q.Exec(ctx,
		`INSERT INTO user_stats (email) VALUES ($1)`, email)
	return err
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	email := txEmail()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return insertStats(ctx, postgres.QuerierFromCtx(ctx, pool), email)
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !statsExist(t, pool, email) {
		t.Fatal("expected row to exist after committed transaction")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	email := txEmail()
	sentinel := errors.New("business logic error")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertStats(ctx, postgres.QuerierFromCtx(ctx, pool), email); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}

	if statsExist(t, pool, email) {
		t.Fatal("expected row NOT to exist after rolled-back transaction")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	email := txEmail()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic to be re-raised")
		}
		if r != "test panic" {
			t.Fatalf("expected panic value %q, got %v", "test panic", r)
		}

		// Verify data was rolled back.
		if statsExist(t, pool, email) {
			t.Fatal("expected row NOT to exist after panic-rolled-back transaction")
		}
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertStats(ctx, postgres.QuerierFromCtx(ctx, pool), email); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		panic("test panic")
	})
}

func TestRunInTx_QuerierFromCtx_UsesTx(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	email := txEmail()

	// Insert inside a transaction, then verify it's visible within the same tx
	// and outside after commit.
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, pool)
		if err := insertStats(ctx, q, email); err != nil {
			return err
		}

		var exists bool
		err := q.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM user_stats WHERE email = $1)`, email,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			t.Fatal("expected row to be visible within the transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !statsExist(t, pool, email) {
		t.Fatal("expected row to exist after committed transaction")
	}
}
