package dbtx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextWithTx_NilTx(t *testing.T) {
	ctx := ContextWithTx(context.Background(), nil)

	assert.Nil(t, TxFromContext(ctx), "nil tx should return nil from context")
}

func TestTxFromContext_NoTx(t *testing.T) {
	assert.Nil(t, TxFromContext(context.Background()), "context without tx should return nil")
}

func TestContextWithTx_RoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	ctx := ContextWithTx(context.Background(), tx)
	assert.Equal(t, tx, TxFromContext(ctx), "should retrieve same tx from context")

	mock.ExpectRollback()
	_ = tx.Rollback()
}

func TestGetExecutor_WithTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	ctx := ContextWithTx(context.Background(), tx)

	_, isTx := GetExecutor(ctx, db).(*sql.Tx)
	assert.True(t, isTx, "executor should be *sql.Tx when tx in context")

	mock.ExpectRollback()
	_ = tx.Rollback()
}

func TestGetExecutor_WithoutTx(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, isDB := GetExecutor(context.Background(), db).(*sql.DB)
	assert.True(t, isDB, "executor should be *sql.DB when no tx in context")
}

func TestRunInTransaction_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	called := false
	err = RunInTransaction(context.Background(), db, func(ctx context.Context) error {
		called = true

		assert.NotNil(t, TxFromContext(ctx), "tx should be in context")

		return nil
	})

	assert.NoError(t, err)
	assert.True(t, called, "function should be called")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransaction_FunctionError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	expectedErr := errors.New("function error")
	err = RunInTransaction(context.Background(), db, func(ctx context.Context) error {
		return expectedErr
	})

	assert.Equal(t, expectedErr, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransaction_RetriesSerializationFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	serializationErr := &pgconn.PgError{Code: "40001"}

	// First attempt conflicts, second commits.
	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	attempts := 0
	err = RunInTransaction(context.Background(), db, func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return serializationErr
		}

		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransaction_SerializationRetriesBounded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	serializationErr := &pgconn.PgError{Code: "40P01"}

	for i := 0; i < maxSerializationRetries+1; i++ {
		mock.ExpectBegin()
		mock.ExpectRollback()
	}

	attempts := 0
	err = RunInTransaction(context.Background(), db, func(ctx context.Context) error {
		attempts++
		return serializationErr
	})

	assert.True(t, IsSerializationFailure(err))
	assert.Equal(t, maxSerializationRetries+1, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, IsSerializationFailure(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsSerializationFailure(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, IsSerializationFailure(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsSerializationFailure(errors.New("other")))
	assert.False(t, IsSerializationFailure(nil))
}
