package pgstore

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/sudo-init-do/stagebook/internal/store"
)

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil, "x"))
	assert.ErrorIs(t, mapErr(pgx.ErrNoRows, "get"), store.ErrNotFound)

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_login_lower"}
	err := mapErr(fmt.Errorf("wrapped: %w", dup), "create user")
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.Contains(t, err.Error(), "users_login_lower")

	fk := &pgconn.PgError{Code: "23503"}
	assert.ErrorIs(t, mapErr(fk, "set meta"), store.ErrNotFound)

	other := errors.New("connection reset")
	err = mapErr(other, "insert")
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, store.ErrNotFound)
	assert.NotErrorIs(t, err, store.ErrDuplicate)
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	if v := nullable("abc"); assert.NotNil(t, v) {
		assert.Equal(t, "abc", *v)
	}
	assert.Nil(t, nullTime(time.Time{}))
	assert.NotNil(t, nullTime(time.Now()))
}

func TestLoginTaken(t *testing.T) {
	assert.True(t, loginTaken(&pgconn.PgError{Code: "23505", ConstraintName: "users_login_lower"}))
	assert.False(t, loginTaken(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower"}))
	assert.False(t, loginTaken(errors.New("boom")))
	assert.ErrorIs(t, store.ErrLoginTaken, store.ErrDuplicate)
}
