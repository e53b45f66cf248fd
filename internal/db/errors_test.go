package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantNotFound  bool
		wantViolation bool
		wantContains  string
	}{
		{name: "no rows", err: pgx.ErrNoRows, wantNotFound: true},
		{name: "value too long", err: &pgconn.PgError{Code: "22001", Message: "value too long"}, wantViolation: true},
		{name: "not null", err: &pgconn.PgError{Code: "23502", Message: "null value"}, wantViolation: true},
		{name: "unique violation is a plain database error", err: &pgconn.PgError{Code: "23505"}, wantContains: "database error [23505]"},
		{name: "other", err: errors.New("connection reset"), wantContains: "connection reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapError(tt.err, "save video")

			assert.ErrorContains(t, err, "save video")
			assert.Equal(t, tt.wantNotFound, IsNotFound(err))
			assert.Equal(t, tt.wantViolation, IsCheckViolation(err))
			if tt.wantContains != "" {
				assert.ErrorContains(t, err, tt.wantContains)
			}
		})
	}

	assert.NoError(t, WrapError(nil, "save video"))
}
