package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    error
		passthr bool
	}{
		{name: "nil", err: nil, want: nil},
		{name: "no rows", err: pgx.ErrNoRows, want: domain.ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: domain.ErrAlreadyExists},
		{name: "fk violation", err: &pgconn.PgError{Code: "23503"}, want: domain.ErrNotFound},
		{name: "check violation", err: &pgconn.PgError{Code: "23514"}, want: domain.ErrValidation},
		{name: "deadline passes through", err: context.DeadlineExceeded, want: context.DeadlineExceeded, passthr: true},
		{name: "canceled passes through", err: context.Canceled, want: context.Canceled, passthr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err, "meeting", "evt_123")

			if tt.want == nil {
				if got != nil {
					t.Fatalf("MapError() = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("MapError() = %v, want errors.Is %v", got, tt.want)
			}
			if tt.passthr && errors.Is(got, domain.ErrNotFound) {
				t.Error("context error must not map to a domain error")
			}
		})
	}
}

func TestMapErrorUnknown(t *testing.T) {
	base := errors.New("connection reset")
	got := MapError(base, "user_stats", "dev@example.com")

	if !errors.Is(got, base) {
		t.Errorf("MapError() = %v, want wrapped %v", got, base)
	}
	if errors.Is(got, domain.ErrNotFound) || errors.Is(got, domain.ErrValidation) {
		t.Errorf("unknown error must not map to a domain sentinel: %v", got)
	}
}
