package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prasetyahadi/gatera/internal/auth/entity"
	"github.com/prasetyahadi/gatera/internal/auth/outbound/session"
	"github.com/prasetyahadi/gatera/internal/pkg/goerror"
	"github.com/prasetyahadi/gatera/internal/pkg/instrument"
	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupStore(t *testing.T) *session.Store {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}

	uri, err := ctr.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	opt, err := goredis.ParseURL(uri)
	if err != nil {
		t.Fatalf("parse redis url: %v", err)
	}

	client := goredis.NewClient(opt)
	t.Cleanup(func() { client.Close() })

	return session.NewStore(client, instrument.NewNoop())
}

func TestStore(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("SaveAndGetRoundTrip", func(t *testing.T) {
		// Arrange
		sess := entity.LoginSession{
			State:        entity.SessionStateAwaitingOtp,
			UserID:       77,
			Email:        "user@example.com",
			PendingOtpID: 42,
			CreatedAt:    now,
		}

		// Act
		if err := store.SaveSession(ctx, "hash-1", sess, time.Minute); err != nil {
			t.Fatalf("save session: %v", err)
		}
		got, err := store.GetSession(ctx, "hash-1")

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.State != sess.State || got.UserID != sess.UserID || got.PendingOtpID != sess.PendingOtpID {
			t.Fatalf("unexpected session: %+v", got)
		}
		if !got.CreatedAt.Equal(sess.CreatedAt) {
			t.Fatalf("expected creation time preserved, got %v", got.CreatedAt)
		}
	})

	t.Run("MissingKeyIsNotFound", func(t *testing.T) {
		// Act
		_, err := store.GetSession(ctx, "no-such-hash")

		// Assert
		if !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("OverwriteReplacesValue", func(t *testing.T) {
		// Arrange
		if err := store.SaveSession(ctx, "hash-2", entity.LoginSession{
			State:        entity.SessionStateAwaitingOtp,
			UserID:       77,
			PendingOtpID: 1,
		}, time.Minute); err != nil {
			t.Fatalf("save session: %v", err)
		}

		// Act
		if err := store.SaveSession(ctx, "hash-2", entity.LoginSession{
			State:  entity.SessionStateAuthenticated,
			UserID: 77,
		}, time.Minute); err != nil {
			t.Fatalf("overwrite session: %v", err)
		}

		// Assert
		got, err := store.GetSession(ctx, "hash-2")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.State != entity.SessionStateAuthenticated || got.PendingOtpID != 0 {
			t.Fatalf("expected promoted session, got %+v", got)
		}
	})

	t.Run("TTLExpiresKey", func(t *testing.T) {
		// Arrange
		if err := store.SaveSession(ctx, "hash-3", entity.LoginSession{
			State:  entity.SessionStateAwaitingOtp,
			UserID: 77,
		}, time.Second); err != nil {
			t.Fatalf("save session: %v", err)
		}

		// Act
		time.Sleep(1500 * time.Millisecond)
		_, err := store.GetSession(ctx, "hash-3")

		// Assert
		if !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after ttl, got %v", err)
		}
	})

	t.Run("DeleteRemovesSession", func(t *testing.T) {
		// Arrange
		if err := store.SaveSession(ctx, "hash-4", entity.LoginSession{
			State:  entity.SessionStateAuthenticated,
			UserID: 77,
		}, time.Minute); err != nil {
			t.Fatalf("save session: %v", err)
		}

		// Act
		if err := store.DeleteSession(ctx, "hash-4"); err != nil {
			t.Fatalf("delete session: %v", err)
		}

		// Assert
		if _, err := store.GetSession(ctx, "hash-4"); !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}

		// deleting again is a no-op
		if err := store.DeleteSession(ctx, "hash-4"); err != nil {
			t.Fatalf("expected idempotent delete, got %v", err)
		}
	})
}
