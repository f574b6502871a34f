package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prasetyahadi/gatera/internal/auth/entity"
	"github.com/prasetyahadi/gatera/internal/auth/usecase"
	"github.com/prasetyahadi/gatera/internal/pkg/goerror"
)

func TestResendOtp(t *testing.T) {
	t.Run("IssuesFreshCodeAndRebindsSession", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		token := beginLogin(t, f)
		before, _ := f.session.get(f.tokenHash(t, token))

		// Act
		err := f.uc.ResendOtp(context.Background(), usecase.ResendOtpInput{SessionToken: token})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if f.mail.sentCount() != 2 {
			t.Fatalf("expected 2 otp emails, got %d", f.mail.sentCount())
		}

		after, ok := f.session.get(f.tokenHash(t, token))
		if !ok || after.State != entity.SessionStateAwaitingOtp {
			t.Fatalf("expected session still awaiting otp, got %+v", after)
		}
		if after.PendingOtpID == before.PendingOtpID {
			t.Fatalf("expected session rebound to a new otp")
		}
		if !after.CreatedAt.Equal(before.CreatedAt) {
			t.Fatalf("expected session creation time preserved")
		}

		// the earlier code is still unconsumed and valid
		first := f.db.otpByID(before.PendingOtpID)
		if first == nil || first.Used {
			t.Fatalf("expected earlier otp to stay valid, got %+v", first)
		}
	})

	t.Run("EarlierCodeStillCompletesLogin", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		token := beginLogin(t, f)
		if err := f.uc.ResendOtp(context.Background(), usecase.ResendOtpInput{SessionToken: token}); err != nil {
			t.Fatalf("resend otp: %v", err)
		}

		// Act
		out, err := f.uc.CompleteLogin(context.Background(), usecase.CompleteLoginInput{
			SessionToken: token,
			Code:         "424242",
		})

		// Assert
		if err != nil {
			t.Fatalf("expected earlier code to be accepted, got %v", err)
		}
		if out.AccessToken == "" {
			t.Fatalf("expected access token in output")
		}
	})

	t.Run("DeliveryFailureKeepsPreviousBinding", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		token := beginLogin(t, f)
		before, _ := f.session.get(f.tokenHash(t, token))
		f.mail.err = errors.New("smtp down")

		// Act
		err := f.uc.ResendOtp(context.Background(), usecase.ResendOtpInput{SessionToken: token})

		// Assert
		assertErrorCode(t, err, goerror.CodeUnavailable)

		after, ok := f.session.get(f.tokenHash(t, token))
		if !ok || after.PendingOtpID != before.PendingOtpID {
			t.Fatalf("expected previous otp binding kept, got %+v", after)
		}
	})

	t.Run("NoAwaitingSession", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		err := f.uc.ResendOtp(context.Background(), usecase.ResendOtpInput{SessionToken: "deadbeef"})

		// Assert
		assertErrorCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("AuthenticatedSessionCannotResend", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		token := beginLogin(t, f)
		if _, err := f.uc.CompleteLogin(context.Background(), usecase.CompleteLoginInput{
			SessionToken: token,
			Code:         "424242",
		}); err != nil {
			t.Fatalf("complete login: %v", err)
		}

		// Act
		err := f.uc.ResendOtp(context.Background(), usecase.ResendOtpInput{SessionToken: token})

		// Assert
		assertErrorCode(t, err, goerror.CodeUnauthorized)
	})
}
