package goerror_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/prasetyahadi/gatera/internal/pkg/goerror"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"Unauthorized", goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized), http.StatusUnauthorized},
		{"Forbidden", goerror.NewBusiness("account is disabled", goerror.CodeForbidden), http.StatusForbidden},
		{"Unavailable", goerror.NewBusiness("failed to send verification code", goerror.CodeUnavailable), http.StatusServiceUnavailable},
		{"Server", goerror.NewServer(errors.New("boom")), http.StatusInternalServerError},
		{"InvalidInput", goerror.NewInvalidInput(errors.New("bad")), http.StatusUnprocessableEntity},
		{"InvalidFormat", goerror.NewInvalidFormat(), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gerr *goerror.Error
			if !errors.As(tc.err, &gerr) {
				t.Fatalf("expected *goerror.Error, got %T", tc.err)
			}
			if got := gerr.StatusCode(); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	// Arrange
	cause := errors.New("underlying")

	// Act
	err := goerror.NewServer(cause)

	// Assert
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable")
	}
}
