package inbound_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prasetyahadi/gatera/internal/auth/entity"
	"github.com/prasetyahadi/gatera/internal/auth/inbound"
	"github.com/prasetyahadi/gatera/internal/auth/usecase"
	"github.com/prasetyahadi/gatera/internal/pkg/config"
	"github.com/prasetyahadi/gatera/internal/pkg/goerror"
	"github.com/prasetyahadi/gatera/internal/pkg/instrument"
	"github.com/prasetyahadi/gatera/internal/pkg/jwt"
	"github.com/prasetyahadi/gatera/internal/pkg/router"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

type stubClock struct{}

func (stubClock) Now() time.Time { return time.Now() }

type stubUUID struct{}

func (stubUUID) Generate() string { return "11111111-1111-7111-8111-111111111111" }

type stubUsecase struct {
	beginOut    *usecase.BeginLoginOutput
	beginErr    error
	completeOut *usecase.CompleteLoginOutput
	completeErr error
	resendErr   error
	logoutErr   error
	attemptsOut *usecase.RecentAttemptsOutput
	attemptsErr error

	lastBegin    *usecase.BeginLoginInput
	lastAttempts *usecase.RecentAttemptsInput
}

func (s *stubUsecase) BeginLogin(_ context.Context, in usecase.BeginLoginInput) (*usecase.BeginLoginOutput, error) {
	s.lastBegin = &in
	return s.beginOut, s.beginErr
}

func (s *stubUsecase) CompleteLogin(_ context.Context, in usecase.CompleteLoginInput) (*usecase.CompleteLoginOutput, error) {
	return s.completeOut, s.completeErr
}

func (s *stubUsecase) ResendOtp(_ context.Context, in usecase.ResendOtpInput) error {
	return s.resendErr
}

func (s *stubUsecase) Logout(_ context.Context, in usecase.LogoutInput) error {
	return s.logoutErr
}

func (s *stubUsecase) RecentAttempts(_ context.Context, in usecase.RecentAttemptsInput) (*usecase.RecentAttemptsOutput, error) {
	s.lastAttempts = &in
	return s.attemptsOut, s.attemptsErr
}

func newTestServer(t *testing.T, uc *stubUsecase) (*httptest.Server, jwt.JWT) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  maintenance:\n    endpoints: \"\"\n"))
	if err != nil {
		t.Fatalf("build config: %v", err)
	}

	jwtGen, err := jwt.NewHS512(jwt.Config{
		Secret:     []byte(testJWTSecret),
		Issuer:     "gatera-test",
		Audiences:  []string{"gatera-test"},
		TTLMinutes: 30 * time.Minute,
		Clock:      stubClock{},
		UUID:       stubUUID{},
	})
	if err != nil {
		t.Fatalf("build jwt: %v", err)
	}

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       stubUUID{},
		JWT:        jwtGen,
		Instrument: instrument.NewNoop(),
	})
	inbound.RegisterHTTPEndpoint(r, uc)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv, jwtGen
}

func postJSON(t *testing.T, url string, payload any, token string) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}

	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) (string, json.RawMessage) {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}

	return envelope.Message, envelope.Data
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		uc := &stubUsecase{beginOut: &usecase.BeginLoginOutput{SessionToken: "tok-123"}}
		srv, _ := newTestServer(t, uc)

		// Act
		resp := postJSON(t, srv.URL+"/api/v1/auth/login", map[string]string{
			"email":    "user@example.com",
			"password": "secret",
		}, "")

		// Assert
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		msg, data := decodeEnvelope(t, resp)
		if !strings.Contains(msg, "Verification code sent") {
			t.Fatalf("unexpected message %q", msg)
		}

		var out struct {
			SessionToken string `json:"session_token"`
		}
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("decode data: %v", err)
		}
		if out.SessionToken != "tok-123" {
			t.Fatalf("expected session token, got %q", out.SessionToken)
		}

		if uc.lastBegin == nil || uc.lastBegin.IPAddress == "" || uc.lastBegin.UserAgent == "" {
			t.Fatalf("expected client ip and user agent forwarded, got %+v", uc.lastBegin)
		}
	})

	t.Run("UnauthorizedCredentials", func(t *testing.T) {
		// Arrange
		uc := &stubUsecase{beginErr: goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)}
		srv, _ := newTestServer(t, uc)

		// Act
		resp := postJSON(t, srv.URL+"/api/v1/auth/login", map[string]string{
			"email":    "user@example.com",
			"password": "wrong",
		}, "")
		defer resp.Body.Close()

		// Assert
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("DeliveryFailureMapsTo503", func(t *testing.T) {
		// Arrange
		uc := &stubUsecase{beginErr: goerror.NewBusiness("failed to send verification code", goerror.CodeUnavailable)}
		srv, _ := newTestServer(t, uc)

		// Act
		resp := postJSON(t, srv.URL+"/api/v1/auth/login", map[string]string{
			"email":    "user@example.com",
			"password": "secret",
		}, "")
		defer resp.Body.Close()

		// Assert
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", resp.StatusCode)
		}
	})

	t.Run("UnknownFieldRejected", func(t *testing.T) {
		// Arrange
		uc := &stubUsecase{beginOut: &usecase.BeginLoginOutput{SessionToken: "tok-123"}}
		srv, _ := newTestServer(t, uc)

		// Act
		resp := postJSON(t, srv.URL+"/api/v1/auth/login", map[string]string{
			"email":    "user@example.com",
			"password": "secret",
			"extra":    "nope",
		}, "")
		defer resp.Body.Close()

		// Assert
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestLoginVerifyEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		uc := &stubUsecase{completeOut: &usecase.CompleteLoginOutput{AccessToken: "jwt-abc"}}
		srv, _ := newTestServer(t, uc)

		// Act
		resp := postJSON(t, srv.URL+"/api/v1/auth/login/verify", map[string]string{
			"session_token": "tok-123",
			"code":          "424242",
		}, "")

		// Assert
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		_, data := decodeEnvelope(t, resp)
		var out struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("decode data: %v", err)
		}
		if out.AccessToken != "jwt-abc" {
			t.Fatalf("expected access token, got %q", out.AccessToken)
		}
	})

	t.Run("WrongCode", func(t *testing.T) {
		// Arrange
		uc := &stubUsecase{completeErr: goerror.NewBusiness("invalid verification code", goerror.CodeUnauthorized)}
		srv, _ := newTestServer(t, uc)

		// Act
		resp := postJSON(t, srv.URL+"/api/v1/auth/login/verify", map[string]string{
			"session_token": "tok-123",
			"code":          "000000",
		}, "")
		defer resp.Body.Close()

		// Assert
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Run("RequiresBearerToken", func(t *testing.T) {
		// Arrange
		uc := &stubUsecase{}
		srv, _ := newTestServer(t, uc)

		// Act
		resp := postJSON(t, srv.URL+"/api/v1/auth/logout", map[string]string{
			"session_token": "tok-123",
		}, "")
		defer resp.Body.Close()

		// Assert
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("SuccessReturnsNoContent", func(t *testing.T) {
		// Arrange
		uc := &stubUsecase{}
		srv, jwtGen := newTestServer(t, uc)
		token, err := jwtGen.Generate(77, "user@example.com")
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}

		// Act
		resp := postJSON(t, srv.URL+"/api/v1/auth/logout", map[string]string{
			"session_token": "tok-123",
		}, token)
		defer resp.Body.Close()

		// Assert
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", resp.StatusCode)
		}
	})
}

func TestRecentAttemptsEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		userID := int64(77)
		uc := &stubUsecase{attemptsOut: &usecase.RecentAttemptsOutput{Attempts: []entity.LoginAttempt{
			{UserID: &userID, Email: "user@example.com", Success: true},
			{UserID: &userID, Email: "user@example.com", FailureReason: entity.FailureReasonInvalidCredentials},
		}}}
		srv, jwtGen := newTestServer(t, uc)
		token, err := jwtGen.Generate(userID, "user@example.com")
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}

		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/auth/attempts?limit=5", nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)

		// Act
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}

		// Assert
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		_, data := decodeEnvelope(t, resp)
		var out struct {
			Attempts []struct {
				Email         string `json:"email"`
				Success       bool   `json:"success"`
				FailureReason string `json:"failure_reason,omitempty"`
			} `json:"attempts"`
		}
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("decode data: %v", err)
		}
		if len(out.Attempts) != 2 {
			t.Fatalf("expected 2 attempts, got %d", len(out.Attempts))
		}
		if out.Attempts[1].FailureReason != "invalid_credentials" {
			t.Fatalf("unexpected failure reason %q", out.Attempts[1].FailureReason)
		}

		if uc.lastAttempts == nil || uc.lastAttempts.Limit != 5 {
			t.Fatalf("expected limit 5 forwarded, got %+v", uc.lastAttempts)
		}
	})

	t.Run("InvalidTokenRejected", func(t *testing.T) {
		// Arrange
		uc := &stubUsecase{attemptsErr: errors.New("should not be reached")}
		srv, _ := newTestServer(t, uc)

		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/auth/attempts", nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Authorization", "Bearer not-a-jwt")

		// Act
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		defer resp.Body.Close()

		// Assert
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
	})
}
