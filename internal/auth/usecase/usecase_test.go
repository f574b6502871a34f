package usecase_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/prasetyahadi/gatera/internal/auth/entity"
	"github.com/prasetyahadi/gatera/internal/auth/usecase"
	"github.com/prasetyahadi/gatera/internal/pkg/config"
	"github.com/prasetyahadi/gatera/internal/pkg/goerror"
	"github.com/prasetyahadi/gatera/internal/pkg/goroutine"
	"github.com/prasetyahadi/gatera/internal/pkg/hash"
	"github.com/prasetyahadi/gatera/internal/pkg/instrument"
	"github.com/prasetyahadi/gatera/internal/pkg/jwt"
	"github.com/prasetyahadi/gatera/internal/pkg/mail"
	"github.com/prasetyahadi/gatera/internal/pkg/validator"
	"go.uber.org/atomic"
)

const testConfigYAML = `
modules:
  auth:
    otp_digits: 6
    otp_expiry_minutes: 5
    session_ttl_minutes: 10
    authenticated_ttl_minutes: 60
    max_recent_attempts: 20
`

const testJWTSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

var testNow = time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type seqNumberID struct {
	last atomic.Int64
}

func (s *seqNumberID) Generate() int64 { return s.last.Inc() }

type fixedStringID struct {
	value string
}

func (s *fixedStringID) Generate() string { return s.value }

type stubOtp struct {
	mu    sync.Mutex
	codes []string
	next  int
	err   error
}

func (s *stubOtp) Generate() (string, error) {
	if s.err != nil {
		return "", s.err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	code := s.codes[s.next]
	if s.next < len(s.codes)-1 {
		s.next++
	}

	return code, nil
}

type fakeDB struct {
	mu       sync.Mutex
	users    map[string]entity.UserLoginInfo
	otps     map[int64]*entity.OtpCode
	attempts []entity.LoginAttempt

	failCreateAttempt bool
	failCreateOtp     bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users: make(map[string]entity.UserLoginInfo),
		otps:  make(map[int64]*entity.OtpCode),
	}
}

func (f *fakeDB) GetUserLoginInfo(_ context.Context, email string) (*entity.UserLoginInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &user, nil
}

func (f *fakeDB) GetLatestUnusedOtpCode(_ context.Context, userID int64, code string) (*entity.OtpCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matches []*entity.OtpCode
	for _, row := range f.otps {
		if row.UserID == userID && row.Code == code && !row.Used {
			matches = append(matches, row)
		}
	}
	if len(matches) == 0 {
		return nil, goerror.ErrNotFound
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	row := *matches[0]

	return &row, nil
}

func (f *fakeDB) ListRecentLoginAttempts(_ context.Context, userID int64, limit int32) ([]entity.LoginAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []entity.LoginAttempt
	for _, a := range f.attempts {
		if a.UserID != nil && *a.UserID == userID {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if int32(len(out)) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (f *fakeDB) CreateOtpCode(_ context.Context, in entity.OtpCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreateOtp {
		return errors.New("insert otp failed")
	}

	row := in
	f.otps[in.ID] = &row

	return nil
}

func (f *fakeDB) CreateLoginAttempt(_ context.Context, in entity.LoginAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreateAttempt {
		return errors.New("insert attempt failed")
	}

	f.attempts = append(f.attempts, in)

	return nil
}

func (f *fakeDB) MarkOtpCodeConsumed(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.otps[id]
	if !ok || row.Used {
		return false, nil
	}

	row.Used = true
	row.Verified = true

	return true, nil
}

func (f *fakeDB) lastAttempt() *entity.LoginAttempt {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.attempts) == 0 {
		return nil
	}

	a := f.attempts[len(f.attempts)-1]

	return &a
}

func (f *fakeDB) attemptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.attempts)
}

func (f *fakeDB) otpByID(id int64) *entity.OtpCode {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.otps[id]
	if !ok {
		return nil
	}

	cp := *row

	return &cp
}

type fakeSession struct {
	mu       sync.Mutex
	sessions map[string]entity.LoginSession
	ttls     map[string]time.Duration

	failSave bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		sessions: make(map[string]entity.LoginSession),
		ttls:     make(map[string]time.Duration),
	}
}

func (f *fakeSession) SaveSession(_ context.Context, tokenHash string, in entity.LoginSession, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSave {
		return errors.New("save session failed")
	}

	f.sessions[tokenHash] = in
	f.ttls[tokenHash] = ttl

	return nil
}

func (f *fakeSession) GetSession(_ context.Context, tokenHash string) (*entity.LoginSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sess, ok := f.sessions[tokenHash]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &sess, nil
}

func (f *fakeSession) DeleteSession(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.sessions, tokenHash)
	delete(f.ttls, tokenHash)

	return nil
}

func (f *fakeSession) get(tokenHash string) (entity.LoginSession, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sess, ok := f.sessions[tokenHash]

	return sess, ok
}

type fakeMail struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, msg)

	return nil
}

func (f *fakeMail) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.sent)
}

func (f *fakeMail) lastSent() *mail.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.sent) == 0 {
		return nil
	}

	m := f.sent[len(f.sent)-1]

	return &m
}

type fakeMessaging struct {
	mu     sync.Mutex
	events []usecase.LoginActivityEvent
}

func (f *fakeMessaging) PublishLoginActivity(_ context.Context, msg usecase.LoginActivityEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, msg)

	return nil
}

type fixture struct {
	uc        *usecase.Usecase
	db        *fakeDB
	session   *fakeSession
	mail      *fakeMail
	messaging *fakeMessaging
	clock     *fixedClock
	goroutine *goroutine.Manager
	hmac      hash.Hash
	bcrypt    hash.Hash
	jwt       jwt.JWT
}

// tokenHash mirrors the session key derivation done by the usecase.
func (f *fixture) tokenHash(t *testing.T, token string) string {
	t.Helper()

	hashed, err := f.hmac.Hash(token)
	if err != nil {
		t.Fatalf("hash session token: %v", err)
	}

	return string(hashed)
}

func (f *fixture) hashPassword(t *testing.T, plaintext string) string {
	t.Helper()

	hashed, err := f.bcrypt.Hash(plaintext)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	return string(hashed)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	return newFixtureWithConfig(t, testConfigYAML)
}

func newFixtureWithConfig(t *testing.T, configYAML string) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(configYAML))
	if err != nil {
		t.Fatalf("build config: %v", err)
	}

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("build validator: %v", err)
	}

	clk := &fixedClock{now: testNow}
	jwtGen, err := jwt.NewHS512(jwt.Config{
		Secret:     []byte(testJWTSecret),
		Issuer:     "gatera-test",
		Audiences:  []string{"gatera-test"},
		TTLMinutes: 30 * time.Minute,
		Clock:      clk,
		UUID:       &fixedStringID{value: "11111111-1111-7111-8111-111111111111"},
	})
	if err != nil {
		t.Fatalf("build jwt: %v", err)
	}

	f := &fixture{
		db:        newFakeDB(),
		session:   newFakeSession(),
		mail:      &fakeMail{},
		messaging: &fakeMessaging{},
		clock:     clk,
		goroutine: goroutine.NewManager(10),
		hmac:      hash.NewHMACSHA256("test-hmac-secret"),
		bcrypt:    hash.NewBcrypt(4, "test-pepper"),
		jwt:       jwtGen,
	}

	f.uc = usecase.New(usecase.Dependency{
		RepoDB:        f.db,
		RepoSession:   f.session,
		RepoMail:      f.mail,
		RepoMessaging: f.messaging,
		Validator:     v10,
		Config:        cfg,
		HMAC:          f.hmac,
		Bcrypt:        f.bcrypt,
		UID:           &seqNumberID{},
		OID:           &fixedStringID{value: sessionToken},
		Otp:           &stubOtp{codes: []string{"424242", "535353"}},
		Clock:         clk,
		JWT:           jwtGen,
		Instrument:    instrument.NewNoop(),
		Goroutine:     f.goroutine,
	})

	return f
}

const sessionToken = "aaaabbbbccccddddeeeeffff0000111122223333444455556666777788889999"

func (f *fixture) seedUser(t *testing.T, email, password string, status entity.UserStatus) entity.UserLoginInfo {
	t.Helper()

	user := entity.UserLoginInfo{
		ID:       77,
		Email:    email,
		FullName: "Test User",
		Status:   status,
		Password: f.hashPassword(t, password),
	}
	f.db.users[email] = user

	return user
}

func assertErrorCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error with code %s, got nil", want)
	}

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %T: %v", err, err)
	}
	if gerr.Code() != want {
		t.Fatalf("expected code %s, got %s (%v)", want, gerr.Code(), err)
	}
}
