package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prasetyahadi/gatera/internal/auth/entity"
	"github.com/prasetyahadi/gatera/internal/pkg/goerror"
	"github.com/prasetyahadi/gatera/internal/pkg/instrument"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyPrefix = "auth:session:"

// Store keeps login sessions in redis, keyed by the hash of the opaque
// session token. A missing key is the unauthenticated state.
type Store struct {
	client *redis.Client
	ins    instrument.Instrumentation
}

func NewStore(client *redis.Client, ins instrument.Instrumentation) *Store {
	return &Store{client: client, ins: ins}
}

func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.outbound.session").Start(ctx, name)
}

func (s *Store) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Store) SaveSession(ctx context.Context, tokenHash string, in entity.LoginSession, ttl time.Duration) (err error) {
	ctx, span := s.startSpan(ctx, "SaveSession")
	defer func() { s.endSpan(span, err) }()

	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	err = s.client.Set(ctx, keyPrefix+tokenHash, body, ttl).Err()
	return err
}

func (s *Store) GetSession(ctx context.Context, tokenHash string) (_ *entity.LoginSession, err error) {
	ctx, span := s.startSpan(ctx, "GetSession")
	defer func() { s.endSpan(span, err) }()

	body, err := s.client.Get(ctx, keyPrefix+tokenHash).Bytes()
	if errors.Is(err, redis.Nil) {
		err = goerror.ErrNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	var out entity.LoginSession
	if err = json.Unmarshal(body, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (s *Store) DeleteSession(ctx context.Context, tokenHash string) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteSession")
	defer func() { s.endSpan(span, err) }()

	err = s.client.Del(ctx, keyPrefix+tokenHash).Err()
	return err
}
