package mq

import (
	"context"
	"encoding/json"

	"github.com/prasetyahadi/gatera/internal/auth/usecase"
	"github.com/prasetyahadi/gatera/internal/pkg/instrument"
	"github.com/prasetyahadi/gatera/internal/pkg/messaging"
	"github.com/prasetyahadi/gatera/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishLoginActivity(ctx context.Context, msg usecase.LoginActivityEvent) error {
	ctx, span := m.ins.Tracer("auth.outbound.mq").Start(ctx, "PublishLoginActivity")
	defer span.End()

	body, err := json.Marshal(event.LoginActivityMessage{
		UserID:        msg.UserID,
		Email:         msg.Email,
		IPAddress:     msg.IPAddress,
		UserAgent:     msg.UserAgent,
		Success:       msg.Success,
		FailureReason: msg.FailureReason,
		OccurredAt:    msg.OccurredAt.Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.LoginActivityDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
