package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"signaling-service/internal/mocks"
)

func TestEmitBuildsEnvelope(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := NewAuditEmitter(publisher, "relay.audit", "signaling-service", "test")

	publisher.On("Publish", mock.Anything, "relay.audit", mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(AuditEnvelope)
		return ok &&
			envelope.SchemaVersion == 1 &&
			envelope.EventType == "relay_audit" &&
			envelope.Service == "signaling-service" &&
			envelope.Environment == "test" &&
			envelope.ConnID == "conn-1" &&
			envelope.Payload.Action == "user_kicked" &&
			envelope.Payload.Detail == "kicked by host" &&
			envelope.OccurredAt != ""
	})).Return(nil).Once()

	emitter.Emit(context.Background(), "user_kicked", "kicked by host", "conn-1")

	publisher.AssertExpectations(t)
}

func TestEmitSwallowsPublishError(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := NewAuditEmitter(publisher, "relay.audit", "signaling-service", "test")

	publisher.On("Publish", mock.Anything, "relay.audit", mock.Anything).Return(assert.AnError).Once()

	emitter.Emit(context.Background(), "ws_connect", "", "conn-1")

	publisher.AssertExpectations(t)
}

func TestEmitOnNilEmitter(t *testing.T) {
	var emitter *AuditEmitter
	emitter.Emit(context.Background(), "ws_connect", "", "conn-1")

	NewAuditEmitter(nil, "relay.audit", "signaling-service", "test").
		Emit(context.Background(), "ws_connect", "", "conn-1")
}
