package notify

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type broadcastRecorder struct {
	threadIDs []uuid.UUID
	payloads  [][]byte
}

func (b *broadcastRecorder) Broadcast(threadID uuid.UUID, data []byte) {
	b.threadIDs = append(b.threadIDs, threadID)
	b.payloads = append(b.payloads, data)
}

func TestRedisRelay_Handle(t *testing.T) {
	target := &broadcastRecorder{}
	relay := NewRedisRelay(nil, "forum:events", target, zap.NewNop())

	threadID := uuid.New()
	data, err := Encode(Event{Kind: KindRemove, Entity: EntityThread, ThreadID: threadID})
	require.NoError(t, err)

	relay.handle(string(data))
	relay.handle("garbage")

	require.Len(t, target.threadIDs, 1)
	assert.Equal(t, threadID, target.threadIDs[0])
	assert.JSONEq(t, string(data), string(target.payloads[0]))

	// Stop without Start must not block
	relay.Stop()
}
