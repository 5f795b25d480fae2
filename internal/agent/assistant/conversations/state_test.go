package conversations

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/property-assistant/server/internal/agent/model"
	"github.com/property-assistant/server/internal/agent/repo"
	errx "github.com/property-assistant/server/internal/core/error"
	logx "github.com/property-assistant/server/pkg/logger"
)

func init() {
	logx.Disable()
}

func repos(t *testing.T) map[string]model.ConversationRepository {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return map[string]model.ConversationRepository{
		"memory": repo.NewMemoryConversationRepository(),
		"redis":  repo.NewRedisConversationRepository(rdb, time.Minute),
	}
}

func TestState_AppendSnapshotReset(t *testing.T) {
	for name, r := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := NewState("session-1", r)

			n, err := s.Len(ctx)
			require.NoError(t, err)
			assert.Zero(t, n)

			require.NoError(t, s.Append(ctx, NewTurn(model.RoleUser, "hi")))
			require.NoError(t, s.Append(ctx, model.Turn{Role: model.RoleAssistant, Content: "hello"}))
			require.NoError(t, s.Append(ctx, ErrorTurn("Sorry, I encountered an error.")))

			snap, err := s.Snapshot(ctx)
			require.NoError(t, err)
			require.Len(t, snap, 3)
			assert.Equal(t, "hi", snap[0].Content)
			assert.Equal(t, "hello", snap[1].Content)
			assert.NotEmpty(t, snap[1].ID, "missing id is filled")
			assert.False(t, snap[1].Timestamp.IsZero(), "missing timestamp is filled")
			assert.True(t, snap[2].IsError)

			require.NoError(t, s.Reset(ctx))
			require.NoError(t, s.Reset(ctx), "reset is idempotent")
			snap, err = s.Snapshot(ctx)
			require.NoError(t, err)
			assert.Empty(t, snap)
		})
	}
}

func TestState_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewState("s", repo.NewMemoryConversationRepository())
	require.NoError(t, s.Append(ctx, NewTurn(model.RoleUser, "original")))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	snap[0].Content = "mutated"

	again, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Content)
}

func TestState_SnapshotDoesNotShareUsage(t *testing.T) {
	ctx := context.Background()
	s := NewState("s", repo.NewMemoryConversationRepository())
	reply := NewTurn(model.RoleAssistant, "hi")
	reply.Usage = &model.UsageReport{Model: "m", PromptTokens: 1000, CompletionTokens: 200, TotalTokens: 1200}
	require.NoError(t, s.Append(ctx, reply))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	snap[0].Usage.PromptTokens = 999999

	again, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, again[0].Usage)
	assert.Equal(t, 1000, again[0].Usage.PromptTokens)
}

func TestState_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	r := repo.NewMemoryConversationRepository()
	a := NewState("a", r)
	b := NewState("b", r)

	require.NoError(t, a.Append(ctx, NewTurn(model.RoleUser, "only in a")))
	require.NoError(t, b.Reset(ctx))

	n, err := a.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = b.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestState_RejectsUnknownRole(t *testing.T) {
	s := NewState("s", repo.NewMemoryConversationRepository())
	err := s.Append(context.Background(), model.Turn{Role: "tool", Content: "x"})
	assert.True(t, errx.IsKind(err, errx.KindInvalidInput))
}

func TestNewTurn_UniqueIDs(t *testing.T) {
	a := NewTurn(model.RoleUser, "x")
	b := NewTurn(model.RoleUser, "x")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, time.UTC, a.Timestamp.Location())
}
