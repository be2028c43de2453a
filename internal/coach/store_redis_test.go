//go:build integration_test || all_tests

package coach

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testingpkg "github.com/sterrysx/gymai/pkg/testing"
)

func TestRedisStore_Live(t *testing.T) {
	rdb := testingpkg.GetRedisClient(t, 5)
	store := NewRedisStore(rdb)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)

	older := testConversation("older")
	newer := testConversation("newer")
	newer.Messages = append(newer.Messages, Message{
		Role:    RoleUser,
		Content: "one more",
		Ts:      older.LastActivity().Add(time.Hour),
	})
	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newer))

	got, err := store.Get(ctx, "newer")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)
	assert.Len(t, got.Messages, len(newer.Messages))

	// an indexed id whose payload is gone is skipped
	require.NoError(t, rdb.Del(ctx, conversationKey("older")).Err())

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "newer", infos[0].ID)
}
