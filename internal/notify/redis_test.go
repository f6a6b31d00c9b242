package notify_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/notify"
)

func TestRedisDispatcher_Send(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	d, err := notify.NewRedisDispatcher(server.Addr(), "", 0, "notifications")
	require.NoError(t, err)
	defer d.Close()

	ctx := context.Background()
	require.NoError(t, d.Send(ctx, domain.UserRecipient("user-1"), "your case was closed"))
	require.NoError(t, d.Send(ctx, domain.OperatorRecipient("op-1"), "you were assigned"))

	items, err := server.List("notifications")
	require.NoError(t, err)
	require.Len(t, items, 2)

	var first notify.Message
	require.NoError(t, json.Unmarshal([]byte(items[0]), &first))
	assert.Equal(t, domain.RecipientUser, first.RecipientKind)
	assert.Equal(t, "user-1", first.RecipientID)
	assert.Equal(t, "your case was closed", first.Text)
	assert.False(t, first.CreatedAt.IsZero())

	var second notify.Message
	require.NoError(t, json.Unmarshal([]byte(items[1]), &second))
	assert.Equal(t, domain.RecipientOperator, second.RecipientKind)
}

func TestRedisDispatcher_RejectsEmptyMessages(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	d, err := notify.NewRedisDispatcher(server.Addr(), "", 0, "notifications")
	require.NoError(t, err)
	defer d.Close()

	err = d.Send(context.Background(), domain.UserRecipient(""), "hello")
	assert.ErrorIs(t, err, domain.ErrNotificationFailed)

	err = d.Send(context.Background(), domain.UserRecipient("user-1"), "")
	assert.ErrorIs(t, err, domain.ErrNotificationFailed)

	assert.False(t, server.Exists("notifications"))
}

func TestRedisDispatcher_FailsWhenServerGone(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)

	d, err := notify.NewRedisDispatcher(server.Addr(), "", 0, "notifications")
	require.NoError(t, err)
	defer d.Close()

	server.Close()

	err = d.Send(context.Background(), domain.UserRecipient("user-1"), "hello")
	assert.ErrorIs(t, err, domain.ErrNotificationFailed)
}

func TestNewRedisDispatcher_Unreachable(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	addr := server.Addr()
	server.Close()

	_, err = notify.NewRedisDispatcher(addr, "", 0, "notifications")
	assert.Error(t, err)
}

func TestNew_Backends(t *testing.T) {
	d, closeFn, err := notify.New(notify.Config{Backend: notify.BackendLog}, nil)
	require.NoError(t, err)
	defer closeFn()
	assert.NoError(t, d.Send(context.Background(), domain.UserRecipient("u"), "hi"))

	_, _, err = notify.New(notify.Config{Backend: "carrier-pigeon"}, nil)
	assert.Error(t, err)

	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	d, closeFn, err = notify.New(notify.Config{
		Backend:   notify.BackendRedis,
		RedisAddr: server.Addr(),
		RedisList: "q",
	}, nil)
	require.NoError(t, err)
	defer closeFn()
	require.NoError(t, d.Send(context.Background(), domain.UserRecipient("u"), "hi"))

	items, err := server.List("q")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
