package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationMarker_FirstCallWins(t *testing.T) {
	mr, client := newTestClient(t)
	marker := NewNotificationMarker(client, time.Hour)
	ctx := context.Background()

	first, err := marker.MarkNotified(ctx, "ord_abc")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := marker.MarkNotified(ctx, "ord_abc")
	require.NoError(t, err)
	assert.False(t, again)

	other, err := marker.MarkNotified(ctx, "ord_def")
	require.NoError(t, err)
	assert.True(t, other)

	assert.Equal(t, time.Hour, mr.TTL("notified:ord_abc"))
}

func TestNotificationMarker_ExpiredMarkerAllowsResend(t *testing.T) {
	mr, client := newTestClient(t)
	marker := NewNotificationMarker(client, time.Minute)
	ctx := context.Background()

	_, err := marker.MarkNotified(ctx, "ord_abc")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	ok, err := marker.MarkNotified(ctx, "ord_abc")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNotificationMarker_StoreDown(t *testing.T) {
	mr, client := newTestClient(t)
	marker := NewNotificationMarker(client, time.Minute)
	mr.Close()

	ok, err := marker.MarkNotified(context.Background(), "ord_abc")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "notified marker")
}
