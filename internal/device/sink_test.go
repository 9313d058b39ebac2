package device

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/campus-pocket/internal/model"
)

func TestMultiSinkJoinsErrors(t *testing.T) {
	ok := &recordingSink{}
	bad := &recordingSink{err: errors.New("offline")}

	err := MultiSink{ok, nil, bad, LogSink{}}.Deliver(context.Background(), model.Notification{Handle: "h"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
	assert.Len(t, ok.delivered(), 1)
	assert.Len(t, bad.delivered(), 1)
}

func TestChannelSinkDropsWhenFull(t *testing.T) {
	s := NewChannelSink(1)
	ctx := context.Background()

	require.NoError(t, s.Deliver(ctx, model.Notification{Handle: "a"}))
	require.NoError(t, s.Deliver(ctx, model.Notification{Handle: "b"}))

	got := <-s.C()
	assert.Equal(t, "a", got.Handle)
	select {
	case extra := <-s.C():
		t.Fatalf("unexpected reminder %s", extra.Handle)
	default:
	}
}
