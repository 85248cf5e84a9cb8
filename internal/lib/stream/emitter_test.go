package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitter_DeliversInOrderThenCloses(t *testing.T) {
	e := NewEmitter[string](1)

	go func() {
		for _, v := range []string{"Hello once", "Hello again"} {
			if err := e.Send(context.Background(), v); err != nil {
				return
			}
		}
		e.Complete()
	}()

	var got []string
	for v := range e.Values() {
		got = append(got, v)
	}

	assert.Equal(t, []string{"Hello once", "Hello again"}, got)
}

func TestEmitter_SendAfterComplete(t *testing.T) {
	e := NewEmitter[int](1)
	e.Complete()
	e.Complete()

	assert.ErrorIs(t, e.Send(context.Background(), 1), ErrCompleted)
}

func TestEmitter_StopUnblocksProducer(t *testing.T) {
	e := NewEmitter[int](0)

	result := make(chan error, 1)
	go func() {
		result <- e.Send(context.Background(), 1)
	}()

	e.Stop()
	e.Stop()

	select {
	case err := <-result:
		assert.ErrorIs(t, err, ErrStopped)
	case <-time.After(time.Second):
		t.Fatal("Send did not return after Stop")
	}
}

func TestEmitter_SendHonorsContext(t *testing.T) {
	e := NewEmitter[int](0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := e.Send(ctx, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
