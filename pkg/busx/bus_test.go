package busx_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/recipebox/pkg/busx"
	"github.com/stretchr/testify/require"
)

type ping struct{ n int }

func (ping) EventName() string { return "ping" }

type pong struct{}

func (pong) EventName() string { return "pong" }

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	bus := busx.New()
	ctx := context.Background()

	var got []string
	bus.Subscribe("ping", func(_ context.Context, ev busx.Event) {
		got = append(got, "first")
		require.Equal(t, 7, ev.(ping).n)
	})
	bus.Subscribe("ping", func(context.Context, busx.Event) { got = append(got, "second") })
	bus.Subscribe("pong", func(context.Context, busx.Event) { got = append(got, "pong") })

	bus.Publish(ctx, ping{n: 7})
	require.Equal(t, []string{"first", "second"}, got)
}

func TestLateSubscriberMissesPastEvents(t *testing.T) {
	bus := busx.New()
	ctx := context.Background()

	bus.Publish(ctx, ping{})

	calls := 0
	bus.Subscribe("ping", func(context.Context, busx.Event) { calls++ })
	require.Equal(t, 0, calls)

	bus.Publish(ctx, ping{})
	require.Equal(t, 1, calls)
}

func TestUnsubscribe(t *testing.T) {
	bus := busx.New()
	ctx := context.Background()

	calls := 0
	unsub := bus.Subscribe("ping", func(context.Context, busx.Event) { calls++ })
	require.Equal(t, 1, bus.Len("ping"))

	unsub()
	unsub() // second call is a no-op
	require.Equal(t, 0, bus.Len("ping"))

	bus.Publish(ctx, ping{})
	require.Equal(t, 0, calls)
}

func TestHandlersMayReenterTheBus(t *testing.T) {
	bus := busx.New()
	ctx := context.Background()

	var unsub func()
	pongs := 0
	unsub = bus.Subscribe("ping", func(ctx context.Context, _ busx.Event) {
		unsub()
		bus.Subscribe("pong", func(context.Context, busx.Event) { pongs++ })
		bus.Publish(ctx, pong{})
	})

	bus.Publish(ctx, ping{})
	bus.Publish(ctx, ping{})

	require.Equal(t, 1, pongs)
	require.Equal(t, 0, bus.Len("ping"))
	require.Equal(t, 1, bus.Len("pong"))
}

func TestZeroValueBus(t *testing.T) {
	var bus busx.Bus
	called := false
	bus.Subscribe("ping", func(context.Context, busx.Event) { called = true })
	bus.Publish(context.Background(), ping{})
	require.True(t, called)
}
