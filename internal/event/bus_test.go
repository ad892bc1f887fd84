package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	b := NewBus()
	assert.NotPanics(t, func() {
		b.Publish(Event{Type: RoundStarted, Round: 1})
	})

	var nilBus *Bus
	assert.NotPanics(t, func() {
		nilBus.Publish(Event{Type: RoundStarted})
	})
}

func TestBus_DeliveryOrder(t *testing.T) {
	b := NewBus()

	var got []string
	b.Subscribe(RoundStarted, func(Event) { got = append(got, "first") })
	b.Subscribe(RoundStarted, func(Event) { got = append(got, "second") })
	b.Subscribe(RoundEnded, func(Event) { got = append(got, "other") })

	b.Publish(Event{Type: RoundStarted, Round: 3})

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()

	calls := 0
	id := b.Subscribe(EnemyKilled, func(Event) { calls++ })
	require.Equal(t, 1, b.Count(EnemyKilled))

	b.Publish(Event{Type: EnemyKilled})
	b.Unsubscribe(id)
	b.Publish(Event{Type: EnemyKilled})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, b.Count(EnemyKilled))

	// unknown id is ignored
	b.Unsubscribe(id)
}

func TestBus_UnsubscribeDuringPublish(t *testing.T) {
	b := NewBus()

	var second SubscriptionID
	calls := 0
	b.Subscribe(RoundEnded, func(Event) {
		calls++
		b.Unsubscribe(second)
	})
	second = b.Subscribe(RoundEnded, func(Event) { calls++ })

	// snapshot taken before the first handler ran
	b.Publish(Event{Type: RoundEnded})
	assert.Equal(t, 2, calls)

	b.Publish(Event{Type: RoundEnded})
	assert.Equal(t, 3, calls)
}

func TestBus_ReentrantPublish(t *testing.T) {
	b := NewBus()

	var kills, roundKills int
	b.Subscribe(EnemyKilled, func(Event) {
		kills++
		b.Publish(Event{Type: ZombieKilledForRound})
	})
	b.Subscribe(ZombieKilledForRound, func(Event) { roundKills++ })

	b.Publish(Event{Type: EnemyKilled})

	assert.Equal(t, 1, kills)
	assert.Equal(t, 1, roundKills)
}

func TestType_String(t *testing.T) {
	assert.Equal(t, "RoundStarted", RoundStarted.String())
	assert.Equal(t, "ContractCompleted", ContractCompleted.String())
	assert.Equal(t, "Unknown", Type(0).String())
}
