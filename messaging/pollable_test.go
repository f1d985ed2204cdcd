package messaging

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushmesh/pushmesh/domain"
)

func TestPollableListener_FIFO(t *testing.T) {
	l := NewPollableListener()
	for i := 1; i <= 3; i++ {
		l.OnMessage(domain.Message{MessageID: fmt.Sprintf("m%d", i)})
	}
	for i := 1; i <= 3; i++ {
		msg, ok := l.PollMessage()
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("m%d", i), msg.MessageID)
	}
	_, ok := l.PollMessage()
	assert.False(t, ok)
}

func TestPollableListener_EmptyPoll(t *testing.T) {
	l := NewPollableListener()
	for range 10 {
		msg, ok := l.PollMessage()
		assert.False(t, ok)
		assert.Equal(t, domain.Message{}, msg)
	}
}

func TestPollableListener_TokenLastWriteWins(t *testing.T) {
	l := NewPollableListener()

	_, ok := l.PollRegistrationToken()
	require.False(t, ok)

	l.OnTokenReceived("A")
	l.OnTokenReceived("B")

	token, ok := l.PollRegistrationToken()
	require.True(t, ok)
	assert.Equal(t, domain.Token("B"), token)

	_, ok = l.PollRegistrationToken()
	assert.False(t, ok)
}

func TestPollableListener_DeepCopy(t *testing.T) {
	l := NewPollableListener()
	orig := domain.Message{
		MessageID:    "m1",
		Data:         map[string]string{"k": "v"},
		Notification: &domain.Notification{Title: "title"},
	}
	l.OnMessage(orig)

	orig.Data["k"] = "changed"
	orig.Notification.Title = "changed"

	msg, ok := l.PollMessage()
	require.True(t, ok)
	assert.Equal(t, "v", msg.Data["k"])
	require.NotNil(t, msg.Notification)
	assert.Equal(t, "title", msg.Notification.Title)
}

func TestPollableListener_ConcurrentProducers(t *testing.T) {
	const (
		producers = 8
		perProd   = 100
	)
	l := NewPollableListener()

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProd {
				l.OnMessage(domain.Message{
					From:      fmt.Sprintf("p%d", p),
					MessageID: fmt.Sprintf("p%d-%d", p, i),
					Data:      map[string]string{"seq": fmt.Sprint(i)},
				})
			}
		}()
	}
	wg.Wait()

	var (
		total   int
		lastSeq = make(map[string]int)
	)
	for {
		msg, ok := l.PollMessage()
		if !ok {
			break
		}
		total++
		var seq int
		_, err := fmt.Sscan(msg.Data["seq"], &seq)
		require.NoError(t, err)
		last, seen := lastSeq[msg.From]
		if seen {
			// order within one producer must be preserved
			require.Greater(t, seq, last)
		}
		lastSeq[msg.From] = seq
	}
	assert.Equal(t, producers*perProd, total)
	assert.Len(t, lastSeq, producers)
}

func TestBoundedPollableListener_DropOldest(t *testing.T) {
	l := NewBoundedPollableListener(2)
	l.OnMessage(domain.Message{MessageID: "m1"})
	l.OnMessage(domain.Message{MessageID: "m2"})
	l.OnMessage(domain.Message{MessageID: "m3"})

	msg, ok := l.PollMessage()
	require.True(t, ok)
	assert.Equal(t, "m2", msg.MessageID)
	msg, ok = l.PollMessage()
	require.True(t, ok)
	assert.Equal(t, "m3", msg.MessageID)
	_, ok = l.PollMessage()
	assert.False(t, ok)
}
