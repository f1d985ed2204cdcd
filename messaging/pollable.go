package messaging

import (
	"sync"

	"github.com/pushmesh/pushmesh/domain"
)

// PollableListener adapts the asynchronous Listener callbacks to a
// synchronous, poll-based consumer, for applications that drain events from
// a fixed-rate loop. Incoming messages are queued in arrival order; the
// registration token is a single slot where the latest write wins.
//
//	listener := messaging.NewPollableListener()
//	svc.SetListener(listener)
//	for {
//		if token, ok := listener.PollRegistrationToken(); ok {
//			// persist token
//		}
//		for msg, ok := listener.PollMessage(); ok; msg, ok = listener.PollMessage() {
//			// handle msg
//		}
//		// rest of the update loop
//	}
type PollableListener struct {
	mu       sync.Mutex
	msgs     []domain.Message
	limit    int
	token    domain.Token
	hasToken bool
}

// NewPollableListener returns a listener with an unbounded message queue:
// memory grows if the consumer never polls.
func NewPollableListener() *PollableListener {
	return &PollableListener{}
}

// NewBoundedPollableListener caps the pending queue at limit messages,
// dropping the oldest message when one arrives at capacity.
func NewBoundedPollableListener(limit int) *PollableListener {
	return &PollableListener{limit: limit}
}

// OnMessage queues a deep copy of msg for PollMessage. Safe to call from
// any goroutine; never blocks beyond lock contention.
func (p *PollableListener) OnMessage(msg domain.Message) {
	msg = msg.Copy()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.limit > 0 && len(p.msgs) >= p.limit {
		p.msgs = p.msgs[1:]
	}
	p.msgs = append(p.msgs, msg)
}

// OnTokenReceived caches the latest token for PollRegistrationToken.
// An unpolled previous token is overwritten.
func (p *PollableListener) OnTokenReceived(token domain.Token) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = token
	p.hasToken = true
}

// PollMessage pops the oldest queued message. It reports false when the
// queue is empty and is safe to call repeatedly in a tight loop.
func (p *PollableListener) PollMessage() (msg domain.Message, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.msgs) == 0 {
		return domain.Message{}, false
	}
	msg = p.msgs[0]
	p.msgs[0] = domain.Message{}
	p.msgs = p.msgs[1:]
	return msg, true
}

// PollRegistrationToken returns and clears the cached token, if any.
func (p *PollableListener) PollRegistrationToken() (token domain.Token, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.hasToken {
		return "", false
	}
	token = p.token
	p.token = ""
	p.hasToken = false
	return token, true
}
