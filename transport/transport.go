//go:generate mockgen -destination mock_transport/mock_transport.go github.com/pushmesh/pushmesh/transport Transport

package transport

import (
	"context"
	"errors"

	"github.com/anyproto/any-sync/app"

	"github.com/pushmesh/pushmesh/domain"
)

const CName = "push.transport"

var (
	// ErrMissingDependency is returned from Run when the platform runtime the
	// transport depends on is unreachable or not configured.
	ErrMissingDependency = errors.New("push transport: missing platform dependency")
)

// Handler consumes downstream events produced by the transport. Methods may
// be invoked from arbitrary goroutines, concurrently with each other and
// with application code, at any time after the transport starts.
type Handler interface {
	HandleMessage(msg domain.Message)
	HandleToken(token domain.Token)
}

// Transport is the boundary to the push service runtime. Implementations own
// connection management, delivery and token issuance; the messaging layer
// only forwards operations and consumes Handler callbacks.
type Transport interface {
	// SetHandler registers the downstream consumer. Must be called before Run.
	SetHandler(h Handler)
	// Send submits one upstream message. A nil error means the message was
	// accepted by the runtime, not that it was delivered.
	Send(ctx context.Context, msg domain.Message) error
	Subscribe(ctx context.Context, topic domain.Topic) error
	Unsubscribe(ctx context.Context, topic domain.Topic) error
	app.ComponentRunnable
}
