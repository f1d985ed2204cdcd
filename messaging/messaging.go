package messaging

import (
	"context"
	"errors"
	"sync"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/cheggaaa/mb/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pushmesh/pushmesh/domain"
	"github.com/pushmesh/pushmesh/transport"
)

const CName = "push.messaging"

var log = logger.NewNamed(CName)

var (
	ErrNoRecipient   = errors.New("message has no recipient")
	ErrClosed        = errors.New("messaging service is closed")
	ErrSendQueueFull = errors.New("send queue overflow")
)

// sendQueueLimit bounds locally buffered upstream messages. Overflow is
// reported synchronously from Send instead of blocking the caller.
const sendQueueLimit = 512

func New() Messaging {
	return new(messaging)
}

// Messaging is the client surface of the push service.
//
// Send, Subscribe and Unsubscribe are fire-and-forget: delivery results for
// Send arrive asynchronously on the listener as a send_event or send_error
// message correlated by MessageID. Run starts downstream delivery and
// returns transport.ErrMissingDependency when the runtime is unavailable.
type Messaging interface {
	// SetListener swaps the active listener and returns the previous one.
	// Exactly one listener is active at a time; a nil listener drops events.
	SetListener(l Listener) (previous Listener)
	Send(ctx context.Context, msg domain.Message) error
	Subscribe(ctx context.Context, topic domain.Topic) error
	Unsubscribe(ctx context.Context, topic domain.Topic) error
	app.ComponentRunnable
}

type messaging struct {
	transport transport.Transport
	sendQueue *mb.MB[domain.Message]

	mu       sync.Mutex
	listener Listener

	runCtx       context.Context
	runCtxCancel context.CancelFunc
}

func (m *messaging) Init(a *app.App) (err error) {
	m.transport = a.MustComponent(transport.CName).(transport.Transport)
	m.transport.SetHandler(m)
	m.sendQueue = mb.New[domain.Message](sendQueueLimit)
	m.runCtx, m.runCtxCancel = context.WithCancel(context.Background())
	return
}

func (m *messaging) Name() (name string) {
	return CName
}

func (m *messaging) Run(ctx context.Context) (err error) {
	go m.dispatchLoop()
	return
}

func (m *messaging) SetListener(l Listener) (previous Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	previous = m.listener
	m.listener = l
	return
}

func (m *messaging) Send(ctx context.Context, msg domain.Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	if msg.MessageID == "" {
		msg.MessageID = uuid.NewString()
	}
	// detach from caller-owned data and notification
	msg = msg.Copy()
	if err := m.sendQueue.TryAdd(msg); err != nil {
		if errors.Is(err, mb.ErrClosed) {
			return ErrClosed
		}
		return ErrSendQueueFull
	}
	return nil
}

func (m *messaging) Subscribe(ctx context.Context, topic domain.Topic) error {
	return m.transport.Subscribe(ctx, topic)
}

func (m *messaging) Unsubscribe(ctx context.Context, topic domain.Topic) error {
	return m.transport.Unsubscribe(ctx, topic)
}

func (m *messaging) dispatchLoop() {
	cond := m.sendQueue.NewCond().WithMin(1)
	for {
		msgs, err := cond.Wait(m.runCtx)
		if err != nil {
			return
		}
		for _, msg := range msgs {
			m.deliver(msg)
		}
	}
}

func (m *messaging) deliver(msg domain.Message) {
	if err := m.transport.Send(m.runCtx, msg); err != nil {
		log.Warn("upstream send failed", zap.String("messageId", msg.MessageID), zap.Error(err))
		m.HandleMessage(domain.Message{
			MessageType:      domain.MessageTypeSendError,
			MessageID:        msg.MessageID,
			Error:            "SERVICE_UNAVAILABLE",
			ErrorDescription: err.Error(),
		})
	}
}

// HandleMessage implements transport.Handler.
func (m *messaging) HandleMessage(msg domain.Message) {
	l := m.currentListener()
	if l == nil {
		log.Debug("downstream message dropped: no listener", zap.String("messageId", msg.MessageID))
		return
	}
	l.OnMessage(msg)
}

// HandleToken implements transport.Handler.
func (m *messaging) HandleToken(token domain.Token) {
	l := m.currentListener()
	if l == nil {
		log.Debug("registration token dropped: no listener")
		return
	}
	l.OnTokenReceived(token)
}

func (m *messaging) currentListener() Listener {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listener
}

func (m *messaging) Close(ctx context.Context) (err error) {
	if m.runCtxCancel != nil {
		m.runCtxCancel()
	}
	if m.sendQueue != nil {
		return m.sendQueue.Close()
	}
	return
}
