package redistransport

import (
	"context"
	"testing"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushmesh/pushmesh/domain"
	"github.com/pushmesh/pushmesh/queue"
	"github.com/pushmesh/pushmesh/redisprovider"
	"github.com/pushmesh/pushmesh/redisprovider/testredisprovider"
	"github.com/pushmesh/pushmesh/transport"
)

var ctx = context.Background()

func TestRedisTransport_TokenIssued(t *testing.T) {
	fx := newFixture(t, "")
	token := fx.waitToken(t)
	assert.NotEmpty(t, token)
}

func TestRedisTransport_TokenReused(t *testing.T) {
	fx := newFixture(t, "t-fixed")
	assert.Equal(t, domain.Token("t-fixed"), fx.waitToken(t))
}

func TestRedisTransport_Send(t *testing.T) {
	fx := newFixture(t, "t1")
	upstream := make(chan domain.Message, 1)
	require.NoError(t, fx.queue.Consume(ctx, func(msg domain.Message) error {
		upstream <- msg
		return nil
	}))

	require.NoError(t, fx.Send(ctx, domain.Message{To: "/topics/news", MessageID: "m1"}))
	select {
	case msg := <-upstream:
		assert.Equal(t, "m1", msg.MessageID)
		// sender is stamped by the transport
		assert.Equal(t, "t1", msg.From)
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}

func TestRedisTransport_Subscribe(t *testing.T) {
	fx := newFixture(t, "t1")
	ops := make(chan domain.Control, 2)
	require.NoError(t, fx.queue.ConsumeControl(ctx, func(c domain.Control) error {
		ops <- c
		return nil
	}))

	require.NoError(t, fx.Subscribe(ctx, "news"))
	for {
		select {
		case c := <-ops:
			if c.Op == domain.ControlOpRegister {
				// registration from Run, keep waiting
				continue
			}
			assert.Equal(t, domain.ControlOpSubscribe, c.Op)
			assert.Equal(t, domain.Token("t1"), c.Token)
			assert.Equal(t, domain.Topic("/topics/news"), c.Topic)
			return
		case <-time.After(time.Second):
			t.Fatal("timeout")
		}
	}
}

func TestRedisTransport_Downstream(t *testing.T) {
	fx := newFixture(t, "t1")
	require.NoError(t, fx.queue.PublishDevice("t1", domain.Message{
		To:        "t1",
		From:      "t2",
		MessageID: "m1",
	}))
	select {
	case msg := <-fx.handler.msgs:
		assert.Equal(t, "m1", msg.MessageID)
		assert.Equal(t, "t2", msg.From)
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}

func TestRedisTransport_RunUnavailable(t *testing.T) {
	tr := New()
	tr.SetHandler(&testHandler{
		msgs:   make(chan domain.Message, 1),
		tokens: make(chan domain.Token, 1),
	})
	a := new(app.App)
	a.Register(new(unreachableRedisProvider)).
		Register(&testConfig{}).
		Register(tr)
	err := a.Start(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, transport.ErrMissingDependency)
}

// unreachableRedisProvider hands out a client nothing listens for, so the
// transport's own availability check is what fails.
type unreachableRedisProvider struct {
	client redis.UniversalClient
}

func (u *unreachableRedisProvider) Init(a *app.App) (err error) {
	u.client = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	return
}

func (u *unreachableRedisProvider) Name() (name string) {
	return redisprovider.CName
}

func (u *unreachableRedisProvider) Run(ctx context.Context) (err error) {
	return
}

func (u *unreachableRedisProvider) Redis() redis.UniversalClient {
	return u.client
}

func (u *unreachableRedisProvider) Close(ctx context.Context) (err error) {
	return u.client.Close()
}

type testHandler struct {
	msgs   chan domain.Message
	tokens chan domain.Token
}

func (h *testHandler) HandleMessage(msg domain.Message) {
	h.msgs <- msg
}

func (h *testHandler) HandleToken(token domain.Token) {
	h.tokens <- token
}

type fixture struct {
	transport.Transport
	a       *app.App
	queue   queue.Queue
	handler *testHandler
}

func (fx *fixture) waitToken(t *testing.T) domain.Token {
	select {
	case token := <-fx.handler.tokens:
		return token
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for token")
		return ""
	}
}

func newFixture(t *testing.T, token string) *fixture {
	fx := &fixture{
		Transport: New(),
		a:         new(app.App),
		queue:     queue.New(),
		handler: &testHandler{
			msgs:   make(chan domain.Message, 10),
			tokens: make(chan domain.Token, 1),
		},
	}
	fx.SetHandler(fx.handler)
	fx.a.Register(testredisprovider.NewTestRedisProvider()).
		Register(&testConfig{token: token}).
		Register(fx.queue).
		Register(fx.Transport)
	require.NoError(t, fx.a.Start(ctx))
	t.Cleanup(func() {
		require.NoError(t, fx.a.Close(ctx))
	})
	return fx
}

type testConfig struct {
	token string
}

func (t *testConfig) Init(a *app.App) (err error) {
	return
}

func (t *testConfig) Name() (name string) {
	return "config"
}

func (t *testConfig) GetTransport() Config {
	return Config{Token: t.token}
}
