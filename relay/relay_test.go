package relay

import (
	"context"
	"testing"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pushmesh/pushmesh/domain"
	"github.com/pushmesh/pushmesh/queue"
	"github.com/pushmesh/pushmesh/redisprovider/testredisprovider"
	"github.com/pushmesh/pushmesh/repo/tokenrepo"
	"github.com/pushmesh/pushmesh/repo/tokenrepo/mock_tokenrepo"
	"github.com/pushmesh/pushmesh/repo/topicrepo"
	"github.com/pushmesh/pushmesh/repo/topicrepo/mock_topicrepo"
)

var ctx = context.Background()

func TestRelay_RouteTopic(t *testing.T) {
	fx := newFixture(t)
	topic := domain.NewTopic("news")
	fx.topicRepo.EXPECT().GetTokensByTopics(gomock.Any(), []domain.Topic{topic}).
		Return([]domain.Token{"sender-1", "desktop-1", "android-1"}, nil)
	fx.tokenRepo.EXPECT().GetActiveDevices(gomock.Any(), []domain.Token{"sender-1", "desktop-1", "android-1"}).
		Return([]domain.Device{
			{Token: "sender-1", Platform: domain.PlatformDesktop},
			{Token: "desktop-1", Platform: domain.PlatformDesktop},
			{Token: "android-1", Platform: domain.PlatformAndroid},
		}, nil)

	desktopMsgs := fx.consumeDevice(t, "desktop-1")
	senderMsgs := fx.consumeDevice(t, "sender-1")

	require.NoError(t, fx.queue.Add(ctx, domain.Message{
		To:        topic.String(),
		From:      "sender-1",
		MessageID: "m1",
		Data:      map[string]string{"k": "v"},
	}))

	select {
	case msg := <-desktopMsgs:
		assert.Equal(t, "m1", msg.MessageID)
		assert.Equal(t, "sender-1", msg.From)
		assert.Equal(t, int32(domain.MaxTTLSeconds), msg.TTLSeconds)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for desktop delivery")
	}
	select {
	case send := <-fx.provider.sends:
		assert.Equal(t, []string{"android-1"}, send.tokens)
		assert.Equal(t, "m1", send.msg.MessageID)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for provider delivery")
	}
	// the sender receives a receipt, not its own message back
	select {
	case msg := <-senderMsgs:
		assert.Equal(t, domain.MessageTypeSendEvent, msg.MessageType)
		assert.Equal(t, "m1", msg.MessageID)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for receipt")
	}
}

func TestRelay_RouteDirect(t *testing.T) {
	fx := newFixture(t)
	fx.tokenRepo.EXPECT().GetActiveDevices(gomock.Any(), []domain.Token{"desktop-2"}).
		Return([]domain.Device{{Token: "desktop-2", Platform: domain.PlatformDesktop}}, nil)

	msgs := fx.consumeDevice(t, "desktop-2")
	require.NoError(t, fx.queue.Add(ctx, domain.Message{To: "desktop-2", MessageID: "m2"}))

	select {
	case msg := <-msgs:
		assert.Equal(t, "m2", msg.MessageID)
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}

func TestRelay_ApplyControl(t *testing.T) {
	fx := newFixture(t)
	registered := make(chan domain.Device, 1)
	fx.tokenRepo.EXPECT().Register(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, d domain.Device) {
			registered <- d
		}).Return(nil)
	subscribed := make(chan struct{}, 1)
	fx.topicRepo.EXPECT().Subscribe(gomock.Any(), domain.Token("t1"), domain.Topic("/topics/news")).
		Do(func(_ context.Context, _ domain.Token, _ domain.Topic) {
			subscribed <- struct{}{}
		}).Return(nil)

	require.NoError(t, fx.queue.AddControl(ctx, domain.Control{
		Op:       domain.ControlOpRegister,
		Token:    "t1",
		Platform: domain.PlatformAndroid,
	}))
	require.NoError(t, fx.queue.AddControl(ctx, domain.Control{
		Op:    domain.ControlOpSubscribe,
		Token: "t1",
		Topic: "/topics/news",
	}))

	select {
	case d := <-registered:
		assert.Equal(t, domain.Token("t1"), d.Token)
		assert.Equal(t, domain.PlatformAndroid, d.Platform)
		assert.Equal(t, domain.TokenStatusValid, d.Status)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for register")
	}
	select {
	case <-subscribed:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for subscribe")
	}
}

func TestRelay_InvalidTokens(t *testing.T) {
	fx := newFixture(t)
	fx.provider.invalid = []string{"android-dead"}
	fx.tokenRepo.EXPECT().GetActiveDevices(gomock.Any(), gomock.Any()).
		Return([]domain.Device{{Token: "android-dead", Platform: domain.PlatformAndroid}}, nil)

	removed := make(chan []domain.Token, 1)
	fx.tokenRepo.EXPECT().RemoveTokens(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, tokens []domain.Token) {
			removed <- tokens
		}).Return(nil)
	fx.topicRepo.EXPECT().RemoveToken(gomock.Any(), domain.Token("android-dead")).Return(nil)

	require.NoError(t, fx.queue.Add(ctx, domain.Message{To: "android-dead", MessageID: "m3"}))

	select {
	case tokens := <-removed:
		assert.Equal(t, []domain.Token{"android-dead"}, tokens)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for token removal")
	}
}

type providerSend struct {
	tokens []string
	msg    domain.Message
}

type fakeProvider struct {
	sends   chan providerSend
	invalid []string
}

func (f *fakeProvider) SendMessage(ctx context.Context, tokens []string, msg domain.Message, onInvalid func(token string)) error {
	for _, token := range f.invalid {
		onInvalid(token)
	}
	f.sends <- providerSend{tokens: tokens, msg: msg}
	return nil
}

type testConfig struct{}

func (c *testConfig) Init(a *app.App) error { return nil }
func (c *testConfig) Name() string          { return "config" }
func (c *testConfig) GetRelay() Config      { return Config{Consumers: 1} }

type fixture struct {
	Relay
	a         *app.App
	queue     queue.Queue
	tokenRepo *mock_tokenrepo.MockTokenRepo
	topicRepo *mock_topicrepo.MockTopicRepo
	provider  *fakeProvider
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	fx := &fixture{
		Relay:     New(),
		a:         new(app.App),
		queue:     queue.New(),
		tokenRepo: mock_tokenrepo.NewMockTokenRepo(ctrl),
		topicRepo: mock_topicrepo.NewMockTopicRepo(ctrl),
		provider:  &fakeProvider{sends: make(chan providerSend, 16)},
	}
	fx.tokenRepo.EXPECT().Name().Return(tokenrepo.CName).AnyTimes()
	fx.tokenRepo.EXPECT().Init(gomock.Any()).Return(nil).AnyTimes()
	fx.tokenRepo.EXPECT().Run(gomock.Any()).Return(nil).AnyTimes()
	fx.tokenRepo.EXPECT().Close(gomock.Any()).Return(nil).AnyTimes()
	fx.topicRepo.EXPECT().Name().Return(topicrepo.CName).AnyTimes()
	fx.topicRepo.EXPECT().Init(gomock.Any()).Return(nil).AnyTimes()
	fx.topicRepo.EXPECT().Run(gomock.Any()).Return(nil).AnyTimes()
	fx.topicRepo.EXPECT().Close(gomock.Any()).Return(nil).AnyTimes()
	fx.a.Register(new(testConfig)).
		Register(testredisprovider.NewTestRedisProvider()).
		Register(fx.tokenRepo).
		Register(fx.topicRepo).
		Register(fx.queue).
		Register(fx.Relay)
	require.NoError(t, fx.a.Start(ctx))
	fx.RegisterProvider(domain.PlatformAndroid, fx.provider)
	t.Cleanup(func() {
		require.NoError(t, fx.a.Close(ctx))
	})
	return fx
}

func (fx *fixture) consumeDevice(t *testing.T, token domain.Token) chan domain.Message {
	msgs := make(chan domain.Message, 16)
	require.NoError(t, fx.queue.ConsumeDevice(ctx, token, func(msg domain.Message) error {
		msgs <- msg
		return nil
	}))
	return msgs
}
