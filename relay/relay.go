package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/cheggaaa/mb/v3"
	"go.uber.org/zap"

	"github.com/pushmesh/pushmesh/domain"
	"github.com/pushmesh/pushmesh/metric"
	"github.com/pushmesh/pushmesh/queue"
	"github.com/pushmesh/pushmesh/repo/tokenrepo"
	"github.com/pushmesh/pushmesh/repo/topicrepo"
)

const CName = "push.relay"

var log = logger.NewNamed(CName)

const (
	defaultConsumers  = 10
	invalidTokenBatch = 10
)

type Config struct {
	Consumers int `yaml:"consumers"`
}

type configSource interface {
	GetRelay() Config
}

func New() Relay {
	return new(relay)
}

type Relay interface {
	RegisterProvider(p domain.Platform, provider Provider)
	app.ComponentRunnable
}

// Provider pushes a message to a batch of device tokens through an external
// delivery service. Tokens rejected by the service as dead are reported
// through onInvalid.
type Provider interface {
	SendMessage(ctx context.Context, tokens []string, msg domain.Message, onInvalid func(token string)) (err error)
}

type relay struct {
	queue         queue.Queue
	tokenRepo     tokenrepo.TokenRepo
	topicRepo     topicrepo.TopicRepo
	providers     map[domain.Platform]Provider
	invalidTokens *mb.MB[domain.Token]
	consumers     int
	metrics       metrics
}

func (r *relay) Init(a *app.App) (err error) {
	r.queue = a.MustComponent(queue.CName).(queue.Queue)
	r.tokenRepo = a.MustComponent(tokenrepo.CName).(tokenrepo.TokenRepo)
	r.topicRepo = a.MustComponent(topicrepo.CName).(topicrepo.TopicRepo)
	r.providers = make(map[domain.Platform]Provider)
	r.invalidTokens = mb.New[domain.Token](100)
	r.consumers = a.MustComponent("config").(configSource).GetRelay().Consumers
	if r.consumers <= 0 {
		r.consumers = defaultConsumers
	}
	if m, ok := a.Component(metric.CName).(metric.Metric); ok {
		registerMetrics(m.Registry(), r)
	}
	return
}

func (r *relay) Name() (name string) {
	return CName
}

func (r *relay) Run(ctx context.Context) (err error) {
	for range r.consumers {
		if err = r.queue.Consume(ctx, r.RouteMessage); err != nil {
			return
		}
	}
	if err = r.queue.ConsumeControl(ctx, r.ApplyControl); err != nil {
		return
	}
	go r.removeTokensBatch()
	return
}

func (r *relay) RegisterProvider(p domain.Platform, provider Provider) {
	r.providers[p] = provider
}

// RouteMessage resolves the recipients of one upstream message and hands it
// to the per-platform delivery path: desktop devices get it republished to
// their device queue, mobile devices go through the registered provider.
func (r *relay) RouteMessage(msg domain.Message) (err error) {
	st := time.Now()
	ctx := context.Background()
	if msg.TTLSeconds <= 0 || msg.TTLSeconds > domain.MaxTTLSeconds {
		msg.TTLSeconds = domain.MaxTTLSeconds
	}
	var (
		tokens  []domain.Token
		isTopic = domain.IsTopic(msg.To)
	)
	if isTopic {
		if tokens, err = r.topicRepo.GetTokensByTopics(ctx, []domain.Topic{domain.Topic(msg.To)}); err != nil {
			return
		}
	} else {
		tokens = []domain.Token{domain.Token(msg.To)}
	}
	devices, err := r.tokenRepo.GetActiveDevices(ctx, tokens)
	if err != nil {
		return
	}

	var byPlatform = make(map[domain.Platform][]string)
	for _, device := range devices {
		// topic fan-out must not echo the message back to its sender
		if isTopic && string(device.Token) == msg.From {
			continue
		}
		byPlatform[device.Platform] = append(byPlatform[device.Platform], string(device.Token))
	}

	var delivered int
	for platform, batch := range byPlatform {
		if platform == domain.PlatformDesktop {
			for _, token := range batch {
				if err = r.queue.PublishDevice(domain.Token(token), msg); err != nil {
					return
				}
			}
			delivered += len(batch)
			continue
		}
		provider, ok := r.providers[platform]
		if !ok {
			log.Warn("unexpected platform", zap.String("platform", fmt.Sprint(platform)))
			continue
		}
		if err = provider.SendMessage(ctx, batch, msg, r.onInvalid); err != nil {
			return
		}
		delivered += len(batch)
	}
	r.metrics.observe(delivered, time.Since(st))
	return r.sendReceipt(msg, delivered)
}

// sendReceipt acknowledges an accepted upstream message back to its sender.
func (r *relay) sendReceipt(msg domain.Message, delivered int) error {
	if msg.From == "" || msg.MessageType != "" {
		return nil
	}
	return r.queue.PublishDevice(domain.Token(msg.From), domain.Message{
		To:          msg.From,
		MessageID:   msg.MessageID,
		MessageType: domain.MessageTypeSendEvent,
		Data:        map[string]string{"delivered": fmt.Sprint(delivered)},
	})
}

func (r *relay) ApplyControl(c domain.Control) (err error) {
	ctx := context.Background()
	switch c.Op {
	case domain.ControlOpRegister:
		return r.tokenRepo.Register(ctx, domain.Device{
			Token:    c.Token,
			Platform: c.Platform,
			Status:   domain.TokenStatusValid,
		})
	case domain.ControlOpSubscribe:
		return r.topicRepo.Subscribe(ctx, c.Token, c.Topic)
	case domain.ControlOpUnsubscribe:
		return r.topicRepo.Unsubscribe(ctx, c.Token, c.Topic)
	default:
		log.Warn("unexpected control op", zap.String("op", string(c.Op)))
		return nil
	}
}

func (r *relay) onInvalid(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.invalidTokens.Add(ctx, domain.Token(token))
}

func (r *relay) removeTokensBatch() {
	ctx := mb.CtxWithTimeLimit(context.Background(), time.Second)
	cond := r.invalidTokens.NewCond().WithMin(invalidTokenBatch)
	for {
		tokens, err := cond.Wait(ctx)
		if err != nil {
			return
		}
		st := time.Now()
		if err = r.tokenRepo.RemoveTokens(ctx, tokens); err != nil {
			log.Error("remove tokens error", zap.Error(err))
		} else {
			log.Info("remove tokens success", zap.Int("count", len(tokens)), zap.Duration("dur", time.Since(st)))
		}
		for _, token := range tokens {
			if err = r.topicRepo.RemoveToken(ctx, token); err != nil {
				log.Error("remove token subscriptions error", zap.Error(err))
			}
		}
	}
}

func (r *relay) Close(ctx context.Context) (err error) {
	return r.invalidTokens.Close()
}
