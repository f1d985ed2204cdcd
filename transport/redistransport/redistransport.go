package redistransport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pushmesh/pushmesh/domain"
	"github.com/pushmesh/pushmesh/redisprovider"
	"github.com/pushmesh/pushmesh/transport"
)

var log = logger.NewNamed(transport.CName)

const (
	prefetchLimit = 10
	pollDuration  = time.Millisecond * 100
)

type Config struct {
	// Token reuses a previously issued registration token across restarts.
	// Empty issues a fresh token on Run.
	Token string `yaml:"token"`
}

type configSource interface {
	GetTransport() Config
}

// New returns a transport backed by the relay's redis: downstream messages
// are consumed from the per-device rmq queue, upstream messages and topic
// changes are published to the shared queues.
func New() transport.Transport {
	return new(redisTransport)
}

type redisTransport struct {
	client  redis.UniversalClient
	handler transport.Handler
	token   domain.Token

	rmqConn  rmq.Connection
	upstream rmq.Queue
	control  rmq.Queue
	device   rmq.Queue
	errCh    chan error

	runCtx       context.Context
	runCtxCancel context.CancelFunc
}

func (r *redisTransport) Init(a *app.App) (err error) {
	r.client = a.MustComponent(redisprovider.CName).(redisprovider.RedisProvider).Redis()
	r.token = domain.Token(a.MustComponent("config").(configSource).GetTransport().Token)
	r.runCtx, r.runCtxCancel = context.WithCancel(context.Background())
	return
}

func (r *redisTransport) Name() (name string) {
	return transport.CName
}

func (r *redisTransport) SetHandler(h transport.Handler) {
	r.handler = h
}

func (r *redisTransport) Run(ctx context.Context) (err error) {
	if r.handler == nil {
		return errors.New("transport handler not set")
	}
	if err = r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", transport.ErrMissingDependency, err)
	}
	if r.token == "" {
		r.token = domain.Token(uuid.NewString())
	}
	r.errCh = make(chan error, 10)
	if r.rmqConn, err = rmq.OpenClusterConnection("device-"+string(r.token), r.client, r.errCh); err != nil {
		return fmt.Errorf("%w: %v", transport.ErrMissingDependency, err)
	}
	go r.handleRmqErrs()
	if r.upstream, err = r.rmqConn.OpenQueue(domain.UpstreamQueue); err != nil {
		return err
	}
	if r.control, err = r.rmqConn.OpenQueue(domain.ControlQueue); err != nil {
		return err
	}
	if r.device, err = r.rmqConn.OpenQueue(domain.DeviceQueue(r.token)); err != nil {
		return err
	}
	if err = r.device.StartConsuming(prefetchLimit, pollDuration); err != nil {
		return err
	}
	if _, err = r.device.AddConsumerFunc("device-"+string(r.token), r.consume); err != nil {
		return err
	}
	if err = r.publishControl(domain.Control{
		Op:       domain.ControlOpRegister,
		Token:    r.token,
		Platform: domain.PlatformDesktop,
	}); err != nil {
		return err
	}
	// token issuance is reported asynchronously, as a refresh would be
	go r.handler.HandleToken(r.token)
	return
}

func (r *redisTransport) Send(ctx context.Context, msg domain.Message) error {
	msg.From = string(r.token)
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return r.upstream.Publish(string(data))
}

func (r *redisTransport) Subscribe(ctx context.Context, topic domain.Topic) error {
	return r.publishControl(domain.Control{
		Op:    domain.ControlOpSubscribe,
		Token: r.token,
		Topic: domain.NewTopic(string(topic)),
	})
}

func (r *redisTransport) Unsubscribe(ctx context.Context, topic domain.Topic) error {
	return r.publishControl(domain.Control{
		Op:    domain.ControlOpUnsubscribe,
		Token: r.token,
		Topic: domain.NewTopic(string(topic)),
	})
}

func (r *redisTransport) publishControl(c domain.Control) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.control.Publish(string(data))
}

func (r *redisTransport) consume(delivery rmq.Delivery) {
	select {
	case <-r.runCtx.Done():
		_ = delivery.Reject()
		return
	default:
	}
	var msg domain.Message
	if err := json.Unmarshal([]byte(delivery.Payload()), &msg); err != nil {
		log.Warn("malformed downstream message", zap.Error(err))
		_ = delivery.Reject()
		return
	}
	r.handler.HandleMessage(msg)
	_ = delivery.Ack()
}

func (r *redisTransport) handleRmqErrs() {
	for {
		select {
		case <-r.runCtx.Done():
			return
		case err := <-r.errCh:
			log.Warn("rmq error", zap.Error(err))
		}
	}
}

func (r *redisTransport) Close(ctx context.Context) (err error) {
	if r.runCtxCancel != nil {
		r.runCtxCancel()
	}
	if r.device != nil {
		done := r.device.StopConsuming()
		<-done
	}
	return nil
}
