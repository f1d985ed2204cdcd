package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pushmesh/pushmesh/domain"
	"github.com/pushmesh/pushmesh/redisprovider"
)

const CName = "push.queue"

var log = logger.NewNamed(CName)

const (
	prefetchLimit = 10
	pollDuration  = time.Millisecond * 100
)

func New() Queue {
	return new(queue)
}

// Queue is the relay side of the rmq wire: upstream messages and control
// operations flow in, per-device queues flow out.
type Queue interface {
	Add(ctx context.Context, msg domain.Message) error
	Consume(ctx context.Context, handle func(msg domain.Message) error) error
	AddControl(ctx context.Context, c domain.Control) error
	ConsumeControl(ctx context.Context, handle func(c domain.Control) error) error
	PublishDevice(token domain.Token, msg domain.Message) error
	ConsumeDevice(ctx context.Context, token domain.Token, handle func(msg domain.Message) error) error
	app.ComponentRunnable
}

type queue struct {
	client      redis.UniversalClient
	rmqConn     rmq.Connection
	upstream    rmq.Queue
	control     rmq.Queue
	errCh       chan error
	consumerTag string

	mu           sync.Mutex
	deviceQueues map[string]rmq.Queue
	consuming    []rmq.Queue

	runCtx       context.Context
	runCtxCancel context.CancelFunc
}

func (q *queue) Init(a *app.App) (err error) {
	q.client = a.MustComponent(redisprovider.CName).(redisprovider.RedisProvider).Redis()
	q.consumerTag = "relay-" + uuid.NewString()
	q.deviceQueues = make(map[string]rmq.Queue)
	q.runCtx, q.runCtxCancel = context.WithCancel(context.Background())
	return
}

func (q *queue) Name() (name string) {
	return CName
}

func (q *queue) Run(ctx context.Context) (err error) {
	q.errCh = make(chan error, 10)
	if q.rmqConn, err = rmq.OpenClusterConnection(q.consumerTag, q.client, q.errCh); err != nil {
		return err
	}
	go q.handleRmqErrs()
	if q.upstream, err = q.rmqConn.OpenQueue(domain.UpstreamQueue); err != nil {
		return err
	}
	if q.control, err = q.rmqConn.OpenQueue(domain.ControlQueue); err != nil {
		return err
	}
	if err = q.startConsuming(q.upstream); err != nil {
		return err
	}
	return q.startConsuming(q.control)
}

func (q *queue) Add(ctx context.Context, msg domain.Message) error {
	return publishJSON(q.upstream, msg)
}

func (q *queue) Consume(ctx context.Context, handle func(msg domain.Message) error) error {
	return addConsumer(q, ctx, q.upstream, handle)
}

func (q *queue) AddControl(ctx context.Context, c domain.Control) error {
	return publishJSON(q.control, c)
}

func (q *queue) ConsumeControl(ctx context.Context, handle func(c domain.Control) error) error {
	return addConsumer(q, ctx, q.control, handle)
}

func (q *queue) PublishDevice(token domain.Token, msg domain.Message) error {
	dq, err := q.deviceQueue(token)
	if err != nil {
		return err
	}
	return publishJSON(dq, msg)
}

func (q *queue) ConsumeDevice(ctx context.Context, token domain.Token, handle func(msg domain.Message) error) error {
	dq, err := q.deviceQueue(token)
	if err != nil {
		return err
	}
	if err = q.startConsuming(dq); err != nil {
		return err
	}
	return addConsumer(q, ctx, dq, handle)
}

func (q *queue) deviceQueue(token domain.Token) (dq rmq.Queue, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	name := domain.DeviceQueue(token)
	if dq = q.deviceQueues[name]; dq != nil {
		return
	}
	if dq, err = q.rmqConn.OpenQueue(name); err != nil {
		return
	}
	q.deviceQueues[name] = dq
	return
}

func (q *queue) startConsuming(rq rmq.Queue) (err error) {
	if err = rq.StartConsuming(prefetchLimit, pollDuration); err != nil {
		return
	}
	q.mu.Lock()
	q.consuming = append(q.consuming, rq)
	q.mu.Unlock()
	return
}

func publishJSON[T any](rq rmq.Queue, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return rq.Publish(string(data))
}

func addConsumer[T any](q *queue, ctx context.Context, rq rmq.Queue, handle func(v T) error) error {
	cons := func(delivery rmq.Delivery) {
		select {
		case <-q.runCtx.Done():
			_ = delivery.Reject()
			return
		case <-ctx.Done():
			_ = delivery.Reject()
			return
		default:
		}
		var v T
		if err := json.Unmarshal([]byte(delivery.Payload()), &v); err != nil {
			_ = delivery.Reject()
			return
		}
		if err := handle(v); err != nil {
			_ = delivery.Reject()
		} else {
			_ = delivery.Ack()
		}
	}
	_, err := rq.AddConsumerFunc(q.consumerTag, cons)
	return err
}

func (q *queue) handleRmqErrs() {
	for {
		select {
		case <-q.runCtx.Done():
			return
		case err := <-q.errCh:
			log.Warn("rmq error", zap.Error(err))
		}
	}
}

func (q *queue) Close(ctx context.Context) (err error) {
	if q.runCtxCancel != nil {
		q.runCtxCancel()
	}
	q.mu.Lock()
	consuming := q.consuming
	q.mu.Unlock()
	var done []<-chan struct{}
	for _, rq := range consuming {
		done = append(done, rq.StopConsuming())
	}
	for _, ch := range done {
		<-ch
	}
	return nil
}
