package fcm

import (
	"context"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/pushmesh/pushmesh/domain"
	"github.com/pushmesh/pushmesh/relay"
)

const CName = "push.provider.fcm"

var log = logger.NewNamed(CName)

func New() FCM {
	return new(fcm)
}

type FCM interface {
	app.Component
}

type fcm struct {
}

// Init registers a delivery provider per mobile platform. A platform with no
// credentials file stays unregistered, so its devices are skipped by the
// relay instead of failing every send.
func (f *fcm) Init(a *app.App) (err error) {
	r := a.MustComponent(relay.CName).(relay.Relay)
	conf := a.MustComponent("config").(configSource).GetFCM()

	if conf.CredentialsFile.Android != "" {
		android, err := newSender(conf.CredentialsFile.Android)
		if err != nil {
			return err
		}
		r.RegisterProvider(domain.PlatformAndroid, android)
	}
	if conf.CredentialsFile.IOS != "" {
		ios, err := newSender(conf.CredentialsFile.IOS)
		if err != nil {
			return err
		}
		r.RegisterProvider(domain.PlatformIOS, ios)
	}
	return
}

func (f *fcm) Name() (name string) {
	return CName
}

func newSender(credentialsFile string) (relay.Provider, error) {
	opt := option.WithCredentialsFile(credentialsFile)
	fcmApp, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return nil, err
	}
	client, err := fcmApp.Messaging(context.Background())
	if err != nil {
		return nil, err
	}
	return &fcmSender{client: client}, nil
}

type fcmSender struct {
	client *messaging.Client
}

const batchSize = 500

func (f *fcmSender) SendMessage(ctx context.Context, tokens []string, msg domain.Message, onInvalid func(token string)) (err error) {
	nextBatch := tokens
	for len(nextBatch) > 0 {
		var batch []string
		if len(nextBatch) > batchSize {
			batch = nextBatch[:batchSize]
			nextBatch = nextBatch[batchSize:]
		} else {
			batch = nextBatch
			nextBatch = nil
		}
		var response *messaging.BatchResponse
		if response, err = f.client.SendEachForMulticast(ctx, buildFcmMessage(batch, msg)); err != nil {
			return err
		}
		for i, resp := range response.Responses {
			if resp.Error == nil {
				continue
			}
			if messaging.IsInvalidArgument(resp.Error) || messaging.IsUnregistered(resp.Error) {
				onInvalid(batch[i])
				log.Info("mark token as invalid", zap.String("token", batch[i]))
			} else {
				log.Warn("fcm returned error", zap.Error(resp.Error), zap.String("token", batch[i]))
			}
		}
		log.Info("push sent", zap.Int("success", response.SuccessCount), zap.Int("failure", response.FailureCount))
	}
	return nil
}

func buildFcmMessage(tokens []string, msg domain.Message) *messaging.MulticastMessage {
	out := &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   msg.Data,
	}
	android := &messaging.AndroidConfig{
		CollapseKey: msg.CollapseKey,
		Priority:    msg.Priority,
	}
	if msg.TTLSeconds > 0 {
		ttl := time.Duration(msg.TTLSeconds) * time.Second
		android.TTL = &ttl
	}
	if n := msg.Notification; n != nil {
		out.Notification = &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		}
		android.Notification = &messaging.AndroidNotification{
			Icon:         n.Icon,
			Color:        n.Color,
			Sound:        n.Sound,
			Tag:          n.Tag,
			ClickAction:  n.ClickAction,
			BodyLocKey:   n.BodyLocKey,
			BodyLocArgs:  n.BodyLocArgs,
			TitleLocKey:  n.TitleLocKey,
			TitleLocArgs: n.TitleLocArgs,
		}
	}
	out.Android = android
	return out
}
