package fcm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushmesh/pushmesh/domain"
)

func TestBuildFcmMessage(t *testing.T) {
	msg := domain.Message{
		To:          "/topics/news",
		CollapseKey: "score",
		Priority:    domain.PriorityHigh,
		TTLSeconds:  60,
		Data:        map[string]string{"k": "v"},
		Notification: &domain.Notification{
			Title:        "title",
			Body:         "body",
			Icon:         "ic_news",
			Sound:        "default",
			Tag:          "tag",
			Color:        "#ff0000",
			ClickAction:  "OPEN_NEWS",
			BodyLocKey:   "body_key",
			BodyLocArgs:  []string{"a", "b"},
			TitleLocKey:  "title_key",
			TitleLocArgs: []string{"c"},
		},
	}
	out := buildFcmMessage([]string{"t1", "t2"}, msg)

	assert.Equal(t, []string{"t1", "t2"}, out.Tokens)
	assert.Equal(t, msg.Data, out.Data)
	require.NotNil(t, out.Notification)
	assert.Equal(t, "title", out.Notification.Title)
	assert.Equal(t, "body", out.Notification.Body)

	require.NotNil(t, out.Android)
	assert.Equal(t, "score", out.Android.CollapseKey)
	assert.Equal(t, domain.PriorityHigh, out.Android.Priority)
	require.NotNil(t, out.Android.TTL)
	assert.Equal(t, time.Minute, *out.Android.TTL)

	require.NotNil(t, out.Android.Notification)
	assert.Equal(t, "ic_news", out.Android.Notification.Icon)
	assert.Equal(t, "OPEN_NEWS", out.Android.Notification.ClickAction)
	assert.Equal(t, []string{"a", "b"}, out.Android.Notification.BodyLocArgs)
	assert.Equal(t, "title_key", out.Android.Notification.TitleLocKey)
}

func TestBuildFcmMessage_DataOnly(t *testing.T) {
	out := buildFcmMessage([]string{"t1"}, domain.Message{
		To:       "t1",
		Priority: domain.PriorityNormal,
		Data:     map[string]string{"k": "v"},
	})
	assert.Nil(t, out.Notification)
	require.NotNil(t, out.Android)
	assert.Equal(t, domain.PriorityNormal, out.Android.Priority)
	assert.Nil(t, out.Android.Notification)
	assert.Nil(t, out.Android.TTL)
}
