package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_Copy(t *testing.T) {
	orig := Message{
		From:      "1234567",
		To:        "token-1",
		Data:      map[string]string{"k": "v"},
		RawData:   []byte{1, 2, 3},
		MessageID: "m1",
		Notification: &Notification{
			Title:       "title",
			BodyLocArgs: []string{"a"},
		},
	}
	cp := orig.Copy()

	orig.Data["k"] = "changed"
	orig.RawData[0] = 9
	orig.Notification.Title = "changed"
	orig.Notification.BodyLocArgs[0] = "changed"

	assert.Equal(t, "v", cp.Data["k"])
	assert.Equal(t, byte(1), cp.RawData[0])
	require.NotNil(t, cp.Notification)
	assert.Equal(t, "title", cp.Notification.Title)
	assert.Equal(t, []string{"a"}, cp.Notification.BodyLocArgs)
}

func TestMessage_CopyNoNotification(t *testing.T) {
	cp := Message{To: "token-1"}.Copy()
	assert.Nil(t, cp.Notification)
	assert.Nil(t, cp.Data)
}

func TestNotification_CopyNil(t *testing.T) {
	var n *Notification
	assert.Nil(t, n.Copy())
}
