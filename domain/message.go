package domain

// Values of Message.MessageType reported by the service. A message with an
// empty MessageType is a regular data message.
const (
	// MessageTypeDeletedMessages indicates the service dropped pending
	// messages for this client and it should sync with its own backend.
	MessageTypeDeletedMessages = "deleted_messages"
	// MessageTypeSendEvent confirms an upstream message reached the service.
	MessageTypeSendEvent = "send_event"
	// MessageTypeSendError reports an upstream message that expired or was
	// rejected before reaching the service.
	MessageTypeSendError = "send_error"
)

const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// MaxTTLSeconds is the longest the service keeps a message for an offline
// client (four weeks). It is also the default when TTLSeconds is zero.
const MaxTTLSeconds = 4 * 7 * 24 * 60 * 60

// Notification is the display payload optionally attached to a message.
// It is owned by the enclosing Message; Copy the message to keep it past
// a listener callback.
type Notification struct {
	Title        string   `json:"title,omitempty"`
	Body         string   `json:"body,omitempty"`
	Icon         string   `json:"icon,omitempty"`
	Sound        string   `json:"sound,omitempty"`
	Badge        string   `json:"badge,omitempty"`
	Tag          string   `json:"tag,omitempty"`
	Color        string   `json:"color,omitempty"`
	ClickAction  string   `json:"clickAction,omitempty"`
	BodyLocKey   string   `json:"bodyLocKey,omitempty"`
	BodyLocArgs  []string `json:"bodyLocArgs,omitempty"`
	TitleLocKey  string   `json:"titleLocKey,omitempty"`
	TitleLocArgs []string `json:"titleLocArgs,omitempty"`
}

func (n *Notification) Copy() *Notification {
	if n == nil {
		return nil
	}
	cp := *n
	if n.BodyLocArgs != nil {
		cp.BodyLocArgs = append([]string(nil), n.BodyLocArgs...)
	}
	if n.TitleLocArgs != nil {
		cp.TitleLocArgs = append([]string(nil), n.TitleLocArgs...)
	}
	return &cp
}

// Message is a single push payload, upstream or downstream.
//
// To is the recipient: a registration token or a "/topics/<name>" topic.
// From, CollapseKey, MessageType, Priority, TTLSeconds, Error,
// ErrorDescription, NotificationOpened and Link are only populated on
// downstream messages.
type Message struct {
	From               string            `json:"from,omitempty"`
	To                 string            `json:"to,omitempty"`
	CollapseKey        string            `json:"collapseKey,omitempty"`
	Data               map[string]string `json:"data,omitempty"`
	RawData            []byte            `json:"rawData,omitempty"`
	MessageID          string            `json:"messageId,omitempty"`
	MessageType        string            `json:"messageType,omitempty"`
	Priority           string            `json:"priority,omitempty"`
	TTLSeconds         int32             `json:"ttl,omitempty"`
	Error              string            `json:"error,omitempty"`
	ErrorDescription   string            `json:"errorDescription,omitempty"`
	Notification       *Notification     `json:"notification,omitempty"`
	NotificationOpened bool              `json:"notificationOpened,omitempty"`
	Link               string            `json:"link,omitempty"`
}

// Copy returns a deep copy: the Data map, RawData and the owned
// Notification are duplicated so the copy is isolated from the original.
func (m Message) Copy() Message {
	cp := m
	if m.Data != nil {
		cp.Data = make(map[string]string, len(m.Data))
		for k, v := range m.Data {
			cp.Data[k] = v
		}
	}
	if m.RawData != nil {
		cp.RawData = append([]byte(nil), m.RawData...)
	}
	cp.Notification = m.Notification.Copy()
	return cp
}
