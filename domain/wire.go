package domain

// Queue naming shared between clients and the relay.
const (
	UpstreamQueue = "upstream"
	ControlQueue  = "control"
)

// DeviceQueue is the per-client downstream delivery queue.
func DeviceQueue(token Token) string {
	return "device." + string(token)
}

type ControlOp string

const (
	ControlOpRegister    ControlOp = "register"
	ControlOpSubscribe   ControlOp = "subscribe"
	ControlOpUnsubscribe ControlOp = "unsubscribe"
)

// Control is a client state change applied by the relay: token registration
// and topic membership.
type Control struct {
	Op       ControlOp `json:"op"`
	Token    Token     `json:"token"`
	Platform Platform  `json:"platform,omitempty"`
	Topic    Topic     `json:"topic,omitempty"`
}
