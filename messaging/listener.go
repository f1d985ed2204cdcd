package messaging

import "github.com/pushmesh/pushmesh/domain"

// Listener receives events from the push service. Methods are invoked
// asynchronously and may be called concurrently from arbitrary goroutines;
// synchronization is the listener's concern unless it is a PollableListener.
//
// The Notification attached to a message is only guaranteed to be valid for
// the duration of the callback. Use Message.Copy to keep it longer.
type Listener interface {
	// OnMessage is called for every downstream message, including
	// send_event/send_error receipts for earlier Send calls.
	OnMessage(msg domain.Message)
	// OnTokenReceived is called once for every registration token refresh.
	OnTokenReceived(token domain.Token)
}
