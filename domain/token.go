package domain

// Token is an opaque registration token addressing a single client install.
type Token string

type Platform uint8

const (
	PlatformDesktop Platform = iota
	PlatformAndroid
	PlatformIOS
)

type TokenStatus uint8

const (
	TokenStatusValid TokenStatus = iota
	TokenStatusInvalid
)

// Device is a client install registered with the relay, keyed by its token.
type Device struct {
	Token    Token       `bson:"_id"`
	Platform Platform    `bson:"platform"`
	Status   TokenStatus `bson:"status"`
	Created  int64       `bson:"created"`
	Updated  int64       `bson:"updated"`
}
