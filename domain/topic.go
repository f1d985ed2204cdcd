package domain

import "strings"

const topicPrefix = "/topics/"

// NewTopic builds a topic from a bare name. Names are a caller-supplied
// convention and are not validated at this layer.
func NewTopic(name string) Topic {
	return Topic(topicPrefix + strings.TrimPrefix(name, topicPrefix))
}

// Topic is a named broadcast channel in "/topics/<name>" form.
type Topic string

// IsTopic reports whether a message recipient addresses a topic rather
// than a registration token.
func IsTopic(to string) bool {
	return strings.HasPrefix(to, topicPrefix)
}

func (t Topic) Name() string {
	return strings.TrimPrefix(string(t), topicPrefix)
}

func (t Topic) String() string {
	return string(NewTopic(string(t)))
}
