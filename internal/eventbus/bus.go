// Package eventbus is a synchronous, in-process publish/subscribe channel
// with typed topics. A Bus is injected into every component that publishes
// or subscribes; it is not a global.
package eventbus

import "context"

// Topic names a channel whose payloads are of type T.
type Topic[T any] struct {
	name string
}

// NewTopic declares a topic carrying payloads of type T.
func NewTopic[T any](name string) Topic[T] {
	return Topic[T]{name: name}
}

// Name returns the topic name.
func (t Topic[T]) Name() string {
	return t.name
}

type handler func(ctx context.Context, payload any)

// Bus dispatches published payloads to subscribers in registration order,
// within the Publish call. It holds no lock; a Bus belongs to one session and
// is driven by one caller at a time.
type Bus struct {
	subscribers map[string][]handler
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subscribers: make(map[string][]handler)}
}

// Subscribe registers fn for every payload published on topic.
func Subscribe[T any](b *Bus, topic Topic[T], fn func(ctx context.Context, payload T)) {
	b.subscribers[topic.name] = append(b.subscribers[topic.name], func(ctx context.Context, payload any) {
		fn(ctx, payload.(T))
	})
}

// Publish delivers payload to each subscriber of topic and returns how many
// subscribers received it.
func Publish[T any](ctx context.Context, b *Bus, topic Topic[T], payload T) int {
	subs := b.subscribers[topic.name]
	for _, h := range subs {
		h(ctx, payload)
	}
	return len(subs)
}

// Subscribers reports the number of handlers registered for the named topic.
func (b *Bus) Subscribers(name string) int {
	return len(b.subscribers[name])
}
