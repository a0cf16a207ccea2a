package dispatch

import (
	"strings"

	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// Binding is one (topic, consumer, handler) wiring triple from configuration.
type Binding struct {
	Topic      string
	ConsumerID string
	Handler    string
}

// ParseBindings parses "topic:consumer:handler" triples.
func ParseBindings(raw []string) ([]Binding, error) {
	bindings := make([]Binding, 0, len(raw))
	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "malformed binding %q", entry)
		}

		bindings = append(bindings, Binding{
			Topic:      parts[0],
			ConsumerID: parts[1],
			Handler:    parts[2],
		})
	}
	return bindings, nil
}

// Registry resolves handler names from configuration to live handlers. All
// resolution happens once at startup; an unresolved binding is logged and
// skipped so the remaining wiring still activates.
type Registry struct {
	handlers map[string]Handler
	log      *logger.Logger
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		log:      logger.Get().With("component", "registry"),
	}
}

// RegisterHandler makes a handler resolvable under the given name.
func (r *Registry) RegisterHandler(name string, h Handler) {
	r.handlers[name] = h
}

// Resolve turns bindings into subscriptions. Unresolved handler names are a
// startup-time error, not a runtime one: they are reported, counted, and the
// rest of the wiring proceeds.
func (r *Registry) Resolve(bindings []Binding) []Subscription {
	subs := make([]Subscription, 0, len(bindings))

	for _, b := range bindings {
		h, ok := r.handlers[b.Handler]
		if !ok {
			r.log.Errorw("Skipping binding with unknown handler",
				"topic", b.Topic,
				"consumer", b.ConsumerID,
				"handler", b.Handler,
				"error", errors.ErrUnresolvedBinding,
			)
			continue
		}

		subs = append(subs, Subscription{
			Topic:      b.Topic,
			ConsumerID: b.ConsumerID,
			Handler:    h,
		})
	}
	return subs
}
