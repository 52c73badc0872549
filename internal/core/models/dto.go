package models

// Definitions is a broker's exportable configuration document. It is passed
// through unchanged, so numbers are kept as json.Number when decoded.
type Definitions map[string]any

type QueueDTO struct {
	// Identity
	VHost string `json:"vhost,omitempty" yaml:"vhost,omitempty"`
	Name  string `json:"name" yaml:"name"`

	// Message counts (absent while the broker has not sampled the queue yet)
	Messages        *int64 `json:"messages,omitempty" yaml:"messages,omitempty"`
	MessagesReady   *int64 `json:"messages_ready,omitempty" yaml:"messages_ready,omitempty"`
	MessagesUnacked *int64 `json:"messages_unacknowledged,omitempty" yaml:"messages_unacknowledged,omitempty"`

	Consumers  int    `json:"consumers,omitempty" yaml:"consumers,omitempty"`
	Durable    bool   `json:"durable,omitempty" yaml:"durable,omitempty"`
	AutoDelete bool   `json:"auto_delete,omitempty" yaml:"auto_delete,omitempty"`
	State      string `json:"state,omitempty" yaml:"state,omitempty"`
}

// HasMessages reports whether the broker counted at least one message.
func (q QueueDTO) HasMessages() bool {
	return q.Messages != nil && *q.Messages > 0
}

// MessageCount returns zero when the broker did not report a count.
func (q QueueDTO) MessageCount() int64 {
	if q.Messages == nil {
		return 0
	}
	return *q.Messages
}

type ShovelDTO struct {
	Name  string `json:"name" yaml:"name"`
	VHost string `json:"vhost,omitempty" yaml:"vhost,omitempty"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"` // "dynamic" or "static"
	State string `json:"state,omitempty" yaml:"state,omitempty"`
	Node  string `json:"node,omitempty" yaml:"node,omitempty"`
}

// MapQueueNames extracts queue names, keeping broker order. With excludeEmpty
// only queues holding at least one message are kept.
func MapQueueNames(queues []QueueDTO, excludeEmpty bool) []string {
	names := make([]string, 0, len(queues))
	for _, q := range queues {
		if excludeEmpty && !q.HasMessages() {
			continue
		}
		names = append(names, q.Name)
	}
	return names
}
