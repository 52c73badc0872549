package models

import "fmt"

const (
	ShovelComponent     = "shovel"
	ShovelNamePrefix    = "shovel-"
	ShovelAckMode       = "on-confirm"
	ShovelDeleteAfter   = "never"
	ShovelReconnectSecs = 5
	DefaultAMQPPort     = "5672"
)

// ShovelParameter is the body of PUT api/parameters/shovel/{vhost}/{name}.
type ShovelParameter struct {
	Component string      `json:"component"`
	Name      string      `json:"name"`
	Value     ShovelValue `json:"value"`
}

type ShovelValue struct {
	SrcURI            string `json:"src-uri"`
	SrcQueue          string `json:"src-queue"`
	DestURI           string `json:"dest-uri"`
	DestQueue         string `json:"dest-queue"`
	AckMode           string `json:"ack-mode"`
	AddForwardHeaders bool   `json:"add-forward-headers"`
	DeleteAfter       string `json:"delete-after"`
	PrefetchCount     int    `json:"prefetch-count"`
	ReconnectDelay    int    `json:"reconnect-delay"`
}

// ShovelName is the parameter name used for the shovel draining queueName.
func ShovelName(queueName string) string {
	return ShovelNamePrefix + queueName
}

// AMQPURI formats the endpoint a shovel connects to. Credentials are left to
// the broker's shovel defaults.
func AMQPURI(host, port string) string {
	if port == "" {
		port = DefaultAMQPPort
	}
	return fmt.Sprintf("amqp://%s:%s", host, port)
}

// NewQueueShovel builds the one-way bridge moving queueName from the source
// broker to the same queue name on the destination broker.
func NewQueueShovel(queueName, srcHost, srcPort, destHost, destPort string) ShovelParameter {
	name := ShovelName(queueName)
	return ShovelParameter{
		Component: ShovelComponent,
		Name:      name,
		Value: ShovelValue{
			SrcURI:            AMQPURI(srcHost, srcPort),
			SrcQueue:          queueName,
			DestURI:           AMQPURI(destHost, destPort),
			DestQueue:         queueName,
			AckMode:           ShovelAckMode,
			AddForwardHeaders: false,
			DeleteAfter:       ShovelDeleteAfter,
			PrefetchCount:     0,
			ReconnectDelay:    ShovelReconnectSecs,
		},
	}
}
