package probe

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds the TCP dial and the AMQP handshake.
const DefaultTimeout = 5 * time.Second

// URI builds the AMQP connection string. Without a path the default vhost
// is used.
func URI(username, password, host, port string) string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(username, password),
		Host:   net.JoinHostPort(host, port),
	}
	return u.String()
}

// Check opens and closes an AMQP connection to uri. It fails if the broker
// cannot be reached or refuses the credentials.
func Check(ctx context.Context, uri string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	parsed, err := amqp091.ParseURI(uri)
	if err != nil {
		return fmt.Errorf("invalid AMQP URI: %w", err)
	}
	brokerAddr := net.JoinHostPort(parsed.Host, fmt.Sprint(parsed.Port))
	log.Debug().Str("addr", brokerAddr).Msg("Connecting to broker")

	conn, err := amqp091.DialConfig(uri, amqp091.Config{
		Dial:      amqp091.DefaultDial(timeout),
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		return fmt.Errorf("failed to connect to broker %s: %w", brokerAddr, err)
	}
	if err := conn.Close(); err != nil {
		log.Warn().Err(err).Str("addr", brokerAddr).Msg("Failed to close probe connection")
	}
	return nil
}
