package cluster

import (
	"bufio"
	"context"
	"net"
	"strings"
	"time"

	"github.com/calebh/cadm/internal/errors"
	"github.com/calebh/cadm/internal/logger"
)

// InfoClient issues one info-protocol request against a node address and
// returns the raw delimited response text. Implementations own all
// transport concerns; callers only see text or an error.
type InfoClient interface {
	Request(ctx context.Context, addr, command string) (string, error)
}

// TCPClient speaks the plain-text info protocol: one command line out, one
// response line back per request.
type TCPClient struct {
	log logger.Logger
}

// NewTCPClient creates the default info client.
func NewTCPClient(log logger.Logger) *TCPClient {
	if log == nil {
		log = logger.Noop()
	}
	return &TCPClient{log: log}
}

// Request dials addr, writes the command, and reads the single response
// line. The context's deadline bounds both the dial and the exchange.
func (c *TCPClient) Request(ctx context.Context, addr, command string) (string, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrNetwork,
			"Cannot connect to node "+addr,
			"Check the node is running and reachable")
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return "", errors.Wrap(err, "Cannot set request deadline for "+addr)
		}
	}

	c.log.Debug("-> %s: %s", addr, command)
	if _, err := conn.Write([]byte(command + "\n")); err != nil {
		return "", errors.Wrap(err, "Request to node "+addr+" failed")
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "No response from node "+addr)
	}
	line = strings.TrimRight(line, "\r\n")

	// Nodes echo the command before the payload, tab-separated.
	if _, payload, ok := strings.Cut(line, "\t"); ok {
		line = payload
	}
	c.log.Debug("<- %s: %d bytes", addr, len(line))
	return line, nil
}

// requestTimeout derives the per-request context used for one node call.
func requestTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
