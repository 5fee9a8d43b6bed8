package cli

import (
	"context"
	"io"
	"strings"

	"github.com/calebh/cadm/internal/cluster"
	"github.com/calebh/cadm/internal/errors"
	"github.com/calebh/cadm/internal/logger"
	"github.com/calebh/cadm/internal/view"
)

// Controller dispatches a command line against a connected cluster and
// writes the rendered result to a caller-supplied stream. Commands go
// through here rather than straight into cobra handlers so the watch loop
// can re-execute any of them against a capture buffer.
type Controller struct {
	cluster *cluster.Cluster
	log     logger.Logger
}

// NewController wraps a connected cluster.
func NewController(c *cluster.Cluster, log logger.Logger) *Controller {
	if log == nil {
		log = logger.Noop()
	}
	return &Controller{cluster: c, log: log}
}

// Execute runs one command line, e.g. ["info", "network"] or
// ["show", "config", "proto"].
func (c *Controller) Execute(ctx context.Context, line []string, w io.Writer) error {
	if len(line) == 0 {
		return errors.New(errors.ErrExec,
			"No command given",
			"Try 'info network', 'show statistics', or 'asinfo -v <command>'")
	}

	c.log.Debug("executing: %s", strings.Join(line, " "))

	switch line[0] {
	case "info":
		sub := "network"
		if len(line) > 1 {
			sub = line[1]
		}
		switch sub {
		case "network":
			return c.infoNetwork(ctx, w)
		case "namespace":
			return c.infoNamespace(ctx, w)
		default:
			return errors.New(errors.ErrExec,
				"Unknown info view '"+sub+"'",
				"Available views: network, namespace")
		}
	case "show":
		if len(line) < 2 {
			return errors.New(errors.ErrExec,
				"'show' needs a subject",
				"Try 'show config' or 'show statistics'")
		}
		like := line[2:]
		switch line[1] {
		case "config":
			return c.showRecords(ctx, w, "Service Configuration", "get-config", like)
		case "statistics":
			return c.showRecords(ctx, w, "Service Statistics", "statistics", like)
		default:
			return errors.New(errors.ErrExec,
				"Unknown show subject '"+line[1]+"'",
				"Available subjects: config, statistics")
		}
	case "asinfo":
		if len(line) < 2 {
			return errors.New(errors.ErrExec,
				"'asinfo' needs a raw info command",
				"Example: asinfo statistics")
		}
		return c.asinfo(ctx, w, strings.Join(line[1:], " "))
	default:
		return errors.New(errors.ErrExec,
			"Unknown command '"+line[0]+"'",
			"Available commands: info, show, asinfo")
	}
}

func (c *Controller) infoNetwork(ctx context.Context, w io.Writer) error {
	stats := c.cluster.StatsAll(ctx, "statistics")
	builds := c.cluster.InfoAll(ctx, "build")
	view.New(w).InfoNetwork(c.cluster.Nodes(), c.cluster.Principal(), stats, builds)
	return nil
}

func (c *Controller) infoNamespace(ctx context.Context, w io.Writer) error {
	results := c.cluster.NamespaceAll(ctx)
	view.New(w).InfoNamespace(c.cluster.Nodes(), results)
	return nil
}

func (c *Controller) showRecords(ctx context.Context, w io.Writer, title, command string, like []string) error {
	results := c.cluster.StatsAll(ctx, command)
	view.New(w).ShowRecords(title, c.cluster.Nodes(), results, like)
	return nil
}

func (c *Controller) asinfo(ctx context.Context, w io.Writer, command string) error {
	results := c.cluster.InfoAll(ctx, command)
	view.New(w).Asinfo(c.cluster.Nodes(), results)
	return nil
}
