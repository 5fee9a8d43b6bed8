// Package cluster tracks the nodes of one database cluster and fans
// queries out to all of them. Per-node responses are cached briefly so a
// burst of table renders does not hammer the cluster.
package cluster

import (
	"context"
	"sort"
	"time"

	"github.com/calebh/cadm/internal/cache"
	"github.com/calebh/cadm/internal/errors"
	"github.com/calebh/cadm/internal/fanout"
	"github.com/calebh/cadm/internal/info"
	"github.com/calebh/cadm/internal/logger"
)

// DefaultInfoTTL bounds how long a per-node response is reused.
const DefaultInfoTTL = 500 * time.Millisecond

// Node is one cluster member. ID is the identifier the node reports for
// itself; Name is what tables display.
type Node struct {
	ID   string
	Name string
	Addr string
}

// Cluster holds the discovered topology and executes fan-out queries.
type Cluster struct {
	client  InfoClient
	log     logger.Logger
	timeout time.Duration
	ttl     time.Duration

	nodes map[string]*Node // keyed by node ID

	// One response cache per node. Each fan-out worker touches only its
	// own node's cache, so no instance is ever accessed concurrently.
	caches map[string]*cache.TTL[string, string]

	// reqCtx is the context cached requests run under. InfoAll sets it
	// before spawning workers and restores it after they join; it is only
	// read while the fan-out is in flight.
	reqCtx context.Context
}

// Options configures cluster construction.
type Options struct {
	Timeout time.Duration // per-node request timeout (0 = none)
	InfoTTL time.Duration // response cache ttl (0 = no caching)
}

// New creates an empty cluster around the given client. Call Discover to
// populate it from seed addresses.
func New(client InfoClient, opts Options, log logger.Logger) *Cluster {
	if log == nil {
		log = logger.Noop()
	}
	return &Cluster{
		client:  client,
		log:     log,
		timeout: opts.Timeout,
		ttl:     opts.InfoTTL,
		nodes:   make(map[string]*Node),
		caches:  make(map[string]*cache.TTL[string, string]),
		reqCtx:  context.Background(),
	}
}

// Discover contacts every seed address, asks each responding node for its
// identity and peer list, and registers all reachable members. Unreachable
// seeds are logged and skipped; discovery fails only when no node at all
// responds.
func (c *Cluster) Discover(ctx context.Context, seeds []string) error {
	pending := append([]string(nil), seeds...)
	visited := make(map[string]bool)

	for len(pending) > 0 {
		addr := pending[0]
		pending = pending[1:]
		if addr == "" || visited[addr] {
			continue
		}
		visited[addr] = true

		id, err := c.request(ctx, addr, "node")
		if err != nil {
			c.log.Warn("seed %s unreachable: %v", addr, err)
			continue
		}
		if id == "" {
			c.log.Warn("seed %s returned an empty node id", addr)
			continue
		}
		if _, ok := c.nodes[id]; ok {
			continue
		}
		c.addNode(id, addr)

		peers, err := c.request(ctx, addr, "peers")
		if err != nil {
			c.log.Debug("peers query failed for %s: %v", addr, err)
			continue
		}
		for _, peer := range info.ParseBracketedList(peers, ",", "[", "]") {
			if peer != "" && !visited[peer] {
				pending = append(pending, peer)
			}
		}
	}

	if len(c.nodes) == 0 {
		return errors.New(errors.ErrNetwork,
			"No cluster nodes reachable",
			"Check the seed addresses in your config and that the cluster is up")
	}
	c.log.Debug("discovered %d node(s)", len(c.nodes))
	return nil
}

// addNode registers a member and gives it its own response cache.
func (c *Cluster) addNode(id, addr string) {
	c.nodes[id] = &Node{ID: id, Name: addr, Addr: addr}
	c.caches[id] = cache.New(func(command string) (string, error) {
		return c.request(c.reqCtx, c.nodes[id].Addr, command)
	}, c.ttl)
}

// request performs one uncached info call with the per-node timeout.
func (c *Cluster) request(ctx context.Context, addr, command string) (string, error) {
	rctx, cancel := requestTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Request(rctx, addr, command)
}

// Nodes returns the members sorted by display name. Fan-out results carry
// no ordering of their own, so every renderer sorts through this.
func (c *Cluster) Nodes() []*Node {
	out := make([]*Node, 0, len(c.nodes))
	for _, n := range c.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// NodeIDs returns the identifiers of all members, sorted by display name.
func (c *Cluster) NodeIDs() []string {
	nodes := c.Nodes()
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// Node returns the member with the given identifier, or nil.
func (c *Cluster) Node(id string) *Node {
	return c.nodes[id]
}

// Principal returns the identifier of the cluster principal: the member
// with the highest node ID.
func (c *Cluster) Principal() string {
	principal := ""
	for id := range c.nodes {
		if id > principal {
			principal = id
		}
	}
	return principal
}

// InfoAll fans one info command out to every member and returns the raw
// response (or the failure) per node identifier. Per-node responses come
// through that node's ttl cache.
func (c *Cluster) InfoAll(ctx context.Context, command string) map[string]fanout.Result[string] {
	c.reqCtx = ctx
	defer func() { c.reqCtx = context.Background() }()

	return fanout.Run(ctx, c.NodeIDs(), func(_ context.Context, id string) (string, error) {
		return c.caches[id].Get(command)
	})
}

// NamespaceAll asks every node for its namespace list, then fetches each
// namespace's statistics from that node. The result maps namespace name to
// its parsed record, per node.
func (c *Cluster) NamespaceAll(ctx context.Context) map[string]fanout.Result[map[string]info.Record] {
	c.reqCtx = ctx
	defer func() { c.reqCtx = context.Background() }()

	return fanout.Run(ctx, c.NodeIDs(), func(_ context.Context, id string) (map[string]info.Record, error) {
		raw, err := c.caches[id].Get("namespaces")
		if err != nil {
			return nil, err
		}
		out := make(map[string]info.Record)
		for _, ns := range info.ToList(raw, ";") {
			if ns == "" {
				continue
			}
			nsRaw, err := c.caches[id].Get("namespace/" + ns)
			if err != nil {
				return nil, err
			}
			out[ns] = info.ToMap(nsRaw, ";", "=", true)
		}
		return out, nil
	})
}

// StatsAll fans a command out and parses each successful response as a
// flat key=value record. Failures pass through untouched.
func (c *Cluster) StatsAll(ctx context.Context, command string) map[string]fanout.Result[info.Record] {
	raw := c.InfoAll(ctx, command)
	out := make(map[string]fanout.Result[info.Record], len(raw))
	for id, r := range raw {
		if r.Err != nil {
			out[id] = fanout.Result[info.Record]{Err: r.Err}
			continue
		}
		out[id] = fanout.Result[info.Record]{Value: info.ToMap(r.Value, ";", "=", true)}
	}
	return out
}
