// Package view renders parsed cluster records as terminal tables. It
// consumes the per-node result maps produced by the cluster layer; failed
// nodes become clearly marked error lines instead of degrading the rows of
// nodes that did respond.
package view

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/calebh/cadm/internal/cluster"
	"github.com/calebh/cadm/internal/fanout"
	"github.com/calebh/cadm/internal/info"
	"github.com/calebh/cadm/internal/ui"
)

// View writes rendered tables to a single output stream. The stream is
// threaded explicitly so the watch loop can capture a frame by swapping in
// a buffer.
type View struct {
	out io.Writer
}

// New creates a view writing to out.
func New(out io.Writer) *View {
	return &View{out: out}
}

// InfoNetwork renders the cluster overview table: one row per node with
// build, cluster size, and uptime, marking the principal.
func (v *View) InfoNetwork(nodes []*cluster.Node, principal string,
	stats map[string]fanout.Result[info.Record],
	builds map[string]fanout.Result[string]) {

	columns := []ui.TableColumn{
		{Title: "NODE", Width: 24},
		{Title: "NODE ID", Width: 18},
		{Title: "BUILD", Width: 10},
		{Title: "CLUSTER SIZE", Width: 13},
		{Title: "UPTIME", Width: 12},
	}

	var rows [][]string
	var failed []*cluster.Node
	for _, n := range nodes {
		st := stats[n.ID]
		if !st.Ok() {
			failed = append(failed, n)
			continue
		}

		name := n.Name
		if n.ID == principal {
			name += " " + ui.SymbolPrincipal
		}
		build := "N/A"
		if b := builds[n.ID]; b.Ok() {
			build = b.Value
		}

		rows = append(rows, []string{
			name,
			n.ID,
			build,
			info.Lookup(st.Value, "N/A", "cluster_size"),
			formatUptime(info.LookupInt(st.Value, -1, "uptime")),
		})
	}

	fmt.Fprintln(v.out, ui.Title("Network Information"))
	if len(rows) > 0 {
		fmt.Fprintln(v.out, ui.RenderSimpleTable(columns, rows))
	}
	printFailures(v.out, failed, stats)
}

// InfoNamespace renders one row per (node, namespace) pair with object and
// storage figures.
func (v *View) InfoNamespace(nodes []*cluster.Node,
	results map[string]fanout.Result[map[string]info.Record]) {

	columns := []ui.TableColumn{
		{Title: "NODE", Width: 24},
		{Title: "NAMESPACE", Width: 16},
		{Title: "OBJECTS", Width: 12},
		{Title: "MEMORY USED", Width: 12},
		{Title: "DISK USED", Width: 12},
	}

	var rows [][]string
	var failed []*cluster.Node
	for _, n := range nodes {
		r := results[n.ID]
		if !r.Ok() {
			failed = append(failed, n)
			continue
		}

		names := make([]string, 0, len(r.Value))
		for ns := range r.Value {
			names = append(names, ns)
		}
		sort.Strings(names)

		for _, ns := range names {
			rec := r.Value[ns]
			rows = append(rows, []string{
				n.Name,
				ns,
				info.Lookup(rec, "0", "objects"),
				formatBytes(info.LookupInt(rec, 0, "memory_used_bytes", "memory-used")),
				formatBytes(info.LookupInt(rec, 0, "device_used_bytes", "used-bytes-disk")),
			})
		}
	}

	fmt.Fprintln(v.out, ui.Title("Namespace Information"))
	if len(rows) > 0 {
		fmt.Fprintln(v.out, ui.RenderSimpleTable(columns, rows))
	}
	printFailures(v.out, failed, results)
}

// ShowRecords renders a key/value matrix: one row per field, one column per
// responding node. like filters fields to those containing any of the given
// substrings.
func (v *View) ShowRecords(title string, nodes []*cluster.Node,
	results map[string]fanout.Result[info.Record], like []string) {

	var responding []*cluster.Node
	var failed []*cluster.Node
	keys := make(map[string]bool)
	for _, n := range nodes {
		r := results[n.ID]
		if !r.Ok() {
			failed = append(failed, n)
			continue
		}
		responding = append(responding, n)
		for k := range r.Value {
			if matchesLike(k, like) {
				keys[k] = true
			}
		}
	}

	fmt.Fprintln(v.out, ui.Title(title))

	if len(responding) > 0 && len(keys) > 0 {
		columns := make([]ui.TableColumn, 0, len(responding)+1)
		columns = append(columns, ui.TableColumn{Title: "FIELD", Width: 30})
		for _, n := range responding {
			columns = append(columns, ui.TableColumn{Title: n.Name, Width: 20})
		}

		sorted := make([]string, 0, len(keys))
		for k := range keys {
			sorted = append(sorted, k)
		}
		sort.Strings(sorted)

		rows := make([][]string, 0, len(sorted))
		for _, k := range sorted {
			row := make([]string, 0, len(responding)+1)
			row = append(row, k)
			for _, n := range responding {
				row = append(row, info.Lookup(results[n.ID].Value, "N/A", k))
			}
			rows = append(rows, row)
		}
		fmt.Fprintln(v.out, ui.RenderSimpleTable(columns, rows))
	}

	printFailures(v.out, failed, results)
}

// Asinfo dumps the raw response per node, the way operators expect from a
// low-level escape hatch.
func (v *View) Asinfo(nodes []*cluster.Node, results map[string]fanout.Result[string]) {

	for _, n := range nodes {
		r := results[n.ID]
		if !r.Ok() {
			fmt.Fprintln(v.out, ui.ErrorLine(n.Name, r.Err.Error()))
			continue
		}
		fmt.Fprintf(v.out, "%s (%s) returned:\n%s\n", n.Name, n.ID, r.Value)
	}
}

// printFailures appends one marked error line per failed node.
func printFailures[T any](w io.Writer, nodes []*cluster.Node, results map[string]fanout.Result[T]) {
	for _, n := range nodes {
		fmt.Fprintln(w, ui.ErrorLine(n.Name, results[n.ID].Err.Error()))
	}
}

// matchesLike reports whether key contains any of the filters. An empty
// filter list matches everything.
func matchesLike(key string, like []string) bool {
	if len(like) == 0 {
		return true
	}
	for _, l := range like {
		if strings.Contains(key, l) {
			return true
		}
	}
	return false
}

// formatUptime renders seconds as hh:mm:ss; negative means unknown.
func formatUptime(seconds int64) string {
	if seconds < 0 {
		return "N/A"
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds/60)%60, seconds%60)
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
