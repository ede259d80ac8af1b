// Package render formats self-test reports and journaled runs for the
// terminal: ASCII trees, aligned tables, and JSON.
package render

import (
	"fmt"
	"io"

	asciitree "github.com/thediveo/go-asciitree"

	"github.com/mesh-intelligence/slots/internal/selftest"
	"github.com/mesh-intelligence/slots/pkg/types"
)

// treeNode is the asciitree view of a report or run.
type treeNode struct {
	Label    string     `asciitree:"label"`
	Props    []string   `asciitree:"properties"`
	Children []treeNode `asciitree:"children"`
}

// ReportTree renders a self-test report as an ASCII tree, one child per check.
func ReportTree(w io.Writer, r *selftest.Report) error {
	status := "PASS"
	if !r.Passed() {
		status = "FAIL"
	}
	root := treeNode{
		Label: fmt.Sprintf("selftest %s", status),
		Props: []string{
			"run_id: " + r.RunID,
			fmt.Sprintf("checks: %d", len(r.Checks)),
			fmt.Sprintf("failed: %d", len(r.Failed())),
		},
	}
	for _, c := range r.Checks {
		n := treeNode{Label: mark(c.Passed) + " " + c.Name}
		if c.Detail != "" {
			n.Props = []string{c.Detail}
		}
		root.Children = append(root.Children, n)
	}
	_, err := fmt.Fprintln(w, asciitree.RenderFancy(root))
	return err
}

// RunTree renders a journaled run as an ASCII tree, one child per
// event, with the size and capacity transition as properties.
func RunTree(w io.Writer, run *types.Run) error {
	root := treeNode{
		Label: fmt.Sprintf("%s %s", run.Source, run.Name),
		Props: []string{
			"run_id: " + run.RunID,
			"created_at: " + run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			fmt.Sprintf("events: %d", len(run.Events)),
			fmt.Sprintf("failures: %d", run.Failures()),
		},
	}
	if run.Source == types.SourceScript {
		root.Props = append(root.Props,
			fmt.Sprintf("size: %d", run.FinalSize),
			fmt.Sprintf("capacity: %d (from %d)", run.FinalCapacity, run.InitialCapacity))
	}
	for _, ev := range run.Events {
		label := fmt.Sprintf("%d %s", ev.Seq, ev.Op)
		if ev.Arg != "" {
			label += " " + ev.Arg
		}
		n := treeNode{Label: mark(!ev.Failed()) + " " + label}
		if ev.Result != "" {
			n.Props = append(n.Props, "result: "+ev.Result)
		}
		if run.Source == types.SourceScript {
			n.Props = append(n.Props, fmt.Sprintf("size %d -> %d, capacity %d -> %d",
				ev.SizeBefore, ev.SizeAfter, ev.CapBefore, ev.CapAfter))
		}
		if ev.Failed() {
			n.Props = append(n.Props, ev.ErrorKind+": "+ev.Error)
		}
		root.Children = append(root.Children, n)
	}
	_, err := fmt.Fprintln(w, asciitree.RenderFancy(root))
	return err
}

func mark(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAIL"
}
