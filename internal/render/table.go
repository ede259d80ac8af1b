package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/slots/pkg/types"
)

// JSON writes v as indented JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RunsTable writes one line per run: ID, source, name, event and failure
// counts, final size and capacity, creation time.
func RunsTable(w io.Writer, runs []*types.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tSOURCE\tNAME\tEVENTS\tFAILURES\tSIZE\tCAPACITY\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.RunID, r.Source, r.Name, len(r.Events), r.Failures(),
			r.FinalSize, r.FinalCapacity, r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

// EventsTable writes one line per event with the state transition it caused.
func EventsTable(w io.Writer, run *types.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tOP\tARG\tRESULT\tSIZE\tCAPACITY\tERROR")
	for _, ev := range run.Events {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			ev.Seq, ev.Op, ev.Arg, ev.Result,
			transition(ev.SizeBefore, ev.SizeAfter),
			transition(ev.CapBefore, ev.CapAfter),
			ev.ErrorKind)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if run.Source == types.SourceScript {
		_, err := fmt.Fprintf(w, "final: size %d, capacity %d, contents [%s]\n",
			run.FinalSize, run.FinalCapacity, strings.Join(run.Contents, " "))
		return err
	}
	return nil
}

func transition(before, after int) string {
	if before == after {
		return fmt.Sprintf("%d", after)
	}
	return fmt.Sprintf("%d->%d", before, after)
}
