package sqlite

// Record structures for the JSONL files. They mirror the table columns;
// times are RFC 3339 strings. The journal writes them with nine fractional
// digits; hand-written records in any RFC 3339 form are normalized on load.

// runJSON represents a run in runs.jsonl.
type runJSON struct {
	RunID           string   `json:"run_id"`
	Source          string   `json:"source"`
	Name            string   `json:"name"`
	InitialCapacity int      `json:"initial_capacity"`
	FinalSize       int      `json:"final_size"`
	FinalCapacity   int      `json:"final_capacity"`
	Contents        []string `json:"contents"`
	CreatedAt       string   `json:"created_at"`
}

// eventJSON represents an event in events.jsonl.
type eventJSON struct {
	RunID      string `json:"run_id"`
	Seq        int    `json:"seq"`
	Op         string `json:"op"`
	Arg        string `json:"arg"`
	Result     string `json:"result"`
	SizeBefore int    `json:"size_before"`
	CapBefore  int    `json:"cap_before"`
	SizeAfter  int    `json:"size_after"`
	CapAfter   int    `json:"cap_after"`
	ErrorKind  string `json:"error_kind"`
	Error      string `json:"error"`
}
