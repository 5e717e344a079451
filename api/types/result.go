// Package types provides shared types and structs.
package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/sjson"
)

// TimeLayout is the layout used for the start and end fields of a result.
const TimeLayout = "2006-01-02 15:04:05.000000"

// Outcome classifies an invocation or a single step.
type Outcome string

const (
	// OutcomeChanged means a mutation ran and its output confirmed the change.
	OutcomeChanged Outcome = "changed"
	// OutcomeOk means nothing needed to change, or the step was a query.
	OutcomeOk Outcome = "ok"
	// OutcomeUnconfirmed means a mutation exited zero but its output did not match the
	// expected confirmation, so it is unknown whether anything changed.
	OutcomeUnconfirmed Outcome = "unconfirmed"
	// OutcomeFailed means the invocation aborted.
	OutcomeFailed Outcome = "failed"
	// OutcomePlanned marks steps listed by a dry run.
	OutcomePlanned Outcome = "planned"
)

// CommandOutput is what one external call returned.
type CommandOutput struct {
	RC     int
	Stdout string
	Stderr string
	Start  time.Time
	End    time.Time
}

// Duration returns how long the call took.
func (o CommandOutput) Duration() time.Duration {
	return o.End.Sub(o.Start)
}

// StepResult records one executed (or planned) step of an invocation.
type StepResult struct {
	Action  string  `json:"action"`
	Cmd     string  `json:"cmd"`
	RC      int     `json:"rc"`
	Stdout  string  `json:"stdout,omitempty"`
	Stderr  string  `json:"stderr,omitempty"`
	Start   string  `json:"start,omitempty"`
	End     string  `json:"end,omitempty"`
	Delta   string  `json:"delta,omitempty"`
	Outcome Outcome `json:"outcome"`
	Error   string  `json:"error,omitempty"`
}

// Result is the document returned to the caller for one module invocation.
type Result struct {
	Module       string `json:"module"`
	InvocationID string `json:"invocation_id"`

	Name        string `json:"name,omitempty"`
	StoragePool string `json:"storage_pool,omitempty"`
	CachePool   string `json:"cache_pool,omitempty"`

	Cmd    string `json:"cmd,omitempty"`
	RC     int    `json:"rc"`
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Delta  string `json:"delta"`

	Changed  bool     `json:"changed"`
	Outcome  Outcome  `json:"outcome"`
	Failed   bool     `json:"failed,omitempty"`
	Msg      string   `json:"msg,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	DryRun   bool     `json:"dry_run,omitempty"`

	Steps []StepResult `json:"steps,omitempty"`

	// Facts are module specific documents (e.g. ceph_status) emitted as top level keys.
	Facts map[string]json.RawMessage `json:"-"`
}

type resultAlias Result

// MarshalJSON flattens Facts into the top level of the document.
func (r Result) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(resultAlias(r))
	if err != nil {
		return nil, err
	}

	for key, raw := range r.Facts {
		data, err = sjson.SetRawBytes(data, key, raw)
		if err != nil {
			return nil, fmt.Errorf("failed setting fact %q: %w", key, err)
		}
	}

	return data, nil
}

// UnmarshalJSON collects keys that are not part of Result into Facts.
func (r *Result) UnmarshalJSON(data []byte) error {
	var alias resultAlias
	err := json.Unmarshal(data, &alias)
	if err != nil {
		return err
	}

	var all map[string]json.RawMessage
	err = json.Unmarshal(data, &all)
	if err != nil {
		return err
	}

	known := map[string]json.RawMessage{}
	base, err := json.Marshal(resultAlias{})
	if err != nil {
		return err
	}

	err = json.Unmarshal(base, &known)
	if err != nil {
		return err
	}

	*r = Result(alias)
	for key, raw := range all {
		if _, ok := known[key]; ok || isOptionalField(key) {
			continue
		}
		if r.Facts == nil {
			r.Facts = map[string]json.RawMessage{}
		}
		r.Facts[key] = raw
	}

	return nil
}

// isOptionalField reports keys of Result that are omitted when empty.
func isOptionalField(key string) bool {
	switch key {
	case "name", "storage_pool", "cache_pool", "cmd", "stdout", "stderr", "failed", "msg", "warnings", "dry_run", "steps":
		return true
	}
	return false
}

// FormatDelta renders a duration the way the orchestration engine expects, e.g. 0:00:01.250000.
func FormatDelta(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	micros := d / time.Microsecond

	return fmt.Sprintf("%d:%02d:%02d.%06d", hours, minutes, seconds, micros)
}
