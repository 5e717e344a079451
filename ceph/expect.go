package ceph

import (
	"context"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/cephmod/cephmod/api/types"
)

// Expectation decides whether a mutating step changed the cluster.
type Expectation interface {
	Confirm(ctx context.Context, out types.CommandOutput) (bool, error)
}

// Stream selects which output of a call is matched.
type Stream int

const (
	// Stderr is the CLI standard error, or the status string of a mon command.
	Stderr Stream = iota
	// Stdout is the CLI standard output, or the output buffer of a mon command.
	Stdout
)

func (st Stream) pick(out types.CommandOutput) string {
	if st == Stdout {
		return strings.TrimRight(out.Stdout, "\r\n")
	}
	return strings.TrimRight(out.Stderr, "\r\n")
}

// MessageExpectation matches a stream against a fixed message.
type MessageExpectation struct {
	Stream  Stream
	Message string
}

// Confirm reports whether the stream equals the message.
func (e MessageExpectation) Confirm(ctx context.Context, out types.CommandOutput) (bool, error) {
	return e.Stream.pick(out) == e.Message, nil
}

// PatternExpectation matches a stream against a glob pattern.
type PatternExpectation struct {
	Stream Stream
	g      glob.Glob
}

// expectPattern compiles a pattern built with patternf.
func expectPattern(stream Stream, pattern string) (PatternExpectation, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return PatternExpectation{}, fmt.Errorf("invalid expected message pattern %q: %w", pattern, err)
	}
	return PatternExpectation{Stream: stream, g: g}, nil
}

// patternf formats a pattern with its arguments quoted, so only the literal wildcards in
// format act as wildcards.
func patternf(format string, args ...any) string {
	quoted := make([]any, len(args))
	for i, arg := range args {
		quoted[i] = glob.QuoteMeta(fmt.Sprint(arg))
	}
	return fmt.Sprintf(format, quoted...)
}

// Confirm reports whether the stream matches the pattern.
func (e PatternExpectation) Confirm(ctx context.Context, out types.CommandOutput) (bool, error) {
	return e.g.Match(e.Stream.pick(out)), nil
}

// ProgressExpectation matches the final state of a progress line. Tools such as rbd redraw
// their progress with carriage returns, so only the text after the last one is compared.
type ProgressExpectation struct {
	Message string
}

// Confirm reports whether the last progress segment on stderr equals the message.
func (e ProgressExpectation) Confirm(ctx context.Context, out types.CommandOutput) (bool, error) {
	stderr := strings.TrimRight(out.Stderr, "\r\n")
	segments := strings.Split(stderr, "\r")
	return strings.TrimSpace(segments[len(segments)-1]) == e.Message, nil
}

// VerifyExpectation re-observes the cluster to confirm a change.
type VerifyExpectation func(ctx context.Context) (bool, error)

// Confirm runs the verification.
func (e VerifyExpectation) Confirm(ctx context.Context, out types.CommandOutput) (bool, error) {
	return e(ctx)
}
