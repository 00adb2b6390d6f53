// Package render prints human-readable views of response bodies and the patches between them.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.trai.ch/iceberg/internal/core/diff"
	"go.trai.ch/iceberg/internal/ui/output"
	"go.trai.ch/zerr"
)

// Exchange describes one round trip as seen by a client.
type Exchange struct {
	Procedure    string
	Hash         string
	IsDiff       bool
	WireBytes    int
	BodyBytes    int
	Dependencies []string
}

// Renderer writes colored output to a terminal.
type Renderer struct {
	out *termenv.Output
	dmp *diffmatchpatch.DiffMatchPatch
}

// New creates a Renderer for w using the environment's color profile.
func New(w io.Writer) *Renderer {
	return &Renderer{out: output.New(w), dmp: diffmatchpatch.New()}
}

// NewPlain creates a Renderer that never emits escape sequences.
func NewPlain(w io.Writer) *Renderer {
	return &Renderer{out: output.NewPlain(w), dmp: diffmatchpatch.New()}
}

// Exchange prints a one-line summary of a response.
func (r *Renderer) Exchange(e Exchange) error {
	mode := "full"
	if e.IsDiff {
		mode = "diff"
	}

	deps := "-"
	if len(e.Dependencies) > 0 {
		deps = strings.Join(e.Dependencies, ",")
	}

	line := fmt.Sprintf("%s %s  hash %s  %s %d/%d bytes  deps %s\n",
		output.Paint(r.out, output.Check, output.Green),
		e.Procedure,
		output.Paint(r.out, e.Hash, output.Slate),
		mode,
		e.WireBytes,
		e.BodyBytes,
		deps,
	)
	return r.write(line)
}

// Transition prints the patch that turns old into cur, its encoded size
// compared to the full body, and an inline character diff.
func (r *Renderer) Transition(old, cur string) error {
	patch := diff.Compute(old, cur)
	wire := diff.EncodedLen(patch)

	decision := "sends full"
	if wire < len(cur) {
		decision = "sends diff"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "old     %d bytes\n", len(old))
	fmt.Fprintf(&b, "new     %d bytes\n", len(cur))
	fmt.Fprintf(&b, "patch   %s, %d bytes (full body %d bytes, %s)\n", edits(len(patch)), wire, len(cur), decision)
	for _, e := range patch {
		fmt.Fprintf(&b, "  @%d -%d +%q\n", e.Index, e.DeleteCount, e.Text)
	}

	for _, d := range r.dmp.DiffMain(old, cur, false) {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			b.WriteString(output.Paint(r.out, "[-"+d.Text+"-]", output.Red))
		case diffmatchpatch.DiffInsert:
			b.WriteString(output.Paint(r.out, "{+"+d.Text+"+}", output.Green))
		}
	}
	b.WriteString("\n")

	return r.write(b.String())
}

func (r *Renderer) write(s string) error {
	if _, err := io.WriteString(r.out, s); err != nil {
		return zerr.Wrap(err, "write output")
	}
	return nil
}

func edits(n int) string {
	if n == 1 {
		return "1 edit"
	}
	return fmt.Sprintf("%d edits", n)
}
