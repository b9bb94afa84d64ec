package debugger

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const maxSummaryLines = 40

// Summary describes how a correction changed a file, line by line.
type Summary struct {
	Added   int    `json:"added" yaml:"added"`
	Removed int    `json:"removed" yaml:"removed"`
	Text    string `json:"text" yaml:"text"`
}

func (s Summary) String() string {
	return fmt.Sprintf("+%d -%d lines", s.Added, s.Removed)
}

// Summarize diffs original against corrected in line mode. Text lists the
// changed lines prefixed with "+" or "-", capped at a few dozen lines.
func Summarize(original, corrected string) Summary {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(original, corrected)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var s Summary
	var out strings.Builder
	shown := 0
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			if d.Type == diffmatchpatch.DiffInsert {
				s.Added++
			} else {
				s.Removed++
			}
			if shown < maxSummaryLines {
				out.WriteString(prefix + strings.TrimSuffix(line, "\n") + "\n")
			}
			shown++
		}
	}
	if shown > maxSummaryLines {
		fmt.Fprintf(&out, "... %d more changed line(s)\n", shown-maxSummaryLines)
	}
	s.Text = out.String()
	return s
}
