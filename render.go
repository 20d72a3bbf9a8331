package djhtml

import (
	"strings"

	"github.com/rtts/djhtml/lexer"
)

// render joins the indented lines. The tokenizer ends every document with
// the line after its last newline, so a trailing newline survives as the
// empty final line.
func render(lines []*lexer.Line, tabWidth int) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line.Indent(tabWidth))
	}
	return b.String()
}
