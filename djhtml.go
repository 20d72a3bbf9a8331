// Package djhtml reindents Django and Jinja templates that mix template
// tags with HTML, CSS and JavaScript. Only leading whitespace changes:
// the result has exactly the lines of the input, and a document that is
// not balanced is rejected instead of being repaired.
package djhtml

import (
	"fmt"
	"strings"

	"github.com/rtts/djhtml/lexer"
	"github.com/rtts/djhtml/parser"
)

// Version of the djhtml library
const Version = "3.0.0"

// Language selects the grammar a document starts in.
type Language int

const (
	HTML Language = iota
	Text
	CSS
	JavaScript
)

var languageNames = map[Language]string{
	HTML:       "html",
	Text:       "txt",
	CSS:        "css",
	JavaScript: "js",
}

func (l Language) String() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Language(%d)", l)
}

// ParseLanguage maps a name such as "html" or "js" to a Language.
func ParseLanguage(name string) (Language, error) {
	for l, n := range languageNames {
		if strings.EqualFold(n, name) {
			return l, nil
		}
	}
	return HTML, fmt.Errorf("unknown language %q", name)
}

// Config holds the settings of a Formatter
type Config struct {
	// TabWidth is the number of spaces per indentation level.
	TabWidth int
	// ExtraBlocks maps additional block tag names to their end tag.
	ExtraBlocks map[string]string
	// Language is the grammar the document starts in.
	Language Language
}

func DefaultConfig() Config {
	return Config{
		TabWidth: 4,
		Language: HTML,
	}
}

// Formatter reindents documents with a fixed configuration. It holds no
// per-document state and is safe for concurrent use.
type Formatter struct {
	config Config
	lexer  lexer.Config
}

// New creates a Formatter.
func New(config Config) *Formatter {
	return &Formatter{
		config: config,
		lexer: lexer.Config{
			TabWidth:    config.TabWidth,
			ExtraBlocks: config.ExtraBlocks,
		},
	}
}

func (f *Formatter) startMode() lexer.Mode {
	switch f.config.Language {
	case Text:
		return lexer.NewTextMode()
	case CSS:
		return lexer.NewStyleMode(nil)
	case JavaScript:
		return lexer.NewScriptMode(nil)
	}
	return lexer.NewMarkupMode()
}

func (f *Formatter) parse(source string) ([]*lexer.Line, error) {
	if f.config.TabWidth < 0 {
		return nil, ErrTabWidth
	}
	return parser.ParseTemplateWithConfig(f.lexer, source, f.startMode())
}

// Indent returns source with every line reindented.
func (f *Formatter) Indent(source string) (string, error) {
	lines, err := f.parse(source)
	if err != nil {
		return "", err
	}
	return render(lines, f.config.TabWidth), nil
}

// Debug returns a dump of the token stream, one line of tokens per source
// line, with the computed levels and offsets.
func (f *Formatter) Debug(source string) (string, error) {
	lines, err := f.parse(source)
	if err != nil {
		return "", err
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.String()
	}
	return strings.Join(out, "\n"), nil
}

// Result contains the result of reindenting a document.
type Result struct {
	// Content is the reindented document.
	Content string
	// Changed indicates if the content differs from the original.
	Changed bool
}

// FormatWithResult reindents source and verifies the result against it.
func (f *Formatter) FormatWithResult(source string) (Result, error) {
	content, err := f.Indent(source)
	if err != nil {
		return Result{}, err
	}
	changed, err := Verify(source, content)
	if err != nil {
		return Result{}, err
	}
	return Result{Content: content, Changed: changed}, nil
}

// Indent reindents an HTML template with tabWidth spaces per level.
func Indent(source string, tabWidth int) (string, error) {
	config := DefaultConfig()
	config.TabWidth = tabWidth
	return New(config).Indent(source)
}

// Debug returns the token dump of an HTML template.
func Debug(source string) (string, error) {
	return New(DefaultConfig()).Debug(source)
}
