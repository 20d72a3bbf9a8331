package lexer

import (
	"regexp"
	"strings"
	"sync"

	"github.com/dlclark/regexp2"
)

// Token patterns, tried in priority order at every scan position. Every
// mode starts from the template patterns so template tags are recognized
// inside markup, style and script alike. Token patterns never match a
// newline; only the tokenizer consumes those.
var (
	templatePatterns = []string{
		`\{%.*?%\}`,
		`\{\{.*?\}\}`,
		`\{#.*?#\}`,
		`\{#`,
	}

	stringPatterns = []string{
		`"(?:[^"\\\n]|\\.)*"`,
		`'(?:[^'\\\n]|\\.)*'`,
	}

	markupPatterns = withTemplates(
		`<!--[ \t]*fmt:off[ \t]*-->`,
		`<!--`,
		`</[a-zA-Z][\w.:-]*[ \t]*>`,
		`</[a-zA-Z][\w.:-]*`,
		`<[a-zA-Z][\w.:-]*`,
	)

	tagPatterns = withTemplates(
		`/>`,
		`>`,
		`"[^"\n]*"`,
		`'[^'\n]*'`,
	)
)

// Classification patterns.
var (
	TagNameRegex     = regexp.MustCompile(`^\{%[-+]?\s*(\w+)`)
	fmtOffTemplate   = regexp.MustCompile(`^\{#\s*fmt:off\s*#\}$`)
	fmtOffMarkup     = regexp.MustCompile(`^<!--\s*fmt:off\s*-->$`)
	fmtOffStyle      = regexp.MustCompile(`^/\*\s*fmt:off\s*\*/$`)
	fmtOffScript     = regexp.MustCompile(`^//\s*fmt:off\b`)
	templateScript   = regexp.MustCompile(`(?i)\btype\s*=\s*["']?text/(?:template|x-template|html|ng-template|x-handlebars-template|x-tmpl|x-jsrender)\b`)
	closingStyleTag  = regexp.MustCompile(`(?i)^</style[ \t]*>$`)
	closingScriptTag = regexp.MustCompile(`(?i)^</script[ \t]*>$`)
)

const (
	fmtOnTemplate = `\{#[ \t]*fmt:on[ \t]*#\}`
	fmtOnMarkup   = `<!--[ \t]*fmt:on[ \t]*-->`
	fmtOnStyle    = `/\*[ \t]*fmt:on[ \t]*\*/`
	fmtOnScript   = `//[ \t]*fmt:on\b`
)

// Tags that dedent and re-indent at the same call site.
var openAndCloseTags = map[string]bool{
	"else":   true,
	"elif":   true,
	"elseif": true,
	"empty":  true,
	"plural": true,
}

// Tags whose content is passed through verbatim, keyed by their end tag.
var rawBlockTags = map[string]string{
	"comment":  "endcomment",
	"verbatim": "endverbatim",
	"raw":      "endraw",
}

// ambiguousTags hold the test a tag's own text must pass before it can
// open a scope. The name alone does not decide: {% set x = 1 %} is an
// assignment while {% set x %}...{% endset %} captures a block.
var ambiguousTags = map[string]*regexp2.Regexp{
	"set":         regexp2.MustCompile(`^\{%[-+]?\s*set\b(?![^%]*=)`, regexp2.None),
	"placeholder": regexp2.MustCompile(`\bor\s*[-+]?%\}$`, regexp2.None),
	"video":       regexp2.MustCompile(`\bas\s+\w+\s*[-+]?%\}$`, regexp2.None),
}

// Elements that never contain anything and so never affect nesting.
var voidElements = map[string]bool{
	"area":    true,
	"base":    true,
	"br":      true,
	"col":     true,
	"command": true,
	"embed":   true,
	"hr":      true,
	"img":     true,
	"input":   true,
	"keygen":  true,
	"link":    true,
	"meta":    true,
	"param":   true,
	"source":  true,
	"track":   true,
	"wbr":     true,
}

// Elements whose content is preformatted.
var verbatimElements = map[string]bool{
	"pre":      true,
	"textarea": true,
}

func init() {
	for _, re := range ambiguousTags {
		re.MatchTimeout = ambiguityTimeout
	}
}

func withTemplates(patterns ...string) []string {
	out := make([]string, 0, len(templatePatterns)+len(patterns))
	out = append(out, templatePatterns...)
	return append(out, patterns...)
}

var patternCache sync.Map

// compile joins patterns into one alternation, newline first, and caches
// the result. Go's regexp is leftmost-first, so among matches starting at
// the same position the earlier pattern wins.
func compile(patterns ...string) *regexp.Regexp {
	parts := make([]string, 0, len(patterns)+1)
	parts = append(parts, `\n`)
	for _, p := range patterns {
		parts = append(parts, "(?:"+p+")")
	}
	key := strings.Join(parts, "|")
	if re, ok := patternCache.Load(key); ok {
		return re.(*regexp.Regexp)
	}
	re, _ := patternCache.LoadOrStore(key, regexp.MustCompile(key))
	return re.(*regexp.Regexp)
}

// endTagRegex matches the closing tag of a template block named name.
func endTagRegex(name, extra string) *regexp.Regexp {
	alternatives := `(?:end_?|end\s+)` + regexp.QuoteMeta(name)
	if extra != "" {
		alternatives = "(?:" + alternatives + "|" + regexp.QuoteMeta(extra) + ")"
	}
	pattern := `\{%[-+]?\s*` + alternatives + `\b`
	if re, ok := patternCache.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}
	re, _ := patternCache.LoadOrStore(pattern, regexp.MustCompile(pattern))
	return re.(*regexp.Regexp)
}

func isOpenBracket(s string) bool {
	return s == "{" || s == "(" || s == "["
}

func isCloseBracket(s string) bool {
	return s == "}" || s == ")" || s == "]"
}
