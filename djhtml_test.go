package djhtml

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rtts/djhtml/lexer"
	"github.com/rtts/djhtml/parser"
)

func join(lines ...string) string {
	return strings.Join(lines, "\n")
}

func TestIndent(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		tabWidth int
		want     string
	}{
		{
			name:     "mixed grammars",
			source:   join("<div>", "<style>", "a {", "color: red;", "}", "</style>", "</div>"),
			tabWidth: 2,
			want:     join("<div>", "  <style>", "    a {", "      color: red;", "    }", "  </style>", "</div>"),
		},
		{
			name: "template blocks around markup",
			source: join(
				"{% block content %}",
				"<ul>",
				"{% for x in xs %}",
				"<li>{{ x }}</li>",
				"{% endfor %}",
				"</ul>",
				"{% endblock %}",
				"",
			),
			tabWidth: 4,
			want: join(
				"{% block content %}",
				"    <ul>",
				"        {% for x in xs %}",
				"            <li>{{ x }}</li>",
				"        {% endfor %}",
				"    </ul>",
				"{% endblock %}",
				"",
			),
		},
		{
			name:     "set assignment does not indent",
			source:   join("{% set x = 1 %}", "<p>{{ x }}</p>"),
			tabWidth: 4,
			want:     join("{% set x = 1 %}", "<p>{{ x }}</p>"),
		},
		{
			name:     "set block indents",
			source:   join("{% set x %}", "hello", "{% endset %}"),
			tabWidth: 4,
			want:     join("{% set x %}", "    hello", "{% endset %}"),
		},
		{
			name:     "void elements",
			source:   join("<div>", "<br>", "<img src=\"a.png\">", "<p>x</p>", "</div>"),
			tabWidth: 4,
			want:     join("<div>", "    <br>", "    <img src=\"a.png\">", "    <p>x</p>", "</div>"),
		},
		{
			name:     "preformatted content",
			source:   join("<div>", "<pre>", "   keep", "      this", "</pre>", "</div>"),
			tabWidth: 4,
			want:     join("<div>", "    <pre>", "   keep", "      this", "</pre>", "</div>"),
		},
		{
			name:     "html comment",
			source:   join("<div>", "<!--", "   keep", "-->", "</div>"),
			tabWidth: 4,
			want:     join("<div>", "    <!--", "   keep", "-->", "</div>"),
		},
		{
			name:     "fmt off",
			source:   join("<div>", "{# fmt:off #}", "  <p>", "{# fmt:on #}", "</div>"),
			tabWidth: 4,
			want:     join("<div>", "    {# fmt:off #}", "  <p>", "{# fmt:on #}", "</div>"),
		},
		{
			name:     "attribute alignment",
			source:   join("<div>", "<input type=\"text\"", "name=\"q\">", "</div>"),
			tabWidth: 4,
			want:     join("<div>", "    <input type=\"text\"", "           name=\"q\">", "</div>"),
		},
		{
			name:     "script brackets",
			source:   join("<script>", "function f() {", "return [", "1,", "2", "];", "}", "</script>"),
			tabWidth: 4,
			want:     join("<script>", "    function f() {", "        return [", "            1,", "            2", "        ];", "    }", "</script>"),
		},
		{
			name:     "method chain",
			source:   join("<script>", "fetch(url)", ".then(r => r.json())", ".then(f);", "</script>"),
			tabWidth: 4,
			want:     join("<script>", "    fetch(url)", "        .then(r => r.json())", "        .then(f);", "</script>"),
		},
		{
			name: "placeholder with default content",
			source: join(
				"{% placeholder \"content\" or %}",
				"<p>default</p>",
				"{% endplaceholder %}",
				"{% placeholder \"sidebar\" %}",
				"<p>x</p>",
			),
			tabWidth: 4,
			want: join(
				"{% placeholder \"content\" or %}",
				"    <p>default</p>",
				"{% endplaceholder %}",
				"{% placeholder \"sidebar\" %}",
				"<p>x</p>",
			),
		},
		{
			name: "video block",
			source: join(
				"{% video item.url as my_video %}",
				"<p>{{ my_video.title }}</p>",
				"{% endvideo %}",
				"{% video item.url 'small' %}",
			),
			tabWidth: 4,
			want: join(
				"{% video item.url as my_video %}",
				"    <p>{{ my_video.title }}</p>",
				"{% endvideo %}",
				"{% video item.url 'small' %}",
			),
		},
		{
			name:     "markup fmt off",
			source:   join("<div>", "<!-- fmt:off -->", "   <p>", "<!-- fmt:on -->", "</div>"),
			tabWidth: 4,
			want:     join("<div>", "    <!-- fmt:off -->", "   <p>", "<!-- fmt:on -->", "</div>"),
		},
		{
			name:     "style fmt off",
			source:   join("<style>", "a {", "/* fmt:off */", "   b:c;", "/* fmt:on */", "}", "</style>"),
			tabWidth: 4,
			want:     join("<style>", "    a {", "        /* fmt:off */", "   b:c;", "/* fmt:on */", "    }", "</style>"),
		},
		{
			name:     "script fmt off",
			source:   join("<script>", "if (a) {", "// fmt:off", "  x( 1 )", "// fmt:on", "}", "</script>"),
			tabWidth: 4,
			want:     join("<script>", "    if (a) {", "        // fmt:off", "  x( 1 )", "// fmt:on", "    }", "</script>"),
		},
		{
			name:     "textarea content",
			source:   join("<form>", "<textarea>", "  a", "    b", "</textarea>", "</form>"),
			tabWidth: 4,
			want:     join("<form>", "    <textarea>", "  a", "    b", "</textarea>", "</form>"),
		},
		{
			name:     "closing tag split over lines",
			source:   join("<div>", "<p>", "x", "</p", ">", "</div>"),
			tabWidth: 4,
			want:     join("<div>", "    <p>", "        x", "    </p", "    >", "</div>"),
		},
		{
			name:     "crlf",
			source:   "<div>\r\n<p>x</p>\r\n</div>\r\n",
			tabWidth: 4,
			want:     "<div>\n    <p>x</p>\n</div>\n",
		},
		{
			name:     "blank lines lose their whitespace",
			source:   join("<div>", "   ", "</div>"),
			tabWidth: 4,
			want:     join("<div>", "", "</div>"),
		},
		{
			name:     "empty document",
			source:   "",
			tabWidth: 4,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Indent(tt.source, tt.tabWidth)
			if err != nil {
				t.Fatalf("Indent() error = %v", err)
			}
			if diff := cmp.Diff(strings.Split(tt.want, "\n"), strings.Split(got, "\n")); diff != "" {
				t.Errorf("Indent() mismatch (-want +got):\n%s", diff)
			}

			again, err := Indent(got, tt.tabWidth)
			if err != nil {
				t.Fatalf("Indent() on own output error = %v", err)
			}
			if again != got {
				t.Errorf("Indent() is not idempotent:\n%s", cmp.Diff(got, again))
			}

			if _, err := Verify(tt.source, got); err != nil {
				t.Errorf("Verify() error = %v", err)
			}

			flat, err := Indent(tt.source, 0)
			if err != nil {
				t.Fatalf("Indent() with zero tab width error = %v", err)
			}
			restored, err := Indent(flat, tt.tabWidth)
			if err != nil {
				t.Fatalf("Indent() of flattened output error = %v", err)
			}
			if restored != got {
				t.Errorf("flattening changes the result:\n%s", cmp.Diff(got, restored))
			}
		})
	}
}

func TestIndentVerbatimBlock(t *testing.T) {
	source := join("<div>", "{% verbatim %}", "   {{ keep }}", "      <p>", "{% endverbatim %}", "</div>")
	kept := strings.Split(source, "\n")[2:5]

	for _, tabWidth := range []int{0, 2, 4} {
		got, err := Indent(source, tabWidth)
		if err != nil {
			t.Fatalf("Indent(%d) error = %v", tabWidth, err)
		}
		lines := strings.Split(got, "\n")
		if len(lines) != 6 {
			t.Fatalf("Indent(%d) returned %d lines", tabWidth, len(lines))
		}
		if diff := cmp.Diff(kept, lines[2:5]); diff != "" {
			t.Errorf("Indent(%d) changed the verbatim block (-want +got):\n%s", tabWidth, diff)
		}
	}
}

func TestIndentZeroTabWidth(t *testing.T) {
	source := join("<div class=\"a\"", "     id=\"b\">", "    <p>", "  x", "    </p>", "</div>")
	want := join("<div class=\"a\"", "id=\"b\">", "<p>", "x", "</p>", "</div>")

	got, err := Indent(source, 0)
	if err != nil {
		t.Fatalf("Indent() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Indent() mismatch (-want +got):\n%s", diff)
	}
}

func TestIndentErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		wantType parser.ErrorType
	}{
		{
			name:     "missing closing tag",
			source:   join("<div>", "<p>", "</div>"),
			wantType: parser.ErrorTypeUnmatchedOpening,
		},
		{
			name:     "element never closed",
			source:   join("<div>", "<p>x</p>"),
			wantType: parser.ErrorTypeUnmatchedOpening,
		},
		{
			name:     "stray closing tag",
			source:   join("<p>x</p>", "</div>"),
			wantType: parser.ErrorTypeUnmatchedClosing,
		},
		{
			name:     "unbalanced script",
			source:   join("<script>", "f(", "</script>"),
			wantType: parser.ErrorTypeKindMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Indent(tt.source, 4)
			if err == nil {
				t.Fatalf("Indent() = %q, expected error", got)
			}
			if got != "" {
				t.Errorf("Indent() returned partial output %q", got)
			}
			if !IsSyntaxError(err) {
				t.Errorf("IsSyntaxError(%v) = false", err)
			}
			var perr *parser.Error
			if !errors.As(err, &perr) || perr.Type != tt.wantType {
				t.Errorf("error = %v, want type %s", err, tt.wantType)
			}
		})
	}
}

func TestIndentErrorLine(t *testing.T) {
	_, err := Indent(join("<div>", "<p>", "x", "</p", ">", "</div>", "</span>"), 4)

	var perr *parser.Error
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *parser.Error", err)
	}
	if perr.Type != parser.ErrorTypeUnmatchedClosing {
		t.Errorf("Type = %s, want %s", perr.Type, parser.ErrorTypeUnmatchedClosing)
	}
	if perr.Line != 7 || perr.Text != "</span>" {
		t.Errorf("error at line %d %q, want line 7 %q", perr.Line, perr.Text, "</span>")
	}
}

func TestIndentNegativeTabWidth(t *testing.T) {
	_, err := Indent("<p>x</p>", -1)
	if !errors.Is(err, ErrTabWidth) {
		t.Errorf("error = %v, want ErrTabWidth", err)
	}
	if IsSyntaxError(err) {
		t.Error("ErrTabWidth reported as syntax error")
	}
}

func TestFormatterLanguages(t *testing.T) {
	tests := []struct {
		name     string
		language Language
		source   string
		want     string
	}{
		{
			name:     "text",
			language: Text,
			source:   join("{% if a %}", "<div>", "{% endif %}"),
			want:     join("{% if a %}", "  <div>", "{% endif %}"),
		},
		{
			name:     "css",
			language: CSS,
			source:   join("a {", "color: red;", "}"),
			want:     join("a {", "  color: red;", "}"),
		},
		{
			name:     "javascript",
			language: JavaScript,
			source:   join("if (a) {", "{% if debug %}", "log(a);", "{% endif %}", "}"),
			want:     join("if (a) {", "  {% if debug %}", "    log(a);", "  {% endif %}", "}"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(Config{TabWidth: 2, Language: tt.language})
			got, err := f.Indent(tt.source)
			if err != nil {
				t.Fatalf("Indent() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Indent() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatterExtraBlocks(t *testing.T) {
	config := DefaultConfig()
	config.ExtraBlocks = map[string]string{"cache": "stopcache"}

	got, err := New(config).Indent(join("{% cache 500 %}", "<p>x</p>", "{% stopcache %}"))
	if err != nil {
		t.Fatalf("Indent() error = %v", err)
	}
	want := join("{% cache 500 %}", "    <p>x</p>", "{% stopcache %}")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Indent() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatWithResult(t *testing.T) {
	f := New(DefaultConfig())

	res, err := f.FormatWithResult(join("<div>", "<p>x</p>", "</div>"))
	if err != nil {
		t.Fatalf("FormatWithResult() error = %v", err)
	}
	if !res.Changed {
		t.Error("expected Changed for an unindented document")
	}

	res, err = f.FormatWithResult(res.Content)
	if err != nil {
		t.Fatalf("FormatWithResult() error = %v", err)
	}
	if res.Changed {
		t.Error("expected no change for an indented document")
	}
}

func TestDebug(t *testing.T) {
	got, err := Debug(join("<p>", "x", "</p>"))
	if err != nil {
		t.Fatalf("Debug() error = %v", err)
	}
	want := join(
		`  1  0+0  [Open(MARKUP:"<p"), Text(MARKUP:">")]`,
		`  2  1+0  [Text(MARKUP:"x")]`,
		`  3  0+0  [Close(MARKUP:"</p>")]`,
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Debug() mismatch (-want +got):\n%s", diff)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		result      string
		wantChanged bool
		wantErr     bool
	}{
		{name: "unchanged", source: "a\n  b", result: "a\n  b"},
		{name: "whitespace", source: "a\nb", result: "a\n    b", wantChanged: true},
		{name: "text changed", source: "a\nb", result: "a\nc", wantErr: true},
		{name: "line dropped", source: "a\nb", result: "a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed, err := Verify(tt.source, tt.result)
			if tt.wantErr {
				if !errors.Is(err, ErrCorrupted) {
					t.Errorf("error = %v, want ErrCorrupted", err)
				}
				if IsSyntaxError(err) {
					t.Error("ErrCorrupted reported as syntax error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}

func TestIsSyntaxError(t *testing.T) {
	if !IsSyntaxError(&lexer.LexerError{Message: "timeout", Line: 1, Column: 1}) {
		t.Error("LexerError is a syntax error")
	}
	if IsSyntaxError(errors.New("boom")) {
		t.Error("plain error is not a syntax error")
	}
}

func TestParseLanguage(t *testing.T) {
	for _, l := range []Language{HTML, Text, CSS, JavaScript} {
		got, err := ParseLanguage(l.String())
		if err != nil || got != l {
			t.Errorf("ParseLanguage(%q) = %v, %v", l.String(), got, err)
		}
	}
	if _, err := ParseLanguage("xml"); err == nil {
		t.Error("ParseLanguage(xml) expected error")
	}
}
