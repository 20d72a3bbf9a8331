// Command djhtml reindents Django and Jinja templates that mix HTML, CSS
// and JavaScript.
//
// Usage:
//
//	djhtml [options] [filename...]
//
// Examples:
//
//	djhtml -i templates/*.html     Reindent files in place
//	djhtml -c templates/*.html     Check which files would change
//	djhtml < page.html             Reindent stdin to stdout
//	djhtml -t 2 -o out.html in.html
//
// When installed under the name djtxt, djcss or djjs the command starts in
// the text, CSS or JavaScript grammar instead of HTML.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rtts/djhtml"
)

const usage = `djhtml - reindent Django/Jinja templates containing HTML, CSS and JavaScript

Usage:
  djhtml [options] [filename...]

Options:
  -i, --in-place          modify files in-place
  -c, --check             don't modify files
  -q, --quiet             be quiet
  -t, --tabwidth N        tabwidth (default is 4, or [tool.djhtml] tabwidth
                          from pyproject.toml)
  -o, --output-file NAME  output filename (default is stdout)
      --mode MODE         html, txt, css or js (default from the command name)
      --extra-block TAG   extra block tag, as name or name=endname (repeatable)
      --version           print the version and exit

Without filenames the template is read from stdin.

Exit status is the number of problematic files, or with --check the number
of files that would be reindented.

For more information, see https://github.com/rtts/djhtml
`

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command and returns its exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args[0], args[1:], stderr)
	if err != nil {
		return exitUsage(err, stderr)
	}
	if opts == nil {
		return 0
	}
	if opts.version {
		fmt.Fprintln(stdout, "djhtml", djhtml.Version)
		return 0
	}
	return newCommand(opts, stdin, stdout, stderr).execute()
}
