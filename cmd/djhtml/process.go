package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/rtts/djhtml"
)

const fatalMessage = `
Fatal error while processing %s

    If you have time and are using the latest version, we
    would very much appreciate if you opened an issue on
    https://github.com/rtts/djhtml/issues
`

// command processes the input files of one invocation.
type command struct {
	opts      *options
	formatter *djhtml.Formatter
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	errlog    *log.Logger
	info      *log.Logger
}

func newCommand(opts *options, stdin io.Reader, stdout, stderr io.Writer) *command {
	c := &command{
		opts:      opts,
		formatter: djhtml.New(opts.config()),
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
		errlog:    log.New(stderr, "djhtml: ", 0),
		info:      log.New(stderr, "", 0),
	}
	if opts.quiet {
		c.errlog.SetOutput(io.Discard)
		c.info.SetOutput(io.Discard)
	}
	return c
}

// outcome is what happened to one input file.
type outcome struct {
	name    string
	source  string
	result  djhtml.Result
	perm    os.FileMode
	readErr error
	syntax  error
}

func exitUsage(err error, stderr io.Writer) int {
	fmt.Fprintf(stderr, "djhtml: %v\n\nRun djhtml -h for usage.\n", err)
	return 1
}

func (c *command) execute() int {
	if c.opts.stdinDefault && isTerminal(c.stdin) {
		fmt.Fprint(c.stderr, usage)
		return 1
	}

	if c.opts.debug {
		return c.debug(c.opts.files[0])
	}

	outcomes, err := c.process()
	if err != nil {
		var fatal *fatalError
		if errors.As(err, &fatal) {
			fmt.Fprintf(c.stderr, fatalMessage, fatal.name)
			fmt.Fprintf(c.stderr, "%v\n", fatal.err)
		}
		return 1
	}

	if c.toStdout() {
		return c.print(outcomes[0])
	}

	var changed, unchanged, problematic int
	for _, o := range outcomes {
		switch {
		case o.readErr != nil:
			problematic++
			c.errlog.Printf("Error opening %s: %v", o.name, o.readErr)
		case o.syntax != nil:
			problematic++
			c.errlog.Printf("Syntax error in %s: %v", o.name, o.syntax)
		case !o.result.Changed:
			unchanged++
		case c.opts.check:
			changed++
		default:
			target := c.opts.output
			if c.opts.inPlace {
				target = o.name
			}
			if err := writeFile(target, o.result.Content, o.perm); err != nil {
				problematic++
				c.errlog.Printf("Error writing %s: %v", target, err)
				continue
			}
			changed++
			c.info.Printf("reindented %s", target)
		}
	}

	c.summary(changed, unchanged, problematic)
	if c.opts.check {
		return changed
	}
	return problematic
}

func (c *command) toStdout() bool {
	return !c.opts.inPlace && !c.opts.check && c.opts.output == "-"
}

// print writes the result of a single file to stdout.
func (c *command) print(o outcome) int {
	switch {
	case o.readErr != nil:
		c.errlog.Printf("Error opening %s: %v", o.name, o.readErr)
		return 1
	case o.syntax != nil:
		c.errlog.Printf("Syntax error in %s: %v", o.name, o.syntax)
		return 1
	}
	if !c.opts.quiet {
		fmt.Fprint(c.stdout, o.result.Content)
	}
	return 0
}

func (c *command) debug(name string) int {
	source, _, err := c.read(name)
	if err != nil {
		c.errlog.Printf("Error opening %s: %v", name, err)
		return 1
	}
	dump, err := c.formatter.Debug(source)
	if err != nil {
		c.errlog.Printf("Syntax error in %s: %v", name, err)
		return 1
	}
	fmt.Fprintln(c.stdout, dump)
	return 0
}

// fatalError is an internal failure while processing a file. It stops
// the whole run without writing anything.
type fatalError struct {
	name string
	err  error
}

func (e *fatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.name, e.err)
}

func (e *fatalError) Unwrap() error {
	return e.err
}

// process reindents all input files in parallel. Results are returned in
// input order.
func (c *command) process() ([]outcome, error) {
	outcomes := make([]outcome, len(c.opts.files))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, name := range c.opts.files {
		i, name := i, name
		g.Go(func() error {
			o := outcome{name: name}
			o.source, o.perm, o.readErr = c.read(name)
			if o.readErr == nil {
				result, err := c.formatter.FormatWithResult(o.source)
				switch {
				case err == nil:
					o.result = result
				case djhtml.IsSyntaxError(err):
					o.syntax = err
				default:
					return &fatalError{name: displayName(name), err: err}
				}
			}
			o.name = displayName(name)
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// read returns the contents and permissions of a file, or of stdin for "-".
func (c *command) read(name string) (string, os.FileMode, error) {
	if name == "-" {
		data, err := io.ReadAll(c.stdin)
		return string(data), 0o644, err
	}
	info, err := os.Stat(name)
	if err != nil {
		return "", 0, err
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", 0, err
	}
	return string(data), info.Mode().Perm(), nil
}

func (c *command) summary(changed, unchanged, problematic int) {
	s := plural(changed)
	have := "has"
	switch {
	case c.opts.check:
		have = "would have"
	case s != "":
		have = "have"
	}
	c.info.Printf("%d template%s %s been reindented.", changed, s, have)
	if unchanged > 0 {
		were := "was"
		if unchanged != 1 {
			were = "were"
		}
		c.info.Printf("%d template%s %s already perfect!", unchanged, plural(unchanged), were)
	}
	if problematic > 0 {
		c.info.Printf("%d template%s could not be processed due to an error.", problematic, plural(problematic))
	}
}

func writeFile(name, content string, perm os.FileMode) error {
	if perm == 0 {
		perm = 0o644
	}
	return os.WriteFile(name, []byte(content), perm)
}

func displayName(name string) string {
	if name == "-" {
		return "<stdin>"
	}
	return name
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
