package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/rtts/djhtml"
)

// options are the parsed command-line arguments.
type options struct {
	inPlace  bool
	check    bool
	quiet    bool
	debug    bool
	version  bool
	tabWidth int
	output   string
	language djhtml.Language
	extra    blockFlag
	files    []string
	// stdinDefault is set when no filenames were given.
	stdinDefault bool
}

func (o *options) config() djhtml.Config {
	config := djhtml.DefaultConfig()
	config.TabWidth = o.tabWidth
	config.Language = o.language
	if len(o.extra) > 0 {
		config.ExtraBlocks = o.extra
	}
	return config
}

// blockFlag collects --extra-block values into a name to end tag mapping.
type blockFlag map[string]string

func (b blockFlag) String() string {
	parts := make([]string, 0, len(b))
	for name, end := range b {
		parts = append(parts, name+"="+end)
	}
	return strings.Join(parts, ",")
}

func (b blockFlag) Set(value string) error {
	name, end, found := strings.Cut(value, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("empty block name in %q", value)
	}
	if !found {
		end = "end" + name
	}
	b[name] = strings.TrimSpace(end)
	return nil
}

// languageFor picks the starting grammar from the name the command was
// installed under.
func languageFor(program string) djhtml.Language {
	name := strings.TrimSuffix(filepath.Base(program), ".exe")
	switch {
	case strings.HasSuffix(name, "djtxt"):
		return djhtml.Text
	case strings.HasSuffix(name, "djcss"):
		return djhtml.CSS
	case strings.HasSuffix(name, "djjs"):
		return djhtml.JavaScript
	}
	return djhtml.HTML
}

// parseArgs parses the command line. It returns nil options when help was
// requested.
func parseArgs(program string, args []string, stderr io.Writer) (*options, error) {
	opts := &options{extra: make(blockFlag)}
	var mode string

	fs := flag.NewFlagSet(filepath.Base(program), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, name := range []string{"i", "in-place"} {
		fs.BoolVar(&opts.inPlace, name, false, "modify files in-place")
	}
	for _, name := range []string{"c", "check"} {
		fs.BoolVar(&opts.check, name, false, "don't modify files")
	}
	for _, name := range []string{"q", "quiet"} {
		fs.BoolVar(&opts.quiet, name, false, "be quiet")
	}
	for _, name := range []string{"d", "debug"} {
		fs.BoolVar(&opts.debug, name, false, "print the token stream")
	}
	for _, name := range []string{"t", "tabwidth"} {
		fs.IntVar(&opts.tabWidth, name, djhtml.DefaultConfig().TabWidth, "tabwidth")
	}
	for _, name := range []string{"o", "output-file"} {
		fs.StringVar(&opts.output, name, "-", "output filename")
	}
	fs.StringVar(&mode, "mode", "", "html, txt, css or js")
	fs.BoolVar(&opts.version, "version", false, "print the version")
	fs.Var(opts.extra, "extra-block", "extra block tag")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(stderr, usage)
			return nil, nil
		}
		return nil, err
	}
	if opts.version {
		return opts, nil
	}

	tabWidthSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" || f.Name == "tabwidth" {
			tabWidthSet = true
		}
	})
	if !tabWidthSet {
		if wd, err := os.Getwd(); err == nil {
			width, ok, err := projectTabWidth(wd)
			if err != nil {
				return nil, err
			}
			if ok {
				opts.tabWidth = width
			}
		}
	}
	if opts.tabWidth < 0 {
		return nil, fmt.Errorf("invalid tabwidth %d", opts.tabWidth)
	}

	opts.language = languageFor(program)
	if mode != "" {
		language, err := djhtml.ParseLanguage(mode)
		if err != nil {
			return nil, err
		}
		opts.language = language
	}

	opts.files = fs.Args()
	if len(opts.files) == 0 {
		opts.files = []string{"-"}
		opts.stdinDefault = true
	}

	if opts.inPlace && contains(opts.files, "-") {
		return nil, errors.New("cannot modify stdin in-place")
	}
	if len(opts.files) > 1 && !opts.inPlace && !opts.check {
		return nil, errors.New("will not modify files in-place without -i option")
	}
	return opts, nil
}

// pyproject is the part of pyproject.toml that configures djhtml.
type pyproject struct {
	Tool struct {
		Djhtml struct {
			TabWidth *int `toml:"tabwidth"`
		} `toml:"djhtml"`
	} `toml:"tool"`
}

// projectTabWidth looks for pyproject.toml in dir and its parents and
// returns the first [tool.djhtml] tabwidth it finds.
func projectTabWidth(dir string) (int, bool, error) {
	for {
		path := filepath.Join(dir, "pyproject.toml")
		if _, err := os.Stat(path); err == nil {
			var project pyproject
			if _, err := toml.DecodeFile(path, &project); err != nil {
				return 0, false, fmt.Errorf("reading %s: %w", path, err)
			}
			if w := project.Tool.Djhtml.TabWidth; w != nil {
				return *w, true, nil
			}
			return 0, false, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return 0, false, nil
		}
		dir = parent
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
