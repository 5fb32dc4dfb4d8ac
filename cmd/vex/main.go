package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianc/vex/internal/vex/compile"
	gc "github.com/kilianc/vex/internal/vex/gomponents"
	"github.com/kilianc/vex/internal/vex/outfile"
	"github.com/kilianc/vex/internal/vex/report"
	"github.com/kilianc/vex/internal/vex/vdom"
)

func main() {
	flag.Usage = func() {
		_, _ = fmt.Fprintln(os.Stderr, "Usage: vex [flags] [paths...]")
		_, _ = fmt.Fprintln(os.Stderr, "")
		_, _ = fmt.Fprintln(os.Stderr, "Checks each *.vex template; with -data, renders it to *.html.")
		_, _ = fmt.Fprintln(os.Stderr, "")
		_, _ = fmt.Fprintln(os.Stderr, "Paths behave like Go patterns:")
		_, _ = fmt.Fprintln(os.Stderr, "  - ./...        recurse from cwd")
		_, _ = fmt.Fprintln(os.Stderr, "  - ./dir        only that directory (non-recursive)")
		_, _ = fmt.Fprintln(os.Stderr, "  - ./dir/...    recurse from that directory")
		_, _ = fmt.Fprintln(os.Stderr, "  - ./file.vex   only that file")
		flag.PrintDefaults()
	}
	dataFlag := flag.String("data", "", "YAML data context; enables rendering each template to <path>.html")
	flag.Parse()

	cwd, err := os.Getwd()
	if err != nil {
		fatal(err)
	}

	var data map[string]any
	if *dataFlag != "" {
		b, err := os.ReadFile(*dataFlag)
		if err != nil {
			fatal(err)
		}
		if err := yaml.Unmarshal(b, &data); err != nil {
			fatal(fmt.Errorf("vex: bad data file %s: %w", *dataFlag, err))
		}
	}

	patterns := flag.Args()
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	paths, err := collectVexPaths(cwd, patterns)
	if err != nil {
		fatal(err)
	}
	if len(paths) == 0 {
		return
	}

	sort.Strings(paths)
	var allErr error
	for _, pth := range paths {
		if err := processFile(pth, data, *dataFlag != ""); err != nil {
			allErr = errors.Join(allErr, err)
		}
	}
	if allErr != nil {
		fatal(allErr)
	}
}

func fatal(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// processFile compiles one template, printing diagnostics to stderr, and
// renders it next to the source when a data context was supplied.
func processFile(pth string, data map[string]any, render bool) error {
	b, err := os.ReadFile(pth)
	if err != nil {
		return err
	}
	h := report.NewHandler(os.Stderr)
	view, err := compile.Compile(string(b), h)
	if err != nil {
		return fmt.Errorf("%s: %w", pth, err)
	}
	if !render {
		return nil
	}

	node, err := gc.LowerDescriptor(expand(view, data, h))
	if err != nil {
		return fmt.Errorf("%s: %w", pth, err)
	}
	var buf bytes.Buffer
	if err := node.Render(&buf); err != nil {
		return fmt.Errorf("%s: %w", pth, err)
	}
	buf.WriteByte('\n')
	return outfile.WriteRenderedFile(strings.TrimSuffix(pth, ".vex")+".html", buf.Bytes())
}

// expand runs the view routine once and resolves components eagerly; the
// CLI has no live session, so there is no frame budget to respect.
func expand(view vdom.Routine, data map[string]any, h *report.Handler) *vdom.Descriptor {
	ctx := make(map[string]any, len(data))
	for k, v := range data {
		ctx[k] = v
	}
	e := vdom.NewExpansion(view(ctx), vdom.NewRegistry(), h)
	for !e.Step() {
	}
	return e.Root()
}

func collectVexPaths(cwd string, patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string

	add := func(p string) error {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(cwd, abs)
		}
		abs, err := filepath.Abs(abs)
		if err != nil {
			return err
		}
		if !seen[abs] {
			seen[abs] = true
			out = append(out, abs)
		}
		return nil
	}

	for _, raw := range patterns {
		pat := strings.TrimSpace(raw)
		if pat == "" {
			continue
		}

		// Recursive pattern: <dir>/...
		if strings.HasSuffix(pat, "/...") || pat == "./..." || pat == "..." {
			base := strings.TrimSuffix(pat, "...")
			base = strings.TrimSuffix(base, "/")
			if base == "" {
				base = "."
			}
			dir := base
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(cwd, dir)
			}
			dir, err := filepath.Abs(dir)
			if err != nil {
				return nil, err
			}
			if err := walkVex(dir, func(p string) error { return add(p) }); err != nil {
				return nil, err
			}
			continue
		}

		// Non-recursive: file.vex or directory.
		target := pat
		if !filepath.IsAbs(target) {
			target = filepath.Join(cwd, target)
		}
		target, err := filepath.Abs(target)
		if err != nil {
			return nil, err
		}
		st, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if st.IsDir() {
			entries, err := os.ReadDir(target)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				if strings.HasSuffix(e.Name(), ".vex") {
					if err := add(filepath.Join(target, e.Name())); err != nil {
						return nil, err
					}
				}
			}
			continue
		}
		if !strings.HasSuffix(target, ".vex") {
			return nil, fmt.Errorf("vex: not a .vex file: %s", target)
		}
		if err := add(target); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func walkVex(root string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			name := de.Name()
			if name == "vendor" || name == "node_modules" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(de.Name(), ".vex") {
			return add(path)
		}
		return nil
	})
}
