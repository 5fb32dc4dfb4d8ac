package main

import (
	"bytes"
	"crypto/sha256"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianc/vex/internal/vex/compile"
	gc "github.com/kilianc/vex/internal/vex/gomponents"
	"github.com/kilianc/vex/internal/vex/memdom"
	"github.com/kilianc/vex/internal/vex/outfile"
	"github.com/kilianc/vex/internal/vex/report"
	"github.com/kilianc/vex/internal/vex/sched"
	"github.com/kilianc/vex/internal/vex/vdom"
)

func main() {
	flag.Usage = func() {
		_, _ = fmt.Fprintln(os.Stderr, "Usage: playground [flags]")
		_, _ = fmt.Fprintln(os.Stderr, "")
		_, _ = fmt.Fprintln(os.Stderr, "Watches ./playground/page.vex and page.yaml, keeps a live session")
		_, _ = fmt.Fprintln(os.Stderr, "mounted on an in-memory DOM, and writes page.html on every change.")
	}
	interval := flag.Duration("interval", 300*time.Millisecond, "watch polling interval")
	flag.Parse()

	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := watchAndRender(*interval); err != nil {
		fatal(err)
	}
}

func watchAndRender(interval time.Duration) error {
	root, err := findModuleRoot(".")
	if err != nil {
		return err
	}
	pageVex := filepath.Join(root, "playground", "page.vex")
	pageYAML := filepath.Join(root, "playground", "page.yaml")
	pageHTML := filepath.Join(root, "playground", "page.html")

	var lastTmpl, lastData [32]byte
	var session *sched.Session
	var clock *memdom.Clock

	for {
		tmpl, err := os.ReadFile(pageVex)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "playground: read error: %v\n", err)
			time.Sleep(interval)
			continue
		}
		data, _ := os.ReadFile(pageYAML) // missing data file renders empty

		tmplHash, dataHash := sha256.Sum256(tmpl), sha256.Sum256(data)
		tmplChanged := session == nil || tmplHash != lastTmpl
		dataChanged := dataHash != lastData

		if tmplChanged {
			session, clock, err = mount(string(tmpl), parseData(data))
			if err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "playground: %v\n", err)
				time.Sleep(interval)
				continue
			}
		} else if dataChanged {
			session.Update(parseData(data))
		}

		if tmplChanged || dataChanged {
			lastTmpl, lastData = tmplHash, dataHash
			clock.Run(16*time.Millisecond, 1000)
			if err := writeHTML(pageHTML, session); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "playground: write failed: %v\n", err)
			}
		}

		time.Sleep(interval)
	}
}

func mount(tmpl string, data map[string]any) (*sched.Session, *memdom.Clock, error) {
	h := report.NewHandler(os.Stderr)
	view, err := compile.Compile(tmpl, h)
	if err != nil {
		return nil, nil, err
	}
	renderer := memdom.NewRenderer()
	clock := memdom.NewClock(time.Now())
	target := renderer.CreateElement("body").(*memdom.Node)
	session := sched.Mount(sched.Config{
		View:      view,
		Registry:  vdom.NewRegistry(),
		Data:      data,
		Renderer:  renderer,
		Clock:     clock,
		Target:    target,
		TargetTag: "body",
		Handler:   h,
	})
	return session, clock, nil
}

func parseData(b []byte) map[string]any {
	var data map[string]any
	if len(b) == 0 {
		return data
	}
	if err := yaml.Unmarshal(b, &data); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "playground: bad page.yaml: %v\n", err)
	}
	return data
}

func writeHTML(path string, session *sched.Session) error {
	var buf bytes.Buffer
	if err := gc.Render(&buf, session.Root()); err != nil {
		return err
	}
	buf.WriteByte('\n')
	return outfile.WriteRenderedFile(path, buf.Bytes())
}

func findModuleRoot(start string) (string, error) {
	d, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", fmt.Errorf("could not find go.mod above %s", start)
		}
		d = parent
	}
}

func fatal(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
