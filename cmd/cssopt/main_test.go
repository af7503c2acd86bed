package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/tdewolff/test"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tdewolff/cssopt/browser"
	"github.com/tdewolff/cssopt/css"
)

func TestCreateTasks(t *testing.T) {
	fsys := fstest.MapFS{
		"a.css":             {},
		"dir/b.css":         {},
		"dir/c.txt":         {},
		"dir/.hidden/d.css": {},
	}

	tests := []struct {
		input, output string
		tasks         map[string]string
	}{
		// root file
		{"a.css", "", map[string]string{"a.css": ""}},
		{"a.css", ".", map[string]string{"a.css": "a.css"}},
		{"a.css", "./", map[string]string{"a.css": "a.css"}},
		{"a.css", "out", map[string]string{"a.css": "out"}},
		{"a.css", "out/", map[string]string{"a.css": "out/a.css"}},

		// nested file
		{"dir/b.css", "", map[string]string{"dir/b.css": ""}},
		{"dir/b.css", ".", map[string]string{"dir/b.css": "b.css"}},
		{"dir/b.css", "out", map[string]string{"dir/b.css": "out"}},
		{"dir/b.css", "out/", map[string]string{"dir/b.css": "out/b.css"}},

		// directory, only visible stylesheets
		{"dir", "", map[string]string{"dir/b.css": ""}},
		{"dir", ".", map[string]string{"dir/b.css": "dir/b.css"}},
		{"dir", "out/", map[string]string{"dir/b.css": "out/dir/b.css"}},
		{"dir/", "out/", map[string]string{"dir/b.css": "out/b.css"}},
	}

	for _, tt := range tests {
		t.Run(tt.input+" => "+tt.output, func(t *testing.T) {
			tasks, roots, err := createTasks(fsys, []string{tt.input}, tt.output)
			test.Error(t, err)
			test.T(t, len(roots), 1)
			if len(tasks) != len(tt.tasks) {
				test.Fail(t, fmt.Sprintf("missing %v", tt.tasks))
			}
			for _, task := range tasks {
				if dst, ok := tt.tasks[task.src]; !ok || dst != task.dst {
					test.Fail(t, fmt.Sprintf("unexpected %s => %s", task.src, task.dst))
				}
			}
		})
	}

	_, _, err := createTasks(fsys, []string{"missing.css"}, "")
	test.That(t, err != nil, "missing input must fail")
}

func TestCreateTasksOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"dir/a10.css": {},
		"dir/a2.css":  {},
		"dir/a1.css":  {},
	}
	tasks, _, err := createTasks(fsys, []string{"dir"}, "")
	test.Error(t, err)
	test.T(t, len(tasks), 3)
	test.String(t, tasks[0].src, "dir/a1.css")
	test.String(t, tasks[1].src, "dir/a2.css")
	test.String(t, tasks[2].src, "dir/a10.css")
}

func TestFindRoot(t *testing.T) {
	roots := []string{".", "dir", "other"}
	test.T(t, findRoot(roots, "dir/sub/x.css"), "dir")
	test.T(t, findRoot(roots, "a.css"), ".")
	test.T(t, findRoot([]string{"dir"}, "/abs/x.css"), "/abs")
}

func TestIsDir(t *testing.T) {
	tmp := t.TempDir()
	test.T(t, IsDir(tmp), true)
	test.T(t, IsDir("out"+string(os.PathSeparator)), true)
	test.T(t, IsDir(filepath.Join(tmp, "file")), false)
	test.T(t, IsDir("/path/to/file"), false)
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader("o1: true\npretty: true\nindent: 4\nbrowsers:\n  ie: \"9\"\n  firefox: \"20\"\n"))
	test.Error(t, err)
	test.T(t, cfg.O1, true)
	test.T(t, cfg.Pretty, true)
	test.T(t, cfg.Indent, 4)
	test.T(t, cfg.SaveIE, false)

	vs, err := cfg.Versions()
	test.Error(t, err)
	test.String(t, vs.String(), "firefox:20,ie:9")

	cfg, err = DecodeConfig(strings.NewReader(""))
	test.Error(t, err)
	test.T(t, cfg.O1, false)
	test.T(t, len(cfg.Browsers), 0)

	_, err = DecodeConfig(strings.NewReader("o2: true\n"))
	test.That(t, err != nil, "unknown field must fail")

	cfg, err = DecodeConfig(strings.NewReader("browsers:\n  netscape: \"4\"\n"))
	test.Error(t, err)
	_, err = cfg.Versions()
	test.That(t, err != nil, "unknown browser must fail")
}

func TestLoadConfig(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "cssopt.yaml")
	test.Error(t, os.WriteFile(filename, []byte("saveie: true\n"), 0644))

	cfg, err := LoadConfig(filename)
	test.Error(t, err)
	test.T(t, cfg.SaveIE, true)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	test.That(t, err != nil, "missing file must fail")
}

func TestMergeVersions(t *testing.T) {
	vs := browser.Versions{}
	test.Error(t, vs.Set("ie", "8"))
	test.Error(t, mergeVersions(vs, []string{"ie:9,fx:20", "ie:10"}))
	test.String(t, vs.String(), "firefox:20,ie:10")

	test.That(t, mergeVersions(vs, []string{"mosaic:1"}) != nil, "unknown browser must fail")
}

func TestFormatReport(t *testing.T) {
	s := stats{rLen: 1000, wLen: 500}
	report := formatReport(Task{src: "a.css", dst: "b.css"}, s)
	test.That(t, strings.Contains(report, "1.0 kB"), report)
	test.That(t, strings.Contains(report, "500 B"), report)
	test.That(t, strings.Contains(report, "50.0%"), report)
	test.That(t, strings.HasSuffix(report, ") - a.css to b.css"), report)

	report = formatReport(Task{src: "a.css", dst: "a.css"}, s)
	test.That(t, strings.HasSuffix(report, ") - a.css"), report)

	report = formatReport(Task{}, s)
	test.That(t, strings.HasSuffix(report, ") - stdin to stdout"), report)
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newLogger(zapcore.AddSync(buf), false, 1, false)
	log.Warn("shown")
	log.Info("hidden")
	test.That(t, strings.Contains(buf.String(), "WARN"), buf.String())
	test.That(t, strings.Contains(buf.String(), "shown"), buf.String())
	test.That(t, !strings.Contains(buf.String(), "hidden"), buf.String())

	buf.Reset()
	log = newLogger(zapcore.AddSync(buf), true, 3, false)
	log.Error("quiet")
	test.String(t, buf.String(), "")
}

func TestMinify(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "in.css")
	dst := filepath.Join(tmp, "out", "in.css")
	test.Error(t, os.WriteFile(src, []byte("a { color : #ff0000 }"), 0644))
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	test.Error(t, os.Chtimes(src, mtime, mtime))

	preserve = true
	defer func() { preserve = false }()

	s, err := minify(&css.Minifier{}, Task{root: tmp, src: src, dst: dst})
	test.Error(t, err)
	test.T(t, s.rLen, 21)
	test.T(t, s.wLen, 12)

	b, err := os.ReadFile(dst)
	test.Error(t, err)
	test.String(t, string(b), "a{color:red}")

	info, err := os.Stat(dst)
	test.Error(t, err)
	test.That(t, info.ModTime().Equal(mtime), "modification time must be preserved")
}

func TestRunTasks(t *testing.T) {
	tmp := t.TempDir()
	good := filepath.Join(tmp, "good.css")
	test.Error(t, os.WriteFile(good, []byte("b { margin : 0px }"), 0644))

	tasks := []Task{
		{root: tmp, src: good, dst: filepath.Join(tmp, "good.min.css")},
		{root: tmp, src: filepath.Join(tmp, "missing.css"), dst: filepath.Join(tmp, "missing.min.css")},
	}

	reported := 0
	report := func(Task, stats) { reported++ }
	m := &css.Minifier{O1: true, Log: zap.NewNop()}
	err := runTasks(context.Background(), zap.NewNop(), m, tasks[:1], report)
	test.Error(t, err)
	test.T(t, reported, 1)

	b, err := os.ReadFile(tasks[0].dst)
	test.Error(t, err)
	test.String(t, string(b), "b{margin:0}")

	err = runTasks(context.Background(), zap.NewNop(), m, tasks, func(Task, stats) {})
	test.That(t, err != nil, "missing input must fail")
	test.T(t, len(multierr.Errors(err)), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = runTasks(ctx, zap.NewNop(), m, tasks[:1], report)
	test.That(t, err != nil, "canceled context must fail")
	test.T(t, reported, 1)
}
