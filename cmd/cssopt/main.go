package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/maruel/natural"
	"github.com/tdewolff/argp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tdewolff/cssopt/browser"
	"github.com/tdewolff/cssopt/css"
)

// Version is the current cssopt version.
var Version = "built from source"

var (
	quiet    bool
	verbose  int
	version  bool
	watch    bool
	preserve bool
)

// Task is a minify task, an empty src is stdin and an empty dst is stdout.
type Task struct {
	root string
	src  string
	dst  string
}

// NewTask returns a new Task. When output is a directory, the path of input relative to root is kept inside it.
func NewTask(root, input, output string) (Task, error) {
	if len(output) != 0 && (output == "." || output[len(output)-1] == os.PathSeparator) {
		rel, err := filepath.Rel(root, input)
		if err != nil {
			return Task{}, err
		}
		output = filepath.Join(output, rel)
	}
	return Task{root, input, output}, nil
}

func (t Task) names() (string, string) {
	srcName, dstName := t.src, t.dst
	if srcName == "" {
		srcName = "stdin"
	}
	if dstName == "" {
		dstName = "stdout"
	}
	return srcName, dstName
}

type stats struct {
	rLen, wLen int
	dur        time.Duration
}

func (s stats) String() string {
	speed := "Inf MB"
	if 0 < s.dur {
		speed = humanize.Bytes(uint64(float64(s.rLen) / s.dur.Seconds()))
	}
	ratio := 1.0
	if 0 < s.rLen {
		ratio = float64(s.wLen) / float64(s.rLen)
	}
	return fmt.Sprintf("(%9v, %6v, %6v, %5.1f%%, %6v/s)", s.dur, humanize.Bytes(uint64(s.rLen)), humanize.Bytes(uint64(s.wLen)), ratio*100, speed)
}

func main() {
	// os.Exit doesn't execute pending defer calls, this is fixed by encapsulating run()
	os.Exit(run())
}

func run() int {
	var inputs []string
	var output string
	var configFile string
	var browsers []string
	var pretty, o1, saveIE bool
	var indent int

	f := argp.New("cssopt")
	f.AddRest(&inputs, "inputs", "Input files or directories, leave blank to use stdin")
	f.AddOpt(&output, "o", "output", nil, "Output file or directory, leave blank to use stdout")
	f.AddOpt(&pretty, "", "pretty", false, "Pretty print instead of minify")
	f.AddOpt(&indent, "", "indent", nil, "Number of spaces per nesting level when pretty printing")
	f.AddOpt(&o1, "", "o1", false, "Aggressive optimizations that may change behaviour in rare cases")
	f.AddOpt(&saveIE, "", "saveie", false, "Keep hacks for old versions of Internet Explorer")
	f.AddOpt(&browsers, "", "browser", nil, "Minimum browser versions to support (eg. ie:9,firefox:20)")
	f.AddOpt(&configFile, "c", "config", nil, "YAML configuration file")
	f.AddOpt(&quiet, "q", "quiet", false, "Quiet mode to suppress all output")
	f.AddOpt(argp.Count{I: &verbose}, "v", "verbose", nil, "Verbose mode, set up to three times for more verbosity")
	f.AddOpt(&watch, "w", "watch", false, "Watch files and minify upon changes")
	f.AddOpt(&preserve, "p", "preserve", false, "Preserve timestamps of input files")
	f.AddOpt(&version, "", "version", false, "Version")
	f.Parse()

	if version {
		if !quiet {
			fmt.Printf("cssopt %s\n", Version)
		}
		return 0
	}

	log := newLogger(os.Stderr, quiet, verbose, enableColorOutput(os.Stderr))
	defer log.Sync()

	cfg := &Config{}
	if configFile != "" {
		var err error
		if cfg, err = LoadConfig(configFile); err != nil {
			log.Error("load configuration", zap.Error(err))
			return 1
		}
	}
	cfg.Pretty = cfg.Pretty || pretty
	cfg.O1 = cfg.O1 || o1
	cfg.SaveIE = cfg.SaveIE || saveIE
	if indent != 0 {
		cfg.Indent = indent
	}

	versions, err := cfg.Versions()
	if err == nil {
		err = mergeVersions(versions, browsers)
	}
	if err != nil {
		log.Error("browser versions", zap.Error(err))
		return 1
	}

	if len(inputs) == 1 && inputs[0] == "-" {
		inputs = inputs[:0] // stdin
	} else if output == "-" {
		output = "" // stdout
	}
	useStdin := len(inputs) == 0

	if (useStdin || output == "") && watch {
		log.Error("--watch doesn't work with stdin and stdout, specify input and output")
		return 1
	} else if (useStdin || output == "") && preserve {
		log.Error("--preserve cannot be used together with stdin or stdout")
		return 1
	}

	for i, input := range inputs {
		if input == "-" {
			log.Error("cannot mix files and stdin as input")
			return 1
		}
		inputs[i] = filepath.Clean(input)
		if input[len(input)-1] == os.PathSeparator {
			inputs[i] += string(os.PathSeparator)
		}
	}

	// set output file or directory, empty means stdout
	dirDst := false
	if output != "" {
		dirDst = IsDir(output)
		if !dirDst && len(inputs) == 1 {
			if info, err := os.Stat(inputs[0]); err == nil && info.IsDir() {
				dirDst = true
			}
		}
		if !dirDst && 1 < len(inputs) {
			log.Error("output must be a directory for multiple inputs", zap.String("output", output))
			return 1
		}
		output = filepath.Clean(output)
		if dirDst {
			output += string(os.PathSeparator)
			if err := os.MkdirAll(output, 0777); err != nil {
				log.Error("create output directory", zap.Error(err))
				return 1
			}
		}
	} else if 1 < len(inputs) {
		log.Error("must specify an output directory for multiple inputs")
		return 1
	}

	var tasks []Task
	var roots []string
	if useStdin {
		tasks = []Task{{}}
	} else if tasks, roots, err = createTasks(NewFS(), inputs, output); err != nil {
		log.Error("collect inputs", zap.Error(err))
		return 1
	}
	if output == "" && 1 < len(tasks) {
		log.Error("must specify an output directory for multiple inputs")
		return 1
	}

	m := &css.Minifier{
		Browsers: versions,
		O1:       cfg.O1,
		SaveIE:   cfg.SaveIE,
		Pretty:   cfg.Pretty,
		Indent:   cfg.Indent,
		Log:      log,
	}
	log.Info("minify", zap.Int("files", len(tasks)), zap.Stringer("browsers", versions), zap.Bool("o1", m.O1))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var mu sync.Mutex
	report := func(t Task, s stats) {
		if quiet {
			return
		}
		w := io.Writer(os.Stdout)
		if t.dst == "" {
			w = os.Stderr
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, formatReport(t, s))
	}

	start := time.Now()
	if !watch {
		if err := runTasks(ctx, log, m, tasks, report); err != nil {
			return 1
		}
		log.Info("finished", zap.Duration("duration", time.Since(start)))
		return 0
	}

	if err := watchTasks(ctx, log, m, inputs, output, tasks, roots, report); err != nil {
		log.Error("watch", zap.Error(err))
		return 1
	}
	return 0
}

// mergeVersions adds the browser minimums given on the command line, overriding configured ones.
func mergeVersions(vs browser.Versions, items []string) error {
	for _, item := range items {
		parsed, err := browser.ParseVersions(item)
		if err != nil {
			return err
		}
		for b, ver := range parsed {
			vs[b] = ver
		}
	}
	return nil
}

func isStylesheet(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".css")
}

func createTasks(fsys fs.FS, inputs []string, output string) ([]Task, []string, error) {
	tasks := []Task{}
	roots := []string{}
	for _, input := range inputs {
		root := filepath.Clean(filepath.Dir(input))
		input = filepath.Clean(input)

		info, err := fs.Stat(fsys, input)
		if err != nil {
			return nil, nil, err
		}

		if info.Mode().IsRegular() {
			task, err := NewTask(root, input, output)
			if err != nil {
				return nil, nil, err
			}
			tasks = append(tasks, task)
		} else if info.Mode().IsDir() {
			walkFn := func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				} else if path != input && strings.HasPrefix(d.Name(), ".") {
					if d.IsDir() {
						return fs.SkipDir
					}
					return nil
				}

				if d.Type().IsRegular() && isStylesheet(path) {
					task, err := NewTask(root, path, output)
					if err != nil {
						return err
					}
					tasks = append(tasks, task)
				}
				return nil
			}
			if err := fs.WalkDir(fsys, input, walkFn); err != nil {
				return nil, nil, err
			}
		} else {
			return nil, nil, fmt.Errorf("not a file or directory %s", input)
		}
		roots = append(roots, root)
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return natural.Less(tasks[i].src, tasks[j].src)
	})
	return tasks, roots, nil
}

// findRoot returns the deepest root containing filename.
func findRoot(roots []string, filename string) string {
	root, best := filepath.Dir(filename), ""
	for _, path := range roots {
		rel, err := filepath.Rel(path, filename)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
			continue
		}
		if best == "" || len(rel) < len(best) {
			root, best = path, rel
		}
	}
	return root
}

func formatReport(t Task, s stats) string {
	srcName, dstName := t.names()
	if srcName != dstName {
		return s.String() + " - " + srcName + " to " + dstName
	}
	return s.String() + " - " + srcName
}

// runTasks minifies all tasks concurrently and returns the combined errors of the tasks that failed.
func runTasks(ctx context.Context, log *zap.Logger, m *css.Minifier, tasks []Task, report func(Task, stats)) error {
	errs := make([]error, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			s, err := minify(m, task)
			if err != nil {
				srcName, _ := task.names()
				log.Error("minify", zap.String("file", srcName), zap.Error(err))
				errs[i] = err
				return nil
			}
			report(task, s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return multierr.Combine(errs...)
}

// minify runs a single task. On a minification error the original stylesheet is written to the destination.
func minify(m *css.Minifier, t Task) (stats, error) {
	srcName, _ := t.names()

	fr, err := openInputFile(t.src)
	if err != nil {
		return stats{}, err
	}
	b, err := io.ReadAll(fr)
	fr.Close()
	if err != nil {
		return stats{}, fmt.Errorf("read %s: %w", srcName, err)
	}

	var merr error
	w := bytes.NewBuffer(make([]byte, 0, len(b)))
	startTime := time.Now()
	if err := m.Minify(w, bytes.NewReader(b)); err != nil {
		w = bytes.NewBuffer(b) // copy original
		merr = fmt.Errorf("cannot minify %s: %w", srcName, err)
	}
	s := stats{len(b), w.Len(), time.Since(startTime)}

	fw, err := openOutputFile(t.dst)
	if err != nil {
		return s, multierr.Append(merr, err)
	}
	_, err = w.WriteTo(fw)
	err = multierr.Append(err, fw.Close())
	if err == nil && preserve && t.src != "" && t.dst != "" {
		err = preserveTimestamps(t.src, t.dst)
	}
	return s, multierr.Append(merr, err)
}

// watchTasks minifies all tasks and then every stylesheet that changes below the inputs, until interrupted.
func watchTasks(ctx context.Context, log *zap.Logger, m *css.Minifier, inputs []string, output string, tasks []Task, roots []string, report func(Task, stats)) error {
	watcher, err := NewWatcher(log)
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, input := range inputs {
		if err := watcher.AddPath(input); err != nil {
			return err
		}
	}
	for _, task := range tasks {
		watcher.IgnoreNext(task.dst) // skip change on output
	}
	changes := watcher.Run()
	runTasks(ctx, log, m, tasks, report)

	for {
		select {
		case <-ctx.Done():
			return nil
		case file, ok := <-changes:
			if !ok {
				return nil
			} else if !isStylesheet(file) {
				continue
			}

			task, err := NewTask(findRoot(roots, file), file, output)
			if err != nil {
				return err
			}
			watcher.IgnoreNext(task.dst)
			runTasks(ctx, log, m, []Task{task}, report)
		}
	}
}
