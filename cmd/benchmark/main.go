package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/delaneyj/signalview/observer"
	"github.com/delaneyj/signalview/provider"
	"github.com/delaneyj/signalview/scope"
	"github.com/delaneyj/signalview/surface"
	"github.com/delaneyj/signalview/surface/dom"
	"github.com/delaneyj/signalview/view"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	profile = flag.String("profile", "", "write a CPU profile to this file")
	iters   = flag.Int("iters", 100, "updates timed per configuration")
	logged  = flag.Bool("logged", false, "record every update in the observer")
)

var (
	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 10, 100}
)

func main() {
	flag.Parse()

	if *profile != "" {
		f, err := os.Create(*profile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")

	benchmarkPropagation(false)
	benchmarkPropagation(true)
	benchmarkScopes(true)
}

func addOne(oldValue int) int {
	return oldValue + 1
}

func newRuntime() *provider.Runtime {
	return provider.NewRuntime(
		provider.WithObserver(observer.New(observer.WithOutput(false), observer.WithStackTraces(false))),
		provider.WithErrorHandler(func(cell observer.Subject, err error) {
			log.Panicf("%s: %v", cell.Name(), err)
		}),
	)
}

func cellOptions() []provider.CellOption {
	if *logged {
		return nil
	}
	return []provider.CellOption{provider.WithoutLogging()}
}

func derive(rt *provider.Runtime, parent *provider.Cell[int]) *provider.Cell[int] {
	return provider.Create(rt, func(ref *provider.Ref[int]) (int, error) {
		if err := provider.Watch(ref, parent, func(p, _ int) int {
			return addOne(p)
		}); err != nil {
			return 0, err
		}
		p, err := provider.ReadFrom(ref, parent)
		return addOne(p), err
	}, cellOptions()...)
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendCalc(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			name,
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}

// benchmarkPropagation times an update of one source feeding w chains of h
// derived cells, each chain ending in a listener.
func benchmarkPropagation(shouldRender bool) {
	tbl := newTable("Cell propagation")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: *iters})

			rt := newRuntime()
			src := provider.Of(rt, 1, cellOptions()...)
			for i := 0; i < w; i++ {
				last := src
				for j := 0; j < h; j++ {
					last = derive(rt, last)
				}
				last.Watch(func(int) {})
			}

			for i := 0; i < *iters; i++ {
				start := time.Now()
				if err := src.Update(addOne); err != nil {
					log.Fatal(err)
				}
				tach.AddTime(time.Since(start))
			}

			appendCalc(tbl, fmt.Sprintf("propagate: %d * %d", w, h), tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

type row struct {
	view.Base
	children []view.View
}

func (r *row) Build() []view.View { return r.children }

type label struct {
	view.Base
	text string
}

func (l *label) CreateWrapView(s surface.Surface) surface.Element {
	el := s.CreateElement("span")
	el.SetText(l.text)
	return el
}

// benchmarkScopes times an update of one cell observed by w limited scopes,
// each rebuilding h labels onto the dom surface.
func benchmarkScopes(shouldRender bool) {
	tbl := newTable("Scope rebuild")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: *iters})

			rt := newRuntime()
			src := provider.Of(rt, 0, cellOptions()...)
			root := &row{}
			for i := 0; i < w; i++ {
				root.children = append(root.children, scope.Limited1(src, func(v int) view.View {
					labels := make([]view.View, h)
					for j := range labels {
						labels[j] = &label{text: strconv.Itoa(v + j)}
					}
					return &row{children: labels}
				}))
			}

			doc := dom.New()
			doc.Container(view.DefaultContainerID)
			if _, outcome, err := view.Mount(root, doc, ""); err != nil || outcome != view.Attached {
				log.Fatalf("mounting %d * %d: %v (%s)", w, h, err, outcome)
			}

			for i := 0; i < *iters; i++ {
				start := time.Now()
				if err := src.Update(addOne); err != nil {
					log.Fatal(err)
				}
				tach.AddTime(time.Since(start))
			}

			appendCalc(tbl, fmt.Sprintf("rebuild: %d * %d", w, h), tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}
