package dag

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/kbukum/taskflow/errors"
	"github.com/kbukum/taskflow/observability"
	"github.com/kbukum/taskflow/target"
	"github.com/kbukum/taskflow/task"
)

// testTask is a configurable task for engine tests. Its body writes content
// to the output target and counts invocations.
type testTask struct {
	kind    string
	params  task.Params
	deps    task.Deps
	out     *target.LocalTarget
	content string
	fail    bool
	runs    *atomic.Int32
}

func (t *testTask) Identity() task.Identity {
	return task.Identity{Kind: t.kind, Params: t.params}
}

func (t *testTask) Requires() task.Deps { return t.deps }

func (t *testTask) Output() target.Target {
	if t.out == nil {
		return nil
	}
	return t.out
}

func (t *testTask) Run(_ context.Context) error {
	if t.runs != nil {
		t.runs.Add(1)
	}
	if t.fail {
		return fmt.Errorf("intentional failure in %s", t.kind)
	}
	if t.out == nil {
		return nil
	}
	w, err := t.out.OpenWrite()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(t.content)); err != nil {
		w.Abort()
		return err
	}
	return w.Close()
}

func newTask(dir, kind string, deps task.Deps, runs *atomic.Int32) *testTask {
	return &testTask{
		kind:    kind,
		deps:    deps,
		out:     target.Local(filepath.Join(dir, kind+".out")),
		content: kind,
		runs:    runs,
	}
}

// cycleTask builds a self-referential chain for cycle tests.
type cycleTask struct {
	kind string
	next task.Task
	runs *atomic.Int32
}

func (c *cycleTask) Identity() task.Identity { return task.NewIdentity(c.kind) }
func (c *cycleTask) Requires() task.Deps     { return task.One(c.next) }
func (c *cycleTask) Output() target.Target   { return nil }
func (c *cycleTask) Run(context.Context) error {
	c.runs.Add(1)
	return nil
}

// --- Build tests ---

func TestBuild_DiamondCollapses(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32

	base := newTask(dir, "Base", task.None(), &runs)
	left := newTask(dir, "Left", task.One(base), &runs)
	// A structurally distinct value with the same identity as base.
	baseAgain := newTask(dir, "Base", task.None(), &runs)
	right := newTask(dir, "Right", task.One(baseAgain), &runs)
	top := newTask(dir, "Top", task.Many(left, right), &runs)

	g, err := Build(top)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Len() != 4 {
		t.Fatalf("graph has %d nodes, want 4 (diamond must collapse)", g.Len())
	}
	node := g.Nodes["Base()"]
	if node == nil || len(node.Dependents()) != 2 {
		t.Fatalf("shared node must have 2 dependents, got %+v", node)
	}
}

func TestBuild_CycleFailsBeforeExecution(t *testing.T) {
	var runs atomic.Int32

	a := &cycleTask{kind: "A", runs: &runs}
	b := &cycleTask{kind: "B", next: a, runs: &runs}
	c := &cycleTask{kind: "C", next: b, runs: &runs}
	a.next = c

	e := &Engine{}
	_, err := e.Run(context.Background(), a)
	if !errors.IsCycle(err) {
		t.Fatalf("expected CYCLE_DETECTED, got %v", err)
	}
	if !strings.Contains(err.Error(), "A()") {
		t.Fatalf("cycle error should name the cycle, got %v", err)
	}
	if runs.Load() != 0 {
		t.Fatalf("%d bodies ran despite cycle", runs.Load())
	}
}

type nilDepTask struct{ testTask }

func (n *nilDepTask) Requires() task.Deps { return task.Many(nil) }

func TestBuild_NilDependency(t *testing.T) {
	bad := &nilDepTask{testTask{kind: "Bad"}}
	if _, err := Build(bad); err == nil {
		t.Fatal("nil dependency must fail the build")
	}
	if _, err := Build(nil); err == nil {
		t.Fatal("nil root must fail the build")
	}
}

func TestGraph_Levels(t *testing.T) {
	dir := t.TempDir()
	base := newTask(dir, "Base", task.None(), nil)
	mid := newTask(dir, "Mid", task.One(base), nil)
	top := newTask(dir, "Top", task.One(mid), nil)

	g, err := Build(top)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	levels := g.Levels()
	if len(levels) != 3 {
		t.Fatalf("levels = %d, want 3", len(levels))
	}
	if levels[0][0].ID.Kind != "Base" || levels[2][0].ID.Kind != "Top" {
		t.Fatalf("level order wrong: %v, %v", levels[0][0].ID, levels[2][0].ID)
	}
}

// --- Engine tests ---

func TestEngine_RunsChainInOrder(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32

	base := newTask(dir, "Base", task.None(), &runs)
	mid := newTask(dir, "Mid", task.One(base), &runs)
	top := newTask(dir, "Top", task.One(mid), &runs)

	e := &Engine{Workers: 4}
	res, err := e.Run(context.Background(), top)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.OK() {
		t.Fatalf("run not OK: %+v", res.Failures())
	}
	if runs.Load() != 3 {
		t.Fatalf("ran %d bodies, want 3", runs.Load())
	}
	if !top.out.Exists(context.Background()) {
		t.Fatal("top output missing")
	}
	if res.RunID == "" {
		t.Fatal("result must carry a run id")
	}
}

func TestEngine_DiamondDependencyRunsOnce(t *testing.T) {
	dir := t.TempDir()
	var baseRuns atomic.Int32

	base := newTask(dir, "Base", task.None(), &baseRuns)
	left := newTask(dir, "Left", task.One(base), nil)
	right := newTask(dir, "Right", task.One(base), nil)
	top := newTask(dir, "Top", task.Many(left, right), nil)

	e := &Engine{Workers: 4}
	if _, err := e.Run(context.Background(), top); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if baseRuns.Load() != 1 {
		t.Fatalf("shared dependency ran %d times, want 1", baseRuns.Load())
	}
}

func TestEngine_SecondRunExecutesNothing(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32

	build := func() task.Task {
		base := newTask(dir, "Base", task.None(), &runs)
		return newTask(dir, "Top", task.One(base), &runs)
	}

	e := &Engine{}
	res, err := e.Run(context.Background(), build())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if res.Executed() != 2 {
		t.Fatalf("first run executed %d bodies, want 2", res.Executed())
	}

	res, err = e.Run(context.Background(), build())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.Executed() != 0 {
		t.Fatalf("second run executed %d bodies, want 0", res.Executed())
	}
	if runs.Load() != 2 {
		t.Fatalf("total executions %d, want 2", runs.Load())
	}
}

func TestEngine_FailurePropagates(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32

	bad := &testTask{kind: "Bad", fail: true, runs: &runs,
		out: target.Local(filepath.Join(dir, "bad.out"))}
	dependent := newTask(dir, "Dependent", task.One(bad), &runs)
	grand := newTask(dir, "Grand", task.One(dependent), &runs)

	// An independent subtree under the same root must still run.
	okLeaf := newTask(dir, "OkLeaf", task.None(), &runs)
	root := newTask(dir, "Root", task.Many(grand, okLeaf), &runs)

	e := &Engine{Workers: 4}
	res, err := e.Run(context.Background(), root)
	if err == nil {
		t.Fatal("expected error from failed run")
	}
	if res.OK() {
		t.Fatal("result must not be OK")
	}

	if got := res.Nodes["Dependent()"]; got.Status != StatusFailed || got.Cause != "Bad()" {
		t.Fatalf("Dependent = %+v, want failed with cause Bad()", got)
	}
	if got := res.Nodes["Grand()"]; got.Status != StatusFailed || got.Cause != "Dependent()" {
		t.Fatalf("Grand = %+v, want propagated failure", got)
	}
	if got := res.Nodes["OkLeaf()"]; got.Status != StatusDone {
		t.Fatalf("OkLeaf = %+v, want done despite sibling failure", got)
	}

	// Only Bad and OkLeaf bodies ran; failed-by-propagation nodes never start.
	if runs.Load() != 2 {
		t.Fatalf("ran %d bodies, want 2", runs.Load())
	}
	if failures := res.Failures(); len(failures) != 1 || failures[0].ID.Kind != "Bad" {
		t.Fatalf("Failures() = %+v, want exactly Bad", failures)
	}
}

// wrapperTask aggregates dependencies and must never have its body invoked.
type wrapperTask struct {
	deps task.Deps
	t    *testing.T
}

func (w *wrapperTask) Identity() task.Identity { return task.NewIdentity("All") }
func (w *wrapperTask) Requires() task.Deps     { return w.deps }
func (w *wrapperTask) Output() target.Target   { return nil }
func (w *wrapperTask) Run(context.Context) error {
	w.t.Error("wrapper body must never run")
	return nil
}

func TestEngine_WrapperBodyNeverRuns(t *testing.T) {
	dir := t.TempDir()
	a := newTask(dir, "A", task.None(), nil)
	b := newTask(dir, "B", task.None(), nil)
	wrapper := &wrapperTask{deps: task.Many(a, b), t: t}

	e := &Engine{}
	res, err := e.Run(context.Background(), wrapper)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := res.Nodes["All()"]; got.Status != StatusDone || !got.Skipped {
		t.Fatalf("wrapper = %+v, want done and skipped", got)
	}
}

// completableTask reports completion from an external flag instead of a
// target.
type completableTask struct {
	complete bool
	runs     *atomic.Int32
}

func (c *completableTask) Identity() task.Identity { return task.NewIdentity("External") }
func (c *completableTask) Requires() task.Deps     { return task.None() }
func (c *completableTask) Output() target.Target   { return nil }
func (c *completableTask) Complete(context.Context) bool {
	return c.complete
}
func (c *completableTask) Run(context.Context) error {
	c.runs.Add(1)
	return nil
}

func TestEngine_CompletableOverridesOutput(t *testing.T) {
	var runs atomic.Int32

	e := &Engine{}
	res, err := e.Run(context.Background(), &completableTask{complete: true, runs: &runs})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if runs.Load() != 0 {
		t.Fatal("complete task body must not run")
	}
	if !res.Nodes["External()"].Skipped {
		t.Fatal("complete task must be reported skipped")
	}

	if _, err := e.Run(context.Background(), &completableTask{complete: false, runs: &runs}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if runs.Load() != 1 {
		t.Fatal("incomplete task body must run")
	}
}

func TestEngine_ContextCancellation(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var runs atomic.Int32
	res, err := (&Engine{}).Run(ctx, newTask(dir, "A", task.None(), &runs))
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if runs.Load() != 0 {
		t.Fatal("no body may run after cancellation")
	}
	if res.OK() {
		t.Fatal("canceled run must not be OK")
	}
}

// countingHook verifies hook event accounting.
type countingHook struct {
	started, skipped, done, failed atomic.Int32
}

func (h *countingHook) TaskStarted(context.Context, task.Identity) { h.started.Add(1) }
func (h *countingHook) TaskSkipped(context.Context, task.Identity) { h.skipped.Add(1) }
func (h *countingHook) TaskDone(context.Context, task.Identity, time.Duration) {
	h.done.Add(1)
}
func (h *countingHook) TaskFailed(context.Context, task.Identity, error) { h.failed.Add(1) }

func TestEngine_HooksObserveLifecycle(t *testing.T) {
	dir := t.TempDir()

	bad := &testTask{kind: "Bad", fail: true, out: target.Local(filepath.Join(dir, "bad.out"))}
	dependent := newTask(dir, "Dependent", task.One(bad), nil)
	ok := newTask(dir, "Ok", task.None(), nil)

	hook := &countingHook{}
	e := &Engine{Hooks: []Hook{hook}}
	if _, err := e.Run(context.Background(), dependent, ok); err == nil {
		t.Fatal("expected error")
	}

	if hook.started.Load() != 2 { // Bad and Ok
		t.Fatalf("started = %d, want 2", hook.started.Load())
	}
	if hook.done.Load() != 1 { // Ok
		t.Fatalf("done = %d, want 1", hook.done.Load())
	}
	if hook.failed.Load() != 2 { // Bad directly, Dependent by propagation
		t.Fatalf("failed = %d, want 2", hook.failed.Load())
	}
}

// doubler reads a number from its dependency's output and writes its double.
type doubler struct {
	date time.Time
	n    int
	dir  string
	runs *atomic.Int32
}

func (d *doubler) source() *testTask {
	return &testTask{
		kind:    "Constant",
		params:  task.Params{task.P("n", task.Int(d.n))},
		out:     target.Local(filepath.Join(d.dir, fmt.Sprintf("constant-%d.out", d.n))),
		content: fmt.Sprintf("%d", d.n),
		runs:    d.runs,
	}
}

func (d *doubler) Identity() task.Identity {
	return task.NewIdentity("Double",
		task.P("date", task.Date(d.date)),
		task.P("n", task.Int(d.n)),
	)
}

func (d *doubler) Requires() task.Deps { return task.One(d.source()) }

func (d *doubler) Output() target.Target {
	return target.Local(filepath.Join(d.dir, d.Identity().Key()+".out"))
}

func (d *doubler) Run(ctx context.Context) error {
	d.runs.Add(1)
	data, err := d.source().out.ReadAll()
	if err != nil {
		return err
	}
	var n int
	if _, err := fmt.Sscanf(string(data), "%d", &n); err != nil {
		return err
	}
	out := target.Local(filepath.Join(d.dir, d.Identity().Key()+".out"))
	w, err := out.OpenWrite()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%d", n*2); err != nil {
		w.Abort()
		return err
	}
	return w.Close()
}

func TestEngine_DoubleScenario(t *testing.T) {
	dir := t.TempDir()
	date := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	var runs atomic.Int32

	e := &Engine{}
	run := func() *Result {
		t.Helper()
		res, err := e.Run(context.Background(), &doubler{date: date, n: 21, dir: dir, runs: &runs})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return res
	}

	run()
	data, err := target.Local(filepath.Join(dir, "date-2020-01-01_n-21.out")).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "42" {
		t.Fatalf("output = %q, want %q", data, "42")
	}

	// Re-running the same task is a no-op: both bodies already committed.
	res := run()
	if res.Executed() != 0 {
		t.Fatalf("second run executed %d bodies, want 0", res.Executed())
	}
	if runs.Load() != 2 {
		t.Fatalf("total body executions = %d, want 2 (one per node)", runs.Load())
	}
}

func TestEngine_MultipleRootsShareNodes(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32

	base := newTask(dir, "Base", task.None(), &runs)
	rootA := newTask(dir, "RootA", task.One(base), &runs)
	rootB := newTask(dir, "RootB", task.One(base), &runs)

	res, err := (&Engine{}).Run(context.Background(), rootA, rootB)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Roots) != 2 {
		t.Fatalf("roots = %d, want 2", len(res.Roots))
	}
	if runs.Load() != 3 {
		t.Fatalf("ran %d bodies, want 3 (base shared)", runs.Load())
	}
}

func TestEngine_SingleTaskRunsOnceAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32

	double := func() *testTask {
		return &testTask{
			kind: "Double",
			params: task.Params{
				task.P("date", task.Date(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))),
				task.P("n", task.Int(21)),
			},
			out:     target.Local(filepath.Join(dir, "double.out")),
			content: "42",
			runs:    &runs,
		}
	}

	e := &Engine{}
	first, err := e.Run(context.Background(), double())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Executed() != 1 {
		t.Fatalf("first run executed %d bodies, want 1", first.Executed())
	}

	second, err := e.Run(context.Background(), double())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Executed() != 0 {
		t.Fatalf("second run executed %d bodies, want 0", second.Executed())
	}
	if runs.Load() != 1 {
		t.Fatalf("body ran %d times across runs, want exactly 1", runs.Load())
	}

	data, err := target.Local(filepath.Join(dir, "double.out")).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "42" {
		t.Fatalf("output = %q, want %q", data, "42")
	}
}

func TestEngine_FirstFailureIsDeterministic(t *testing.T) {
	dir := t.TempDir()

	// Both leaves fail concurrently; the reported cause must not depend on
	// which worker loses the race.
	for i := 0; i < 5; i++ {
		alpha := &testTask{kind: "Alpha", fail: true,
			out: target.Local(filepath.Join(dir, fmt.Sprintf("alpha-%d.out", i)))}
		zulu := &testTask{kind: "Zulu", fail: true,
			out: target.Local(filepath.Join(dir, fmt.Sprintf("zulu-%d.out", i)))}

		res, err := (&Engine{Workers: 2}).Run(context.Background(), alpha, zulu)
		if err == nil {
			t.Fatal("expected error from failed run")
		}
		failures := res.Failures()
		if len(failures) != 2 {
			t.Fatalf("failures = %d, want 2", len(failures))
		}
		if failures[0].ID.Kind != "Alpha" || failures[1].ID.Kind != "Zulu" {
			t.Fatalf("failure order = [%s %s], want identity order",
				failures[0].ID.Kind, failures[1].ID.Kind)
		}
		if !strings.Contains(err.Error(), "Alpha()") {
			t.Fatalf("reported error %q does not name the first failure by identity", err)
		}
	}
}

func TestEngine_ObservabilityHooks(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32

	metrics, err := observability.NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	bad := &testTask{kind: "Bad", fail: true,
		out: target.Local(filepath.Join(dir, "bad.out"))}
	ok := newTask(dir, "Ok", task.None(), &runs)
	root := newTask(dir, "Root", task.Many(bad, ok), &runs)

	e := &Engine{
		Workers: 2,
		// Zero-value logging hook falls back to the global logger.
		Hooks: []Hook{&LoggingHook{}, &MetricsHook{Metrics: metrics}},
	}
	res, err := e.Run(context.Background(), root)
	if err == nil {
		t.Fatal("expected error from failed run")
	}
	if got := res.Nodes["Ok()"]; got.Status != StatusDone {
		t.Fatalf("Ok = %+v, want done", got)
	}
	if got := res.Nodes["Root()"]; got.Status != StatusFailed || got.Cause != "Bad()" {
		t.Fatalf("Root = %+v, want propagated failure", got)
	}
}
