package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webshift/webshift/internal/frameworks"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a := NewAnalyzer(frameworks.Default())
	t.Cleanup(a.Close)
	return a
}

func TestAnalyzeSourceUIFile(t *testing.T) {
	a := newTestAnalyzer(t)

	src := []byte(`from PyQt5.QtWidgets import QWidget, QLabel

class MainWindow(QWidget):
    def __init__(self):
        super().__init__()
        self.label = QLabel("hi")
`)
	result := a.AnalyzeSource("main_window.py", src)
	f := result.Analysis

	require.Len(t, f.Classes, 1)
	assert.Equal(t, "MainWindow", f.Classes[0].Name)
	assert.Equal(t, []string{"QWidget"}, f.Classes[0].Bases)
	assert.True(t, f.Classes[0].IsUIClass)

	assert.True(t, f.IsUIFile)
	assert.False(t, f.IsLogicFile)
	assert.False(t, f.IsMixedFile)
	assert.Equal(t, 100.0, f.UIPercentage)
	assert.Equal(t, []string{"PyQt5"}, result.Frameworks)
}

func TestAnalyzeSourceLogicFile(t *testing.T) {
	a := newTestAnalyzer(t)

	src := []byte(`import math

def area(radius):
    return math.pi * radius ** 2

def total(values):
    return sum(values)
`)
	f := a.AnalyzeSource("geometry.py", src).Analysis

	require.Len(t, f.Functions, 2)
	assert.True(t, f.Functions[0].IsPure)
	assert.True(t, f.Functions[1].IsPure)
	assert.True(t, f.IsLogicFile)
	assert.False(t, f.IsUIFile)
	assert.False(t, f.IsMixedFile)
	assert.Equal(t, 0.0, f.UIPercentage)
}

func TestAnalyzeSourceMixedFile(t *testing.T) {
	a := newTestAnalyzer(t)

	src := []byte(`from PyQt5.QtWidgets import QWidget

class Panel(QWidget):
    def refresh(self):
        self.setText("done")

def compute(x):
    return x * 2
`)
	f := a.AnalyzeSource("panel.py", src).Analysis

	// one UI class + one pure function = 50% UI
	assert.True(t, f.IsMixedFile)
	assert.False(t, f.IsUIFile)
	assert.False(t, f.IsLogicFile)
	assert.Equal(t, 50.0, f.UIPercentage)
}

func TestClassificationIsIdempotent(t *testing.T) {
	a := newTestAnalyzer(t)

	src := []byte(`from PyQt5.QtWidgets import QWidget

class A(QWidget):
    pass

def f():
    w = QWidget()
    w.show()
    return w

def g(x):
    return x + 1
`)
	first := a.AnalyzeSource("x.py", src)
	second := a.AnalyzeSource("x.py", src)
	require.Equal(t, first, second)
}

func TestUIThresholdBoundary(t *testing.T) {
	a := newTestAnalyzer(t)

	// 4 UI classes out of 5 elements: exactly 80% is UI.
	src := []byte(`from PyQt5.QtWidgets import QWidget

class A(QWidget): pass
class B(QWidget): pass
class C(QWidget): pass
class D(QWidget): pass

def helper(x):
    return x
`)
	f := a.AnalyzeSource("b.py", src).Analysis
	assert.Equal(t, 80.0, f.UIPercentage)
	assert.True(t, f.IsUIFile)
}

func TestLogicThresholdBoundary(t *testing.T) {
	a := newTestAnalyzer(t)

	// 1 UI class out of 5 elements: exactly 20% with pure functions is Logic.
	src := []byte(`from PyQt5.QtWidgets import QWidget

class A(QWidget): pass

def f1(x): return x
def f2(x): return x
def f3(x): return x
def f4(x): return x
`)
	f := a.AnalyzeSource("b.py", src).Analysis
	assert.Equal(t, 20.0, f.UIPercentage)
	assert.True(t, f.IsLogicFile)
}

func TestLogicThresholdWithoutPureFunctionsIsMixed(t *testing.T) {
	a := newTestAnalyzer(t)

	// exactly 20% UI but zero pure functions: the Logic branch demands at
	// least one extractable function, so this falls through to Mixed.
	src := []byte(`from PyQt5.QtWidgets import QWidget

state = {}

class A(QWidget): pass

def f1():
    global state
    state["a"] = 1

def f2():
    global state
    state["b"] = 2

def f3():
    global state
    state["c"] = 3

def f4():
    global state
    state["d"] = 4
`)
	f := a.AnalyzeSource("b.py", src).Analysis
	assert.Equal(t, 20.0, f.UIPercentage)
	assert.True(t, f.IsMixedFile)
	assert.False(t, f.IsLogicFile)
}

func TestLowUIPercentWithoutPureFunctionsIsMixed(t *testing.T) {
	a := newTestAnalyzer(t)

	// 0% UI, but the only function touches module state, so nothing is
	// cleanly extractable and the file is not Logic.
	src := []byte(`counter = 0

def bump():
    global counter
    counter += 1
`)
	f := a.AnalyzeSource("state.py", src).Analysis
	require.Len(t, f.Functions, 1)
	assert.False(t, f.Functions[0].IsPure)
	assert.True(t, f.Functions[0].HasGlobalAccess)
	assert.Equal(t, 0.0, f.UIPercentage)
	assert.True(t, f.IsMixedFile)
}

func TestImportOnlyFileClassification(t *testing.T) {
	a := newTestAnalyzer(t)

	uiOnly := a.AnalyzeSource("ui_pkg.py", []byte("from PyQt5.QtWidgets import QWidget\n")).Analysis
	assert.True(t, uiOnly.IsUIFile)
	assert.False(t, uiOnly.IsMixedFile)
	assert.Equal(t, 0.0, uiOnly.UIPercentage)

	plain := a.AnalyzeSource("pkg.py", []byte("import os\nimport json\n")).Analysis
	assert.True(t, plain.IsLogicFile)
	assert.False(t, plain.IsMixedFile)
	assert.Equal(t, 0.0, plain.UIPercentage)
}

func TestSyntaxErrorYieldsEmptyAnalysis(t *testing.T) {
	a := newTestAnalyzer(t)

	src := []byte("def broken(:\n    pass\n")
	f := a.AnalyzeSource("broken.py", src).Analysis

	assert.Empty(t, f.Classes)
	assert.Empty(t, f.Functions)
	assert.Empty(t, f.Imports)
	assert.Equal(t, 2, f.LOC)
	assert.False(t, f.IsUIFile)
	assert.False(t, f.IsLogicFile)
	assert.False(t, f.IsMixedFile)
}

func TestMethodsAreNeverPure(t *testing.T) {
	a := newTestAnalyzer(t)

	src := []byte(`class Calc:
    def add(self, x, y):
        return x + y
`)
	f := a.AnalyzeSource("calc.py", src).Analysis
	require.Len(t, f.Classes, 1)
	require.Len(t, f.Classes[0].Methods, 1)
	assert.False(t, f.Classes[0].Methods[0].IsPure)
	assert.Empty(t, f.Classes[0].Methods[0].UIUsage)
}

func TestUIUsageForms(t *testing.T) {
	a := newTestAnalyzer(t)

	src := []byte(`from PyQt5.QtWidgets import QWidget

def build():
    w = QWidget()
    w.setText("a")
    w.setText("b")
    w.show()
    return w
`)
	f := a.AnalyzeSource("build.py", src).Analysis
	require.Len(t, f.Functions, 1)
	fn := f.Functions[0]

	assert.Equal(t, []string{"QWidget", ".setText()", ".show()"}, fn.UIUsage)
	assert.False(t, fn.IsPure)
}

func TestDependencyCollection(t *testing.T) {
	a := newTestAnalyzer(t)

	src := []byte(`def work(data):
    cleaned = normalize(data)
    cleaned = normalize(cleaned)
    _internal(cleaned)
    return transform(cleaned)
`)
	f := a.AnalyzeSource("work.py", src).Analysis
	require.Len(t, f.Functions, 1)
	// deduplicated, private names skipped, first-encountered order
	assert.Equal(t, []string{"normalize", "transform"}, f.Functions[0].Dependencies)
	assert.True(t, f.Functions[0].IsPure)
}

func TestDependencyCap(t *testing.T) {
	a := newTestAnalyzer(t)

	src := []byte(`def busy():
    a0(); a1(); a2(); a3(); a4(); a5(); a6(); a7(); a8(); a9(); a10(); a11()
`)
	f := a.AnalyzeSource("busy.py", src).Analysis
	require.Len(t, f.Functions, 1)
	assert.Len(t, f.Functions[0].Dependencies, maxDependencies)
	assert.Equal(t, "a0", f.Functions[0].Dependencies[0])
	assert.Equal(t, "a9", f.Functions[0].Dependencies[9])
}

func TestDecoratedFunctionsAreCounted(t *testing.T) {
	a := newTestAnalyzer(t)

	src := []byte(`import functools

@functools.lru_cache
def fib(n):
    if n < 2:
        return n
    return fib(n - 1) + fib(n - 2)
`)
	f := a.AnalyzeSource("fib.py", src).Analysis
	require.Len(t, f.Functions, 1)
	assert.Equal(t, "fib", f.Functions[0].Name)
	assert.True(t, f.Functions[0].IsPure)
}

func TestAsyncFunctionsAreCounted(t *testing.T) {
	a := newTestAnalyzer(t)

	src := []byte(`async def fetch(url):
    return await get(url)
`)
	f := a.AnalyzeSource("fetch.py", src).Analysis
	require.Len(t, f.Functions, 1)
	assert.Equal(t, "fetch", f.Functions[0].Name)
}

func TestClassWithKeywordArgumentBase(t *testing.T) {
	a := newTestAnalyzer(t)

	src := []byte(`class Model(Base, metaclass=Meta):
    pass
`)
	f := a.AnalyzeSource("model.py", src).Analysis
	require.Len(t, f.Classes, 1)
	assert.Equal(t, []string{"Base"}, f.Classes[0].Bases)
}

func TestCountLines(t *testing.T) {
	cases := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\nb\n", 2},
		{"\n\n", 2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, countLines([]byte(tc.content)), "content %q", tc.content)
	}
}

func TestNonlocalIsImpure(t *testing.T) {
	a := newTestAnalyzer(t)

	src := []byte(`def outer():
    count = 0
    def inner():
        nonlocal count
        count += 1
    return inner
`)
	f := a.AnalyzeSource("closure.py", src).Analysis
	require.Len(t, f.Functions, 1)
	assert.True(t, f.Functions[0].HasGlobalAccess)
	assert.False(t, f.Functions[0].IsPure)
}

func TestTkinterWidgetUsage(t *testing.T) {
	a := newTestAnalyzer(t)

	src := []byte(`import tkinter

class App(tkinter.Frame):
    pass

def make_root():
    root = Tk()
    return root
`)
	result := a.AnalyzeSource("app.py", src)
	f := result.Analysis

	require.Len(t, f.Classes, 1)
	// dotted base names resolve textually and do not match plain base names
	assert.Equal(t, []string{"tkinter.Frame"}, f.Classes[0].Bases)

	require.Len(t, f.Functions, 1)
	assert.Equal(t, []string{"Tk"}, f.Functions[0].UIUsage)
	assert.Equal(t, []string{"tkinter"}, result.Frameworks)
}
