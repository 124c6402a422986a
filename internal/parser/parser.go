package parser

import (
	"os"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/webshift/webshift/internal/debug"
	"github.com/webshift/webshift/internal/frameworks"
	"github.com/webshift/webshift/internal/types"
)

// Analyzer parses Python source and produces per-file structure and
// classification results. It holds no per-file state: every Analyze call
// returns its complete result as a value, so one Analyzer can be shared
// across sequential file scans. It is not safe for concurrent use because
// the underlying tree-sitter parser is stateful; concurrent callers create
// one Analyzer each.
type Analyzer struct {
	parser  *tree_sitter.Parser
	catalog *frameworks.Catalog
}

// FileResult bundles the analysis of one file with the UI frameworks its
// imports referenced. Frameworks travel in the result value rather than in
// analyzer state so concurrent per-file analysis stays sound.
type FileResult struct {
	Analysis   types.FileAnalysis
	Frameworks []string
}

// NewAnalyzer creates an Analyzer using the given framework catalog.
func NewAnalyzer(catalog *frameworks.Catalog) *Analyzer {
	p := tree_sitter.NewParser()
	language := tree_sitter.NewLanguage(tree_sitter_python.Language())
	if err := p.SetLanguage(language); err != nil {
		// The python grammar is compiled in; SetLanguage only fails on an
		// ABI mismatch, which is a build defect rather than a runtime one.
		debug.LogParse("failed to set python language: %v", err)
	}
	return &Analyzer{parser: p, catalog: catalog}
}

// Close releases the underlying tree-sitter parser.
func (a *Analyzer) Close() {
	if a.parser != nil {
		a.parser.Close()
		a.parser = nil
	}
}

// AnalyzeFile reads and analyzes a single Python file.
func (a *Analyzer) AnalyzeFile(path string) (*FileResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeSource(path, content), nil
}

// AnalyzeSource analyzes Python source text. Syntax errors are non-fatal:
// the result is an empty FileAnalysis whose LOC comes from the raw line
// count, mirroring how a whole-project scan must survive one bad file.
func (a *Analyzer) AnalyzeSource(path string, content []byte) *FileResult {
	tree := a.parse(path, content)
	if tree == nil {
		return &FileResult{Analysis: emptyAnalysis(path, content)}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return &FileResult{Analysis: emptyAnalysis(path, content)}
	}

	imports, seen := a.detectImports(root, content)
	classes := a.extractClasses(root, content)
	functions := a.extractFunctions(root, content)

	analysis := types.FileAnalysis{
		Path:      path,
		Imports:   imports,
		Classes:   classes,
		Functions: functions,
		LOC:       countLines(content),
	}
	classify(&analysis)

	return &FileResult{Analysis: analysis, Frameworks: seen}
}

// parse runs tree-sitter over a defensive copy of the content.
// Tree-sitter mutates input buffers through CGO, and grammar bugs surface
// as panics, so both are contained here.
func (a *Analyzer) parse(path string, content []byte) (tree *tree_sitter.Tree) {
	defer func() {
		if r := recover(); r != nil {
			debug.LogParse("tree-sitter panic in %s: %v", path, r)
			tree = nil
		}
	}()

	buf := make([]byte, len(content))
	copy(buf, content)
	return a.parser.Parse(buf, nil)
}

func emptyAnalysis(path string, content []byte) types.FileAnalysis {
	return types.FileAnalysis{
		Path:      path,
		Imports:   []types.ImportRecord{},
		Classes:   []types.ClassRecord{},
		Functions: []types.FunctionRecord{},
		LOC:       countLines(content),
	}
}

// countLines matches splitlines() semantics: a trailing newline does not
// start an extra line.
func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := strings.Count(string(content), "\n")
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}

// nodeText returns the source text a node spans.
func nodeText(node *tree_sitter.Node, content []byte) string {
	return string(content[node.StartByte():node.EndByte()])
}

// spanLines converts a node's 0-based row span to 1-based inclusive lines.
func spanLines(node *tree_sitter.Node) (start, end int) {
	return int(node.StartPosition().Row) + 1, int(node.EndPosition().Row) + 1
}

// resolveName resolves a call target or base-class expression to a dotted
// name, purely textually: identifiers yield themselves, attribute chains
// join with ".", calls resolve to their callee. Anything else resolves to
// "" and is treated as "not a recognized name" by every consumer.
func resolveName(node *tree_sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	switch node.Kind() {
	case "identifier":
		return nodeText(node, content)
	case "attribute":
		owner := resolveName(node.ChildByFieldName("object"), content)
		attr := node.ChildByFieldName("attribute")
		if attr == nil {
			return owner
		}
		if owner == "" {
			return nodeText(attr, content)
		}
		return owner + "." + nodeText(attr, content)
	case "call":
		return resolveName(node.ChildByFieldName("function"), content)
	default:
		return ""
	}
}
