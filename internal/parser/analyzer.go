package parser

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/webshift/webshift/internal/types"
)

// maxDependencies caps the recorded external call names per function.
const maxDependencies = 10

// extractClasses collects every class definition in the tree, nested ones
// included, in depth-first source order.
func (a *Analyzer) extractClasses(root *tree_sitter.Node, content []byte) []types.ClassRecord {
	classes := []types.ClassRecord{}

	walkTree(root, func(node *tree_sitter.Node) {
		if node.Kind() != "class_definition" {
			return
		}

		name := ""
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			name = nodeText(nameNode, content)
		}

		bases := baseNames(node, content)
		isUI := false
		for _, base := range bases {
			if a.catalog.IsBaseClass(base) {
				isUI = true
				break
			}
		}

		methods := a.extractMethods(node, content)
		start, end := spanLines(node)

		classes = append(classes, types.ClassRecord{
			Name:      name,
			Bases:     bases,
			IsUIClass: isUI,
			Methods:   methods,
			LOC:       end - start + 1,
			StartLine: start,
			EndLine:   end,
		})
	})

	return classes
}

// baseNames resolves the superclass list textually. Keyword arguments in the
// class head (metaclass=...) are not base classes. Unresolvable expressions
// keep their slot as "" so positional information is preserved.
func baseNames(class *tree_sitter.Node, content []byte) []string {
	bases := []string{}
	args := class.ChildByFieldName("superclasses")
	if args == nil {
		return bases
	}
	for i := uint(0); i < args.NamedChildCount(); i++ {
		child := args.NamedChild(i)
		if child.Kind() == "keyword_argument" {
			continue
		}
		bases = append(bases, resolveName(child, content))
	}
	return bases
}

// extractMethods collects the immediate-child function definitions of a
// class body. Functions nested deeper (inside a method, or in a nested
// class) belong to their own scope and are not methods of this class.
func (a *Analyzer) extractMethods(class *tree_sitter.Node, content []byte) []types.FunctionRecord {
	methods := []types.FunctionRecord{}
	body := class.ChildByFieldName("body")
	if body == nil {
		return methods
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		if fn := asFunctionDef(body.NamedChild(i)); fn != nil {
			methods = append(methods, a.analyzeFunction(fn, content, true))
		}
	}
	return methods
}

// extractFunctions collects the module's top-level function definitions.
func (a *Analyzer) extractFunctions(root *tree_sitter.Node, content []byte) []types.FunctionRecord {
	functions := []types.FunctionRecord{}
	for i := uint(0); i < root.NamedChildCount(); i++ {
		if fn := asFunctionDef(root.NamedChild(i)); fn != nil {
			functions = append(functions, a.analyzeFunction(fn, content, false))
		}
	}
	return functions
}

// asFunctionDef returns the function_definition a statement node represents,
// unwrapping decorators, or nil. Async functions are function_definition
// nodes in the python grammar, so they need no separate case.
func asFunctionDef(node *tree_sitter.Node) *tree_sitter.Node {
	if node == nil {
		return nil
	}
	switch node.Kind() {
	case "function_definition":
		return node
	case "decorated_definition":
		if def := node.ChildByFieldName("definition"); def != nil && def.Kind() == "function_definition" {
			return def
		}
	}
	return nil
}

// analyzeFunction produces the full metrics record for one function or
// method. A method is never pure: it is bound to its class's lifecycle no
// matter what its body does.
func (a *Analyzer) analyzeFunction(fn *tree_sitter.Node, content []byte, isMethod bool) types.FunctionRecord {
	name := ""
	if nameNode := fn.ChildByFieldName("name"); nameNode != nil {
		name = nodeText(nameNode, content)
	}

	start, end := spanLines(fn)
	uiUsage, deps, hasGlobal := a.scanFunctionBody(fn, content)

	return types.FunctionRecord{
		Name:            name,
		StartLine:       start,
		EndLine:         end,
		LOC:             end - start + 1,
		IsPure:          len(uiUsage) == 0 && !hasGlobal && !isMethod,
		UIUsage:         uiUsage,
		Dependencies:    deps,
		HasGlobalAccess: hasGlobal,
	}
}

// scanFunctionBody walks every descendant of a function in one pass and
// gathers the three per-function signals: UI usage, external call names,
// and global/nonlocal declarations. UI usage and dependencies are
// deduplicated in first-encountered order so repeated analysis of the same
// source is byte-identical; dependencies stop at maxDependencies and skip
// implementation-private names (leading underscore).
func (a *Analyzer) scanFunctionBody(fn *tree_sitter.Node, content []byte) (uiUsage, deps []string, hasGlobal bool) {
	uiUsage = []string{}
	deps = []string{}
	uiSeen := make(map[string]struct{})
	depSeen := make(map[string]struct{})

	walkTree(fn, func(node *tree_sitter.Node) {
		switch node.Kind() {
		case "call":
			callee := resolveName(node.ChildByFieldName("function"), content)
			if callee == "" {
				return
			}
			if a.catalog.IsBaseClass(callee) {
				if _, dup := uiSeen[callee]; !dup {
					uiSeen[callee] = struct{}{}
					uiUsage = append(uiUsage, callee)
				}
			}
			if strings.HasPrefix(callee, "_") {
				return
			}
			if _, dup := depSeen[callee]; !dup && len(deps) < maxDependencies {
				depSeen[callee] = struct{}{}
				deps = append(deps, callee)
			}
		case "attribute":
			attrNode := node.ChildByFieldName("attribute")
			if attrNode == nil {
				return
			}
			attr := nodeText(attrNode, content)
			if !a.catalog.IsUIMethod(attr) {
				return
			}
			usage := "." + attr + "()"
			if _, dup := uiSeen[usage]; !dup {
				uiSeen[usage] = struct{}{}
				uiUsage = append(uiUsage, usage)
			}
		case "global_statement", "nonlocal_statement":
			hasGlobal = true
		}
	})

	return uiUsage, deps, hasGlobal
}

// Classification thresholds. A file at or above uiThreshold is a UI file;
// at or below logicThreshold it is a Logic file only when at least one pure
// function exists, otherwise it falls through to Mixed.
const (
	uiThreshold    = 80.0
	logicThreshold = 20.0
)

// classify sets the three mutually exclusive file flags and the UI
// percentage from the extracted imports, classes and functions.
func classify(f *types.FileAnalysis) {
	totalElements := len(f.Classes) + len(f.Functions)
	if totalElements == 0 {
		// Import-only or empty file: imports alone decide, never Mixed.
		for _, imp := range f.Imports {
			if imp.IsUI {
				f.IsUIFile = true
				return
			}
		}
		f.IsLogicFile = true
		return
	}

	uiElements := 0
	pureFunctions := 0
	for i := range f.Classes {
		if f.Classes[i].IsUIClass {
			uiElements++
		}
	}
	for i := range f.Functions {
		if len(f.Functions[i].UIUsage) > 0 {
			uiElements++
		}
		if f.Functions[i].IsPure {
			pureFunctions++
		}
	}

	f.UIPercentage = float64(uiElements) / float64(totalElements) * 100

	switch {
	case f.UIPercentage >= uiThreshold:
		f.IsUIFile = true
	case f.UIPercentage <= logicThreshold && pureFunctions > 0:
		f.IsLogicFile = true
	default:
		f.IsMixedFile = true
	}
}
