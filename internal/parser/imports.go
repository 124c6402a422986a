package parser

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/webshift/webshift/internal/types"
)

// detectImports walks the whole tree and records every import statement,
// nested ones included. It also returns the distinct UI framework names the
// file's UI imports referenced, in first-encountered order.
func (a *Analyzer) detectImports(root *tree_sitter.Node, content []byte) ([]types.ImportRecord, []string) {
	records := []types.ImportRecord{}
	var seen []string
	seenSet := make(map[string]struct{})

	noteFramework := func(module string) {
		name, ok := a.catalog.FrameworkOf(module)
		if !ok {
			return
		}
		if _, dup := seenSet[name]; dup {
			return
		}
		seenSet[name] = struct{}{}
		seen = append(seen, name)
	}

	walkTree(root, func(node *tree_sitter.Node) {
		switch node.Kind() {
		case "import_statement":
			records = append(records, a.plainImports(node, content, noteFramework)...)
		case "import_from_statement":
			if rec, ok := a.fromImport(node, content, noteFramework); ok {
				records = append(records, rec)
			}
		}
	})

	return records, seen
}

// plainImports handles `import a.b, c as d`: one record per imported module.
// The record's name is the binding the import introduces (the alias when one
// is given, otherwise the module itself).
func (a *Analyzer) plainImports(node *tree_sitter.Node, content []byte, noteFramework func(string)) []types.ImportRecord {
	var records []types.ImportRecord
	line, _ := spanLines(node)

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		var module, binding string
		switch child.Kind() {
		case "dotted_name":
			module = nodeText(child, content)
			binding = module
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil {
				continue
			}
			module = nodeText(nameNode, content)
			binding = module
			if aliasNode != nil {
				binding = nodeText(aliasNode, content)
			}
		default:
			continue
		}

		isUI := a.catalog.IsUIModule(module)
		if isUI {
			noteFramework(module)
		}
		records = append(records, types.ImportRecord{
			Module:     module,
			Names:      []string{binding},
			IsUI:       isUI,
			LineNumber: line,
		})
	}

	return records
}

// fromImport handles `from m import x, y as z`. Relative imports without a
// module segment (`from . import x`) have no resolvable module name and are
// skipped rather than recorded.
func (a *Analyzer) fromImport(node *tree_sitter.Node, content []byte, noteFramework func(string)) (types.ImportRecord, bool) {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil {
		return types.ImportRecord{}, false
	}

	var module string
	switch moduleNode.Kind() {
	case "dotted_name":
		module = nodeText(moduleNode, content)
	case "relative_import":
		// `from .pkg import x` still names a module; bare dots do not.
		for i := uint(0); i < moduleNode.NamedChildCount(); i++ {
			if child := moduleNode.NamedChild(i); child.Kind() == "dotted_name" {
				module = nodeText(child, content)
				break
			}
		}
	}
	if module == "" {
		return types.ImportRecord{}, false
	}

	names := fromImportNames(node, moduleNode, content)
	isUI := a.catalog.IsUIFromImport(module, names)
	if isUI {
		noteFramework(module)
	}

	line, _ := spanLines(node)
	return types.ImportRecord{
		Module:     module,
		Names:      names,
		IsUI:       isUI,
		LineNumber: line,
	}, true
}

// fromImportNames collects the imported names of a from-import in source
// order. A wildcard import yields the single name "*"; aliased names keep
// the original name, matching what the UI base-class check must see.
func fromImportNames(node, moduleNode *tree_sitter.Node, content []byte) []string {
	names := []string{}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Id() == moduleNode.Id() {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			names = append(names, nodeText(child, content))
		case "aliased_import":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				names = append(names, nodeText(nameNode, content))
			}
		case "wildcard_import":
			names = append(names, "*")
		}
	}
	return names
}

// walkTree visits every node in depth-first pre-order.
func walkTree(node *tree_sitter.Node, visit func(*tree_sitter.Node)) {
	if node == nil {
		return
	}
	visit(node)
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		walkTree(node.Child(i), visit)
	}
}
