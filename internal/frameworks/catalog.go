package frameworks

import (
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Wildcard marks a framework whose submodules are all UI (e.g. tkinter).
const Wildcard = "*"

// Catalog is the table of known desktop-UI frameworks: which module names
// mark an import as UI, which base classes mark a class as a widget, and
// which method names mark a call site as UI interaction. A Catalog is
// read-only after construction.
type Catalog struct {
	// frameworks maps framework module name -> UI submodule suffixes,
	// or [Wildcard] when every submodule counts.
	frameworks map[string][]string
	// baseClasses is the set of widget base-class names (exact match).
	baseClasses map[string]struct{}
	// uiMethods is the set of method names treated as UI interaction.
	uiMethods map[string]struct{}
	// order preserves framework declaration order for stable listings.
	order []string
}

// catalogFile is the TOML shape accepted by Load.
type catalogFile struct {
	Frameworks  map[string][]string `toml:"frameworks"`
	BaseClasses []string            `toml:"base_classes"`
	UIMethods   []string            `toml:"ui_methods"`
}

// Default returns the built-in catalog covering Qt bindings, tkinter and
// wxPython.
func Default() *Catalog {
	c := newCatalog()
	c.addFramework("PyQt5", []string{"QtWidgets", "QtGui", "QtCore", "QtWebEngineWidgets", "uic"})
	c.addFramework("PyQt6", []string{"QtWidgets", "QtGui", "QtCore", "QtWebEngineWidgets", "uic"})
	c.addFramework("PySide2", []string{"QtWidgets", "QtGui", "QtCore", "QtWebEngineWidgets"})
	c.addFramework("PySide6", []string{"QtWidgets", "QtGui", "QtCore", "QtWebEngineWidgets"})
	c.addFramework("tkinter", []string{Wildcard})
	c.addFramework("wx", []string{Wildcard})

	for _, name := range []string{
		"QWidget", "QMainWindow", "QDialog", "QFrame", "QScrollArea",
		"QPushButton", "QLabel", "QLineEdit", "QTextEdit", "QComboBox",
		"QCheckBox", "QRadioButton", "QSlider", "QProgressBar",
		"QTableWidget", "QListWidget", "QTreeWidget",
		"QGraphicsView", "QGraphicsScene", "QGraphicsItem",
		"Tk", "Frame", "Canvas", "Button", "Label",
	} {
		c.baseClasses[name] = struct{}{}
	}

	for _, name := range []string{
		"show", "hide", "close", "exec", "exec_",
		"setText", "setEnabled", "setVisible",
		"addWidget", "setLayout", "setCentralWidget",
	} {
		c.uiMethods[name] = struct{}{}
	}

	return c
}

// Load reads a TOML catalog extension and merges it over the defaults.
// Entries add to the built-in tables; they never remove built-ins.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read framework catalog %s: %w", path, err)
	}

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse framework catalog %s: %w", path, err)
	}

	c := Default()
	for name, submodules := range file.Frameworks {
		c.addFramework(name, submodules)
	}
	for _, name := range file.BaseClasses {
		c.baseClasses[name] = struct{}{}
	}
	for _, name := range file.UIMethods {
		c.uiMethods[name] = struct{}{}
	}
	return c, nil
}

func newCatalog() *Catalog {
	return &Catalog{
		frameworks:  make(map[string][]string),
		baseClasses: make(map[string]struct{}),
		uiMethods:   make(map[string]struct{}),
	}
}

func (c *Catalog) addFramework(name string, submodules []string) {
	if _, exists := c.frameworks[name]; !exists {
		c.order = append(c.order, name)
	}
	c.frameworks[name] = append(c.frameworks[name], submodules...)
}

// Frameworks returns the known framework names in declaration order.
func (c *Catalog) Frameworks() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// IsUIModule reports whether a plain `import X` module is a UI framework:
// an exact framework name or a dotted descendant of one.
func (c *Catalog) IsUIModule(module string) bool {
	if _, ok := c.frameworks[module]; ok {
		return true
	}
	for name := range c.frameworks {
		if strings.HasPrefix(module, name+".") {
			return true
		}
	}
	return false
}

// IsUIFromImport reports whether `from module import names...` is a UI
// import: the module is a framework, a UI submodule of one, or any imported
// name is a known widget base class.
func (c *Catalog) IsUIFromImport(module string, names []string) bool {
	if _, ok := c.frameworks[module]; ok {
		return true
	}
	for name, submodules := range c.frameworks {
		if !strings.HasPrefix(module, name+".") {
			continue
		}
		suffix := ""
		if idx := strings.Index(module, "."); idx >= 0 {
			suffix = module[idx+1:]
		}
		for _, sub := range submodules {
			if sub == Wildcard || sub == suffix {
				return true
			}
		}
	}
	for _, name := range names {
		if _, ok := c.baseClasses[name]; ok {
			return true
		}
	}
	return false
}

// FrameworkOf returns the framework a UI module belongs to, checking
// framework names in declaration order. The second result is false when the
// module is not under any known framework.
func (c *Catalog) FrameworkOf(module string) (string, bool) {
	for _, name := range c.order {
		if module == name || strings.HasPrefix(module, name+".") || strings.HasPrefix(module, name) {
			return name, true
		}
	}
	return "", false
}

// IsBaseClass reports whether name is a known widget base class.
func (c *Catalog) IsBaseClass(name string) bool {
	_, ok := c.baseClasses[name]
	return ok
}

// IsUIMethod reports whether a method name counts as UI interaction.
func (c *Catalog) IsUIMethod(name string) bool {
	_, ok := c.uiMethods[name]
	return ok
}
