package frameworks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogModules(t *testing.T) {
	c := Default()

	assert.True(t, c.IsUIModule("PyQt5"))
	assert.True(t, c.IsUIModule("PyQt5.QtWidgets"))
	assert.True(t, c.IsUIModule("tkinter"))
	assert.True(t, c.IsUIModule("tkinter.ttk"))
	assert.False(t, c.IsUIModule("numpy"))
	assert.False(t, c.IsUIModule("PyQt5extra")) // not a dotted descendant
}

func TestIsUIFromImport(t *testing.T) {
	c := Default()

	// framework itself
	assert.True(t, c.IsUIFromImport("PySide6", []string{"QtWidgets"}))
	// allow-listed submodule
	assert.True(t, c.IsUIFromImport("PyQt5.QtWidgets", []string{"QApplication"}))
	// submodule outside the allow-list, but importing a widget base class
	assert.True(t, c.IsUIFromImport("somewhere.widgets", []string{"QWidget"}))
	// wildcard frameworks accept any submodule
	assert.True(t, c.IsUIFromImport("tkinter.ttk", []string{"Notebook"}))
	// plain library import
	assert.False(t, c.IsUIFromImport("collections", []string{"OrderedDict"}))
}

func TestFrameworkOf(t *testing.T) {
	c := Default()

	name, ok := c.FrameworkOf("PyQt5.QtCore")
	require.True(t, ok)
	assert.Equal(t, "PyQt5", name)

	name, ok = c.FrameworkOf("wx")
	require.True(t, ok)
	assert.Equal(t, "wx", name)

	_, ok = c.FrameworkOf("flask")
	assert.False(t, ok)
}

func TestBaseClassesAndMethods(t *testing.T) {
	c := Default()

	assert.True(t, c.IsBaseClass("QWidget"))
	assert.True(t, c.IsBaseClass("Tk"))
	assert.False(t, c.IsBaseClass("object"))

	assert.True(t, c.IsUIMethod("setText"))
	assert.True(t, c.IsUIMethod("exec_"))
	assert.False(t, c.IsUIMethod("append"))
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frameworks.toml")
	content := `
base_classes = ["KivyApp"]
ui_methods = ["run_app"]

[frameworks]
kivy = ["*"]
PyQt5 = ["QtMultimedia"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	// new framework added
	assert.True(t, c.IsUIModule("kivy"))
	assert.True(t, c.IsUIFromImport("kivy.uix", []string{"Widget"}))
	// extension of an existing framework's submodule list
	assert.True(t, c.IsUIFromImport("PyQt5.QtMultimedia", []string{"QMediaPlayer"}))
	// defaults survive the merge
	assert.True(t, c.IsUIFromImport("PyQt5.QtWidgets", []string{"QApplication"}))
	assert.True(t, c.IsBaseClass("QWidget"))
	assert.True(t, c.IsBaseClass("KivyApp"))
	assert.True(t, c.IsUIMethod("run_app"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
