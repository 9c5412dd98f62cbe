package style

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/windowstash/internal/config"
)

func TestBundledStyles_CoverEveryBarStyle(t *testing.T) {
	for _, s := range config.ValidBarStyles() {
		t.Run(string(s), func(t *testing.T) {
			css, found := GetEmbeddedStyle(string(s))
			require.True(t, found)
			assert.Contains(t, css, "#custom-windowstash.style-"+string(s))
		})
	}
}

func TestBundledStyles_ValidCSS(t *testing.T) {
	for _, name := range ListEmbeddedStyles() {
		t.Run(name, func(t *testing.T) {
			sheet, err := NewLoader("", nil).Load(name)
			require.NoError(t, err)

			assert.Equal(t, strings.Count(sheet.CSS, "{"), strings.Count(sheet.CSS, "}"))
			assert.Contains(t, sheet.CSS, "/* imported (embedded): _base.css */")
			assert.Contains(t, sheet.CSS, "#custom-windowstash.empty")
			assert.NotContains(t, sheet.CSS, "import failed")
		})
	}
}

func TestListEmbeddedStyles_ExcludesPartials(t *testing.T) {
	names := ListEmbeddedStyles()
	assert.ElementsMatch(t, []string{"default", "split", "wave", "wave2"}, names)
}

func TestGetEmbeddedStyle_NotFound(t *testing.T) {
	for _, name := range []string{"", "zigzag", "_base"} {
		_, found := GetEmbeddedStyle(name)
		assert.False(t, found, name)
	}
}

func TestGetEmbeddedPartial(t *testing.T) {
	css, found := GetEmbeddedPartial("base")
	require.True(t, found)
	assert.Contains(t, css, "#custom-windowstash")

	_, found = GetEmbeddedPartial("_nonexistent.css")
	assert.False(t, found)
}

func TestLoader_UserOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_colors.css"), []byte(`@define-color stash #ff0000;`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "split.css"), []byte(`@import "_colors.css";
@import "_base.css";
#custom-windowstash.style-split { color: @stash; }`), 0644))

	loader := NewLoader(dir, nil)

	sheet, err := loader.Load("split")
	require.NoError(t, err)
	assert.False(t, sheet.Bundled)
	assert.Equal(t, filepath.Join(dir, "split.css"), sheet.Path)
	assert.Contains(t, sheet.CSS, "/* imported: _colors.css */")
	assert.Contains(t, sheet.CSS, "@define-color stash #ff0000;")
	assert.Contains(t, sheet.CSS, "/* imported (embedded): _base.css */")

	sheet, err = loader.Load("wave")
	require.NoError(t, err)
	assert.True(t, sheet.Bundled)
}

func TestLoader_DefaultAndMissing(t *testing.T) {
	loader := NewLoader("", nil)

	sheet, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultStyleName, sheet.Name)

	_, err = loader.Load("zigzag")
	assert.Error(t, err)
}

func TestLoader_List(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mine.css"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wave.css"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_partial.css"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))

	names := NewLoader(dir, nil).List()
	assert.Equal(t, []string{"default", "split", "wave", "wave2", "mine"}, names)

	assert.Len(t, NewLoader(filepath.Join(dir, "missing"), nil).List(), 4)
}

func TestProcessImports_Circular(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.css"), []byte(`@import "b.css";`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.css"), []byte(`@import "a.css";`), 0644))

	result := ProcessImports(`@import "a.css";`, dir, nil)
	assert.Contains(t, result, "circular import prevented: a.css")
}

func TestProcessImports_Missing(t *testing.T) {
	result := ProcessImports(`@import "nope.css";`, t.TempDir(), nil)
	assert.Contains(t, result, "/* import failed: nope.css")
}
