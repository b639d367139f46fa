package torrentfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeOrderReferencedAssetsFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), []byte(`<script src="assets/app.js"></script>`))
	writeFile(t, filepath.Join(dir, "assets", "app.js"), []byte("js"))
	writeFile(t, filepath.Join(dir, "zzz.css"), []byte("css"))

	c, err := BuildCatalog([]string{dir}, false)
	require.NoError(t, err)
	require.NoError(t, c.OptimizeOrder())

	assert.Equal(t, []string{"index.html", "assets/app.js", "zzz.css"}, relStrings(c),
		"index.html first, then referenced assets, then unreferenced files")
}

func TestOptimizeOrderReferenceOffsets(t *testing.T) {
	dir := t.TempDir()
	// b.css occurs before a.js in the document, so it must sort earlier
	// even though depth and lexicographic order both favor a.js.
	writeFile(t, filepath.Join(dir, "index.html"), []byte(`<link href="b.css"><script src="a.js">`))
	writeFile(t, filepath.Join(dir, "a.js"), []byte("js"))
	writeFile(t, filepath.Join(dir, "b.css"), []byte("css"))

	c, err := BuildCatalog([]string{dir}, false)
	require.NoError(t, err)
	require.NoError(t, c.OptimizeOrder())

	assert.Equal(t, []string{"index.html", "b.css", "a.js"}, relStrings(c))
}

func TestOptimizeOrderLiteralSubstringMatch(t *testing.T) {
	dir := t.TempDir()
	// The match is a raw substring search, so a reference inside an HTML
	// comment still counts.
	writeFile(t, filepath.Join(dir, "index.html"), []byte(`<!-- see notes.txt -->`))
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("n"))
	writeFile(t, filepath.Join(dir, "a.txt"), []byte("a"))

	c, err := BuildCatalog([]string{dir}, false)
	require.NoError(t, err)
	require.NoError(t, c.OptimizeOrder())

	assert.Equal(t, []string{"index.html", "notes.txt", "a.txt"}, relStrings(c))
}

func TestOptimizeOrderShallowBeforeDeep(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "deep", "nested", "x.txt"), []byte("x"))
	writeFile(t, filepath.Join(dir, "deep", "y.txt"), []byte("y"))
	writeFile(t, filepath.Join(dir, "top.txt"), []byte("t"))

	c, err := BuildCatalog([]string{dir}, false)
	require.NoError(t, err)
	require.NoError(t, c.OptimizeOrder())

	assert.Equal(t, []string{"top.txt", "deep/y.txt", "deep/nested/x.txt"}, relStrings(c),
		"Without an index.html, depth ordering stands")
}

func TestOptimizeOrderIgnoresNestedIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sub", "index.html"), []byte(`"a.txt"`))
	writeFile(t, filepath.Join(dir, "a.txt"), []byte("a"))
	writeFile(t, filepath.Join(dir, "b.txt"), []byte("b"))

	c, err := BuildCatalog([]string{dir}, false)
	require.NoError(t, err)
	require.NoError(t, c.OptimizeOrder())

	assert.Equal(t, []string{"a.txt", "b.txt", "sub/index.html"}, relStrings(c),
		"Only a root-level index.html drives reference ordering")
}

func TestOptimizeOrderDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), []byte("no references here"))
	for _, name := range []string{"c.txt", "a.txt", "b.txt"} {
		writeFile(t, filepath.Join(dir, name), []byte(name))
	}

	var previous []string
	for i := 0; i < 3; i++ {
		c, err := BuildCatalog([]string{dir}, false)
		require.NoError(t, err)
		require.NoError(t, c.OptimizeOrder())
		current := relStrings(c)
		if previous != nil {
			assert.Equal(t, previous, current, "Optimized order must be reproducible")
		}
		previous = current
	}
	assert.Equal(t, []string{"index.html", "a.txt", "b.txt", "c.txt"}, previous,
		"Unreferenced ties fall back to lexicographic order")
}
