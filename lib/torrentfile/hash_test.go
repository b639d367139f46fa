package torrentfile

import (
	"bytes"
	"crypto/sha1"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPiecesCounts(t *testing.T) {
	cases := []struct {
		name        string
		totalBytes  int
		pieceLength int64
		wantPieces  int
	}{
		{"exact multiple", 12, 4, 3},
		{"trailing partial piece", 10, 4, 3},
		{"single short piece", 3, 4, 1},
		{"one byte pieces", 5, 1, 5},
		{"empty stream", 0, 4, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "data.bin"), bytes.Repeat([]byte{0xAB}, tc.totalBytes))

			c, err := BuildCatalog([]string{filepath.Join(dir, "data.bin")}, false)
			require.NoError(t, err)
			pieces, total, err := c.HashPieces(tc.pieceLength)
			require.NoError(t, err)
			assert.Equal(t, int64(tc.totalBytes), total)
			assert.Len(t, pieces, tc.wantPieces, "piece count must be ceil(total/pieceLength)")
		})
	}
}

func TestHashPiecesBoundaryTransparent(t *testing.T) {
	content := []byte("0123456789abcdef-")

	whole := t.TempDir()
	writeFile(t, filepath.Join(whole, "all.bin"), content)
	split := t.TempDir()
	writeFile(t, filepath.Join(split, "head.bin"), content[:7])
	writeFile(t, filepath.Join(split, "tail.bin"), content[7:])

	wholeCatalog, err := BuildCatalog([]string{filepath.Join(whole, "all.bin")}, false)
	require.NoError(t, err)
	splitCatalog, err := BuildCatalog(
		[]string{filepath.Join(split, "head.bin"), filepath.Join(split, "tail.bin")}, false)
	require.NoError(t, err)

	wholePieces, wholeTotal, err := wholeCatalog.HashPieces(5)
	require.NoError(t, err)
	splitPieces, splitTotal, err := splitCatalog.HashPieces(5)
	require.NoError(t, err)

	assert.Equal(t, wholeTotal, splitTotal)
	assert.Equal(t, wholePieces, splitPieces,
		"Splitting the stream into two files must not change any piece digest")
}

func TestHashPiecesSpansFileBoundary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), []byte("AAAAA"))
	writeFile(t, filepath.Join(dir, "b.txt"), []byte("BBBBB"))

	c, err := BuildCatalog([]string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")}, false)
	require.NoError(t, err)
	pieces, total, err := c.HashPieces(4)
	require.NoError(t, err)

	require.Equal(t, int64(10), total)
	require.Len(t, pieces, 3)
	// Piece 1 covers stream bytes [4,8): the last byte of a.txt and the
	// first three of b.txt.
	assert.Equal(t, sha1.Sum([]byte("AAAA")), pieces[0])
	assert.Equal(t, sha1.Sum([]byte("ABBB")), pieces[1])
	assert.Equal(t, sha1.Sum([]byte("BB")), pieces[2], "final short piece hashes only the remaining bytes")
}

func TestHashPiecesLastPieceSpan(t *testing.T) {
	dir := t.TempDir()
	content := []byte("0123456789") // 10 bytes, piece length 4 -> last span is 2
	writeFile(t, filepath.Join(dir, "f.bin"), content)

	c, err := BuildCatalog([]string{filepath.Join(dir, "f.bin")}, false)
	require.NoError(t, err)
	pieces, _, err := c.HashPieces(4)
	require.NoError(t, err)

	require.Len(t, pieces, 3)
	assert.Equal(t, sha1.Sum(content[8:]), pieces[2])
}

func TestHashPiecesFileVanished(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.txt")
	writeFile(t, path, []byte("data"))

	c, err := BuildCatalog([]string{path}, false)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	_, _, err = c.HashPieces(4)
	assert.Error(t, err, "A file deleted between cataloging and hashing must abort the run")
}

func TestHashPiecesFileSizeChanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grow.txt")
	writeFile(t, path, []byte("1234"))

	c, err := BuildCatalog([]string{path}, false)
	require.NoError(t, err)
	writeFile(t, path, []byte("12345678"))

	_, _, err = c.HashPieces(4)
	assert.Error(t, err, "A file that changed size would shift every later piece boundary")
}

func TestHashPiecesRejectsBadPieceLength(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "x.txt"), []byte("x"))
	c, err := BuildCatalog([]string{filepath.Join(dir, "x.txt")}, false)
	require.NoError(t, err)

	_, _, err = c.HashPieces(0)
	assert.Error(t, err)
	_, _, err = c.HashPieces(-1)
	assert.Error(t, err)
}
