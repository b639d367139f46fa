package torrentfile

/*
A static-website torrent file generator.
Copyright (C) 2024 Haris Khan

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

import (
	"crypto/sha1"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// HashSize is the length of one piece digest.
const HashSize = sha1.Size

// pieceAccumulator buffers the logical byte stream and emits one SHA-1
// digest per full pieceLength of input. It carries partial pieces across
// Write calls, which is what lets a piece span the tail of one file and the
// head of the next.
type pieceAccumulator struct {
	pieceLength int64
	buf         []byte
	pieces      [][HashSize]byte
	total       int64
}

func newPieceAccumulator(pieceLength int64) *pieceAccumulator {
	return &pieceAccumulator{
		pieceLength: pieceLength,
		buf:         make([]byte, 0, pieceLength),
	}
}

// Write implements io.Writer so file contents can be streamed in with
// io.Copy. It never keeps more than one piece buffered.
func (a *pieceAccumulator) Write(p []byte) (int, error) {
	n := len(p)
	a.total += int64(n)
	for len(p) > 0 {
		take := a.pieceLength - int64(len(a.buf))
		if take > int64(len(p)) {
			take = int64(len(p))
		}
		a.buf = append(a.buf, p[:take]...)
		p = p[take:]
		if int64(len(a.buf)) == a.pieceLength {
			a.emit()
		}
	}
	return n, nil
}

// flush hashes the trailing partial piece, if any.
func (a *pieceAccumulator) flush() {
	if len(a.buf) > 0 {
		a.emit()
	}
}

func (a *pieceAccumulator) emit() {
	a.pieces = append(a.pieces, sha1.Sum(a.buf))
	a.buf = a.buf[:0]
}

// HashPieces reads the catalog's files in order as one continuous byte
// stream and returns the digest of every pieceLength-sized piece, plus the
// total stream length. The final piece may be shorter. Each file handle is
// opened, fully streamed and closed before the next file is touched, on the
// error path included. Any read failure aborts the whole run; a file that
// changed size since the catalog was built would silently shift every later
// piece boundary, so that aborts too.
func (c *Catalog) HashPieces(pieceLength int64) ([][HashSize]byte, int64, error) {
	if pieceLength <= 0 {
		return nil, 0, fmt.Errorf("piece length must be positive, got %d", pieceLength)
	}
	acc := newPieceAccumulator(pieceLength)
	for _, f := range c.Files {
		if err := streamFile(acc, f); err != nil {
			return nil, 0, err
		}
	}
	acc.flush()
	log.WithFields(logrus.Fields{
		"pieces":       len(acc.pieces),
		"piece_length": pieceLength,
		"total_bytes":  acc.total,
	}).Debug("Hashed piece stream")
	return acc.pieces, acc.total, nil
}

func streamFile(acc *pieceAccumulator, rec *FileRecord) error {
	fh, err := os.Open(rec.AbsPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", rec.AbsPath, err)
	}
	defer fh.Close()
	n, err := io.Copy(acc, fh)
	if err != nil {
		return fmt.Errorf("reading %s: %w", rec.AbsPath, err)
	}
	if n != rec.Length {
		return fmt.Errorf("%s: size changed from %d to %d during hashing", rec.AbsPath, rec.Length, n)
	}
	return nil
}
