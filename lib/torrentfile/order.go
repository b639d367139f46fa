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
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
)

// IndexFileName is the root-level entry page a browser-viewable torrent is
// expected to carry.
const IndexFileName = "index.html"

// OptimizeOrder reorders the catalog so that a sequentially fetching client
// can render the entry page as early as possible: shallow files before
// deeply nested ones, files referenced by the root index.html in the order
// they first occur in its text, and index.html itself first. The three
// sorts are stable and applied in sequence; each one reorders only within
// the ties of the previous one. A lexicographic pre-sort makes the result
// independent of filesystem traversal quirks.
func (c *Catalog) OptimizeOrder() error {
	files := c.Files
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].relString() < files[j].relString()
	})
	sort.SliceStable(files, func(i, j int) bool {
		return len(files[i].RelPath) < len(files[j].RelPath)
	})

	index := c.indexFile()
	if index == nil {
		log.Debug("No root-level index.html, keeping depth order")
		return nil
	}
	content, err := os.ReadFile(index.AbsPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", index.AbsPath, err)
	}

	// A file not referenced anywhere sorts after every referenced one.
	// This is a literal substring search over the raw document, not HTML
	// parsing: any occurrence of the path text counts.
	offset := func(r *FileRecord) int {
		if i := bytes.Index(content, []byte(r.relString())); i >= 0 {
			return i
		}
		return len(content)
	}
	sort.SliceStable(files, func(i, j int) bool {
		return offset(files[i]) < offset(files[j])
	})
	sort.SliceStable(files, func(i, j int) bool {
		return files[i] == index && files[j] != index
	})

	log.WithFields(logrus.Fields{
		"files": len(files),
		"first": files[0].relString(),
	}).Debug("Optimized file order")
	return nil
}

// indexFile returns the root-level index.html record, or nil.
func (c *Catalog) indexFile() *FileRecord {
	for _, f := range c.Files {
		if len(f.RelPath) == 1 && f.RelPath[0] == IndexFileName {
			return f
		}
	}
	return nil
}
