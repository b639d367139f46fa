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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

var (
	// ErrNotFound is returned when a supplied input path does not exist.
	ErrNotFound = errors.New("input path not found")
	// ErrEmptyInput is returned when no files remain after expansion and
	// hidden-file filtering.
	ErrEmptyInput = errors.New("no files to include")
)

// FileRecord is one file of the torrent's payload. RelPath holds the path
// components relative to the catalog's common root. Records are not
// modified after catalog construction; only their order changes.
type FileRecord struct {
	AbsPath string
	RelPath []string
	Length  int64
}

func (r *FileRecord) relString() string {
	return strings.Join(r.RelPath, "/")
}

// Catalog is the ordered list of files that make up the torrent's byte
// stream, rooted at the longest common ancestor directory of all entries.
// The order is significant: it decides every piece boundary downstream.
type Catalog struct {
	Root  string
	Files []*FileRecord
}

// TotalLength returns the summed byte length of all files.
func (c *Catalog) TotalLength() int64 {
	var total int64
	for _, f := range c.Files {
		total += f.Length
	}
	return total
}

// BuildCatalog expands the supplied files and directories into a flat,
// ordered catalog. Directories are walked recursively in lexical order, so
// the resulting order is deterministic for identical inputs. Hidden entries
// (any path component starting with a dot) are dropped unless includeHidden
// is set.
func BuildCatalog(inputs []string, includeHidden bool) (*Catalog, error) {
	var records []*FileRecord
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", input, err)
		}
		fi, err := os.Stat(abs)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%s: %w", input, ErrNotFound)
			}
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if !fi.IsDir() {
			if !includeHidden && hidden(filepath.Base(abs)) {
				log.WithField("path", abs).Debug("Skipping hidden file")
				continue
			}
			records = append(records, &FileRecord{AbsPath: abs, Length: fi.Size()})
			continue
		}
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !includeHidden && path != abs && hidden(d.Name()) {
				log.WithField("path", path).Debug("Skipping hidden entry")
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			records = append(records, &FileRecord{AbsPath: path, Length: info.Size()})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", input, err)
		}
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	root := commonRoot(records)
	for _, r := range records {
		rel := strings.TrimPrefix(r.AbsPath, root)
		rel = strings.TrimPrefix(rel, string(os.PathSeparator))
		r.RelPath = strings.Split(filepath.ToSlash(rel), "/")
	}
	log.WithFields(logrus.Fields{
		"files": len(records),
		"root":  root,
	}).Debug("Catalog built")
	return &Catalog{Root: root, Files: records}, nil
}

func hidden(name string) bool {
	return len(name) > 1 && name[0] == '.'
}

// commonRoot computes the longest common directory prefix of all records'
// absolute paths. A character prefix can end mid-filename, so it is widened
// back to the nearest directory boundary. For a single file the root is its
// parent directory.
func commonRoot(records []*FileRecord) string {
	if len(records) == 1 {
		return filepath.Dir(records[0].AbsPath)
	}
	prefix := records[0].AbsPath
	for _, r := range records[1:] {
		for !strings.HasPrefix(r.AbsPath, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return string(os.PathSeparator)
			}
		}
	}
	if i := strings.LastIndexByte(prefix, os.PathSeparator); i > 0 {
		prefix = prefix[:i]
	} else {
		prefix = string(os.PathSeparator)
	}
	return prefix
}
