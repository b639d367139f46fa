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
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultPieceLength keeps pieces small so a browser-viewing client can
// fetch and verify the first pieces quickly.
const DefaultPieceLength = 16384

// GenerateOptions configures one torrent generation run.
type GenerateOptions struct {
	Inputs        []string
	IncludeHidden bool
	Optimize      bool
	PieceLength   int64
	Name          string
	Trackers      []string
	Webseeds      []string
	Comment       string
	CreationDate  int64
}

// Generate runs the whole pipeline: catalog the inputs, optionally optimize
// the file order, hash the piece stream and assemble the descriptor.
func Generate(opts GenerateOptions) (*Descriptor, error) {
	pieceLength := opts.PieceLength
	if pieceLength == 0 {
		pieceLength = DefaultPieceLength
	}
	if pieceLength < 1 {
		return nil, fmt.Errorf("piece length must be positive, got %d", pieceLength)
	}

	catalog, err := BuildCatalog(opts.Inputs, opts.IncludeHidden)
	if err != nil {
		return nil, err
	}
	if catalog.indexFile() == nil {
		log.Warn("No root-level index.html: the torrent will not be viewable in a browser")
	}
	if opts.Optimize {
		if err := catalog.OptimizeOrder(); err != nil {
			return nil, err
		}
	}

	pieces, total, err := catalog.HashPieces(pieceLength)
	if err != nil {
		return nil, err
	}

	d := Build(catalog, pieces, pieceLength, BuildOptions{
		Name:         opts.Name,
		Trackers:     opts.Trackers,
		Webseeds:     opts.Webseeds,
		Comment:      opts.Comment,
		CreationDate: opts.CreationDate,
	})
	log.WithFields(logrus.Fields{
		"name":        d.Name,
		"files":       len(catalog.Files),
		"total_bytes": total,
		"pieces":      len(pieces),
	}).Info("Torrent descriptor built")
	return d, nil
}

// WriteFile serializes the descriptor and writes it in one shot. The
// destination is only created once the full encoding succeeded, so a failed
// run never leaves a partial torrent behind.
func (d *Descriptor) WriteFile(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
