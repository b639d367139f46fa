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
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"sitetorrent/lib/bencode"
	"sitetorrent/lib/util"
)

// InfoHash is the SHA-1 digest of the bencoded info dictionary. It
// identifies the content itself: trackers, webseeds, comment and creation
// date live outside the info dictionary and cannot change it.
type InfoHash [HashSize]byte

// Hex returns the lowercase hex form used in magnet links.
func (h InfoHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// Base32 returns the RFC 4648 form used by older magnet and browser links.
func (h InfoHash) Base32() string {
	return base32.StdEncoding.EncodeToString(h[:])
}

func (h InfoHash) String() string {
	return h.Hex()
}

// FileEntry is one entry of a multi-file descriptor.
type FileEntry struct {
	Length int64
	Path   []string
}

// Descriptor is the full torrent metadata record. It is assembled once by
// Build and then only serialized.
type Descriptor struct {
	Name         string
	PieceLength  int64
	Pieces       [][HashSize]byte
	Length       int64       // single-file mode
	Files        []FileEntry // multi-file mode; nil otherwise
	Trackers     []string
	Webseeds     []string
	Comment      string
	CreatedBy    string
	CreationDate int64
}

// BuildOptions carries the caller-supplied metadata. Nil tracker and
// webseed slices mean the corresponding keys are omitted from the output
// entirely, which is a different state from present-but-empty.
type BuildOptions struct {
	Name     string
	Trackers []string
	Webseeds []string
	Comment  string
	// CreationDate overrides the timestamp when non-zero, for
	// reproducible output.
	CreationDate int64
}

// Build assembles the descriptor from a hashed catalog. The name falls back
// to the single file's base name, or the common root's base name for
// multi-file catalogs.
func Build(c *Catalog, pieces [][HashSize]byte, pieceLength int64, opts BuildOptions) *Descriptor {
	d := &Descriptor{
		Name:         opts.Name,
		PieceLength:  pieceLength,
		Pieces:       pieces,
		Trackers:     opts.Trackers,
		Webseeds:     opts.Webseeds,
		Comment:      opts.Comment,
		CreatedBy:    util.UserAgent(),
		CreationDate: opts.CreationDate,
	}
	if d.CreationDate == 0 {
		d.CreationDate = time.Now().Unix()
	}
	if len(c.Files) == 1 {
		single := c.Files[0]
		d.Length = single.Length
		if d.Name == "" {
			d.Name = filepath.Base(single.AbsPath)
		}
	} else {
		if d.Name == "" {
			d.Name = filepath.Base(c.Root)
		}
		for _, f := range c.Files {
			d.Files = append(d.Files, FileEntry{Length: f.Length, Path: f.RelPath})
		}
	}
	return d
}

// TotalLength returns the payload size described by the descriptor.
func (d *Descriptor) TotalLength() int64 {
	if d.Files == nil {
		return d.Length
	}
	var total int64
	for _, f := range d.Files {
		total += f.Length
	}
	return total
}

// infoDict projects the info subsection into bencode values.
func (d *Descriptor) infoDict() map[string]interface{} {
	var pieces strings.Builder
	pieces.Grow(len(d.Pieces) * HashSize)
	for _, p := range d.Pieces {
		pieces.Write(p[:])
	}
	info := map[string]interface{}{
		"name":         d.Name,
		"piece length": d.PieceLength,
		"pieces":       pieces.String(),
	}
	if d.Files == nil {
		info["length"] = d.Length
	} else {
		files := make([]interface{}, 0, len(d.Files))
		for _, f := range d.Files {
			path := make([]interface{}, len(f.Path))
			for i, part := range f.Path {
				path[i] = part
			}
			files = append(files, map[string]interface{}{
				"length": f.Length,
				"path":   path,
			})
		}
		info["files"] = files
	}
	return info
}

// dict projects the whole descriptor. Optional keys are only present when
// their values were supplied.
func (d *Descriptor) dict() map[string]interface{} {
	dict := map[string]interface{}{
		"created by":    d.CreatedBy,
		"creation date": d.CreationDate,
		"encoding":      "UTF-8",
		"info":          d.infoDict(),
	}
	if len(d.Trackers) > 0 {
		dict["announce"] = d.Trackers[0]
		tier := make([]interface{}, len(d.Trackers))
		for i, t := range d.Trackers {
			tier[i] = t
		}
		dict["announce-list"] = []interface{}{tier}
	}
	if len(d.Webseeds) > 0 {
		seeds := make([]interface{}, len(d.Webseeds))
		for i, w := range d.Webseeds {
			seeds[i] = w
		}
		dict["url-list"] = seeds
	}
	if d.Comment != "" {
		dict["comment"] = d.Comment
	}
	return dict
}

// Encode serializes the descriptor to its canonical torrent-file bytes.
func (d *Descriptor) Encode() ([]byte, error) {
	return bencode.Encode(d.dict())
}

// InfoHash serializes only the info subsection and hashes those exact
// bytes. Anything outside the info dictionary cannot affect the result.
func (d *Descriptor) InfoHash() (InfoHash, error) {
	raw, err := bencode.Encode(d.infoDict())
	if err != nil {
		return InfoHash{}, err
	}
	return sha1.Sum(raw), nil
}

// MagnetLink builds a magnet URI for the descriptor: info hash, display
// name, every tracker and every webseed.
func (d *Descriptor) MagnetLink() (string, error) {
	ih, err := d.InfoHash()
	if err != nil {
		return "", err
	}
	var link strings.Builder
	link.WriteString("magnet:?xt=urn:btih:")
	link.WriteString(ih.Hex())
	link.WriteString("&dn=")
	link.WriteString(util.UrlEncodeBytes([]byte(d.Name)))
	for _, t := range d.Trackers {
		link.WriteString("&tr=")
		link.WriteString(util.UrlEncodeBytes([]byte(t)))
	}
	for _, w := range d.Webseeds {
		link.WriteString("&ws=")
		link.WriteString(util.UrlEncodeBytes([]byte(w)))
	}
	return link.String(), nil
}

// Decode parses torrent-file bytes back into a Descriptor. It accepts only
// the shape this generator produces plus the keys it knows about; unknown
// keys are ignored.
func Decode(data []byte) (*Descriptor, error) {
	raw, err := bencode.Decode(data)
	if err != nil {
		return nil, err
	}
	dict, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("torrent: top-level value is not a dictionary")
	}
	info, ok := dict["info"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("torrent: missing info dictionary")
	}

	d := &Descriptor{}
	if d.Name, ok = info["name"].(string); !ok {
		return nil, fmt.Errorf("torrent: info has no name")
	}
	if d.PieceLength, ok = info["piece length"].(int64); !ok {
		return nil, fmt.Errorf("torrent: info has no piece length")
	}
	piecesRaw, ok := info["pieces"].(string)
	if !ok || len(piecesRaw)%HashSize != 0 {
		return nil, fmt.Errorf("torrent: malformed pieces string")
	}
	for i := 0; i < len(piecesRaw); i += HashSize {
		var p [HashSize]byte
		copy(p[:], piecesRaw[i:i+HashSize])
		d.Pieces = append(d.Pieces, p)
	}

	switch {
	case info["length"] != nil:
		if d.Length, ok = info["length"].(int64); !ok {
			return nil, fmt.Errorf("torrent: malformed length")
		}
	case info["files"] != nil:
		list, ok := info["files"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("torrent: malformed files list")
		}
		for _, item := range list {
			entry, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("torrent: malformed file entry")
			}
			length, ok := entry["length"].(int64)
			if !ok {
				return nil, fmt.Errorf("torrent: file entry has no length")
			}
			pathList, ok := entry["path"].([]interface{})
			if !ok {
				return nil, fmt.Errorf("torrent: file entry has no path")
			}
			path := make([]string, len(pathList))
			for i, part := range pathList {
				if path[i], ok = part.(string); !ok {
					return nil, fmt.Errorf("torrent: malformed path component")
				}
			}
			d.Files = append(d.Files, FileEntry{Length: length, Path: path})
		}
	default:
		return nil, fmt.Errorf("torrent: info has neither length nor files")
	}

	if announceList, ok := dict["announce-list"].([]interface{}); ok && len(announceList) > 0 {
		if tier, ok := announceList[0].([]interface{}); ok {
			for _, t := range tier {
				if s, ok := t.(string); ok {
					d.Trackers = append(d.Trackers, s)
				}
			}
		}
	} else if announce, ok := dict["announce"].(string); ok {
		d.Trackers = append(d.Trackers, announce)
	}
	if seeds, ok := dict["url-list"].([]interface{}); ok {
		for _, w := range seeds {
			if s, ok := w.(string); ok {
				d.Webseeds = append(d.Webseeds, s)
			}
		}
	}
	d.Comment, _ = dict["comment"].(string)
	d.CreatedBy, _ = dict["created by"].(string)
	d.CreationDate, _ = dict["creation date"].(int64)
	return d, nil
}
