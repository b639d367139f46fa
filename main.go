package main

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
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"sitetorrent/lib/torrentfile"
	"sitetorrent/lib/util"
)

var log = logrus.StandardLogger()

// stringList collects a repeatable flag value.
type stringList []string

func (s *stringList) String() string {
	return fmt.Sprint(*s)
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	var (
		trackers stringList
		webseeds stringList
	)
	output := flag.String("o", "", "REQUIRED: the torrent file to write")
	flag.StringVar(output, "output", "", "REQUIRED: the torrent file to write")
	name := flag.String("name", "", "Name of the torrent, not seen in the browser")
	comment := flag.String("comment", "", "A description or comment about the torrent")
	flag.Var(&trackers, "tracker", "A tracker URL to include (repeatable). Without a tracker the torrent can only be shared via magnet link")
	flag.Var(&webseeds, "webseed", "A URL serving the torrent's files over HTTP (repeatable). Must be used together with a tracker")
	pieceLength := flag.Int64("piece-length", torrentfile.DefaultPieceLength, "Bytes per piece; smaller pieces let web pages load more quickly")
	optimize := flag.Bool("optimize-file-order", false, "Place files referenced from index.html toward the beginning of the torrent")
	includeHidden := flag.Bool("include-hidden", false, "Include hidden files and directories")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [options] INPUT [INPUT...]\n\nGenerates torrent files from static website files. "+
				"'index.html' must be present in the torrent for it to be viewable in a browser.\n\nOptions:\n",
			os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("sitetorrent %s (%s)\n", util.Version, util.GitCommit)
		return
	}

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: false,
	})
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *output == "" {
		log.Error("An output path is required (-o)")
		flag.Usage()
		os.Exit(2)
	}
	if len(webseeds) > 0 && len(trackers) == 0 {
		log.Warn("Webseeds without a tracker are not reachable from magnet links")
	}

	desc, err := torrentfile.Generate(torrentfile.GenerateOptions{
		Inputs:        flag.Args(),
		IncludeHidden: *includeHidden,
		Optimize:      *optimize,
		PieceLength:   *pieceLength,
		Name:          *name,
		Trackers:      trackers,
		Webseeds:      webseeds,
		Comment:       *comment,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to build torrent")
	}
	if err := desc.WriteFile(*output); err != nil {
		log.WithError(err).Fatal("Failed to write torrent file")
	}

	infoHash, err := desc.InfoHash()
	if err != nil {
		log.WithError(err).Fatal("Failed to compute info hash")
	}
	magnet, err := desc.MagnetLink()
	if err != nil {
		log.WithError(err).Fatal("Failed to build magnet link")
	}

	fmt.Printf("Wrote %s\n", *output)
	fmt.Printf("  Name:        %s\n", desc.Name)
	fmt.Printf("  Total size:  %s\n", humanize.Bytes(uint64(desc.TotalLength())))
	fmt.Printf("  Pieces:      %d x %s\n", len(desc.Pieces), humanize.Bytes(uint64(desc.PieceLength)))
	fmt.Printf("  Info hash:   %s\n", infoHash.Hex())
	fmt.Printf("  Magnet link: %s\n", magnet)
}
