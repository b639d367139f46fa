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
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"sitetorrent/lib/torrentfile"
)

func main() {
	// Define subcommands
	analyzeCmd := flag.NewFlagSet("analyze", flag.ExitOnError)

	// Check if a subcommand was provided
	if len(os.Args) < 2 {
		fmt.Println("Usage: sitetorrent-tools <command> [arguments]")
		fmt.Println("\nCommands:")
		fmt.Println("  analyze <torrent-file>    - Print the metadata of a generated torrent file")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		analyzeCmd.Parse(os.Args[2:])
		if analyzeCmd.NArg() == 0 {
			fmt.Println("Please specify a torrent file to analyze")
			os.Exit(1)
		}
		analyzeTorrent(analyzeCmd.Arg(0))

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func analyzeTorrent(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading torrent file: %v\n", err)
		os.Exit(1)
	}

	d, err := torrentfile.Decode(data)
	if err != nil {
		fmt.Printf("Error parsing torrent file: %v\n", err)
		os.Exit(1)
	}

	infoHash, err := d.InfoHash()
	if err != nil {
		fmt.Printf("Error computing info hash: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Torrent Information ===")
	fmt.Printf("Name: %s\n", d.Name)
	fmt.Printf("Info Hash: %s\n", infoHash.Hex())
	fmt.Printf("Created By: %s\n", d.CreatedBy)
	if d.CreationDate != 0 {
		fmt.Printf("Created: %s\n", time.Unix(d.CreationDate, 0).Format(time.RFC1123))
	}
	if d.Comment != "" {
		fmt.Printf("Comment: %s\n", d.Comment)
	}

	if len(d.Trackers) > 0 {
		fmt.Println("\nTrackers:")
		for _, tracker := range d.Trackers {
			fmt.Printf("  - %s\n", tracker)
		}
	}
	if len(d.Webseeds) > 0 {
		fmt.Println("\nWebseeds:")
		for _, seed := range d.Webseeds {
			fmt.Printf("  - %s\n", seed)
		}
	}

	fmt.Printf("\n=== Content Information ===\n")
	fmt.Printf("Piece Length: %d bytes\n", d.PieceLength)
	fmt.Printf("Total Pieces: %d\n", len(d.Pieces))
	fmt.Printf("Total Size: %s\n", humanize.Bytes(uint64(d.TotalLength())))

	if d.Files == nil {
		fmt.Printf("\nSingle File Torrent:\n")
		fmt.Printf("Size: %d bytes\n", d.Length)
	} else {
		fmt.Printf("\nMulti-file Torrent (%d files):\n", len(d.Files))
		for _, file := range d.Files {
			fmt.Printf("  %s\t%d bytes\n", strings.Join(file.Path, "/"), file.Length)
		}
	}
}
