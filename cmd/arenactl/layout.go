package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/internal/format"
)

func init() {
	rootCmd.AddCommand(newLayoutCmd())
}

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print the arena layout constants",
		Long: `The layout command prints the constants that define the on-arena format.
Anything that reads or writes an arena directly must agree with them.

Example:
  arenactl layout
  arenactl layout --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout()
		},
	}
}

type layoutInfo struct {
	NullOffset   uint32 `json:"null_offset"`
	PrologueSize uint32 `json:"prologue_size"`
	HeaderSize   uint32 `json:"header_size"`
	Alignment    uint32 `json:"alignment"`
	BlockSize    uint32 `json:"block_size"`
	MaxArenaSize uint64 `json:"max_arena_size"`
	FirstBlock   uint32 `json:"first_block"`
}

func runLayout() error {
	info := layoutInfo{
		NullOffset:   format.NullOffset,
		PrologueSize: format.PrologueSize,
		HeaderSize:   format.HeaderSize,
		Alignment:    format.Alignment,
		BlockSize:    format.BlockSize,
		MaxArenaSize: format.MaxArenaSize,
		FirstBlock:   format.FirstBlockOffset,
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("\nArena Layout:\n")
	printInfo("  Null offset:    %d\n", info.NullOffset)
	printInfo("  Prologue:       %d bytes\n", info.PrologueSize)
	printInfo("  First block:    0x%X\n", info.FirstBlock)
	printInfo("  Header:         %d bytes (next uint32 @0, size uint32 @4, little-endian)\n", info.HeaderSize)
	printInfo("  Alignment:      %d bytes\n", info.Alignment)
	printInfo("  Growth block:   %s\n", humanize.IBytes(uint64(info.BlockSize)))
	printInfo("  Max arena:      %s\n", humanize.IBytes(info.MaxArenaSize))
	return nil
}
