// Command fiballoc is the interactive driver for the fibbuddy allocator:
// it reads allocation/release requests from standard input and prints the
// resulting addresses and free-list state. It is explicitly outside the
// fibbuddy package's own specification (spec.md §1 calls the driver an
// "external collaborator") — this is demonstration/debugging tooling, in
// the spirit of the teacher's main.go CLI, not part of the allocator core.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/shenjiangwei/fibbuddy/fibbuddy"
)

var regionSizeFlag string

func main() {
	root := &cobra.Command{
		Use:   "fiballoc",
		Short: "Interactive driver for the Fibonacci buddy allocator",
		RunE:  runInteractive,
	}
	root.Flags().StringVar(&regionSizeFlag, "region", "1MiB", "size of the backing region to acquire, e.g. 1MiB, 64KiB")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runInteractive(cmd *cobra.Command, args []string) error {
	size, err := humanize.ParseBytes(regionSizeFlag)
	if err != nil {
		return fmt.Errorf("invalid --region value %q: %w", regionSizeFlag, err)
	}

	region, release, err := acquireRegion(int(size))
	if err != nil {
		return fmt.Errorf("acquiring backing region: %w", err)
	}
	defer func() { _ = release() }()

	alloc, err := fibbuddy.New(region)
	if err != nil {
		return fmt.Errorf("initializing allocator: %w", err)
	}
	defer alloc.Shutdown()

	fmt.Printf("fiballoc: %s region, heap capacity %s\n",
		humanize.Bytes(size), humanize.Bytes(alloc.Stats().Capacity))
	fmt.Println("commands: alloc <bytes> | free <offset> | dump | stats | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "alloc":
			runAllocate(alloc, fields)
		case "free":
			runRelease(alloc, fields)
		case "dump":
			fmt.Print(alloc.DumpFreeList())
		case "stats":
			printStats(alloc)
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n", fields[0])
		}
	}
	return scanner.Err()
}

func runAllocate(alloc *fibbuddy.Allocator, fields []string) {
	if len(fields) != 2 {
		fmt.Fprintln(os.Stderr, "usage: alloc <bytes>")
		return
	}
	n, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid size %q: %v\n", fields[1], err)
		return
	}

	ptr, err := alloc.Allocate(n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "allocate %d bytes: %v\n", n, err)
		return
	}
	fmt.Printf("allocated %s at offset %d\n", humanize.Bytes(n), ptr)
}

func runRelease(alloc *fibbuddy.Allocator, fields []string) {
	if len(fields) != 2 {
		fmt.Fprintln(os.Stderr, "usage: free <offset>")
		return
	}
	offset, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid offset %q: %v\n", fields[1], err)
		return
	}

	if err := alloc.Release(offset); err != nil {
		fmt.Fprintf(os.Stderr, "free offset %d: %v\n", offset, err)
		return
	}
	fmt.Printf("freed offset %d\n", offset)
}

func printStats(alloc *fibbuddy.Allocator) {
	stats := alloc.Stats()
	fmt.Printf("capacity=%s used=%s free=%s largest_free_index=%d\n",
		humanize.Bytes(stats.Capacity), humanize.Bytes(stats.Used), humanize.Bytes(stats.Free), stats.LargestFreeIndex)
}
