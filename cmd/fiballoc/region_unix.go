//go:build unix

package main

import "golang.org/x/sys/unix"

// acquireRegion obtains the backing region as an anonymous mmap rather than
// a plain Go-heap slice, so the "single contiguous region obtained once at
// initialization" the spec describes is a real OS-backed allocation rather
// than something the garbage collector could otherwise move or scan.
func acquireRegion(size int) ([]byte, func() error, error) {
	region, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	release := func() error {
		return unix.Munmap(region)
	}
	return region, release, nil
}
