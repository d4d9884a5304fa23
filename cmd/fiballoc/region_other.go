//go:build !unix

package main

// acquireRegion falls back to a plain heap-backed slice on platforms
// without an anonymous-mmap syscall path (e.g. plan9, js/wasm). The
// allocator core is provenance-agnostic about where its region came from.
func acquireRegion(size int) ([]byte, func() error, error) {
	region := make([]byte, size)
	release := func() error { return nil }
	return region, release, nil
}
