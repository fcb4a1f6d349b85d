// Command vtpcbench is a minimal demonstration consumer of the vtpc
// package: it opens a file through a Cache, writes a sequential block of
// data, fsyncs, reads it back, and reports timing. It deliberately does
// not reproduce the random-access/seeded-RNG benchmark this module's
// spec explicitly leaves out of scope — sequential I/O is enough to
// exercise the public surface end to end.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/neft1k/vtpc/vtpc"
)

func main() {
	path := flag.String("path", "", "file to exercise (created/truncated)")
	size := flag.Int64("size", 16<<20, "bytes to write sequentially")
	blockSize := flag.Int("block", 64<<10, "write/read block size in bytes")
	capacity := flag.Int("capacity", vtpc.DefaultPageCapacity, "page slot capacity")
	flag.Parse()

	if *path == "" {
		log.Fatal("vtpcbench: -path is required")
	}

	cache, err := vtpc.NewCache(vtpc.CacheConfig{PageCapacity: *capacity})
	if err != nil {
		log.Fatalf("vtpcbench: %v", err)
	}

	if err := run(cache, *path, *size, *blockSize); err != nil {
		log.Fatalf("vtpcbench: %v", err)
	}
}

func run(cache *vtpc.Cache, path string, size int64, blockSize int) error {
	h, err := cache.Open(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer cache.Close(h)

	block := make([]byte, blockSize)
	for i := range block {
		block[i] = byte(i)
	}

	writeStart := time.Now()
	var written int64
	for written < size {
		chunk := block
		if rem := size - written; rem < int64(len(chunk)) {
			chunk = chunk[:rem]
		}
		n, err := cache.Write(h, chunk)
		if err != nil {
			return fmt.Errorf("write at %d: %w", written, err)
		}
		written += int64(n)
	}
	if err := cache.Fsync(h); err != nil {
		return fmt.Errorf("fsync: %w", err)
	}
	writeElapsed := time.Since(writeStart)

	if _, err := cache.Seek(h, 0, vtpc.SeekStart); err != nil {
		return fmt.Errorf("seek: %w", err)
	}

	readStart := time.Now()
	var read int64
	buf := make([]byte, blockSize)
	for read < size {
		n, err := cache.Read(h, buf)
		if err != nil {
			return fmt.Errorf("read at %d: %w", read, err)
		}
		if n == 0 {
			break
		}
		read += int64(n)
	}
	readElapsed := time.Since(readStart)

	fmt.Printf("wrote %s in %s (%s/s)\n", humanize.Bytes(uint64(written)), writeElapsed, humanize.Bytes(uint64(float64(written)/writeElapsed.Seconds())))
	fmt.Printf("read  %s in %s (%s/s)\n", humanize.Bytes(uint64(read)), readElapsed, humanize.Bytes(uint64(float64(read)/readElapsed.Seconds())))

	for _, s := range cache.Stats() {
		fmt.Printf("handle=%d slotsInUse=%d/%d dirty=%d directIO=%t\n", s.Handle, s.SlotsInUse, s.PageCap, s.SlotsDirty, s.DirectIO)
	}
	return nil
}
