//go:build linux

package vtpc

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// rawOpen opens path with a best-effort cache-bypass hint.
//
// Attempt 1 tries O_DIRECT. If the kernel or filesystem rejects it with
// EINVAL or EOPNOTSUPP (common on tmpfs and some overlay filesystems),
// attempt 2 retries without the flag; Linux has no post-open advisory
// cache-bypass call analogous to Darwin's F_NOCACHE, so the fallback
// leaves directIO false. Any other error is surfaced immediately.
func rawOpen(path string, flag int, perm os.FileMode) (f *os.File, directIO bool, err error) {
	f, err = os.OpenFile(path, flag|unix.O_DIRECT, perm)
	if err == nil {
		return f, true, nil
	}
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EOPNOTSUPP) {
		f, err = os.OpenFile(path, flag, perm)
		if err != nil {
			return nil, false, err
		}
		return f, false, nil
	}
	return nil, false, err
}

// adviseDontNeed tells the kernel the given byte range of f is unlikely to
// be needed again soon. Best effort: failures are silently ignored, as
// spec requires ("ignored if unsupported").
func adviseDontNeed(f *os.File, offset int64, length int) {
	if length <= 0 {
		return
	}
	_ = unix.Fadvise(int(f.Fd()), offset, int64(length), unix.FADV_DONTNEED)
}
