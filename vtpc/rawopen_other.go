//go:build !linux

package vtpc

import "os"

// rawOpen on non-Linux targets has no portable cache-bypass hint wired up,
// so it always opens through the normal page cache. This is the
// "best-effort, graceful fallback" path spec allows explicitly.
func rawOpen(path string, flag int, perm os.FileMode) (f *os.File, directIO bool, err error) {
	f, err = os.OpenFile(path, flag, perm)
	if err != nil {
		return nil, false, err
	}
	return f, false, nil
}

// adviseDontNeed is a no-op where no cache-bypass advisory call is wired.
func adviseDontNeed(f *os.File, offset int64, length int) {}
