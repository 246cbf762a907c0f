package docdelve

import (
	"io"
	"os"
	"path/filepath"
)

// BoundedReader caps how many bytes can be read before err is returned,
// the same shape as the teacher's src/util.go BoundedReader/ReadAtMost
// (there used to cap decompressed archive size; here used identically
// to cap a single archive member's decompressed size against
// LimitsConfig.MaxArchiveMemberSize).
type BoundedReader struct {
	inner io.Reader
	fuel  int64
	err   error
}

func ReadAtMost(reader io.Reader, count int64, err error) io.Reader {
	return &BoundedReader{reader, count, err}
}

func (reader *BoundedReader) Read(dest []byte) (count int, err error) {
	if reader.fuel <= 0 {
		return 0, reader.err
	}
	if int64(len(dest)) > reader.fuel {
		dest = dest[0:reader.fuel]
	}
	count, err = reader.inner.Read(dest)
	reader.fuel -= int64(count)
	return
}

// readFileAll reads the entirety of path into memory, the same
// os.ReadFile call the teacher uses wherever a backing file is small
// enough to read whole (src/backend_fs.go, src/collect.go).
func readFileAll(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// atomicFile writes to a temp file beside its destination and renames
// into place on Close, mirroring the teacher's createTempInRoot +
// Rename idiom in src/backend_fs.go (there scoped to an os.Root; here a
// plain directory, since a chest database directory is not exposed to
// path traversal from untrusted input the way an HTTP backend is).
type atomicFile struct {
	temp *os.File
	dest string
}

func createFileAtomic(dest string) (*atomicFile, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	temp, err := os.CreateTemp(dir, filepath.Base(dest)+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &atomicFile{temp: temp, dest: dest}, nil
}

func (f *atomicFile) Write(p []byte) (int, error) {
	return f.temp.Write(p)
}

func (f *atomicFile) Close() error {
	tempName := f.temp.Name()
	if err := f.temp.Close(); err != nil {
		os.Remove(tempName)
		return err
	}
	if err := os.Rename(tempName, f.dest); err != nil {
		os.Remove(tempName)
		return err
	}
	return nil
}
