package docdelve

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdDecomp registers zstd as a zip compression method; sharing one
// decompressor across reads is the documented and recommended use, the
// same pattern the teacher follows in src/extract.go.
var zstdDecomp = zstd.ZipDecompressor()

// archiveMember is one file to be stored in a chest archive by
// writeArchive: its virtual path and its uncompressed bytes. Reading an
// existing archive goes through archiveHandle instead, which decompresses
// members one at a time on demand.
type archiveMember struct {
	name string
	data []byte
}

// archiveHandle serializes access to a chest's backing archive behind a
// mutex, mirroring the teacher's backend_fs.go pattern of guarding a
// single shared file handle rather than re-opening the file per
// request. Only the zip central directory is parsed eagerly, on first
// use; individual member payloads are decompressed lazily, one at a
// time, on first Read — this is what keeps Chest.Open a skeleton
// reconstruction rather than a full-archive load (spec §4.1 "payloads
// are not read").
type archiveHandle struct {
	mu sync.Mutex

	path   string
	opened bool

	files map[string]*zip.File
	order []string

	cache map[string][]byte
}

func newArchiveHandle(path string) *archiveHandle {
	return &archiveHandle{path: path, cache: map[string][]byte{}}
}

// ensureOpened parses the archive's central directory on first use.
// This reads the whole compressed file into memory (zip.NewReader
// needs an io.ReaderAt) but does not decompress any member.
func (h *archiveHandle) ensureOpened() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.opened {
		return nil
	}

	data, err := readFileAll(h.path)
	if err != nil {
		return newErr(KindIOError, h.path, err)
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return newErr(KindCorruptArchive, h.path, err)
	}
	reader.RegisterDecompressor(zstd.ZipMethodWinZip, zstdDecomp)
	reader.RegisterDecompressor(zstd.ZipMethodPKWare, zstdDecomp)

	files := make(map[string]*zip.File, len(reader.File))
	order := make([]string, 0, len(reader.File))
	for _, file := range reader.File {
		if file.Mode().IsDir() || strings.HasSuffix(file.Name, "/") {
			continue
		}
		files[file.Name] = file
		order = append(order, file.Name)
	}

	h.files, h.order, h.opened = files, order, true
	return nil
}

// read returns the decompressed bytes of member name, decompressing and
// caching it on first access.
func (h *archiveHandle) read(name string, maxMemberSize int64) ([]byte, bool, error) {
	if err := h.ensureOpened(); err != nil {
		return nil, false, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if cached, ok := h.cache[name]; ok {
		return cached, true, nil
	}
	file, ok := h.files[name]
	if !ok {
		return nil, false, nil
	}
	if int64(file.UncompressedSize64) > maxMemberSize {
		return nil, true, newErr(KindCorruptArchive, name,
			fmt.Errorf("member exceeds %d byte limit", maxMemberSize))
	}

	fileReader, err := file.Open()
	if err != nil {
		return nil, true, newErr(KindCorruptArchive, name, err)
	}
	defer fileReader.Close()

	contents, err := io.ReadAll(ReadAtMost(fileReader, maxMemberSize,
		fmt.Errorf("%w: %s exceeds member size limit", ErrCorruptArchive, name)))
	if err != nil {
		return nil, true, newErr(KindCorruptArchive, name, err)
	}

	h.cache[name] = contents
	return contents, true, nil
}

// names returns every member path in the archive, central-directory
// order, without decompressing any of them.
func (h *archiveHandle) names() ([]string, error) {
	if err := h.ensureOpened(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out, nil
}

// size returns the declared uncompressed size of member name, without
// decompressing it; used to total up Chest.Save's progress denominator
// for archive-backed files that are carried over unread.
func (h *archiveHandle) size(name string) (int64, bool, error) {
	if err := h.ensureOpened(); err != nil {
		return 0, false, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	file, ok := h.files[name]
	if !ok {
		return 0, false, nil
	}
	return int64(file.UncompressedSize64), true, nil
}

// writeArchive serializes members into a new zstd-compressed zip
// archive at path, used by Chest.Save. Entries are written in the
// order given so a saved-then-reloaded chest iterates members
// deterministically.
func writeArchive(path string, members []archiveMember) (err error) {
	file, err := createFileAtomic(path)
	if err != nil {
		return newErr(KindIOError, path, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	writer := zip.NewWriter(file)
	writer.RegisterCompressor(zstd.ZipMethodWinZip, func(out io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	})

	for _, member := range members {
		w, err := writer.CreateHeader(&zip.FileHeader{
			Name:   member.name,
			Method: zstd.ZipMethodWinZip,
		})
		if err != nil {
			writer.Close()
			return newErr(KindIOError, member.name, err)
		}
		if _, err := w.Write(member.data); err != nil {
			writer.Close()
			return newErr(KindIOError, member.name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return newErr(KindIOError, path, err)
	}
	return nil
}
