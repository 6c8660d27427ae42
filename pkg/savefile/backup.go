package savefile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

const backupExt = ".zst"

// WriteBackup compresses data into dir as <base>.<timestamp>.zst and returns
// the file name and compressed size.
func WriteBackup(dir, base string, data []byte, level zstd.EncoderLevel, now time.Time) (string, int, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", 0, err
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return "", 0, err
	}
	defer enc.Close()
	compressed := enc.EncodeAll(data, make([]byte, 0, len(data)/4))

	name := filepath.Join(dir, fmt.Sprintf("%s.%s%s", base, now.UTC().Format("20060102T150405.000"), backupExt))
	if err := WriteAtomic(name, compressed); err != nil {
		return "", 0, err
	}
	return name, len(compressed), nil
}

// ReadBackup decompresses a backup written by WriteBackup.
func ReadBackup(path string) ([]byte, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	data, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}
	return data, nil
}

// ListBackups returns the backups of base in dir, oldest first.
func ListBackups(dir, base string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !strings.HasPrefix(n, base+".") || !strings.HasSuffix(n, backupExt) {
			continue
		}
		out = append(out, filepath.Join(dir, n))
	}
	sort.Strings(out)
	return out, nil
}
