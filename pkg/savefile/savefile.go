// Package savefile loads a save from disk and writes edits back, keeping
// every byte the decoded model does not cover.
package savefile

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/rawbytedev/savekit/internal/logging"
	"github.com/rawbytedev/savekit/pkg/savedata"
)

type Options struct {
	Logger *logging.Logger
	// Backup writes a zstd copy of the previous contents before overwriting.
	Backup      bool
	BackupDir   string // relative paths resolve against the save's directory
	BackupLevel zstd.EncoderLevel
	Now         func() time.Time
}

func (o *Options) defaults() {
	if o.Logger == nil {
		o.Logger = logging.NoopLogger()
	}
	if o.BackupDir == "" {
		o.BackupDir = "backups"
	}
	if o.BackupLevel == 0 {
		o.BackupLevel = zstd.SpeedDefault
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// File is a decoded save together with the bytes it was read from.
type File struct {
	Path string
	Data *savedata.SaveData

	raw  []byte
	opts Options
}

// Open reads and decodes path.
func Open(ctx context.Context, path string, opts Options) (*File, error) {
	opts.defaults()
	start := time.Now()
	raw, err := os.ReadFile(path)
	if err != nil {
		opts.Logger.LogLoad(ctx, path, 0, 0, err)
		return nil, fmt.Errorf("read save: %w", err)
	}
	sd, err := savedata.FromBytes(raw)
	opts.Logger.LogLoad(ctx, path, len(raw), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &File{Path: path, Data: sd, raw: raw, opts: opts}, nil
}

// Raw returns the bytes as last read or written.
func (f *File) Raw() []byte { return f.raw }

// Save encodes Data over the original bytes and replaces the file.
func (f *File) Save(ctx context.Context) error {
	return f.SaveAs(ctx, f.Path)
}

// SaveAs writes to path. A backup is taken of whatever path currently holds.
func (f *File) SaveAs(ctx context.Context, path string) error {
	out := append([]byte(nil), f.raw...)
	if err := f.Data.EncodeTo(out); err != nil {
		f.opts.Logger.LogStore(ctx, path, 0, err)
		return fmt.Errorf("encode save: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if f.opts.Backup {
		if prev, err := os.ReadFile(path); err == nil {
			dir := f.opts.BackupDir
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(filepath.Dir(path), dir)
			}
			name, n, err := WriteBackup(dir, filepath.Base(path), prev, f.opts.BackupLevel, f.opts.Now())
			f.opts.Logger.LogBackup(ctx, name, len(prev), n, err)
			if err != nil {
				return fmt.Errorf("backup: %w", err)
			}
		}
	}

	if err := WriteAtomic(path, out); err != nil {
		f.opts.Logger.LogStore(ctx, path, 0, err)
		return err
	}
	f.opts.Logger.LogStore(ctx, path, len(out), nil)
	f.raw = out
	f.Path = path
	return nil
}

// WriteAtomic replaces path with data via a temp file in the same directory.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	_ = tmp.Chmod(0o644)
	w := bufio.NewWriterSize(tmp, 256*1024)
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
