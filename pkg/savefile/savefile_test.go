package savefile

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/savekit/pkg/savedata"
)

func writeSave(t *testing.T, dir string) string {
	t.Helper()
	buf := make([]byte, savedata.Size+64)
	binary.LittleEndian.PutUint32(buf, savedata.Magic)
	buf[4] = savedata.Version
	binary.LittleEndian.PutUint32(buf[0x20:], 500)
	buf[0x710] = 0x5a
	buf[len(buf)-1] = 0x77
	path := filepath.Join(dir, "slot00.sav")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestOpenEditSave(t *testing.T) {
	dir := t.TempDir()
	path := writeSave(t, dir)
	ctx := context.Background()

	f, err := Open(ctx, path, Options{})
	require.NoError(t, err)
	require.Equal(t, uint32(500), f.Data.Gold)

	f.Data.Gold = 1000
	f.Data.SetFlag(savedata.AboardShip, true)
	require.NoError(t, f.Save(ctx))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, raw, savedata.Size+64)
	require.Equal(t, uint32(1000), binary.LittleEndian.Uint32(raw[0x20:]))
	require.Equal(t, byte(0x5a), raw[0x710], "unmodeled bytes survive")
	require.Equal(t, byte(0x77), raw[len(raw)-1], "trailing bytes survive")
	require.Equal(t, raw, f.Raw())

	again, err := Open(ctx, path, Options{})
	require.NoError(t, err)
	require.True(t, again.Data.IsFlagSet(savedata.AboardShip))
}

func TestBackupRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeSave(t, dir)
	orig, err := os.ReadFile(path)
	require.NoError(t, err)
	ctx := context.Background()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f, err := Open(ctx, path, Options{Backup: true, BackupLevel: zstd.SpeedFastest, Now: func() time.Time { return now }})
	require.NoError(t, err)
	f.Data.Gold = 1
	require.NoError(t, f.Save(ctx))

	backups, err := ListBackups(filepath.Join(dir, "backups"), "slot00.sav")
	require.NoError(t, err)
	require.Len(t, backups, 1)
	require.Contains(t, backups[0], "20260102T030405")

	restored, err := ReadBackup(backups[0])
	require.NoError(t, err)
	require.Equal(t, orig, restored)
}

func TestSaveAsNewPathSkipsBackup(t *testing.T) {
	dir := t.TempDir()
	path := writeSave(t, dir)
	ctx := context.Background()

	f, err := Open(ctx, path, Options{Backup: true})
	require.NoError(t, err)
	out := filepath.Join(dir, "copy.sav")
	require.NoError(t, f.SaveAs(ctx, out))
	require.Equal(t, out, f.Path)

	backups, err := ListBackups(filepath.Join(dir, "backups"), "copy.sav")
	require.NoError(t, err)
	require.Empty(t, backups)
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(context.Background(), filepath.Join(dir, "missing.sav"), Options{})
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.sav")
	require.NoError(t, os.WriteFile(bad, []byte{1, 2, 3, 4, 5}, 0o644))
	_, err = Open(context.Background(), bad, Options{})
	require.ErrorIs(t, err, savedata.ErrNotSaveFile)
}

func TestCanceledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeSave(t, dir)
	f, err := Open(context.Background(), path, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.Data.Gold = 2
	require.ErrorIs(t, f.Save(ctx), context.Canceled)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, uint32(500), binary.LittleEndian.Uint32(raw[0x20:]))
}

func TestWriteAtomicLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.bin")
	require.NoError(t, WriteAtomic(path, []byte("abc")))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
