package arena

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/joshuapare/arenakit/internal/format"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func Test_File_CreateGrowClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.bin")

	f, err := Create(path, 1, 4)
	require.NoError(t, err)
	require.Equal(t, path, f.Name())
	require.Equal(t, uint32(format.BlockSize), f.Size())
	require.Equal(t, uint32(1), f.Blocks())

	f.Bytes()[8] = 0x11
	require.Equal(t, uint32(3*format.BlockSize), f.Grow(2))
	require.Equal(t, uint32(3), f.Blocks())
	require.Equal(t, byte(0x11), f.Bytes()[8], "contents must survive remap")

	last := 3*format.BlockSize - 1
	f.Bytes()[last] = 0x22
	require.NoError(t, f.Flush(last, 1))
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 3*format.BlockSize)
	require.Equal(t, byte(0x11), data[8])
	require.Equal(t, byte(0x22), data[last])
}

func Test_File_Grow_Refused(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.bin")

	f, err := Create(path, 1, 2)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, uint32(0), f.Grow(2))
	require.Equal(t, uint32(format.BlockSize), f.Size())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(format.BlockSize), info.Size(), "refused growth must not touch the file")
}

func Test_File_Closed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.bin")

	f, err := Create(path, 1, 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close(), "double close is a no-op")

	require.Nil(t, f.Bytes())
	require.Equal(t, uint32(0), f.Grow(1))
	require.ErrorIs(t, f.Flush(0, 8), ErrClosed)
	require.ErrorIs(t, f.Sync(), ErrClosed)
}

func Test_File_Create_TooLarge(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "arena.bin"), 65536, 0)
	require.ErrorIs(t, err, ErrTooLarge)
}
