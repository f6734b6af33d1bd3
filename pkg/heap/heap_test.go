package heap_test

import (
	"context"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/residual"
	"github.com/joshuapare/heapkit/heap/segment"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/testutil"
	"github.com/joshuapare/heapkit/pkg/heap"
)

func fixture() []byte {
	l := format.DefaultLayout()
	b := testutil.NewImage(l, l.DataEnd())
	b.Alloc(0, l.DataBase(), 5, 16)
	b.Write(l.DataBase(), []byte("hello"))
	b.UnusedTail(1)
	return b.Bytes()
}

func TestOpenMapped(t *testing.T) {
	image := fixture()
	path := testutil.WriteTempFile(t, "capture.bin", image)

	img, err := heap.Open(path)
	require.NoError(t, err)
	require.Equal(t, len(image), img.Len())
	require.Equal(t, image, img.Bytes())

	a, err := heap.Analyze(context.Background(), img.Bytes(), heap.Options{})
	require.NoError(t, err)
	require.Equal(t, segment.KindAlloc, a.Segments[0].Kind)
	require.Equal(t, "hello", string(a.Segments[0].Text))

	require.NoError(t, img.Close())
	require.NoError(t, img.Close())
	require.Nil(t, img.Bytes())
}

func TestOpenCompressed(t *testing.T) {
	image := fixture()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	packed := enc.EncodeAll(image, nil)
	require.NoError(t, enc.Close())

	img, err := heap.Open(testutil.WriteTempFile(t, "capture.bin.zst", packed))
	require.NoError(t, err)
	defer img.Close()
	require.Equal(t, image, img.Bytes())
}

func TestOpenTooLarge(t *testing.T) {
	big := make([]byte, format.MaxImageSize+1)

	_, err := heap.Open(testutil.WriteTempFile(t, "big.bin", big))
	require.Error(t, err)

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	packed := enc.EncodeAll(big, nil)
	require.NoError(t, enc.Close())

	_, err = heap.Open(testutil.WriteTempFile(t, "big.bin.zst", packed))
	require.ErrorIs(t, err, format.ErrImageTooLarge)
}

func TestOpenMissing(t *testing.T) {
	_, err := heap.Open(t.TempDir() + "/nope.bin")
	require.Error(t, err)
}

func TestLoadStrings(t *testing.T) {
	path := testutil.WriteTempFile(t, "strings.json", []byte(`["hello", "", "a\"b"]`))
	got, err := heap.LoadStrings(path)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("hello"), []byte(""), []byte(`a"b`)}, got)

	path = testutil.WriteTempFile(t, "strings.txt", []byte("hello\r\n\nworld\n"))
	got, err = heap.LoadStrings(path)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("hello"), []byte("world")}, got)

	_, err = heap.ParseStrings([]byte(`[1, 2]`))
	require.Error(t, err)
}

func TestLoadExpectations(t *testing.T) {
	want := []residual.Expectation{{Offset: 200, Text: "ok"}, {Offset: 7000, Text: "gone"}}

	path := testutil.WriteTempFile(t, "leftovers.yaml", []byte("- offset: 200\n  text: ok\n- offset: 7000\n  text: gone\n"))
	got, err := heap.LoadExpectations(path)
	require.NoError(t, err)
	require.Equal(t, want, got)

	path = testutil.WriteTempFile(t, "leftovers.json", []byte(`[{"offset":200,"text":"ok"},{"offset":7000,"text":"gone"}]`))
	got, err = heap.LoadExpectations(path)
	require.NoError(t, err)
	require.Equal(t, want, got)

	path = testutil.WriteTempFile(t, "bad.yaml", []byte("- offset: 70000\n  text: x\n"))
	_, err = heap.LoadExpectations(path)
	require.ErrorContains(t, err, "out of range")
}
