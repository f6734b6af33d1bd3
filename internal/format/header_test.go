package format_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/testutil"
)

func TestDecodeHeader(t *testing.T) {
	l := format.DefaultLayout()
	b := testutil.NewImage(l, l.DataEnd())
	b.Alloc(0, 6144, 5, 16)
	b.Root(4, 0x1234)
	image := b.Bytes()

	region, err := format.DecodeHeader(image, l)
	require.NoError(t, err)
	require.Len(t, region.Roots, l.NumRoots())
	require.Len(t, region.Descriptors, l.NumDescriptors())
	require.Equal(t, uint16(0x1234), region.Roots[4])
	require.Equal(t, uint16(l.DescriptorBase()), region.Discriminant)
	require.Equal(t, format.Descriptor{Write: 6149, Read: 6144, Start: 6144, End: 6160}, region.Descriptors[0])
	require.True(t, region.Descriptors[1].IsZero())
	require.Len(t, region.Padding, l.PaddingSize)

	// Padding aliases the image rather than copying it.
	image[l.PaddingOffset()] = 0xAA
	require.Equal(t, byte(0xAA), region.Padding[0])
}

func TestDecodeHeaderTruncated(t *testing.T) {
	l := format.DefaultLayout()
	_, err := format.DecodeHeader(make([]byte, l.RegionSize-1), l)
	require.True(t, errors.Is(err, format.ErrTruncatedImage), "err=%v", err)

	// A region-only image decodes fine: the data area may be cut short.
	_, err = format.DecodeHeader(make([]byte, l.RegionSize), l)
	require.NoError(t, err)
}

func TestDecodeHeaderTooLarge(t *testing.T) {
	_, err := format.DecodeHeader(make([]byte, format.MaxImageSize+1), format.DefaultLayout())
	require.ErrorIs(t, err, format.ErrImageTooLarge)
}

func TestDecodeHeaderInvalidLayout(t *testing.T) {
	l := format.Layout{RegionSize: 6145, DataSize: 10, SizeClasses: 16, PaddingSize: 4}
	_, err := format.DecodeHeader(make([]byte, 7000), l)
	require.ErrorIs(t, err, format.ErrInvalidLayout)
}

func TestDescriptorRoundTrip(t *testing.T) {
	b := make([]byte, 16)
	d := format.Descriptor{Write: 1, Read: 2, Start: 3, End: 0xFFFF}
	require.NoError(t, format.EncodeDescriptor(b, 8, d))
	got, err := format.DecodeDescriptor(b, 8)
	require.NoError(t, err)
	require.Equal(t, d, got)

	require.ErrorIs(t, format.EncodeDescriptor(b, 9, d), format.ErrTruncatedImage)
	_, err = format.DecodeDescriptor(b, 12)
	require.ErrorIs(t, err, format.ErrTruncatedImage)
}
