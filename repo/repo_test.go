package repo

import (
	"fmt"
	"testing"

	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockMapSize(t *testing.T) {
	assert := assert.New(t)

	bm := NewBlockMap()
	c1, err := bm.Add([]byte("first block"))
	require.NoError(t, err)
	_, err = bm.Add([]byte("second"))
	require.NoError(t, err)

	assert.Equal(2, bm.Len())
	assert.Equal(len("first block")+len("second"), bm.ByteSize())

	// re-adding the same content does not double count
	_, err = bm.Add([]byte("first block"))
	require.NoError(t, err)
	assert.Equal(2, bm.Len())
	assert.Equal(len("first block")+len("second"), bm.ByteSize())

	blk, ok := bm.Get(c1)
	assert.True(ok)
	assert.Equal([]byte("first block"), blk.RawData())

	var nilMap *BlockMap
	assert.Equal(0, nilMap.ByteSize())
	assert.False(nilMap.Has(c1))
}

func TestCarSliceRoundTrip(t *testing.T) {
	assert := assert.New(t)

	bm := NewBlockMap()
	var cids []cid.Cid
	for i := 0; i < 5; i++ {
		c, err := bm.Add([]byte(fmt.Sprintf("block %d", i)))
		require.NoError(t, err)
		cids = append(cids, c)
	}

	data, err := WriteCarSlice(cids[0], bm)
	require.NoError(t, err)

	root, out, err := ReadCarWithRoot(data)
	require.NoError(t, err)
	assert.Equal(cids[0], root)
	assert.Equal(5, out.Len())

	var seen []cid.Cid
	assert.NoError(out.ForEach(func(blk blocks.Block) error {
		seen = append(seen, blk.Cid())
		return nil
	}))
	assert.Equal(cids, seen)
}

func TestCarSliceEmpty(t *testing.T) {
	bm := NewBlockMap()
	c, err := cborPrefix.Sum([]byte("not in the map"))
	require.NoError(t, err)

	data, err := WriteCarSlice(c, bm)
	require.NoError(t, err)

	root, out, err := ReadCarWithRoot(data)
	require.NoError(t, err)
	assert.Equal(t, c, root)
	assert.Equal(t, 0, out.Len())
}
