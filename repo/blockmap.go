package repo

import (
	"fmt"

	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
)

var cborPrefix = cid.NewPrefixV1(cid.DagCBOR, mh.SHA2_256)

// BlockMap is a set of content-addressed blocks which remembers insertion
// order, so archives built from it are deterministic.
type BlockMap struct {
	blks  map[cid.Cid]blocks.Block
	order []cid.Cid
	size  int
}

func NewBlockMap() *BlockMap {
	return &BlockMap{
		blks: make(map[cid.Cid]blocks.Block),
	}
}

// Add hashes data as a DAG-CBOR block and stores it, returning the CID.
func (bm *BlockMap) Add(data []byte) (cid.Cid, error) {
	c, err := cborPrefix.Sum(data)
	if err != nil {
		return cid.Undef, fmt.Errorf("computing block cid: %w", err)
	}
	if err := bm.Set(c, data); err != nil {
		return cid.Undef, err
	}
	return c, nil
}

func (bm *BlockMap) Set(c cid.Cid, data []byte) error {
	blk, err := blocks.NewBlockWithCid(data, c)
	if err != nil {
		return err
	}
	bm.Put(blk)
	return nil
}

func (bm *BlockMap) Put(blk blocks.Block) {
	c := blk.Cid()
	if old, ok := bm.blks[c]; ok {
		bm.size -= len(old.RawData())
	} else {
		bm.order = append(bm.order, c)
	}
	bm.blks[c] = blk
	bm.size += len(blk.RawData())
}

func (bm *BlockMap) Get(c cid.Cid) (blocks.Block, bool) {
	if bm == nil {
		return nil, false
	}
	blk, ok := bm.blks[c]
	return blk, ok
}

func (bm *BlockMap) Has(c cid.Cid) bool {
	_, ok := bm.Get(c)
	return ok
}

func (bm *BlockMap) Len() int {
	if bm == nil {
		return 0
	}
	return len(bm.order)
}

// ByteSize is the summed length of all block data, not counting CIDs.
func (bm *BlockMap) ByteSize() int {
	if bm == nil {
		return 0
	}
	return bm.size
}

func (bm *BlockMap) ForEach(cb func(blk blocks.Block) error) error {
	if bm == nil {
		return nil
	}
	for _, c := range bm.order {
		if err := cb(bm.blks[c]); err != nil {
			return err
		}
	}
	return nil
}
