package repo

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
	cbor "github.com/ipfs/go-ipld-cbor"
	car "github.com/ipld/go-car"
	carutil "github.com/ipld/go-car/util"
)

var ErrNoRoot = errors.New("CAR file missing root CID")

func WriteCarHeader(w io.Writer, root cid.Cid) error {
	h := &car.CarHeader{
		Roots:   []cid.Cid{root},
		Version: 1,
	}
	hb, err := cbor.DumpObject(h)
	if err != nil {
		return err
	}

	return carutil.LdWrite(w, hb)
}

// WriteCarSlice packs blks into a CARv1 archive rooted at root, in the block
// map's insertion order. The root block does not need to be present.
func WriteCarSlice(root cid.Cid, blks *BlockMap) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := WriteCarHeader(buf, root); err != nil {
		return nil, fmt.Errorf("failed to write car header: %w", err)
	}

	err := blks.ForEach(func(blk blocks.Block) error {
		return carutil.LdWrite(buf, blk.Cid().Bytes(), blk.RawData())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write block: %w", err)
	}

	return buf.Bytes(), nil
}

// ReadCarWithRoot parses a CARv1 archive with exactly one root.
func ReadCarWithRoot(data []byte) (cid.Cid, *BlockMap, error) {
	cr, err := car.NewCarReader(bytes.NewReader(data))
	if err != nil {
		return cid.Undef, nil, err
	}
	if cr.Header.Version != 1 {
		return cid.Undef, nil, fmt.Errorf("unsupported CAR file version: %d", cr.Header.Version)
	}
	if len(cr.Header.Roots) != 1 {
		return cid.Undef, nil, ErrNoRoot
	}

	bm := NewBlockMap()
	for {
		blk, err := cr.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return cid.Undef, nil, err
		}
		bm.Put(blk)
	}

	return cr.Header.Roots[0], bm, nil
}
