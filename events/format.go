package events

import (
	"errors"
	"fmt"

	"github.com/bluesky-social/pds-sequencer/models"
	"github.com/bluesky-social/pds-sequencer/repo"

	"github.com/ipfs/go-cid"
)

const (
	// commits with more writes than this are sequenced without ops or blocks
	MaxCommitWrites = 200

	// commits whose new blocks exceed this many bytes are likewise too big
	MaxCommitBlockBytes = 1_000_000
)

var ErrNilCommit = errors.New("cannot sequence a nil commit")

// IsTooBig reports whether a commit exceeds the limits for inline ops and blocks.
func IsTooBig(commit *repo.CommitData, writes []repo.PreparedWrite) bool {
	return len(writes) > MaxCommitWrites || commit.NewBlocks.ByteSize() > MaxCommitBlockBytes
}

// FormatCommit builds the unsaved log row for a repository commit.
//
// A commit that is too big carries no ops or blobs, and its archive holds
// only the commit's root block. Consumers are expected to fetch the repo
// out of band.
func FormatCommit(did string, commit *repo.CommitData, writes []repo.PreparedWrite) (*models.RepoSeq, error) {
	if commit == nil {
		return nil, ErrNilCommit
	}
	for i := range writes {
		if err := writes[i].Validate(); err != nil {
			return nil, err
		}
	}

	evt := &CommitEvt{
		Repo:   did,
		Commit: commit.Cid,
		Prev:   commit.Prev,
		Rev:    commit.Rev,
		Since:  commit.Since,
		Ops:    []*RepoOp{},
		Blobs:  []cid.Cid{},
	}

	carBlocks := commit.NewBlocks
	if IsTooBig(commit, writes) {
		evt.TooBig = true
		carBlocks = repo.NewBlockMap()
		if root, ok := commit.NewBlocks.Get(commit.Cid); ok {
			carBlocks.Put(root)
		}
	} else {
		seenBlobs := make(map[cid.Cid]bool)
		for i := range writes {
			w := &writes[i]
			op := &RepoOp{
				Action: string(w.Action),
				Path:   w.Path(),
			}
			if w.Action != repo.WriteOpDelete {
				c := *w.Cid
				op.Cid = &c
				for _, b := range w.Blobs {
					if seenBlobs[b] {
						continue
					}
					seenBlobs[b] = true
					evt.Blobs = append(evt.Blobs, b)
				}
			}
			evt.Ops = append(evt.Ops, op)
		}
	}

	car, err := repo.WriteCarSlice(commit.Cid, carBlocks)
	if err != nil {
		return nil, fmt.Errorf("writing commit archive: %w", err)
	}
	evt.Blocks = car

	return newRow(did, EvtTypeCommit, evt)
}

func FormatHandle(did, handle string) (*models.RepoSeq, error) {
	return newRow(did, EvtTypeHandle, &HandleEvt{Did: did, Handle: handle})
}

func FormatIdentity(did string, handle *string) (*models.RepoSeq, error) {
	return newRow(did, EvtTypeIdentity, &IdentityEvt{Did: did, Handle: handle})
}

// FormatAccount builds an account status event. The status is omitted when
// the account is active.
func FormatAccount(did string, status AccountStatus) (*models.RepoSeq, error) {
	evt := &AccountEvt{
		Did:    did,
		Active: status == AccountStatusActive,
	}
	if !evt.Active {
		st := status
		evt.Status = &st
	}
	return newRow(did, EvtTypeAccount, evt)
}

func FormatTombstone(did string) (*models.RepoSeq, error) {
	return newRow(did, EvtTypeTombstone, &TombstoneEvt{Did: did})
}

func newRow(did string, typ EventType, payload cborMarshaler) (*models.RepoSeq, error) {
	b, err := marshalBytes(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s event: %w", typ, err)
	}
	return &models.RepoSeq{
		Did:       did,
		EventType: string(typ),
		Event:     b,
	}, nil
}
