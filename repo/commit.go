package repo

import (
	"fmt"

	"github.com/ipfs/go-cid"
)

type WriteOpAction string

const (
	WriteOpCreate = WriteOpAction("create")
	WriteOpUpdate = WriteOpAction("update")
	WriteOpDelete = WriteOpAction("delete")
)

func (a WriteOpAction) Valid() bool {
	switch a {
	case WriteOpCreate, WriteOpUpdate, WriteOpDelete:
		return true
	default:
		return false
	}
}

// CommitData is what a repository write hands to the sequencer: the new
// commit CID and revision, the previous commit, and every block the commit
// introduced.
type CommitData struct {
	Cid       cid.Cid
	Prev      *cid.Cid
	Rev       string
	Since     *string
	NewBlocks *BlockMap
}

// PreparedWrite describes a single record mutation within a commit.
type PreparedWrite struct {
	Action     WriteOpAction
	Collection string
	Rkey       string

	// nil for deletes
	Cid *cid.Cid

	// blobs referenced by the record, only meaningful for creates and updates
	Blobs []cid.Cid
}

// Path is the record key within the repository, eg 'app.bsky.feed.post/3k2a...'
func (w *PreparedWrite) Path() string {
	return w.Collection + "/" + w.Rkey
}

func (w *PreparedWrite) Validate() error {
	if !w.Action.Valid() {
		return fmt.Errorf("unknown write action: %q", w.Action)
	}
	if w.Collection == "" || w.Rkey == "" {
		return fmt.Errorf("write is missing collection or record key")
	}
	if w.Action != WriteOpDelete && (w.Cid == nil || !w.Cid.Defined()) {
		return fmt.Errorf("%s write for %s has no record CID", w.Action, w.Path())
	}
	return nil
}
