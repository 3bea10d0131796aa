package events

import (
	"fmt"

	"github.com/ipfs/go-cid"
)

type EventType string

const (
	EvtTypeCommit    = EventType("commit")
	EvtTypeHandle    = EventType("handle")
	EvtTypeIdentity  = EventType("identity")
	EvtTypeAccount   = EventType("account")
	EvtTypeTombstone = EventType("tombstone")
)

// ParseEventType maps a stored event type to its EventType. Rows written by
// older versions may carry "append" or "sync", both of which are commits.
func ParseEventType(s string) (EventType, error) {
	switch s {
	case "commit", "append", "sync":
		return EvtTypeCommit, nil
	case "handle":
		return EvtTypeHandle, nil
	case "identity":
		return EvtTypeIdentity, nil
	case "account":
		return EvtTypeAccount, nil
	case "tombstone":
		return EvtTypeTombstone, nil
	default:
		return "", fmt.Errorf("unknown event type: %q", s)
	}
}

// stream frame message type, eg "#commit"
func (t EventType) MsgType() string {
	return "#" + string(t)
}

type AccountStatus string

const (
	AccountStatusActive         = AccountStatus("active")
	AccountStatusTakendown      = AccountStatus("takendown")
	AccountStatusSuspended      = AccountStatus("suspended")
	AccountStatusDeleted        = AccountStatus("deleted")
	AccountStatusDeactivated    = AccountStatus("deactivated")
	AccountStatusDesynchronized = AccountStatus("desynchronized")
	AccountStatusThrottled      = AccountStatus("throttled")
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusActive, AccountStatusTakendown, AccountStatusSuspended, AccountStatusDeleted,
		AccountStatusDeactivated, AccountStatusDesynchronized, AccountStatusThrottled:
		return true
	default:
		return false
	}
}

// Seq and Time on the payload types below are written as zero values in the
// persisted payload; they are filled in from the log row when the event is
// decoded.

type CommitEvt struct {
	Seq    int64     `cborgen:"seq"`
	Time   string    `cborgen:"time"`
	Repo   string    `cborgen:"repo"`
	Commit cid.Cid   `cborgen:"commit"`
	Prev   *cid.Cid  `cborgen:"prev"`
	Rev    string    `cborgen:"rev"`
	Since  *string   `cborgen:"since"`
	Rebase bool      `cborgen:"rebase"`
	TooBig bool      `cborgen:"tooBig"`
	Ops    []*RepoOp `cborgen:"ops"`
	// CARv1 archive of the blocks needed to apply Ops
	Blocks []byte    `cborgen:"blocks"`
	Blobs  []cid.Cid `cborgen:"blobs"`
}

type RepoOp struct {
	Action string `cborgen:"action"`
	Path   string `cborgen:"path"`
	// nil for deletes
	Cid *cid.Cid `cborgen:"cid"`
}

type HandleEvt struct {
	Seq    int64  `cborgen:"seq"`
	Time   string `cborgen:"time"`
	Did    string `cborgen:"did"`
	Handle string `cborgen:"handle"`
}

type IdentityEvt struct {
	Seq    int64   `cborgen:"seq"`
	Time   string  `cborgen:"time"`
	Did    string  `cborgen:"did"`
	Handle *string `cborgen:"handle,omitempty"`
}

type AccountEvt struct {
	Seq    int64          `cborgen:"seq"`
	Time   string         `cborgen:"time"`
	Did    string         `cborgen:"did"`
	Active bool           `cborgen:"active"`
	Status *AccountStatus `cborgen:"status,omitempty"`
}

type TombstoneEvt struct {
	Seq  int64  `cborgen:"seq"`
	Time string `cborgen:"time"`
	Did  string `cborgen:"did"`
}
