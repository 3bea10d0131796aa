package events

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bluesky-social/pds-sequencer/models"

	cbg "github.com/whyrusleeping/cbor-gen"
)

// SeqEvt is a decoded log row. Exactly one of the payload fields is set; the
// payload's own Seq and Time mirror the outer ones.
type SeqEvt struct {
	Seq  int64
	Time string

	Commit    *CommitEvt
	Handle    *HandleEvt
	Identity  *IdentityEvt
	Account   *AccountEvt
	Tombstone *TombstoneEvt
}

func (evt *SeqEvt) Type() EventType {
	switch {
	case evt.Commit != nil:
		return EvtTypeCommit
	case evt.Handle != nil:
		return EvtTypeHandle
	case evt.Identity != nil:
		return EvtTypeIdentity
	case evt.Account != nil:
		return EvtTypeAccount
	case evt.Tombstone != nil:
		return EvtTypeTombstone
	default:
		return ""
	}
}

// Did returns the account the event is about.
func (evt *SeqEvt) Did() string {
	switch {
	case evt.Commit != nil:
		return evt.Commit.Repo
	case evt.Handle != nil:
		return evt.Handle.Did
	case evt.Identity != nil:
		return evt.Identity.Did
	case evt.Account != nil:
		return evt.Account.Did
	case evt.Tombstone != nil:
		return evt.Tombstone.Did
	default:
		return ""
	}
}

func (evt *SeqEvt) body() (cborMarshaler, error) {
	switch {
	case evt.Commit != nil:
		return evt.Commit, nil
	case evt.Handle != nil:
		return evt.Handle, nil
	case evt.Identity != nil:
		return evt.Identity, nil
	case evt.Account != nil:
		return evt.Account, nil
	case evt.Tombstone != nil:
		return evt.Tombstone, nil
	default:
		return nil, fmt.Errorf("unrecognized event kind")
	}
}

// WriteFrame writes the event as a single stream frame: header then body.
func (evt *SeqEvt) WriteFrame(w io.Writer) error {
	obj, err := evt.body()
	if err != nil {
		return err
	}
	header := EventHeader{Op: EvtKindMessage, MsgType: evt.Type().MsgType()}

	cw := cbg.NewCborWriter(w)
	if err := header.MarshalCBOR(cw); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return obj.MarshalCBOR(cw)
}

// ReadFrame is the inverse of WriteFrame, used by stream consumers and tests.
// Info frames are returned as such; error frames are returned as an error.
func ReadFrame(r io.Reader) (*SeqEvt, *InfoFrame, error) {
	cr := cbg.NewCborReader(r)

	var header EventHeader
	if err := header.UnmarshalCBOR(cr); err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	switch header.Op {
	case EvtKindMessage:
	case EvtKindErrorFrame:
		var errframe ErrorFrame
		if err := errframe.UnmarshalCBOR(cr); err != nil {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("error frame: %s: %s", errframe.Error, errframe.Message)
	default:
		return nil, nil, fmt.Errorf("unrecognized event stream op: %d", header.Op)
	}

	if header.MsgType == "#info" {
		var info InfoFrame
		if err := info.UnmarshalCBOR(cr); err != nil {
			return nil, nil, fmt.Errorf("reading info frame: %w", err)
		}
		return nil, &info, nil
	}

	if len(header.MsgType) < 2 || header.MsgType[0] != '#' {
		return nil, nil, fmt.Errorf("invalid message type: %q", header.MsgType)
	}
	typ, err := ParseEventType(header.MsgType[1:])
	if err != nil {
		return nil, nil, err
	}
	evt, err := decodePayload(typ, cr)
	if err != nil {
		return nil, nil, err
	}
	evt.Seq, evt.Time = evt.payloadSeqTime()
	return evt, nil, nil
}

func decodePayload(typ EventType, r io.Reader) (*SeqEvt, error) {
	var evt SeqEvt
	var err error
	switch typ {
	case EvtTypeCommit:
		evt.Commit = new(CommitEvt)
		err = evt.Commit.UnmarshalCBOR(r)
	case EvtTypeHandle:
		evt.Handle = new(HandleEvt)
		err = evt.Handle.UnmarshalCBOR(r)
	case EvtTypeIdentity:
		evt.Identity = new(IdentityEvt)
		err = evt.Identity.UnmarshalCBOR(r)
	case EvtTypeAccount:
		evt.Account = new(AccountEvt)
		err = evt.Account.UnmarshalCBOR(r)
	case EvtTypeTombstone:
		evt.Tombstone = new(TombstoneEvt)
		err = evt.Tombstone.UnmarshalCBOR(r)
	default:
		return nil, fmt.Errorf("unhandled event type: %q", typ)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s event: %w", typ, err)
	}
	return &evt, nil
}

func (evt *SeqEvt) payloadSeqTime() (int64, string) {
	switch {
	case evt.Commit != nil:
		return evt.Commit.Seq, evt.Commit.Time
	case evt.Handle != nil:
		return evt.Handle.Seq, evt.Handle.Time
	case evt.Identity != nil:
		return evt.Identity.Seq, evt.Identity.Time
	case evt.Account != nil:
		return evt.Account.Seq, evt.Account.Time
	case evt.Tombstone != nil:
		return evt.Tombstone.Seq, evt.Tombstone.Time
	}
	return 0, ""
}

func (evt *SeqEvt) setSeqTime(seq int64, time string) {
	evt.Seq = seq
	evt.Time = time
	switch {
	case evt.Commit != nil:
		evt.Commit.Seq, evt.Commit.Time = seq, time
	case evt.Handle != nil:
		evt.Handle.Seq, evt.Handle.Time = seq, time
	case evt.Identity != nil:
		evt.Identity.Seq, evt.Identity.Time = seq, time
	case evt.Account != nil:
		evt.Account.Seq, evt.Account.Time = seq, time
	case evt.Tombstone != nil:
		evt.Tombstone.Seq, evt.Tombstone.Time = seq, time
	}
}

// DecodeRow decodes a persisted log row into its typed event, filling in the
// sequence number and timestamp from the row.
func DecodeRow(row *models.RepoSeq) (*SeqEvt, error) {
	typ, err := ParseEventType(row.EventType)
	if err != nil {
		return nil, fmt.Errorf("seq %d: %w", row.Seq, err)
	}
	evt, err := decodePayload(typ, bytes.NewReader(row.Event))
	if err != nil {
		return nil, fmt.Errorf("seq %d: %w", row.Seq, err)
	}
	evt.setSeqTime(row.Seq, row.SequencedAt)
	return evt, nil
}
