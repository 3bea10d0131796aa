package events

import (
	"bytes"
	"fmt"
	"io"

	cbg "github.com/whyrusleeping/cbor-gen"
)

const (
	EvtKindErrorFrame = -1
	EvtKindMessage    = 1
)

// EventHeader precedes every frame on the wire.
type EventHeader struct {
	Op      int64  `cborgen:"op"`
	MsgType string `cborgen:"t,omitempty"`
}

// ErrorFrame is sent to a stream consumer right before the connection is
// closed, eg "ConsumerTooSlow" or "FutureCursor".
type ErrorFrame struct {
	Error   string `cborgen:"error"`
	Message string `cborgen:"message,omitempty"`
}

// InfoFrame carries an informational message to a stream consumer, eg
// "OutdatedCursor".
type InfoFrame struct {
	Name    string  `cborgen:"name"`
	Message *string `cborgen:"message,omitempty"`
}

// WriteErrorFrame writes a complete error frame (header and body) to w.
func WriteErrorFrame(w io.Writer, errName, msg string) error {
	cw := cbg.NewCborWriter(w)
	header := EventHeader{Op: EvtKindErrorFrame}
	if err := header.MarshalCBOR(cw); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	body := ErrorFrame{Error: errName, Message: msg}
	return body.MarshalCBOR(cw)
}

// WriteInfoFrame writes a complete "#info" frame to w.
func WriteInfoFrame(w io.Writer, name, msg string) error {
	cw := cbg.NewCborWriter(w)
	header := EventHeader{Op: EvtKindMessage, MsgType: "#info"}
	if err := header.MarshalCBOR(cw); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	body := InfoFrame{Name: name}
	if msg != "" {
		body.Message = &msg
	}
	return body.MarshalCBOR(cw)
}

type cborMarshaler interface {
	MarshalCBOR(io.Writer) error
}

func marshalBytes(v cborMarshaler) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := v.MarshalCBOR(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
