package main

import (
	"github.com/bluesky-social/pds-sequencer/events"

	cbg "github.com/whyrusleeping/cbor-gen"
)

func main() {
	if err := cbg.WriteMapEncodersToFile("events/cbor_gen.go", "events",
		events.EventHeader{},
		events.ErrorFrame{},
		events.InfoFrame{},
		events.CommitEvt{},
		events.RepoOp{},
		events.HandleEvt{},
		events.IdentityEvt{},
		events.AccountEvt{},
		events.TombstoneEvt{},
	); err != nil {
		panic(err)
	}
}
