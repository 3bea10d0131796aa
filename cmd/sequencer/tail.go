package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/bluesky-social/pds-sequencer/events"
	"github.com/bluesky-social/pds-sequencer/util"

	"github.com/carlmjohnson/versioninfo"
	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v2"
)

var cmdTail = &cli.Command{
	Name:   "tail",
	Usage:  "connect to a sequencer firehose and print events as JSON lines",
	Action: runTail,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Usage:   "hostname and port of the sequencer, optionally with ws(s):// or http(s)://",
			Value:   "ws://localhost:2582",
			EnvVars: []string{"SEQUENCER_HOST"},
		},
		&cli.Int64Flag{
			Name:  "cursor",
			Usage: "replay from after this seq (omit for live events only)",
		},
	},
}

// tailLine is the printed form of a single event.
type tailLine struct {
	Seq  int64  `json:"seq"`
	Time string `json:"time"`
	Type string `json:"type"`
	Did  string `json:"did"`

	Rev    string   `json:"rev,omitempty"`
	TooBig bool     `json:"tooBig,omitempty"`
	Ops    []string `json:"ops,omitempty"`
	Handle *string  `json:"handle,omitempty"`
	Active *bool    `json:"active,omitempty"`
	Status *string  `json:"status,omitempty"`
}

func tailLineFor(evt *events.SeqEvt) tailLine {
	line := tailLine{
		Seq:  evt.Seq,
		Time: evt.Time,
		Type: string(evt.Type()),
		Did:  evt.Did(),
	}
	switch {
	case evt.Commit != nil:
		line.Rev = evt.Commit.Rev
		line.TooBig = evt.Commit.TooBig
		for _, op := range evt.Commit.Ops {
			line.Ops = append(line.Ops, op.Action+" "+op.Path)
		}
	case evt.Handle != nil:
		line.Handle = &evt.Handle.Handle
	case evt.Identity != nil:
		line.Handle = evt.Identity.Handle
	case evt.Account != nil:
		line.Active = &evt.Account.Active
		if evt.Account.Status != nil {
			st := string(*evt.Account.Status)
			line.Status = &st
		}
	}
	return line
}

func runTail(cctx *cli.Context) error {
	ctx := cctx.Context
	logger, err := configLogger(cctx)
	if err != nil {
		return err
	}

	var cursor *int64
	if cctx.IsSet("cursor") {
		c := cctx.Int64("cursor")
		cursor = &c
	}
	u, err := util.FirehoseURL(cctx.String("host"), cursor)
	if err != nil {
		return err
	}

	logger.Info("connecting to firehose", "url", u)
	header := http.Header{}
	header.Set("User-Agent", "pds-sequencer-tail/"+versioninfo.Short())
	con, _, err := websocket.DefaultDialer.DialContext(ctx, u, header)
	if err != nil {
		return fmt.Errorf("failed to connect to websocket: %w", err)
	}
	defer con.Close()

	enc := json.NewEncoder(os.Stdout)
	return events.HandleRepoStream(ctx, con, func(evt *events.SeqEvt) error {
		return enc.Encode(tailLineFor(evt))
	})
}
