package atproto

import (
	"context"

	"github.com/bluesky-social/pds-sequencer/xrpc"
)

// schema: com.atproto.sync.requestCrawl

// SyncRequestCrawl_Input is the input argument to a com.atproto.sync.requestCrawl call
type SyncRequestCrawl_Input struct {
	// hostname: Hostname of the current service (eg, PDS) that is requesting to be crawled.
	Hostname string `json:"hostname"`
}

// SyncRequestCrawl calls the XRPC method "com.atproto.sync.requestCrawl".
func SyncRequestCrawl(ctx context.Context, c *xrpc.Client, input *SyncRequestCrawl_Input) error {
	if err := c.Do(ctx, xrpc.Procedure, "application/json", "com.atproto.sync.requestCrawl", nil, input, nil); err != nil {
		return err
	}

	return nil
}
