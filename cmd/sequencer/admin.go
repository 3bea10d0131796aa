package main

import (
	"net/http"
	"strings"

	"github.com/bluesky-social/pds-sequencer/events"
	"github.com/bluesky-social/pds-sequencer/xrpc"

	"github.com/labstack/echo/v4"
)

type adminSequenceInput struct {
	Did    string  `json:"did"`
	Handle *string `json:"handle,omitempty"`
	Status string  `json:"status,omitempty"`
}

type adminSequenceOutput struct {
	Seq int64 `json:"seq"`
}

func bindAdminInput(c echo.Context) (*adminSequenceInput, error) {
	var body adminSequenceInput
	if err := c.Bind(&body); err != nil {
		return nil, c.JSON(http.StatusBadRequest, xrpc.XRPCError{ErrStr: "BadRequest", Message: "invalid body"})
	}
	if !strings.HasPrefix(body.Did, "did:") {
		return nil, c.JSON(http.StatusBadRequest, xrpc.XRPCError{ErrStr: "BadRequest", Message: "did field empty or invalid"})
	}
	return &body, nil
}

func (svc *Service) sequenceFailed(c echo.Context, err error) error {
	svc.logger.Error("failed to sequence admin event", "path", c.Path(), "err", err)
	return c.JSON(http.StatusInternalServerError, xrpc.XRPCError{ErrStr: "DatabaseError", Message: "failed to sequence event"})
}

// POST /admin/sequence/handle
func (svc *Service) handleAdminSequenceHandle(c echo.Context) error {
	body, err := bindAdminInput(c)
	if body == nil {
		return err
	}
	if body.Handle == nil || *body.Handle == "" {
		return c.JSON(http.StatusBadRequest, xrpc.XRPCError{ErrStr: "BadRequest", Message: "handle is required"})
	}

	seq, err := svc.seq.SequenceHandleUpdate(c.Request().Context(), body.Did, *body.Handle)
	if err != nil {
		return svc.sequenceFailed(c, err)
	}
	return c.JSON(http.StatusOK, adminSequenceOutput{Seq: seq})
}

// POST /admin/sequence/identity
func (svc *Service) handleAdminSequenceIdentity(c echo.Context) error {
	body, err := bindAdminInput(c)
	if body == nil {
		return err
	}

	seq, err := svc.seq.SequenceIdentityEvt(c.Request().Context(), body.Did, body.Handle)
	if err != nil {
		return svc.sequenceFailed(c, err)
	}
	return c.JSON(http.StatusOK, adminSequenceOutput{Seq: seq})
}

// POST /admin/sequence/account
func (svc *Service) handleAdminSequenceAccount(c echo.Context) error {
	body, err := bindAdminInput(c)
	if body == nil {
		return err
	}
	status := events.AccountStatus(body.Status)
	if !status.Valid() {
		return c.JSON(http.StatusBadRequest, xrpc.XRPCError{ErrStr: "BadRequest", Message: "unknown account status"})
	}

	seq, err := svc.seq.SequenceAccountEvt(c.Request().Context(), body.Did, status)
	if err != nil {
		return svc.sequenceFailed(c, err)
	}
	return c.JSON(http.StatusOK, adminSequenceOutput{Seq: seq})
}

// POST /admin/repo/tombstone
//
// Sequences a tombstone for a deleted account, then removes every earlier
// event for the account from the log, keeping only the tombstone.
func (svc *Service) handleAdminTombstone(c echo.Context) error {
	ctx := c.Request().Context()
	body, err := bindAdminInput(c)
	if body == nil {
		return err
	}

	seq, err := svc.seq.SequenceTombstone(ctx, body.Did)
	if err != nil {
		return svc.sequenceFailed(c, err)
	}
	if err := svc.seq.DeleteAllForUser(ctx, body.Did, []int64{seq}); err != nil {
		svc.logger.Error("failed to delete events for account", "did", body.Did, "err", err)
		return c.JSON(http.StatusInternalServerError, xrpc.XRPCError{ErrStr: "DatabaseError", Message: "failed to delete account events"})
	}
	return c.JSON(http.StatusOK, adminSequenceOutput{Seq: seq})
}

type adminInvalidateInput struct {
	Seqs []int64 `json:"seqs"`
}

type adminInvalidateOutput struct {
	Invalidated int `json:"invalidated"`
}

// POST /admin/sequence/invalidate
//
// Hides the listed events from catch-up reads without deleting them from the
// log, eg for a commit that was rolled back after it was sequenced.
func (svc *Service) handleAdminInvalidateSeqs(c echo.Context) error {
	var body adminInvalidateInput
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, xrpc.XRPCError{ErrStr: "BadRequest", Message: "invalid body"})
	}
	if len(body.Seqs) == 0 {
		return c.JSON(http.StatusBadRequest, xrpc.XRPCError{ErrStr: "BadRequest", Message: "seqs is required"})
	}
	for _, seq := range body.Seqs {
		if seq <= 0 {
			return c.JSON(http.StatusBadRequest, xrpc.XRPCError{ErrStr: "BadRequest", Message: "seqs must be positive"})
		}
	}

	if err := svc.seq.InvalidateSeqs(c.Request().Context(), body.Seqs); err != nil {
		svc.logger.Error("failed to invalidate events", "seqs", body.Seqs, "err", err)
		return c.JSON(http.StatusInternalServerError, xrpc.XRPCError{ErrStr: "DatabaseError", Message: "failed to invalidate events"})
	}
	return c.JSON(http.StatusOK, adminInvalidateOutput{Invalidated: len(body.Seqs)})
}
