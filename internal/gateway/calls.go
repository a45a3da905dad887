package gateway

import (
	"context"

	"github.com/mbeoliero/kit/log"
)

// CallRelay forwards WebRTC signaling frames between two connections.
// It keeps no call state: signal payloads are opaque blobs, and a frame
// whose target is gone is dropped, except for the initial ring, which
// synthesizes a rejection so the caller's UI can settle.
type CallRelay struct {
	registry *Registry
}

// NewCallRelay creates a new CallRelay
func NewCallRelay(registry *Registry) *CallRelay {
	return &CallRelay{registry: registry}
}

// CallUser forwards the ring to the callee. An unreachable callee is
// answered on the caller's behalf with callRejected reason "offline".
func (r *CallRelay) CallUser(ctx context.Context, caller *Client, data *CallData) error {
	target := r.registry.Lookup(data.To)
	if target == nil {
		return r.rejectOffline(ctx, caller, data.To)
	}

	ring := &IncomingCallData{
		From:        caller.UserId,
		DisplayName: caller.DisplayName,
		Signal:      data.Signal,
	}
	if err := target.Push(EvtIncomingCall, ring); err != nil {
		log.CtxDebug(ctx, "ring push failed: callee_id=%d, error=%v", data.To, err)
		return r.rejectOffline(ctx, caller, data.To)
	}

	log.CtxInfo(ctx, "call initiated: caller_id=%d, callee_id=%d", caller.UserId, data.To)
	return nil
}

// AcceptCall forwards the answer back to the caller
func (r *CallRelay) AcceptCall(ctx context.Context, callee *Client, data *CallData) error {
	target := r.registry.Lookup(data.To)
	if target == nil {
		log.CtxDebug(ctx, "accept dropped, caller gone: caller_id=%d", data.To)
		return nil
	}

	answer := &CallAcceptedData{From: callee.UserId, Signal: data.Signal}
	if err := target.Push(EvtCallAccepted, answer); err != nil {
		log.CtxDebug(ctx, "accept push failed: caller_id=%d, error=%v", data.To, err)
	}
	return nil
}

// RejectCall forwards an explicit decline to the caller
func (r *CallRelay) RejectCall(ctx context.Context, callee *Client, data *CallTargetData) error {
	target := r.registry.Lookup(data.To)
	if target == nil {
		return nil
	}

	decline := &CallRejectedData{UserId: callee.UserId, Reason: CallRejectedDeclined}
	if err := target.Push(EvtCallRejected, decline); err != nil {
		log.CtxDebug(ctx, "reject push failed: caller_id=%d, error=%v", data.To, err)
	}
	return nil
}

// EndCall forwards a hang-up to the peer
func (r *CallRelay) EndCall(ctx context.Context, client *Client, data *CallTargetData) error {
	target := r.registry.Lookup(data.To)
	if target == nil {
		return nil
	}

	if err := target.Push(EvtCallEnded, &CallEndedData{UserId: client.UserId}); err != nil {
		log.CtxDebug(ctx, "end push failed: peer_id=%d, error=%v", data.To, err)
	}
	return nil
}

// ForwardIce forwards an ICE candidate to the peer
func (r *CallRelay) ForwardIce(ctx context.Context, client *Client, data *IceCandidateData) error {
	target := r.registry.Lookup(data.To)
	if target == nil {
		return nil
	}

	fwd := &IceForwardData{From: client.UserId, Candidate: data.Candidate}
	if err := target.Push(EvtIceCandidate, fwd); err != nil {
		log.CtxDebug(ctx, "ice push failed: peer_id=%d, error=%v", data.To, err)
	}
	return nil
}

func (r *CallRelay) rejectOffline(ctx context.Context, caller *Client, calleeId int64) error {
	log.CtxInfo(ctx, "call to offline user: caller_id=%d, callee_id=%d", caller.UserId, calleeId)
	reject := &CallRejectedData{UserId: calleeId, Reason: CallRejectedOffline}
	return caller.Push(EvtCallRejected, reject)
}
