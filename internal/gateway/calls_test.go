package gateway

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalls_RingOnlineCallee(t *testing.T) {
	s := testServer(newFakeMessageStore(), newFakePresenceStore())
	alice, aliceConn := connect(s, 1, "Alice")
	_, bobConn := connect(s, 2, "Bob")

	offer := json.RawMessage(`{"sdp":"offer-blob"}`)
	err := s.calls.CallUser(context.Background(), alice, &CallData{To: 2, Signal: offer})
	require.NoError(t, err)

	ring := bobConn.lastEvent(EvtIncomingCall)
	require.NotNil(t, ring)
	var data IncomingCallData
	require.NoError(t, Decode(ring.Data, &data))
	assert.Equal(t, int64(1), data.From)
	assert.Equal(t, "Alice", data.DisplayName)
	assert.JSONEq(t, string(offer), string(data.Signal))

	// No synthesized rejection when the ring lands
	assert.Nil(t, aliceConn.lastEvent(EvtCallRejected))
}

func TestCalls_OfflineCalleeSynthesizesReject(t *testing.T) {
	s := testServer(newFakeMessageStore(), newFakePresenceStore())
	alice, aliceConn := connect(s, 1, "Alice")

	err := s.calls.CallUser(context.Background(), alice, &CallData{To: 2})
	require.NoError(t, err)

	reject := aliceConn.lastEvent(EvtCallRejected)
	require.NotNil(t, reject)
	var data CallRejectedData
	require.NoError(t, Decode(reject.Data, &data))
	assert.Equal(t, int64(2), data.UserId)
	assert.Equal(t, CallRejectedOffline, data.Reason)
}

func TestCalls_CalleeDropsMidRing(t *testing.T) {
	s := testServer(newFakeMessageStore(), newFakePresenceStore())
	alice, aliceConn := connect(s, 1, "Alice")
	_, bobConn := connect(s, 2, "Bob")

	bobConn.failWrites()

	err := s.calls.CallUser(context.Background(), alice, &CallData{To: 2})
	require.NoError(t, err)

	reject := aliceConn.lastEvent(EvtCallRejected)
	require.NotNil(t, reject)
	var data CallRejectedData
	require.NoError(t, Decode(reject.Data, &data))
	assert.Equal(t, CallRejectedOffline, data.Reason)
}

func TestCalls_AcceptForwardsAnswer(t *testing.T) {
	s := testServer(newFakeMessageStore(), newFakePresenceStore())
	_, aliceConn := connect(s, 1, "Alice")
	bob, _ := connect(s, 2, "Bob")

	answer := json.RawMessage(`{"sdp":"answer-blob"}`)
	err := s.calls.AcceptCall(context.Background(), bob, &CallData{To: 1, Signal: answer})
	require.NoError(t, err)

	accepted := aliceConn.lastEvent(EvtCallAccepted)
	require.NotNil(t, accepted)
	var data CallAcceptedData
	require.NoError(t, Decode(accepted.Data, &data))
	assert.Equal(t, int64(2), data.From)
	assert.JSONEq(t, string(answer), string(data.Signal))
}

func TestCalls_RejectUsesDeclinedReason(t *testing.T) {
	s := testServer(newFakeMessageStore(), newFakePresenceStore())
	_, aliceConn := connect(s, 1, "Alice")
	bob, _ := connect(s, 2, "Bob")

	err := s.calls.RejectCall(context.Background(), bob, &CallTargetData{To: 1})
	require.NoError(t, err)

	reject := aliceConn.lastEvent(EvtCallRejected)
	require.NotNil(t, reject)
	var data CallRejectedData
	require.NoError(t, Decode(reject.Data, &data))
	assert.Equal(t, int64(2), data.UserId)
	assert.Equal(t, CallRejectedDeclined, data.Reason)
}

func TestCalls_EndCall(t *testing.T) {
	s := testServer(newFakeMessageStore(), newFakePresenceStore())
	alice, _ := connect(s, 1, "Alice")
	_, bobConn := connect(s, 2, "Bob")

	err := s.calls.EndCall(context.Background(), alice, &CallTargetData{To: 2})
	require.NoError(t, err)

	ended := bobConn.lastEvent(EvtCallEnded)
	require.NotNil(t, ended)
	var data CallEndedData
	require.NoError(t, Decode(ended.Data, &data))
	assert.Equal(t, int64(1), data.UserId)
}

func TestCalls_IceForward(t *testing.T) {
	s := testServer(newFakeMessageStore(), newFakePresenceStore())
	alice, _ := connect(s, 1, "Alice")
	_, bobConn := connect(s, 2, "Bob")

	candidate := json.RawMessage(`{"candidate":"host 10.0.0.1"}`)
	err := s.calls.ForwardIce(context.Background(), alice, &IceCandidateData{To: 2, Candidate: candidate})
	require.NoError(t, err)

	fwd := bobConn.lastEvent(EvtIceCandidate)
	require.NotNil(t, fwd)
	var data IceForwardData
	require.NoError(t, Decode(fwd.Data, &data))
	assert.Equal(t, int64(1), data.From)
	assert.JSONEq(t, string(candidate), string(data.Candidate))
}

func TestCalls_SilentDropsForGonePeers(t *testing.T) {
	s := testServer(newFakeMessageStore(), newFakePresenceStore())
	alice, aliceConn := connect(s, 1, "Alice")

	// Everything except the initial ring drops silently
	assert.NoError(t, s.calls.AcceptCall(context.Background(), alice, &CallData{To: 5}))
	assert.NoError(t, s.calls.RejectCall(context.Background(), alice, &CallTargetData{To: 5}))
	assert.NoError(t, s.calls.EndCall(context.Background(), alice, &CallTargetData{To: 5}))
	assert.NoError(t, s.calls.ForwardIce(context.Background(), alice, &IceCandidateData{To: 5}))

	assert.Nil(t, aliceConn.lastEvent(EvtCallRejected))
	assert.Nil(t, aliceConn.lastEvent(EvtError))
}
