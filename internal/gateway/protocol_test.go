package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Envelope(t *testing.T) {
	frame, err := Encode(EvtUnreadUpdate, &UnreadUpdateData{From: 3, Count: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"unreadUpdate","data":{"from":3,"count":2}}`, string(frame))
}

func TestEncode_NilPayload(t *testing.T) {
	frame, err := Encode(EvtSessionReplaced, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"sessionReplaced"}`, string(frame))
}

// unreadCounts carries an id-keyed map; int64 keys must round-trip
// through JSON object keys, which are strings on the wire.
func TestEncode_UnreadCountsKeys(t *testing.T) {
	frame, err := Encode(EvtUnreadCounts, map[int64]int{7: 3, 12: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"unreadCounts","data":{"7":3,"12":1}}`, string(frame))

	var evt Event
	require.NoError(t, Decode(frame, &evt))
	var counts map[int64]int
	require.NoError(t, Decode(evt.Data, &counts))
	assert.Equal(t, map[int64]int{7: 3, 12: 1}, counts)
}
