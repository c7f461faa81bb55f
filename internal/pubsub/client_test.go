package pubsub

import (
	"testing"

	"github.com/mauv0809/atr-tennis/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestDecode_CompletionPayload(t *testing.T) {
	tb := 7
	in := scoring.CompletionPayload{
		MatchID:  "m1",
		EventID:  "e1",
		WinnerID: "a",
		LoserID:  "b",
		ScoreSummary: scoring.ScoreSummary{Sets: []scoring.OrientedSet{
			{TeamA: 6, TeamB: 3},
			{TeamA: 7, TeamB: 6, TiebreakA: &tb},
		}},
	}
	data, err := msgpack.Marshal(in)
	require.NoError(t, err)

	var out scoring.CompletionPayload
	require.NoError(t, NewMock().ProcessMessage(data, &out))
	assert.Equal(t, in, out)
}

func TestDecode_Garbage(t *testing.T) {
	var out scoring.CompletionPayload
	assert.Error(t, Decode([]byte{0xc1}, &out))
}
