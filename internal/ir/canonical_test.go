package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeysAndSkipsWhitespace(t *testing.T) {
	obj := Object{
		"tip":      Int(6),
		"order_id": String("order-1"),
		"ingredients": Array{
			String("tomato"),
			String("onion"),
		},
		"matched": Bool(true),
	}

	got, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"ingredients":["tomato","onion"],"matched":true,"order_id":"order-1","tip":6}`, string(got))
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	got, err := MarshalCanonical(Object{"note": String("a<b & c>d")})
	require.NoError(t, err)
	assert.Equal(t, `{"note":"a<b & c>d"}`, string(got))
}

func TestMarshalCanonical_NFCNormalises(t *testing.T) {
	// "e" + combining acute accent normalises to the precomposed rune.
	got, err := MarshalCanonical(String("cafe\u0301"))
	require.NoError(t, err)
	assert.Equal(t, "\"caf\u00e9\"", string(got))
}

func TestMarshalCanonical_LineSeparatorsStayLiteral(t *testing.T) {
	got, err := MarshalCanonical(String("a\u2028b"))
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(got))
}

func TestMarshalCanonical_RejectsFloatsAndNull(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"ratio": 0.8})
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"order": nil})
	assert.Error(t, err)
}

func TestMarshalCanonical_AcceptsPlainGoShapes(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"seq":   int64(3),
		"kind":  "order.spawned",
		"items": []any{"tomato", 2},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"items":["tomato",2],"kind":"order.spawned","seq":3}`, string(got))
}

func TestMillis(t *testing.T) {
	assert.Equal(t, Int(1500), Millis(1500*time.Millisecond))
	assert.Equal(t, Int(0), Millis(999*time.Microsecond))
}

func TestEventID_Deterministic(t *testing.T) {
	key := EventKey{Session: "session-1", Seq: 7, Tick: 3, Kind: "order.delivered", Subject: "order-1", Payload: Object{"tip": Int(4)}}

	a, err := EventID(key)
	require.NoError(t, err)
	clone := key
	clone.Payload = key.Payload.Clone()
	b, err := EventID(clone)
	require.NoError(t, err)
	next := key
	next.Seq = 8
	c, err := EventID(next)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
