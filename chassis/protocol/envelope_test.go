package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	t.Run("Should encode missing neighbours as null", func(t *testing.T) {
		env := &Envelope{Page: 1, Pages: 1, Count: 0}
		out, err := env.JSON()
		require.NoError(t, err)
		assert.JSONEq(t, `{"page":1,"pages":1,"next":null,"prev":null,"count":0,"blogs":[]}`, string(out))
	})

	t.Run("Should keep blog objects verbatim", func(t *testing.T) {
		next := 3
		prev := 1
		env := &Envelope{
			Page: 2, Pages: 3, Next: &next, Prev: &prev, Count: 25,
			Blogs: []json.RawMessage{json.RawMessage(`{"id":11,"tags":["go"]}`)},
		}
		out, err := env.JSON()
		require.NoError(t, err)

		decoded := &Envelope{}
		require.NoError(t, decoded.FromJSON(out))
		require.NotNil(t, decoded.Next)
		assert.Equal(t, 3, *decoded.Next)
		assert.Equal(t, 1, *decoded.Prev)
		assert.JSONEq(t, `{"id":11,"tags":["go"]}`, string(decoded.Blogs[0]))
		assert.Equal(t, "page=2 pages=3 next=3 prev=1 count=25 blogs=1", decoded.String())
	})
}

func TestErrorResponse(t *testing.T) {
	resp := NewErrorResponse(CodeNotFound, "blog 4 not found")
	out, err := resp.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":{"code":"not_found","message":"blog 4 not found"}}`, string(out))
	assert.Equal(t, "code=not_found message=blog 4 not found", resp.String())
}
