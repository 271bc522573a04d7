package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBundle(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		files   int
		wantErr bool
	}{
		{name: "single file", data: `{"files":[{"fileName":"a.txt","fileData":"data:text/plain;base64,YQ==","fileSize":1}]}`, files: 1},
		{name: "empty list", data: `{"files":[]}`, files: 0},
		{name: "missing files", data: `{}`, wantErr: true},
		{name: "null files", data: `{"files":null}`, wantErr: true},
		{name: "nameless file", data: `{"files":[{"fileData":"data:,","fileSize":0}]}`, wantErr: true},
		{name: "negative size", data: `{"files":[{"fileName":"a","fileSize":-1}]}`, wantErr: true},
		{name: "not an object", data: `"ABC123"`, wantErr: true},
		{name: "no payload", data: ``, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseBundle(json.RawMessage(tc.data))
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrBadRequest)
				return
			}

			require.NoError(t, err)
			assert.Len(t, b.Files, tc.files)
		})
	}
}

func TestParseCodeUpdate(t *testing.T) {
	u, err := ParseCodeUpdate(json.RawMessage(`{"roomCode":"ABC123","code":"hello"}`))
	require.NoError(t, err)
	assert.Equal(t, &CodeUpdate{RoomCode: "ABC123", Code: "hello"}, u)

	u, err = ParseCodeUpdate(json.RawMessage(`{"roomCode":"ABC123","code":""}`))
	require.NoError(t, err)
	assert.Equal(t, "", u.Code)

	for _, data := range []string{``, `{}`, `{"code":"x"}`, `{"roomCode":"ABC123"}`, `[1,2]`} {
		_, err := ParseCodeUpdate(json.RawMessage(data))
		assert.ErrorIs(t, err, ErrBadRequest, data)
	}
}

func TestDecodeString(t *testing.T) {
	s, err := DecodeString(json.RawMessage(`"ABC123"`))
	require.NoError(t, err)
	assert.Equal(t, "ABC123", s)

	_, err = DecodeString(json.RawMessage(`{"code":"ABC123"}`))
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = DecodeString(nil)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestWSMessage(t *testing.T) {
	b, err := NewWSMessage(WSEventCodeUpdate, "hello")
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"code_update","data":"hello"}`, string(b))

	b, err = NewWSMessage(WSEventCodeSessionJoined, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"code_session_joined"}`, string(b))

	m, err := ParseWSMessage([]byte(`{"event":"join_room","data":"ABC123"}`))
	require.NoError(t, err)
	assert.Equal(t, WSEventJoinRoom, m.Event)
	assert.JSONEq(t, `"ABC123"`, string(m.Data))

	_, err = ParseWSMessage([]byte(`{"data":"ABC123"}`))
	assert.Error(t, err)

	_, err = ParseWSMessage([]byte(`not json`))
	assert.Error(t, err)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrorKindNotFound, KindOf(fmt.Errorf("%w: invalid key", ErrNotFound)))
	assert.Equal(t, ErrorKindAlreadyExists, KindOf(fmt.Errorf("%w: room", ErrAlreadyExists)))
	assert.Equal(t, ErrorKindBadRequest, KindOf(ErrBadRequest))
	assert.Equal(t, ErrorKindInternal, KindOf(errors.New("boom")))
}
