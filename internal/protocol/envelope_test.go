package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType string
		wantErr  bool
	}{
		{name: "valid", raw: `{"type":"chat","data":{"text":"hi"}}`, wantType: "chat"},
		{name: "no data", raw: `{"type":"stopTalk"}`, wantType: "stopTalk"},
		{name: "not json", raw: `hello`, wantErr: true},
		{name: "missing type", raw: `{"data":{}}`, wantErr: true},
		{name: "empty type", raw: `{"type":"","data":{}}`, wantErr: true},
		{name: "empty input", raw: ``, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := DecodeEnvelope([]byte(tt.raw))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedFrame)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, env.Type)
		})
	}
}

func TestDecodeData(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"type":"chat","data":{"text":"hi","target":"ALL"}}`))
	require.NoError(t, err)

	var cmd ChatCmd
	require.NoError(t, DecodeData(env, &cmd))
	assert.Equal(t, "hi", cmd.Text)
	assert.Equal(t, TargetAll, cmd.Target)

	empty := Envelope{Type: "chat"}
	require.ErrorIs(t, DecodeData(empty, &cmd), ErrMalformedFrame)

	bad := Envelope{Type: "vote", Data: []byte(`{"optionIndex":"nope"}`)}
	var vote VoteCmd
	require.ErrorIs(t, DecodeData(bad, &vote), ErrMalformedFrame)
}

func TestEncodeRoundTrip(t *testing.T) {
	frame := Encode(NotifyChat, map[string]string{"text": "hello"})
	require.NotNil(t, frame)

	env, err := DecodeEnvelope(frame)
	require.NoError(t, err)
	assert.Equal(t, NotifyChat, env.Type)

	var payload map[string]string
	require.NoError(t, DecodeData(env, &payload))
	assert.Equal(t, "hello", payload["text"])
}

func TestErrorAndSystemFrames(t *testing.T) {
	env, err := DecodeEnvelope(ErrorFrame("nope"))
	require.NoError(t, err)
	assert.Equal(t, NotifyError, env.Type)
	assert.JSONEq(t, `{"message":"nope"}`, string(env.Data))

	env, err = DecodeEnvelope(SystemFrame("You are now the Housemaster!"))
	require.NoError(t, err)
	assert.Equal(t, NotifySystem, env.Type)
}

func TestSignalCmdRecipient(t *testing.T) {
	assert.Equal(t, "bob", SignalCmd{To: "bob", Target: "ALL"}.Recipient())
	assert.Equal(t, "ALL", SignalCmd{Target: "ALL"}.Recipient())
	assert.Equal(t, "", SignalCmd{}.Recipient())
}
