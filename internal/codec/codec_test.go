package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCommandSet(t *testing.T) {
	cmd := Command{Op: OpSet, Key: "hello", Value: "world"}
	got := string(EncodeCommand(cmd))
	assert.Equal(t, "Set#\r\nkey:+5+hello\r\nvalue:+5+world\r\n\r\n", got)
}

func TestDecodeCommandRoundTrip(t *testing.T) {
	cases := []Command{
		{Op: OpSet, Key: "hello", Value: "world"},
		{Op: OpSet, Key: "k", Value: ""},
		{Op: OpRemove, Key: "hello"},
	}

	for _, want := range cases {
		encoded := EncodeCommand(want)
		got, err := DecodeCommand(encoded)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestDecodeCommandTrailingBytesRejected(t *testing.T) {
	encoded := EncodeCommand(Command{Op: OpRemove, Key: "k"})
	_, err := DecodeCommand(append(encoded, 'x'))
	require.Error(t, err)
}

func TestDecodeCommandUnknownTag(t *testing.T) {
	_, err := DecodeCommand([]byte("Bogus#\r\n\r\n"))
	require.Error(t, err)
}

func TestRequestRoundTrip(t *testing.T) {
	cases := []Request{
		{Op: ReqSet, Key: "k1", Value: "v1"},
		{Op: ReqGet, Key: "k1"},
		{Op: ReqRm, Key: "k1"},
	}

	for _, want := range cases {
		got, err := DecodeRequest(EncodeRequest(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestResponseRoundTripSuccessWithValue(t *testing.T) {
	value := "v1"
	want := Response{Success: true, Result: &value}
	got, err := DecodeResponse(EncodeResponse(want))
	require.NoError(t, err)
	require.NotNil(t, got.Result)
	assert.Equal(t, value, *got.Result)
	assert.True(t, got.Success)
}

func TestResponseRoundTripSuccessNone(t *testing.T) {
	want := Response{Success: true, Result: nil}
	got, err := DecodeResponse(EncodeResponse(want))
	require.NoError(t, err)
	assert.Nil(t, got.Result)
	assert.True(t, got.Success)
}

func TestResponseNoneDoesNotCollideWithEmptyString(t *testing.T) {
	empty := ""
	withEmpty := Response{Success: true, Result: &empty}
	withNone := Response{Success: true, Result: nil}

	assert.NotEqual(t, string(EncodeResponse(withEmpty)), string(EncodeResponse(withNone)))

	gotEmpty, err := DecodeResponse(EncodeResponse(withEmpty))
	require.NoError(t, err)
	require.NotNil(t, gotEmpty.Result)
	assert.Equal(t, "", *gotEmpty.Result)

	gotNone, err := DecodeResponse(EncodeResponse(withNone))
	require.NoError(t, err)
	assert.Nil(t, gotNone.Result)
}

func TestResponseRoundTripFail(t *testing.T) {
	want := Response{Success: false, Message: "key not found"}
	got, err := DecodeResponse(EncodeResponse(want))
	require.NoError(t, err)
	assert.False(t, got.Success)
	assert.Equal(t, "key not found", got.Message)
}
