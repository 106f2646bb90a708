package synctoken

import (
	"encoding/base64"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeRaw(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestProperty_V2IntegerSecondsRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("v2 token of T seconds decodes to T*1e6 micros", prop.ForAll(
		func(secs int64) bool {
			tok, err := Decode(encodeRaw("2:" + strconv.FormatInt(secs, 10)))
			if err != nil {
				return false
			}
			return tok.Version == V2 && tok.Micro == secs*1_000_000
		},
		gen.Int64Range(0, 4_102_444_800),
	))

	properties.Property("Encode then Decode keeps microseconds", prop.ForAll(
		func(micro int64) bool {
			tok, err := Decode(Encode(micro))
			return err == nil && tok.Micro == micro
		},
		gen.Int64Range(0, 4_102_444_800_000_000),
	))

	properties.TestingRun(t)
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		micro int64
		want  string
	}{
		{name: "fraction", micro: 1616164633241568, want: "2:1616164633.241568"},
		{name: "trailing zeros trimmed", micro: 1616164633241000, want: "2:1616164633.241"},
		{name: "whole seconds", micro: 1616164633000000, want: "2:1616164633"},
		{name: "leading zero fraction", micro: 1616164633000005, want: "2:1616164633.000005"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, encodeRaw(tt.want), Encode(tt.micro))
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("v1 date string", func(t *testing.T) {
		tok, err := Decode(encodeRaw("1:2021-03-19T14:37:13.241Z"))
		require.NoError(t, err)
		assert.Equal(t, V1, tok.Version)
		assert.Equal(t, int64(1616164633241000), tok.Micro)
	})

	t.Run("v2 fractional seconds", func(t *testing.T) {
		tok, err := Decode(encodeRaw("2:1616164633.5"))
		require.NoError(t, err)
		assert.Equal(t, int64(1616164633500000), tok.Micro)
	})

	errCases := []struct {
		name  string
		token string
		want  error
	}{
		{name: "no version separator", token: encodeRaw("1616164633"), want: ErrMissingVersion},
		{name: "unknown version", token: encodeRaw("3:1616164633"), want: ErrMissingVersion},
		{name: "empty token payload", token: encodeRaw(""), want: ErrMissingVersion},
		{name: "v2 garbage", token: encodeRaw("2:abc"), want: ErrMalformedToken},
		{name: "v2 empty fraction", token: encodeRaw("2:12."), want: ErrMalformedToken},
		{name: "v1 garbage", token: encodeRaw("1:yesterday"), want: ErrMalformedToken},
		{name: "not base64", token: "!!!", want: ErrMalformedToken},
	}
	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
