package rowcodec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeDate(t *testing.T) {
	// 1981-02-20 00:00:00
	got, err := DecodeDate([]byte{119, 181, 2, 20, 1, 1, 1})
	require.NoError(t, err)
	require.Equal(t, time.Date(1981, time.February, 20, 0, 0, 0, 0, time.UTC), got)

	// 2018-05-23 14:34:07
	got, err = DecodeDate([]byte{120, 118, 5, 23, 15, 35, 8})
	require.NoError(t, err)
	require.Equal(t, time.Date(2018, time.May, 23, 14, 34, 7, 0, time.UTC), got)
}

func TestDecodeDateRejectsMalformed(t *testing.T) {
	cases := []struct {
		name  string
		bytes []byte
	}{
		{"short", []byte{119, 181, 2}},
		{"month zero", []byte{119, 181, 0, 20, 1, 1, 1}},
		{"month thirteen", []byte{119, 181, 13, 20, 1, 1, 1}},
		{"february thirtieth", []byte{119, 181, 2, 30, 1, 1, 1}},
		{"hour overflow", []byte{119, 181, 2, 20, 30, 1, 1}},
		{"second underflow", []byte{119, 181, 2, 20, 1, 1, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeDate(tc.bytes)
			require.Error(t, err)
		})
	}
}
