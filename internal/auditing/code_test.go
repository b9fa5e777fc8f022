package auditing

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomCode(t *testing.T) {
	tests := []struct {
		name              string
		inputCount        int
		expectedStringLen int
	}{
		{
			name:              "Should return string with len 6",
			inputCount:        6,
			expectedStringLen: 6,
		},
		{
			name:              "Should return empty string when len is negative",
			inputCount:        -1,
			expectedStringLen: 0,
		},
		{
			name:              "Should return empty string when len is zero",
			inputCount:        0,
			expectedStringLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := randomCode(tt.inputCount)

			require.Len(t, res, tt.expectedStringLen)
			if tt.expectedStringLen > 0 {
				require.Regexp(t, regexp.MustCompile("^[A-Z0-9]+$"), res)
			}
		})
	}
}

func TestGenerateEntryCodeNeverReturnsADuplicate(t *testing.T) {
	existing := make(map[string]struct{})

	exists := func(code string) (bool, error) {
		_, ok := existing[code]
		return ok, nil
	}

	for i := 0; i < 10000; i++ {
		code, err := GenerateEntryCode(exists)
		require.NoError(t, err)
		require.Len(t, code, codeLength)
		require.NotContains(t, existing, code)

		existing[code] = struct{}{}
	}
}

func TestGenerateEntryCodeSkipsCollisions(t *testing.T) {
	calls := 0
	exists := func(code string) (bool, error) {
		calls++
		// report the first two draws as taken
		return calls <= 2, nil
	}

	code, err := GenerateEntryCode(exists)
	require.NoError(t, err)
	require.Len(t, code, codeLength)
	require.Equal(t, 3, calls)
}

func TestGenerateEntryCodeGivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	exists := func(code string) (bool, error) {
		calls++
		return true, nil
	}

	_, err := GenerateEntryCode(exists)
	require.ErrorIs(t, err, ErrCodeSpaceExhausted)
	require.Equal(t, maxCodeAttempts, calls)
}

func TestGenerateEntryCodePropagatesLookupErrors(t *testing.T) {
	boom := errors.New("boom")
	exists := func(code string) (bool, error) {
		return false, boom
	}

	_, err := GenerateEntryCode(exists)
	require.ErrorIs(t, err, boom)
}
