package auditing

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	codeLength      = 6
	maxCodeAttempts = 100
)

// ErrCodeSpaceExhausted is returned when rejection sampling fails to find a
// free code within the attempt bound. With a 36^6 code space this only
// happens when the exists callback is broken or the table is absurdly full.
var ErrCodeSpaceExhausted = errors.New("could not find an unused audit entry code")

var codeRunes = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// GenerateEntryCode draws 6 character uppercase alphanumeric codes until
// one is found that the exists predicate does not know, bounded by a
// maximum attempt count.
func GenerateEntryCode(exists func(code string) (bool, error)) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := randomCode(codeLength)
		if code == "" {
			continue
		}

		taken, err := exists(code)
		if err != nil {
			return "", err
		}

		if !taken {
			return code, nil
		}
	}

	return "", ErrCodeSpaceExhausted
}

func randomCode(count int) string {
	if count < 0 {
		return ""
	}

	res := make([]rune, count)

	for i := 0; i < count; i++ {
		rnd, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeRunes))))
		if err != nil {
			return ""
		}

		res[i] = codeRunes[rnd.Int64()]
	}

	return string(res)
}
