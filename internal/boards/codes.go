package boards

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// Board codes are read off a scoreboard screen, so the alphabet leaves out
// 0, O, 1, I and L.
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const (
	codeLength   = 4
	codeAttempts = 10
)

var ErrCodesExhausted = errors.New("no free board code")

// GenerateCode returns one random board code.
func GenerateCode() (string, error) {
	code := make([]byte, codeLength)
	size := big.NewInt(int64(len(alphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}

// freeCode draws codes until one is not taken by a live board.
func freeCode(taken func(code string) bool) (string, error) {
	for range codeAttempts {
		code, err := GenerateCode()
		if err != nil {
			return "", err
		}
		if !taken(code) {
			return code, nil
		}
	}
	return "", ErrCodesExhausted
}
