package uniuri

import (
	"crypto/rand"
)

// StdLen gives about 95 bits of entropy with StdChars.
const StdLen = 16

// StdChars are the characters of generated strings.
var StdChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// New returns a random string of StdLen characters.
func New() string {
	return NewLenChars(StdLen, StdChars)
}

// NewLen returns a random string of length characters.
func NewLen(length int) string {
	return NewLenChars(length, StdChars)
}

// NewLenChars returns a random string of length characters taken from
// chars, which must hold between 2 and 256 entries. Random bytes above the
// largest multiple of len(chars) are dropped so every character is equally
// likely.
func NewLenChars(length int, chars []byte) string {
	if length <= 0 {
		return ""
	}

	n := len(chars)
	if n < 2 || n > 256 {
		panic("uniuri: charset must hold between 2 and 256 characters")
	}

	limit := 256 - 256%n
	out := make([]byte, 0, length)
	buf := make([]byte, length+length/2)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			panic("uniuri: reading random bytes: " + err.Error())
		}

		for _, b := range buf {
			if int(b) >= limit {
				continue
			}

			out = append(out, chars[int(b)%n])
			if len(out) == length {
				break
			}
		}
	}

	return string(out)
}
