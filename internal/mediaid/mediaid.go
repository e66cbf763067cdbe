package mediaid

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// Generator returns a new media ID.
type Generator func() string

// New returns a lowercase ULID: a millisecond timestamp followed by random bits.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return strings.ToLower(id.String())
}

// IsValid reports whether value parses as a media ID.
func IsValid(value string) bool {
	_, err := Parse(value)
	return err == nil
}

func Parse(value string) (ulid.ULID, error) {
	return ulid.ParseStrict(strings.ToUpper(strings.TrimSpace(value)))
}
