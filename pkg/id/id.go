// Package id generates opaque, time-sortable identifiers.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// AccountPrefix starts every account identifier.
const AccountPrefix = "acc_"

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	// Monotonic entropy keeps ids minted in the same millisecond ordered.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string stamped with the current time.
func New() string {
	return at(time.Now())
}

// at returns a ULID string stamped with t.
func at(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	v, err := ulid.New(ulid.Timestamp(t.UTC()), mono)
	if err != nil {
		panic(err)
	}
	return v.String()
}

// Account returns a new account identifier, e.g. "acc_01hx3...".
func Account() string {
	return AccountPrefix + strings.ToLower(New())
}

// Time extracts the creation time from an identifier made by this package.
func Time(s string) (time.Time, error) {
	v, err := ulid.ParseStrict(strings.ToUpper(strings.TrimPrefix(s, AccountPrefix)))
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(v.Time()), nil
}
