// Package xid generates device-local identifiers for offline records.
//
// The primary tier is a random UUID. When the random source fails, a
// time-seeded string is used instead; the fallback only guarantees
// uniqueness on this device within ordinary clock resolution, which is the
// contract offline ids need — they are correlation handles, not secrets.
package xid

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

func New(prefix string) string {
	if id, err := uuid.NewRandom(); err == nil {
		return fmt.Sprintf("%s-%s", prefix, id.String())
	}
	seeded := rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("%s-%d-%06d", prefix, time.Now().UnixNano(), seeded.Intn(1000000))
}
