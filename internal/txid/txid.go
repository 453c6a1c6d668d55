// Package txid produces compact, collision-resistant transaction identifiers
// used as idempotency and display keys for payments.
package txid

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	userDigestBytes = 4
	uuidSliceChars  = 16
)

// Generator builds transaction identifiers. The zero value is not usable;
// construct with NewGenerator. Clock and UUID sources are injectable for
// tests.
type Generator struct {
	now     func() time.Time
	newUUID func() uuid.UUID
}

// NewGenerator returns a Generator using the wall clock and random UUIDs.
// uuid.New panics if the OS entropy source fails; identifier generation must
// abort rather than degrade to a guessable scheme.
func NewGenerator() *Generator {
	return &Generator{now: time.Now, newUUID: uuid.New}
}

// NewGeneratorAt builds a Generator with explicit clock and UUID sources.
func NewGeneratorAt(now func() time.Time, newUUID func() uuid.UUID) *Generator {
	return &Generator{now: now, newUUID: newUUID}
}

// Generate returns a new transaction id for userID. The id concatenates an
// 8-hex-char digest of the lower-cased user id (stable per user, so related
// transactions group visually), the issue time in base-36 milliseconds, and
// 16 hex chars of a random UUID.
func (g *Generator) Generate(userID string) string {
	digest := sha256.Sum256([]byte(strings.ToLower(userID)))
	prefix := hex.EncodeToString(digest[:userDigestBytes])

	stamp := strconv.FormatInt(g.now().UnixMilli(), 36)

	random := strings.ReplaceAll(g.newUUID().String(), "-", "")[:uuidSliceChars]

	return prefix + stamp + random
}

// UserPrefix returns the stable 8-char digest segment for userID, matching
// the prefix of every id Generate produces for that user.
func UserPrefix(userID string) string {
	digest := sha256.Sum256([]byte(strings.ToLower(userID)))
	return hex.EncodeToString(digest[:userDigestBytes])
}
