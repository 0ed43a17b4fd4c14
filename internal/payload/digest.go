// this file provides the MD5 content digest the service stores for each upload.
//
// MD5 is used as a content fingerprint here, not for security.

package payload

import (
	"crypto/md5" // #nosec G501 -- matches the digest algorithm of the service under test
	"encoding/hex"
	"strings"
)

// DigestLength is the length of a hex encoded MD5 digest
const DigestLength = md5.Size * 2

// Digest returns the uppercase hex MD5 digest of the payload bytes.
func Digest(payload string) string {
	sum := md5.Sum([]byte(payload)) // #nosec G401
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Matches reports whether stored is the digest of payload.
// The comparison is case-insensitive since services differ in the hex case they persist.
func Matches(stored, payload string) bool {
	return strings.EqualFold(stored, Digest(payload))
}
