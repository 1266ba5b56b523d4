package seats

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The hold scripts must be addressed by their SHA1 digest so EVALSHA hits
// the server-side cache that PreloadScripts fills at boot.
func TestSeatScriptsAreDigestAddressed(t *testing.T) {
	holdSum := sha1.Sum([]byte(luaAtomicSeatHold))
	assert.Equal(t, hex.EncodeToString(holdSum[:]), seatHoldScript.Hash())

	releaseSum := sha1.Sum([]byte(luaAtomicSeatRelease))
	assert.Equal(t, hex.EncodeToString(releaseSum[:]), seatReleaseScript.Hash())
}
