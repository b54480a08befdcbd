package invitation

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/pkg/errors"
)

var (
	NowFunc = time.Now // mockable

	// uppercase letters and digits, minus the easily confused I/L/O/0/1;
	// tokens stay human-typeable and safe to read out loud.
	tokenAlphabet = []byte("ABCDEFGHJKMNPQRSTUVWXYZ23456789")
)

// generateToken draws a fixed-length random token from the unambiguous
// alphabet. No uniqueness check is performed at issuance; collisions are
// tolerated downstream by matcher ordering and enrollment idempotency.
func generateToken(length int) (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.Wrap(err, "generating invitation token")
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}
