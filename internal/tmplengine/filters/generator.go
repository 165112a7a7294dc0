package filters

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

const randomStringAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// UUID4 returns a new random (version 4) UUID, grounded on the original
// implementation's utility_functions.rs generator helpers.
func UUID4() string {
	return uuid.New().String()
}

// RandomString returns a random alphanumeric string of length n, drawn from
// crypto/rand so the value is unsuitable as a secret only by virtue of its
// short default use (template placeholders, not credentials).
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	out := make([]byte, n)
	max := big.NewInt(int64(len(randomStringAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = randomStringAlphabet[idx.Int64()]
	}
	return string(out), nil
}

// GeneratorFuncMap returns the generator-domain filters for registration
// with the template engine.
func GeneratorFuncMap() map[string]interface{} {
	return map[string]interface{}{
		"uuid4":         UUID4,
		"random_string": RandomString,
	}
}
