package password

import (
	"github.com/alexedwards/argon2id"
)

// Hash returns a PHC string like `$argon2id$v=19$m=131072,t=3,p=1$...`
func Hash(plain string, p Params) (string, error) {
	return argon2id.CreateHash(plain, p.argon())
}

// Verify checks plain against a PHC hash.
func Verify(plain, phc string) (bool, error) {
	return argon2id.ComparePasswordAndHash(plain, phc)
}

// Weaker reports whether phc was produced with parameters below p.
func Weaker(phc string, p Params) bool {
	stored, _, _, err := argon2id.DecodeHash(phc)
	if err != nil {
		// Can't parse: treat as weak.
		return true
	}
	return stored.Memory < p.Memory ||
		stored.Iterations < p.Iterations ||
		stored.Parallelism < p.Parallelism ||
		stored.SaltLength < p.SaltLength ||
		stored.KeyLength < p.KeyLength
}
