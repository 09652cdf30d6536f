package crypto

import "github.com/alexedwards/argon2id"

// HashAdminCode derives the argon2id hash stored in ADMIN_CODE_HASH.
func HashAdminCode(code string) (string, error) {
	return argon2id.CreateHash(code, argon2id.DefaultParams)
}

// VerifyAdminCode compares a submitted admin code against the configured
// hash. Returns false on any parse or comparison failure.
func VerifyAdminCode(hash, code string) bool {
	match, err := argon2id.ComparePasswordAndHash(code, hash)
	return err == nil && match
}
