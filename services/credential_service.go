package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CredentialService hashes and verifies member passwords.
//
// New digests are bcrypt. Verify also accepts the two sha256 layouts left
// over from before the bcrypt migration: the plain hex digest, and the hex
// digest of the hex digest (rows that were hashed a second time during the
// first migration attempt). Both legacy paths are a compatibility shim for
// existing rows only; new records never get them.
type CredentialService struct {
	cost int
}

func NewCredentialService() *CredentialService {
	return &CredentialService{cost: bcrypt.DefaultCost}
}

func (s *CredentialService) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (s *CredentialService) Verify(password, storedDigest string) bool {
	if strings.HasPrefix(storedDigest, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(storedDigest), []byte(password)) == nil
	}

	single := sha256Hex([]byte(password))
	if subtle.ConstantTimeCompare([]byte(single), []byte(storedDigest)) == 1 {
		return true
	}
	double := sha256Hex([]byte(single))
	return subtle.ConstantTimeCompare([]byte(double), []byte(storedDigest)) == 1
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
