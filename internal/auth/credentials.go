package auth

import "golang.org/x/crypto/bcrypt"

// CredentialScheme turns a password into its stored form and checks a login
// attempt against it. The scheme is fixed at construction and never visible
// to callers of Service, so swapping it touches no call sites.
type CredentialScheme interface {
	Hash(password string) (string, error)
	Compare(stored, password string) bool
}

// Plaintext stores passwords as-is. It exists only to mirror the demo mock
// it replaces and must never be wired into a real deployment; use Bcrypt.
type Plaintext struct{}

func (Plaintext) Hash(password string) (string, error) {
	return password, nil
}

func (Plaintext) Compare(stored, password string) bool {
	return stored == password
}

// Bcrypt stores bcrypt digests. Zero Cost means bcrypt.DefaultCost.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	raw, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (b Bcrypt) Compare(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
