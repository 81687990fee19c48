package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password with configured cost, clamped to bcrypt's range.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), clampCost(cost))
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// DecoyHash hashes an unusable password at the same cost HashPassword uses,
// so comparing against it takes as long as checking a real account.
func DecoyHash(cost int) (string, error) {
	return HashPassword("unusable-password", cost)
}

// BurnPasswordCheck runs a comparison against decoy that always fails.
func BurnPasswordCheck(decoy, plain string) {
	_ = bcrypt.CompareHashAndPassword([]byte(decoy), []byte(plain))
}

func clampCost(cost int) int {
	if cost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		return bcrypt.MaxCost
	}
	return cost
}
