// Package draw selects giveaway winners.
package draw

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Pick selects min(count, len(participants)) distinct winners uniformly at
// random. The input slice is never mutated. An empty participant set yields
// an empty result with no error.
func Pick(participants []string, count int) ([]string, error) {
	if len(participants) == 0 || count <= 0 {
		return []string{}, nil
	}

	pool := make([]string, len(participants))
	copy(pool, participants)
	if err := shuffle(pool); err != nil {
		return nil, err
	}

	if count > len(pool) {
		count = len(pool)
	}
	return pool[:count], nil
}

// shuffle performs a Fisher-Yates shuffle driven by crypto/rand. Selection
// fairness only needs uniformity, but the system entropy source is cheap at
// this call rate and avoids seeding concerns.
func shuffle(pool []string) error {
	for i := len(pool) - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("failed to generate random index: %w", err)
		}
		j := int(jBig.Int64())
		pool[i], pool[j] = pool[j], pool[i]
	}
	return nil
}
