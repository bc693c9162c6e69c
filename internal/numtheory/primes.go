package numtheory

// PrimesUpTo returns every prime p <= limit in ascending order
// (sieve of Eratosthenes).
func PrimesUpTo(limit int64) []int64 {
	if limit < 2 {
		return nil
	}

	composite := make([]bool, limit+1)
	for i := int64(2); i*i <= limit; i++ {
		if composite[i] {
			continue
		}
		for j := i * i; j <= limit; j += i {
			composite[j] = true
		}
	}

	primes := make([]int64, 0, limit/4+1)
	for i := int64(2); i <= limit; i++ {
		if !composite[i] {
			primes = append(primes, i)
		}
	}
	return primes
}
