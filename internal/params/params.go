package params

const (
	SecParam = 256
	SecBytes = SecParam / 8

	// BitsBlumPrime is the size of each Paillier prime factor p ≡ q ≡ 3 (mod 4).
	BitsBlumPrime = 4 * SecParam      // = 1024
	BitsPaillier  = 2 * BitsBlumPrime // = 2048

	BytesPaillier   = BitsPaillier / 8  // = 256
	BytesCiphertext = 2 * BytesPaillier // = 512

	// BitsBlumPrimeTest is the factor size used by test fixtures, where a full
	// 1024-bit prime search would dominate the suite's runtime.
	BitsBlumPrimeTest = 512
)
