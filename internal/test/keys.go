// Package test provides fixtures shared by the package test suites:
// precomputed Paillier factors, so that no test pays for a prime search,
// and a parallel driver for exercising the serialized game aggregate.
package test

import (
	"math/big"
	"sync"

	"github.com/verihouse/verihouse/pkg/paillier"
)

// Precomputed 512-bit Blum primes (p ≡ q ≡ 3 mod 4).
const (
	pDec1 = "7712906573843947200319659089498578633384710534318309971525132930270474973034971298574896240518497387873397296046744972460090671238265399491857002726613071"
	qDec1 = "11942099922338366023907833238283246076478656640534177455701033938402953770342292692937938968211281340867053060042336583394481354849192944128072263626293247"
	pDec2 = "8130152300067736723968453490845316755891067849054598176270188679148278413967901332577714077711434243209247791834634032956986442542609272574620025312334211"
	qDec2 = "10203181110630708837204251789667394276604469389754639844181162526508284588197906005687294764734406934570670340384063862075413549785368464436137665151123883"
)

var (
	once sync.Once
	sk1  *paillier.SecretKey
	sk2  *paillier.SecretKey
)

func initKeys() {
	once.Do(func() {
		var err error
		sk1, err = paillier.NewSecretKey(mustInt(pDec1), mustInt(qDec1))
		if err != nil {
			panic(err)
		}
		sk2, err = paillier.NewSecretKey(mustInt(pDec2), mustInt(qDec2))
		if err != nil {
			panic(err)
		}
	})
}

// PaillierKey returns a fixed key pair derived from precomputed primes.
func PaillierKey() (*paillier.PublicKey, *paillier.SecretKey) {
	initKeys()
	return sk1.PublicKey, sk1
}

// OtherPaillierKey returns a second, distinct fixed key pair.
func OtherPaillierKey() (*paillier.PublicKey, *paillier.SecretKey) {
	initKeys()
	return sk2.PublicKey, sk2
}

func mustInt(dec string) *big.Int {
	v, ok := new(big.Int).SetString(dec, 10)
	if !ok {
		panic("test: invalid integer constant")
	}
	return v
}
