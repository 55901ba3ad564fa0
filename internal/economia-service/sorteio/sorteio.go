package sorteio

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
)

// Sorteio é a fonte de aleatoriedade dos jogos e da recompensa diária.
// Injetável para os testes fixarem resultados.
type Sorteio interface {
	// Intn devolve um inteiro uniforme em [0, n).
	Intn(n int) int
}

type fonte struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// Nova cria a fonte padrão, com semente vinda de crypto/rand.
// Semente de relógio seria previsível para quem conhece o horário do deploy.
func Nova() Sorteio {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("sorteio: sem entropia do sistema: " + err.Error())
	}
	return &fonte{rng: rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))}
}

func (f *fonte) Intn(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.Intn(n)
}

// Entre devolve um inteiro uniforme em [min, max].
func Entre(s Sorteio, min, max int) int {
	return min + s.Intn(max-min+1)
}
