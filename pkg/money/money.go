package money

import (
	"fmt"
	"math"
)

// Centavos representa um valor monetário em centavos (ponto fixo, 2 casas).
// Toda a aritmética de saldo do sistema acontece em inteiros; valores vindos
// da borda (float) são arredondados para centavos antes de qualquer cálculo.
type Centavos int64

// FromFloat converte um valor em reais para centavos, arredondando
// para 2 casas decimais (half away from zero).
func FromFloat(v float64) Centavos {
	return Centavos(math.Round(v * 100))
}

// Float retorna o valor em reais.
func (c Centavos) Float() float64 { return float64(c) / 100 }

// String formata como "1234.56".
func (c Centavos) String() string {
	neg := ""
	v := c
	if v < 0 {
		neg = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", neg, v/100, v%100)
}

// Percent calcula pct% do valor, arredondado para o centavo mais próximo.
// Ex: Percent(10000, 1) == 100 (1% de 100.00 é 1.00).
func Percent(v Centavos, pct float64) Centavos {
	return Centavos(math.Round(float64(v) * pct / 100))
}
