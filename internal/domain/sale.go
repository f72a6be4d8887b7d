package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout é o formato de data usado no arquivo de vendas e na API
const DateLayout = "2006-01-02"

// SaleRecord representa uma transação de venda validada.
// Registros são imutáveis: uma vez gravados no arquivo nunca são
// alterados ou removidos (log append-only). Duplicatas são permitidas
// e significativas (vendas repetidas).
type SaleRecord struct {
	Date      time.Time
	Product   string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Total calcula o valor total da venda (quantidade x preço unitário).
// Nunca é armazenado, sempre recalculado sob demanda.
func (r SaleRecord) Total() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
}
