package domain

import (
	"github.com/shopspring/decimal"
)

// NoBestSeller é o valor sentinela retornado quando não há vendas registradas
const NoBestSeller = "no data"

// DailySale é um ponto da série diária de receita
type DailySale struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// ProductDetail é o detalhamento de um produto dentro de uma data
type ProductDetail struct {
	Product string          `json:"product"`
	Amount  decimal.Decimal `json:"amount"`
}

// ProductBreakdown agrega quantidade e receita por produto
type ProductBreakdown struct {
	Product  string          `json:"product"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// SaleEntry é uma transação na listagem achatada do relatório, com o
// total derivado já calculado
type SaleEntry struct {
	Date      string          `json:"date"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// SalesSummary é a visão agregada derivada do arquivo de vendas.
// É efêmera: recalculada por completo a cada requisição de relatório,
// nunca persistida.
type SalesSummary struct {
	HasData            bool                       `json:"has_data"`
	TotalRevenue       decimal.Decimal            `json:"total_revenue"`
	BestSellingProduct string                     `json:"best_selling_product"`
	DailySeries        []DailySale                `json:"daily_series"`
	DetailByDate       map[string][]ProductDetail `json:"detail_by_date"`
	ByProduct          []ProductBreakdown         `json:"by_product"`
	Transactions       []SaleEntry                `json:"transactions"`
	TransactionCount   int                        `json:"transaction_count"`
	AverageSaleValue   decimal.Decimal            `json:"average_sale_value"`
	TotalQuantity      int                        `json:"total_quantity"`
	UniqueProducts     int                        `json:"unique_products"`
}
