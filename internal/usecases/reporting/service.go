package reporting

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-report-api/infrastructure/repository"
	"github.com/vfg2006/sales-report-api/internal/domain"
)

type Reporter interface {
	GetReport() (*domain.SalesSummary, error)
	ListSales() ([]domain.SaleEntry, error)
}

type Service struct {
	saleRepository repository.SaleRepository
}

// NewService cria uma nova instância do serviço de relatórios
func NewService(saleRepository repository.SaleRepository) Reporter {
	return &Service{
		saleRepository: saleRepository,
	}
}

// GetReport lê o arquivo de vendas completo e deriva o resumo
// agregado. O resumo é recalculado por inteiro a cada chamada; não há
// cache nem estado incremental.
func (s *Service) GetReport() (*domain.SalesSummary, error) {
	records, err := s.saleRepository.ReadAll()
	if err != nil {
		return nil, err
	}

	summary := Summarize(records)
	return &summary, nil
}

// ListSales retorna a listagem achatada de todas as transações, com o
// total derivado de cada uma
func (s *Service) ListSales() ([]domain.SaleEntry, error) {
	records, err := s.saleRepository.ReadAll()
	if err != nil {
		return nil, err
	}

	entries := make([]domain.SaleEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, saleEntry(record))
	}

	return entries, nil
}

// Acumuladores por chave de agrupamento
type productAggregate struct {
	quantity int
	total    decimal.Decimal
}

// Summarize deriva o resumo agregado a partir da sequência de
// registros. Função pura e determinística da entrada, sem estado
// oculto.
//
// Semântica numérica: todas as somas intermediárias usam precisão
// completa; o arredondamento para duas casas acontece uma única vez,
// na montagem do resumo (a fronteira de apresentação).
//
// Desempate do produto mais vendido: entre produtos com a mesma
// quantidade somada vence o primeiro encontrado na ordem de entrada
// (agrupamento estável).
func Summarize(records []domain.SaleRecord) domain.SalesSummary {
	summary := domain.SalesSummary{
		BestSellingProduct: domain.NoBestSeller,
		TotalRevenue:       decimal.Zero,
		AverageSaleValue:   decimal.Zero,
		DailySeries:        []domain.DailySale{},
		DetailByDate:       map[string][]domain.ProductDetail{},
		ByProduct:          []domain.ProductBreakdown{},
		Transactions:       []domain.SaleEntry{},
	}

	if len(records) == 0 {
		return summary
	}

	var (
		total         = decimal.Zero
		totalQuantity int

		// Ordem de primeira aparição de cada chave, para agrupamento
		// estável
		productOrder []string
		byProduct    = map[string]*productAggregate{}

		totalByDate = map[string]decimal.Decimal{}

		detailOrder  = map[string][]string{}
		detailAmount = map[string]map[string]decimal.Decimal{}
	)

	for _, record := range records {
		saleTotal := record.Total()
		date := record.Date.Format(domain.DateLayout)

		total = total.Add(saleTotal)
		totalQuantity += record.Quantity

		aggregate, ok := byProduct[record.Product]
		if !ok {
			aggregate = &productAggregate{total: decimal.Zero}
			byProduct[record.Product] = aggregate
			productOrder = append(productOrder, record.Product)
		}
		aggregate.quantity += record.Quantity
		aggregate.total = aggregate.total.Add(saleTotal)

		dayTotal, ok := totalByDate[date]
		if !ok {
			dayTotal = decimal.Zero
		}
		totalByDate[date] = dayTotal.Add(saleTotal)

		amounts, ok := detailAmount[date]
		if !ok {
			amounts = map[string]decimal.Decimal{}
			detailAmount[date] = amounts
		}
		if _, ok := amounts[record.Product]; !ok {
			amounts[record.Product] = decimal.Zero
			detailOrder[date] = append(detailOrder[date], record.Product)
		}
		amounts[record.Product] = amounts[record.Product].Add(saleTotal)

		summary.Transactions = append(summary.Transactions, saleEntry(record))
	}

	// Produto mais vendido pela quantidade somada; comparação estrita
	// preserva o primeiro em caso de empate
	best := productOrder[0]
	for _, product := range productOrder[1:] {
		if byProduct[product].quantity > byProduct[best].quantity {
			best = product
		}
	}

	// Série diária em ordem crescente de data (datas ISO ordenam
	// lexicograficamente)
	dates := make([]string, 0, len(totalByDate))
	for date := range totalByDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		summary.DailySeries = append(summary.DailySeries, domain.DailySale{
			Date:  date,
			Total: totalByDate[date].Round(2),
		})
	}

	for date, products := range detailOrder {
		details := make([]domain.ProductDetail, 0, len(products))
		for _, product := range products {
			details = append(details, domain.ProductDetail{
				Product: product,
				Amount:  detailAmount[date][product].Round(2),
			})
		}
		summary.DetailByDate[date] = details
	}

	for _, product := range productOrder {
		aggregate := byProduct[product]
		summary.ByProduct = append(summary.ByProduct, domain.ProductBreakdown{
			Product:  product,
			Quantity: aggregate.quantity,
			Total:    aggregate.total.Round(2),
		})
	}

	count := len(records)

	summary.HasData = true
	summary.TotalRevenue = total.Round(2)
	summary.BestSellingProduct = best
	summary.TransactionCount = count
	summary.AverageSaleValue = total.Div(decimal.NewFromInt(int64(count))).Round(2)
	summary.TotalQuantity = totalQuantity
	summary.UniqueProducts = len(productOrder)

	return summary
}

func saleEntry(record domain.SaleRecord) domain.SaleEntry {
	return domain.SaleEntry{
		Date:      record.Date.Format(domain.DateLayout),
		Product:   record.Product,
		Quantity:  record.Quantity,
		UnitPrice: record.UnitPrice,
		Total:     record.Total().Round(2),
	}
}
