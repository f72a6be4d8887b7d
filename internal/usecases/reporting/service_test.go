package reporting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-report-api/infrastructure/repository"
	"github.com/vfg2006/sales-report-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-report-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func saleOn(date string, product string, quantity int, unitPrice string) domain.SaleRecord {
	day, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return domain.SaleRecord{
		Date:      day,
		Product:   product,
		Quantity:  quantity,
		UnitPrice: decimal.RequireFromString(unitPrice),
	}
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)

	assert.False(t, summary.HasData)
	assert.True(t, summary.TotalRevenue.IsZero())
	assert.Equal(t, domain.NoBestSeller, summary.BestSellingProduct)
	assert.Empty(t, summary.DailySeries)
	assert.Empty(t, summary.DetailByDate)
	assert.Empty(t, summary.ByProduct)
	assert.Empty(t, summary.Transactions)
	assert.Zero(t, summary.TransactionCount)
	assert.True(t, summary.AverageSaleValue.IsZero())
	assert.Zero(t, summary.TotalQuantity)
	assert.Zero(t, summary.UniqueProducts)
}

func TestSummarize_Scenario(t *testing.T) {
	records := []domain.SaleRecord{
		saleOn("2024-01-01", "Apple", 2, "3.00"),
		saleOn("2024-01-01", "Banana", 1, "2.00"),
		saleOn("2024-01-02", "Apple", 1, "3.00"),
	}

	summary := Summarize(records)

	assert.True(t, summary.HasData)
	assert.Equal(t, "11", summary.TotalRevenue.String())
	assert.Equal(t, "Apple", summary.BestSellingProduct)

	require.Len(t, summary.DailySeries, 2)
	assert.Equal(t, "2024-01-01", summary.DailySeries[0].Date)
	assert.Equal(t, "8", summary.DailySeries[0].Total.String())
	assert.Equal(t, "2024-01-02", summary.DailySeries[1].Date)
	assert.Equal(t, "3", summary.DailySeries[1].Total.String())

	detail := summary.DetailByDate["2024-01-01"]
	require.Len(t, detail, 2)
	assert.Equal(t, "Apple", detail[0].Product)
	assert.Equal(t, "6", detail[0].Amount.String())
	assert.Equal(t, "Banana", detail[1].Product)
	assert.Equal(t, "2", detail[1].Amount.String())

	assert.Equal(t, 3, summary.TransactionCount)
	assert.Equal(t, "3.67", summary.AverageSaleValue.String())
	assert.Equal(t, 4, summary.TotalQuantity)
	assert.Equal(t, 2, summary.UniqueProducts)
}

func TestSummarize_TieBreak(t *testing.T) {
	// Empate de quantidade: vence o primeiro na ordem de entrada
	records := []domain.SaleRecord{
		saleOn("2024-01-01", "P1", 5, "1.00"),
		saleOn("2024-01-01", "P2", 5, "9.00"),
	}

	summary := Summarize(records)
	assert.Equal(t, "P1", summary.BestSellingProduct)

	// Invertendo a ordem de entrada, o desempate muda
	reversed := []domain.SaleRecord{records[1], records[0]}
	summary = Summarize(reversed)
	assert.Equal(t, "P2", summary.BestSellingProduct)
}

func TestSummarize_Additivity(t *testing.T) {
	sequenceA := []domain.SaleRecord{
		saleOn("2024-01-01", "Apple", 3, "1.10"),
		saleOn("2024-01-02", "Banana", 2, "0.35"),
	}
	sequenceB := []domain.SaleRecord{
		saleOn("2024-01-03", "Cherry", 7, "2.45"),
		saleOn("2024-01-04", "Apple", 1, "1.10"),
	}

	combined := append(append([]domain.SaleRecord{}, sequenceA...), sequenceB...)

	totalA := Summarize(sequenceA).TotalRevenue
	totalB := Summarize(sequenceB).TotalRevenue
	totalCombined := Summarize(combined).TotalRevenue

	assert.True(t, totalCombined.Equal(totalA.Add(totalB)))
}

func TestSummarize_ByProduct(t *testing.T) {
	records := []domain.SaleRecord{
		saleOn("2024-01-01", "Apple", 2, "3.00"),
		saleOn("2024-01-02", "Banana", 1, "2.00"),
		saleOn("2024-01-03", "Apple", 1, "3.00"),
	}

	summary := Summarize(records)

	require.Len(t, summary.ByProduct, 2)
	assert.Equal(t, "Apple", summary.ByProduct[0].Product)
	assert.Equal(t, 3, summary.ByProduct[0].Quantity)
	assert.Equal(t, "9", summary.ByProduct[0].Total.String())
	assert.Equal(t, "Banana", summary.ByProduct[1].Product)
	assert.Equal(t, 1, summary.ByProduct[1].Quantity)
}

func TestSummarize_CaseSensitiveProducts(t *testing.T) {
	// Variações de caixa são produtos distintos, por decisão de design
	records := []domain.SaleRecord{
		saleOn("2024-01-01", "apple", 1, "1.00"),
		saleOn("2024-01-01", "Apple", 1, "1.00"),
	}

	summary := Summarize(records)
	assert.Equal(t, 2, summary.UniqueProducts)
}

func TestSummarize_RoundingAtBoundaryOnly(t *testing.T) {
	// Três vendas de 0.333: a soma exata é 0.999, que arredonda para
	// 1.00 apenas na saída. Arredondar cada parcela antes de somar
	// daria 0.99.
	records := []domain.SaleRecord{
		saleOn("2024-01-01", "Widget", 1, "0.333"),
		saleOn("2024-01-01", "Widget", 1, "0.333"),
		saleOn("2024-01-01", "Widget", 1, "0.333"),
	}

	summary := Summarize(records)
	assert.Equal(t, "1", summary.TotalRevenue.String())
}

func TestSummarize_ZeroQuantityFromLenientRead(t *testing.T) {
	// Registros coagidos para zero pela leitura leniente participam
	// das agregações com valor zero
	records := []domain.SaleRecord{
		saleOn("2024-01-01", "Apple", 0, "3.00"),
		saleOn("2024-01-01", "Banana", 1, "2.00"),
	}

	summary := Summarize(records)

	assert.Equal(t, "2", summary.TotalRevenue.String())
	assert.Equal(t, "Banana", summary.BestSellingProduct)
	assert.Equal(t, 2, summary.TransactionCount)
}

func TestService_GetReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockSaleRepository(ctrl)
	mockRepo.EXPECT().ReadAll().Return([]domain.SaleRecord{
		saleOn("2024-01-01", "Apple", 2, "3.00"),
	}, nil)

	service := NewService(mockRepo)

	summary, err := service.GetReport()
	require.NoError(t, err)
	assert.True(t, summary.HasData)
	assert.Equal(t, "6", summary.TotalRevenue.String())
}

func TestService_GetReport_SchemaError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockSaleRepository(ctrl)
	mockRepo.EXPECT().ReadAll().Return(nil, &repository.SchemaError{Reason: "arquivo de vendas inexistente"})

	service := NewService(mockRepo)

	_, err := service.GetReport()

	var schemaErr *repository.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestService_ListSales(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockSaleRepository(ctrl)
	mockRepo.EXPECT().ReadAll().Return([]domain.SaleRecord{
		saleOn("2024-01-01", "Apple", 2, "3.00"),
		saleOn("2024-01-02", "Banana", 1, "2.50"),
	}, nil)

	service := NewService(mockRepo)

	entries, err := service.ListSales()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-01-01", entries[0].Date)
	assert.Equal(t, "6", entries[0].Total.String())
	assert.Equal(t, "2.5", entries[1].Total.String())
}
