package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-report-api/infrastructure/storage/csvfile"
	"github.com/vfg2006/sales-report-api/internal/domain"
)

// Esquema fixo do arquivo de vendas. A ordem e a presença das colunas
// nunca mudam; alterar o esquema quebraria a compatibilidade com
// arquivos já existentes.
const (
	ColumnDate      = "Date"
	ColumnProduct   = "Product"
	ColumnQuantity  = "Quantity"
	ColumnUnitPrice = "Unit Price"
)

var salesHeader = []string{ColumnDate, ColumnProduct, ColumnQuantity, ColumnUnitPrice}

// SalesHeader retorna o esquema de colunas do arquivo de vendas
func SalesHeader() []string {
	header := make([]string, len(salesHeader))
	copy(header, salesHeader)
	return header
}

type SaleRepository interface {
	EnsureExists() error
	ReadAll() ([]domain.SaleRecord, error)
	Append(record domain.SaleRecord) error
	Snapshot(dstPath string) error
}

type saleRepository struct {
	store *csvfile.Store

	// lenientRead habilita a política de leitura leniente: células
	// numéricas inválidas são coagidas para zero (com log) em vez de
	// falhar a leitura. Modo de compatibilidade com arquivos legados
	// editados à mão; desabilitado, a leitura falha com RowError.
	lenientRead bool
}

func NewSaleRepository(store *csvfile.Store, lenientRead bool) SaleRepository {
	return &saleRepository{
		store:       store,
		lenientRead: lenientRead,
	}
}

// EnsureExists cria o arquivo de vendas com o esquema exato e nenhuma
// linha, caso ainda não exista. Idempotente.
func (r *saleRepository) EnsureExists() error {
	return r.store.EnsureExists(SalesHeader())
}

// ReadAll carrega todas as transações do arquivo, na ordem em que foram
// gravadas. Falha com SchemaError se o arquivo não existe ou se alguma
// coluna obrigatória está ausente.
func (r *saleRepository) ReadAll() ([]domain.SaleRecord, error) {
	exists, err := r.store.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &SchemaError{Reason: "arquivo de vendas inexistente"}
	}

	table, err := r.store.Read()
	if err != nil {
		return nil, err
	}

	columns, err := columnIndexes(table.Header)
	if err != nil {
		return nil, err
	}

	records := make([]domain.SaleRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		// Linha 1 é o cabeçalho, dados começam na linha 2
		line := i + 2

		record, err := r.parseRow(row, columns, line)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}

// Append acrescenta um registro ao final do arquivo. A implementação lê
// a sequência completa e reescreve o arquivo inteiro de forma atômica;
// custo O(n) por inserção, aceito como trade-off para manter o arquivo
// simples e editável em planilha. Ou a reescrita completa acontece, ou
// o arquivo anterior permanece intacto.
func (r *saleRepository) Append(record domain.SaleRecord) error {
	if err := r.EnsureExists(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	table, err := r.store.Read()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	columns, err := columnIndexes(table.Header)
	if err != nil {
		return err
	}

	// A linha nova respeita a posição real de cada coluna no cabeçalho:
	// um arquivo com colunas reordenadas à mão continua consistente
	row := make([]string, len(table.Header))
	row[columns[ColumnDate]] = record.Date.Format(domain.DateLayout)
	row[columns[ColumnProduct]] = record.Product
	row[columns[ColumnQuantity]] = strconv.Itoa(record.Quantity)
	row[columns[ColumnUnitPrice]] = record.UnitPrice.String()

	table.Rows = append(table.Rows, row)

	if err := r.store.Rewrite(table); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	return nil
}

// Snapshot grava uma cópia do arquivo de vendas no destino informado
func (r *saleRepository) Snapshot(dstPath string) error {
	return r.store.CopyTo(dstPath)
}

// parseRow converte uma linha crua do CSV em um SaleRecord tipado
func (r *saleRepository) parseRow(row []string, columns map[string]int, line int) (domain.SaleRecord, error) {
	date, err := time.Parse(domain.DateLayout, cell(row, columns[ColumnDate]))
	if err != nil {
		return domain.SaleRecord{}, &RowError{Line: line, Column: ColumnDate, Value: cell(row, columns[ColumnDate])}
	}

	quantity, err := r.parseQuantity(row, columns, line)
	if err != nil {
		return domain.SaleRecord{}, err
	}

	unitPrice, err := r.parseUnitPrice(row, columns, line)
	if err != nil {
		return domain.SaleRecord{}, err
	}

	return domain.SaleRecord{
		Date:      date,
		Product:   cell(row, columns[ColumnProduct]),
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}, nil
}

func (r *saleRepository) parseQuantity(row []string, columns map[string]int, line int) (int, error) {
	raw := cell(row, columns[ColumnQuantity])

	quantity, err := strconv.Atoi(strings.TrimSpace(raw))
	if err == nil {
		return quantity, nil
	}

	if !r.lenientRead {
		return 0, &RowError{Line: line, Column: ColumnQuantity, Value: raw}
	}

	// Política de leitura leniente: coagir para zero em vez de falhar
	logrus.WithFields(logrus.Fields{
		"line":   line,
		"column": ColumnQuantity,
		"value":  raw,
	}).Warn("Célula numérica inválida no arquivo de vendas, coagida para zero (modo leniente)")

	return 0, nil
}

func (r *saleRepository) parseUnitPrice(row []string, columns map[string]int, line int) (decimal.Decimal, error) {
	raw := cell(row, columns[ColumnUnitPrice])

	unitPrice, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err == nil {
		return unitPrice, nil
	}

	if !r.lenientRead {
		return decimal.Zero, &RowError{Line: line, Column: ColumnUnitPrice, Value: raw}
	}

	logrus.WithFields(logrus.Fields{
		"line":   line,
		"column": ColumnUnitPrice,
		"value":  raw,
	}).Warn("Célula numérica inválida no arquivo de vendas, coagida para zero (modo leniente)")

	return decimal.Zero, nil
}

// columnIndexes valida o esquema e resolve o índice de cada coluna
// obrigatória no cabeçalho
func columnIndexes(header []string) (map[string]int, error) {
	indexes := make(map[string]int, len(salesHeader))
	for i, name := range header {
		indexes[strings.TrimSpace(name)] = i
	}

	missing := make([]string, 0)
	for _, name := range salesHeader {
		if _, ok := indexes[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{
			Reason:  "colunas obrigatórias ausentes",
			Missing: missing,
		}
	}

	return indexes, nil
}

// cell retorna o valor de uma coluna tolerando linhas curtas, que podem
// aparecer em arquivos editados manualmente
func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}
