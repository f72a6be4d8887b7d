package registering

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-report-api/infrastructure/repository"
	"github.com/vfg2006/sales-report-api/internal/domain"
)

// SaleInput carrega os quatro valores crus do formulário, antes de
// qualquer validação
type SaleInput struct {
	Date      string
	Product   string
	Quantity  string
	UnitPrice string
}

type SaleRegistrar interface {
	SubmitSale(input SaleInput) (domain.SaleRecord, error)
}

type Service struct {
	saleRepository repository.SaleRepository
}

// NewService cria uma nova instância do serviço de registro de vendas
func NewService(saleRepository repository.SaleRepository) SaleRegistrar {
	return &Service{
		saleRepository: saleRepository,
	}
}

// SubmitSale valida os campos crus e, em caso de sucesso, persiste um
// novo registro no arquivo de vendas. Em caso de falha de validação
// nada é persistido.
func (s *Service) SubmitSale(input SaleInput) (domain.SaleRecord, error) {
	record, err := Validate(input)
	if err != nil {
		return domain.SaleRecord{}, err
	}

	if err := s.saleRepository.Append(record); err != nil {
		logrus.WithError(err).Error("Erro ao gravar venda no arquivo")
		return domain.SaleRecord{}, err
	}

	logrus.WithFields(logrus.Fields{
		"date":     record.Date.Format(domain.DateLayout),
		"product":  record.Product,
		"quantity": record.Quantity,
	}).Info("Venda registrada com sucesso")

	return record, nil
}

// Validate aplica as regras de validação em ordem, interrompendo na
// primeira falha:
//  1. os quatro campos presentes e não vazios
//  2. data no formato ISO (YYYY-MM-DD)
//  3. quantidade inteira maior que zero
//  4. preço unitário decimal maior que zero
//  5. produto não vazio após remover espaços das bordas
//
// Nenhuma normalização além do trim: variações de caixa ou grafia do
// produto são tratadas como produtos distintos.
func Validate(input SaleInput) (domain.SaleRecord, error) {
	fields := []struct {
		name  string
		value string
	}{
		{FieldDate, input.Date},
		{FieldProduct, input.Product},
		{FieldQuantity, input.Quantity},
		{FieldUnitPrice, input.UnitPrice},
	}
	for _, field := range fields {
		if field.value == "" {
			return domain.SaleRecord{}, NewValidationError(ErrMissingField, field.name)
		}
	}

	date, err := time.Parse(domain.DateLayout, input.Date)
	if err != nil {
		return domain.SaleRecord{}, NewValidationError(ErrInvalidDate, FieldDate)
	}

	quantity, err := strconv.Atoi(input.Quantity)
	if err != nil || quantity <= 0 {
		return domain.SaleRecord{}, NewValidationError(ErrInvalidQuantity, FieldQuantity)
	}

	unitPrice, err := decimal.NewFromString(input.UnitPrice)
	if err != nil || !unitPrice.IsPositive() {
		return domain.SaleRecord{}, NewValidationError(ErrInvalidPrice, FieldUnitPrice)
	}

	product := strings.TrimSpace(input.Product)
	if product == "" {
		return domain.SaleRecord{}, NewValidationError(ErrInvalidProduct, FieldProduct)
	}

	return domain.SaleRecord{
		Date:      date,
		Product:   product,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}, nil
}
