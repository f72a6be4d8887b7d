package handler

import (
	stdjson "encoding/json"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-report-api/infrastructure/repository"
	"github.com/vfg2006/sales-report-api/internal/domain"
	"github.com/vfg2006/sales-report-api/internal/usecases/registering"
	"github.com/vfg2006/sales-report-api/internal/usecases/reporting"
	"github.com/vfg2006/sales-report-api/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type SubmitSaleRequest struct {
	Date      string         `json:"date"`
	Product   string         `json:"product"`
	Quantity  stdjson.Number `json:"quantity"`
	UnitPrice stdjson.Number `json:"unit_price"`
}

// reportPath é o destino do redirect após um envio de formulário bem
// sucedido, reproduzindo o fluxo formulário -> relatório
const reportPath = "/v1/sales/report"

// SubmitSale registra uma nova venda. Aceita tanto formulário
// (application/x-www-form-urlencoded) quanto JSON. Clientes de
// formulário recebem um redirect 303 para o relatório; clientes JSON
// recebem 201 com o registro gravado e seu total derivado.
func SubmitSale(service registering.SaleRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, isForm, ok := decodeSaleInput(w, r)
		if !ok {
			return
		}

		record, err := service.SubmitSale(input)
		if err != nil {
			writeSaleError(w, err)
			return
		}

		if isForm {
			http.Redirect(w, r, reportPath, http.StatusSeeOther)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(saleEntryResponse(record)); err != nil {
			logrus.WithError(err).Error("Erro ao enviar resposta de venda registrada")
		}
	}
}

// GetReport retorna o resumo agregado de vendas. Um arquivo vazio não
// é erro: a resposta traz has_data=false com o resumo zerado e o
// sentinela de produto mais vendido.
func GetReport(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := service.GetReport()
		if err != nil {
			writeSaleError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			logrus.WithError(err).Error("Erro ao enviar resposta do relatório")
		}
	}
}

// ListSales retorna a listagem achatada de todas as transações
func ListSales(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sales, err := service.ListSales()
		if err != nil {
			writeSaleError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(map[string]any{
			"sales": sales,
			"count": len(sales),
		})
		if err != nil {
			logrus.WithError(err).Error("Erro ao enviar listagem de vendas")
		}
	}
}

// decodeSaleInput extrai os quatro campos crus da requisição,
// aceitando formulário ou JSON. Retorna ok=false se a resposta de erro
// já foi escrita.
func decodeSaleInput(w http.ResponseWriter, r *http.Request) (registering.SaleInput, bool, bool) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formulário inválido", nil)
			return registering.SaleInput{}, true, false
		}

		return registering.SaleInput{
			Date:      r.PostFormValue(registering.FieldDate),
			Product:   r.PostFormValue(registering.FieldProduct),
			Quantity:  r.PostFormValue(registering.FieldQuantity),
			UnitPrice: r.PostFormValue(registering.FieldUnitPrice),
		}, true, true
	}

	var req SubmitSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
		return registering.SaleInput{}, false, false
	}

	return registering.SaleInput{
		Date:      req.Date,
		Product:   req.Product,
		Quantity:  req.Quantity.String(),
		UnitPrice: req.UnitPrice.String(),
	}, false, true
}

// writeSaleError traduz os erros das camadas de validação e
// armazenamento para a resposta padronizada da API
func writeSaleError(w http.ResponseWriter, err error) {
	var validationErr *registering.ValidationError
	if errors.As(err, &validationErr) {
		apiErrors.WriteError(w, validationCode(validationErr), validationErr.Err.Error(), map[string]string{
			"field": validationErr.Field,
		})
		return
	}

	var schemaErr *repository.SchemaError
	if errors.As(err, &schemaErr) {
		apiErrors.WriteError(w, apiErrors.ErrStoreSchema, schemaErr.Error(), nil)
		return
	}

	var rowErr *repository.RowError
	if errors.As(err, &rowErr) {
		apiErrors.WriteError(w, apiErrors.ErrStoreRead, rowErr.Error(), nil)
		return
	}

	if errors.Is(err, repository.ErrStoreWrite) {
		apiErrors.WriteError(w, apiErrors.ErrStoreWrite, "Erro ao gravar venda", nil)
		return
	}

	logrus.WithError(err).Error("Erro inesperado ao atender operação de vendas")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno", nil)
}

func validationCode(validationErr *registering.ValidationError) string {
	switch {
	case errors.Is(validationErr, registering.ErrMissingField):
		return apiErrors.ErrMissingField
	case errors.Is(validationErr, registering.ErrInvalidDate):
		return apiErrors.ErrInvalidDate
	case errors.Is(validationErr, registering.ErrInvalidQuantity):
		return apiErrors.ErrInvalidQuantity
	case errors.Is(validationErr, registering.ErrInvalidPrice):
		return apiErrors.ErrInvalidPrice
	case errors.Is(validationErr, registering.ErrInvalidProduct):
		return apiErrors.ErrInvalidProduct
	default:
		return apiErrors.ErrInvalidRequest
	}
}

func saleEntryResponse(record domain.SaleRecord) domain.SaleEntry {
	return domain.SaleEntry{
		Date:      record.Date.Format(domain.DateLayout),
		Product:   record.Product,
		Quantity:  record.Quantity,
		UnitPrice: record.UnitPrice,
		Total:     record.Total().Round(2),
	}
}
