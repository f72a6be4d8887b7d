package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Códigos de erro da API
const (
	// Erros de validação de entrada (recuperáveis, nada é persistido)
	ErrInvalidRequest  = "VAL_001" // Requisição inválida
	ErrMissingField    = "VAL_002" // Campo obrigatório ausente
	ErrInvalidDate     = "VAL_003" // Data fora do formato YYYY-MM-DD
	ErrInvalidQuantity = "VAL_004" // Quantidade não é um inteiro positivo
	ErrInvalidPrice    = "VAL_005" // Preço unitário não é um decimal positivo
	ErrInvalidProduct  = "VAL_006" // Produto vazio após trim

	// Erros da camada de armazenamento
	ErrStoreSchema = "STO_001" // Arquivo de vendas ausente ou sem as colunas obrigatórias
	ErrStoreWrite  = "STO_002" // Falha ao gravar o arquivo de vendas
	ErrStoreRead   = "STO_003" // Linha inválida com modo leniente desabilitado

	// Erros do servidor
	ErrInternalServer = "SRV_001" // Erro interno do servidor
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidRequest:  http.StatusBadRequest,
	ErrMissingField:    http.StatusBadRequest,
	ErrInvalidDate:     http.StatusBadRequest,
	ErrInvalidQuantity: http.StatusBadRequest,
	ErrInvalidPrice:    http.StatusBadRequest,
	ErrInvalidProduct:  http.StatusBadRequest,
	ErrStoreSchema:     http.StatusInternalServerError,
	ErrStoreWrite:      http.StatusInternalServerError,
	ErrStoreRead:       http.StatusInternalServerError,
	ErrInternalServer:  http.StatusInternalServerError,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}
