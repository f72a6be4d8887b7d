package registering

import (
	"errors"
	"fmt"
)

// Nomes dos campos do formulário de venda, usados no contexto dos
// erros de validação
const (
	FieldDate      = "date"
	FieldProduct   = "product"
	FieldQuantity  = "quantity"
	FieldUnitPrice = "unit_price"
)

// Erros de validação de entrada. Todos são recuperáveis: o chamador
// exibe o erro com o campo envolvido e nada é persistido.
var (
	ErrMissingField    = errors.New("campo obrigatório ausente")
	ErrInvalidDate     = errors.New("data inválida, formato esperado YYYY-MM-DD")
	ErrInvalidQuantity = errors.New("quantidade deve ser um inteiro maior que zero")
	ErrInvalidPrice    = errors.New("preço unitário deve ser um decimal maior que zero")
	ErrInvalidProduct  = errors.New("produto não pode ser vazio")
)

// ValidationError é um erro de validação com o campo envolvido
type ValidationError struct {
	Err   error  // Erro base
	Field string // Campo do formulário que falhou
}

// Error implementa a interface error
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: campo %q", e.Err.Error(), e.Field)
}

// Unwrap retorna o erro subjacente
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError cria um novo ValidationError
func NewValidationError(baseErr error, field string) *ValidationError {
	return &ValidationError{
		Err:   baseErr,
		Field: field,
	}
}
