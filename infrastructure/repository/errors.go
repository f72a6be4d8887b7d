package repository

import (
	"errors"
	"fmt"
	"strings"
)

// Erros da camada de persistência do arquivo de vendas
var (
	// ErrStoreWrite indica falha ao gravar o arquivo de vendas. A
	// gravação é tudo-ou-nada: o arquivo anterior permanece intacto.
	ErrStoreWrite = errors.New("erro ao gravar arquivo de vendas")
)

// SchemaError indica que o arquivo de vendas não pode atender a
// operação: está ausente ou não contém as colunas obrigatórias. Fatal
// para a operação corrente; o arquivo nunca é reparado automaticamente.
type SchemaError struct {
	Reason  string
	Missing []string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("esquema inválido no arquivo de vendas: %s (%s)", e.Reason, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("esquema inválido no arquivo de vendas: %s", e.Reason)
}

// RowError indica uma célula inválida encontrada durante a leitura com
// o modo leniente desabilitado
type RowError struct {
	Line   int
	Column string
	Value  string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("valor inválido na linha %d, coluna %q: %q", e.Line, e.Column, e.Value)
}
