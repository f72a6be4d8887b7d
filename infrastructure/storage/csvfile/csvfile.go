// Package csvfile implementa o acesso de baixo nível ao arquivo tabular
// de vendas. O arquivo é um CSV com linha de cabeçalho fixa, legível em
// qualquer planilha e inspecionável manualmente.
package csvfile

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Table é o conteúdo completo do arquivo: cabeçalho + linhas de dados
type Table struct {
	Header []string
	Rows   [][]string
}

// Store encapsula o caminho do arquivo e as operações de leitura e
// reescrita. Não há nenhum lock de arquivo: o modelo de execução é de
// um único processo escritor.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Path retorna o caminho do arquivo gerenciado
func (s *Store) Path() string {
	return s.path
}

// Exists verifica se o arquivo já foi criado
func (s *Store) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrap(err, "erro ao verificar arquivo de vendas")
}

// EnsureExists cria o arquivo com o cabeçalho informado e nenhuma linha
// de dados, caso ainda não exista. Idempotente: se o arquivo já existe,
// não faz nada. Cria os diretórios intermediários se necessário.
func (s *Store) EnsureExists(header []string) error {
	exists, err := s.Exists()
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "erro ao criar diretório do arquivo de vendas")
		}
	}

	return s.Rewrite(&Table{Header: header})
}

// Read carrega o arquivo inteiro em memória (cabeçalho + linhas)
func (s *Store) Read() (*Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao abrir arquivo de vendas")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Linhas manualmente editadas podem ter colunas faltando; a
	// validação de esquema acontece na camada de repositório
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler cabeçalho do arquivo de vendas")
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler linhas do arquivo de vendas")
	}

	return &Table{Header: header, Rows: rows}, nil
}

// Rewrite reescreve o arquivo inteiro de forma atômica: escreve em um
// arquivo temporário no mesmo diretório, faz fsync e renomeia por cima
// do original. Um leitor nunca observa um arquivo parcialmente escrito:
// ou a reescrita completa acontece, ou o arquivo anterior permanece
// intacto.
func (s *Store) Rewrite(table *Table) error {
	dir := filepath.Dir(s.path)

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "erro ao criar arquivo temporário")
	}
	tmpName := tmp.Name()

	// Em caso de falha no meio do caminho, remove o temporário
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(table.Header); err != nil {
		tmp.Close()
		return errors.Wrap(err, "erro ao escrever cabeçalho")
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return errors.Wrap(err, "erro ao escrever linha")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "erro ao gravar CSV")
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "erro ao sincronizar arquivo temporário")
	}

	// CreateTemp cria o arquivo com modo 0600; o arquivo de vendas é um
	// artefato compartilhado e inspecionável, então o modo vira 0644
	// antes do rename torná-lo permanente
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return errors.Wrap(err, "erro ao ajustar permissões do arquivo temporário")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "erro ao fechar arquivo temporário")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.Wrap(err, "erro ao substituir arquivo de vendas")
	}

	return nil
}

// CopyTo grava uma cópia do arquivo atual no destino informado,
// criando os diretórios intermediários. Usado pelo snapshot de backup;
// o formato do destino é idêntico ao do arquivo primário.
func (s *Store) CopyTo(dstPath string) error {
	src, err := os.Open(s.path)
	if err != nil {
		return errors.Wrap(err, "erro ao abrir arquivo de vendas para backup")
	}
	defer src.Close()

	if dir := filepath.Dir(dstPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "erro ao criar diretório de backup")
		}
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return errors.Wrap(err, "erro ao criar arquivo de backup")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return errors.Wrap(err, "erro ao copiar arquivo de backup")
	}

	return errors.Wrap(dst.Sync(), "erro ao sincronizar arquivo de backup")
}
