package apperror

import (
	"errors"
	"fmt"
)

// Erros base da aplicação. As camadas de domínio devem embrulhar estes
// erros com fmt.Errorf("%w: ...") para que os controllers consigam
// classificá-los com errors.Is.
var (
	// ErrValidation indica entrada malformada (enum inválido, campo obrigatório ausente)
	ErrValidation = errors.New("dados inválidos")

	// ErrNotFound indica que o identificador não corresponde a nenhum registro
	ErrNotFound = errors.New("registro não encontrado")

	// ErrNoMatchingRule indica que nenhuma regra tributária atende à operação
	ErrNoMatchingRule = errors.New("nenhuma regra tributária encontrada")

	// ErrInvalidStateTransition indica transição de status não permitida
	ErrInvalidStateTransition = errors.New("transição de status inválida")

	// ErrProvider indica falha na integração com o provedor fiscal
	ErrProvider = errors.New("falha no provedor fiscal")

	// ErrConcurrentModification indica conflito de versão ao persistir
	ErrConcurrentModification = errors.New("registro modificado concorrentemente")

	// ErrDataUnavailable indica falha ao carregar dados de apoio do MRP
	ErrDataUnavailable = errors.New("dados indisponíveis")
)

// Validation cria um erro de validação com mensagem formatada
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound cria um erro de registro não encontrado para a entidade e ID informados
func NotFound(entity, id string) error {
	return fmt.Errorf("%w: %s com ID %s", ErrNotFound, entity, id)
}

// IsRetryable informa se o chamador pode repetir a operação com segurança
func IsRetryable(err error) bool {
	return errors.Is(err, ErrProvider) ||
		errors.Is(err, ErrConcurrentModification) ||
		errors.Is(err, ErrDataUnavailable)
}
