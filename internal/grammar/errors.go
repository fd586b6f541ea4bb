package grammar

import "github.com/pkg/errors"

// Error taxonomy for the grammar manager. Nothing here panics: exported
// operations return these wrapped as errors (LoadLanguage alongside a nil
// language), except the rollback operations, which report failure in
// RollbackResult.ErrorMessage.
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrIoError            = errors.New("io error")
	ErrDownloadFailed     = errors.New("download failed")
	ErrIntegrityFailure   = errors.New("integrity failure")
	ErrGrammarIncompatible = errors.New("grammar incompatible")
)
