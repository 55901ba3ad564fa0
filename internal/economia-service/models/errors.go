package models

import "errors"

// Erros de validação recuperáveis na borda de comando; erros de storage
// são propagados embrulhados e abortam a operação inteira.
var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUserNotFound        = errors.New("user not found")
	ErrApostaNotFound      = errors.New("aposta not found")
	ErrApostaResolved      = errors.New("aposta already resolved")
	ErrQuoteUnavailable    = errors.New("quote unavailable")
	ErrPosicaoInsuficiente = errors.New("position quantity insufficient")
)
