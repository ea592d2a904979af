package constants

import (
	"github.com/go-playground/validator/v10"
)

type contextKey string

const (
	PoolKey   contextKey = "pool"
	TxKey     contextKey = "tx"
	ActorKey  contextKey = "actor"
	LoggerKey contextKey = "logger"
)

var Validate = validator.New(validator.WithRequiredStructEnabled())
