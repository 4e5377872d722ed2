// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"bliq/internal/ledger"
)

// styleTokenRegex matches icon and color class names such as fa-house or bg-slate-700.
var styleTokenRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{0,63}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("tx_type", validateTxType)
	_ = v.RegisterValidation("tx_status", validateTxStatus)
	_ = v.RegisterValidation("type_filter", validateTypeFilter)
	_ = v.RegisterValidation("style_token", validateStyleToken)
	_ = v.RegisterValidation("birth_date", validateBirthDate)
}

func validateTxType(fl validator.FieldLevel) bool {
	return ledger.TransactionType(fl.Field().String()).Valid()
}

func validateTxStatus(fl validator.FieldLevel) bool {
	return ledger.TransactionStatus(fl.Field().String()).Valid()
}

func validateTypeFilter(fl validator.FieldLevel) bool {
	return ledger.TypeFilter(fl.Field().String()).Valid()
}

func validateStyleToken(fl validator.FieldLevel) bool {
	return styleTokenRegex.MatchString(fl.Field().String())
}

// validateBirthDate accepts a YYYY-MM-DD date that is not in the future.
func validateBirthDate(fl validator.FieldLevel) bool {
	d, err := time.Parse(time.DateOnly, fl.Field().String())
	if err != nil {
		return false
	}
	return !d.After(time.Now().UTC())
}
