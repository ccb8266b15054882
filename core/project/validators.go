package project

import (
	"github.com/go-playground/validator/v10"

	"github.com/parkkwangkil/wbs-project/core"
)

var (
	colorThemeTag  = "colortheme"
	colorThemeText = "unknown color theme"
)

func init() {
	_ = core.Validate.RegisterValidation(colorThemeTag, colorThemeValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, colorThemeTag, colorThemeText)
}

// colorThemeValidation checks that the value is one of the known theme names.
func colorThemeValidation(fl validator.FieldLevel) bool {
	_, ok := themeColors[fl.Field().String()]
	return ok
}
