// Package validate настраивает validator так, чтобы в ошибках были JSON‑имена полей.
package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

// New создаёт validator.Validate, который называет поля по тегу json.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}
