package http

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/gofiber/fiber/v2"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

// PayloadHandler receives the decoded, validated payload and the fiber
// context.
type PayloadHandler func(p any, c *fiber.Ctx) error

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	locale := en.New()
	uni := ut.New(locale, locale)
	translator, _ = uni.GetTranslator("en")

	validate = validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})
}

// WithBody decodes the request body into a fresh copy of the given
// prototype, validates it, and hands it to the handler. Malformed or
// invalid payloads are answered with a 400 problem document.
func WithBody(prototype any, handler PayloadHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := reflect.New(reflect.TypeOf(prototype).Elem()).Interface()

		if err := json.Unmarshal(c.Body(), payload); err != nil {
			return WithError(c, pkg.ValidateBusinessError(constant.ErrInvalidArgument, "Body"))
		}

		if err := validate.Struct(payload); err != nil {
			return WithError(c, fieldsError(err))
		}

		return handler(payload, c)
	}
}

func fieldsError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkg.ValidateBusinessError(constant.ErrInvalidArgument, "Body")
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fe.Translate(translator))
	}

	return pkg.ValidationError{
		Code:    constant.ErrInvalidArgument.Error(),
		Title:   "Invalid Argument",
		Message: strings.Join(messages, "; "),
	}
}
