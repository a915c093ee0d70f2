package handler

import (
	"errors"
	"reflect"
	"strings"

	problem "github.com/appdistro/release-cms/pkg/release_cms/helpers/problem"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/loopfz/gadgeto/tonic"
)

// BindHook decodes multipart and urlencoded bodies with gin's form binding
// and leaves everything else to tonic.
func BindHook(c *gin.Context, i interface{}) error {
	switch c.ContentType() {
	case binding.MIMEMultipartPOSTForm:
		return c.ShouldBindWith(i, binding.FormMultipart)
	case binding.MIMEPOSTForm:
		return c.ShouldBindWith(i, binding.Form)
	default:
		return tonic.DefaultBindingHook(c, i)
	}
}

// ErrorHook converts handler errors into the JSON error envelope. Binding and
// validation failures become 400 with invalidParams.
func ErrorHook(production bool) tonic.ErrorHook {
	return func(c *gin.Context, err error) (int, interface{}) {
		var be tonic.BindError
		if errors.As(err, &be) || isValidationErr(err) {
			invalids := invalidParamsFromBinding(err)
			err = problem.NewBadRequest("Invalid input", invalids...)
		}
		status, body := problem.Render(err, !production)
		return status, body
	}
}

func invalidParamsFromBinding(err error) []problem.InvalidParam {
	var verrs validator.ValidationErrors
	var be tonic.BindError
	switch {
	case errors.As(err, &verrs):
	case errors.As(err, &be) && be.ValidationErrors() != nil:
		verrs = be.ValidationErrors()
	default:
		return []problem.InvalidParam{{Name: "body", Reason: err.Error()}}
	}

	out := make([]problem.InvalidParam, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, problem.InvalidParam{
			Name:   lowerFirst(fe.Field()),
			Reason: humanReason(fe),
		})
	}
	return out
}

func humanReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.Slice {
			return "must have at most " + fe.Param() + " entries"
		}
		return "must be at most " + fe.Param() + " characters"
	default:
		return fe.Error()
	}
}

func isValidationErr(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
