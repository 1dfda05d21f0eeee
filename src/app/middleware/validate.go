package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"piadas/src/app/http/response"
)

const payloadKey = "payload"

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(wireFieldName)
	}
}

// wireFieldName reports fields by their JSON or query name.
func wireFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Validate binds the JSON body into T and checks its binding rules.
// Failures answer 400 with one entry per field. The bound value is
// available to later handlers through Payload.
func Validate[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req T
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, fieldErrors(err, "body"), GetRequestID(c))
			c.Abort()
			return
		}
		c.Set(payloadKey, &req)
		c.Next()
	}
}

// ValidateQuery binds the query string into T and checks its binding rules.
func ValidateQuery[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req T
		if err := c.ShouldBindQuery(&req); err != nil {
			response.ValidationError(c, fieldErrors(err, "query"), GetRequestID(c))
			c.Abort()
			return
		}
		c.Set(payloadKey, &req)
		c.Next()
	}
}

// Payload returns the value bound by Validate or ValidateQuery.
func Payload[T any](c *gin.Context) (*T, bool) {
	v, ok := c.Get(payloadKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*T)
	return p, ok
}

func fieldErrors(err error, source string) []response.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []response.FieldError{{Field: source, Message: "could not be parsed"}}
	}

	out := make([]response.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, response.FieldError{
			Field:   fe.Field(),
			Message: ruleMessage(fe),
		})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "ne":
		return fmt.Sprintf("must not be %q", fe.Param())
	case "alphanum":
		return "must contain only letters and digits"
	default:
		return fmt.Sprintf("failed the %s rule", fe.Tag())
	}
}
