package middleware

import (
	"reflect"

	"github.com/gin-gonic/gin"
)

const (
	ParamsKey string = "params"
)

// PrepareParams binds the request body into a fresh value of val's type and
// stores a pointer to it under ParamsKey. Binding failures go to onError,
// which must write the response.
func PrepareParams(val any, onError func(*gin.Context, error)) gin.HandlerFunc {
	value := reflect.ValueOf(val)
	if value.Kind() == reflect.Ptr {
		panic(`Bind struct can not be a pointer.`)
	}

	typ := value.Type()

	return func(ctx *gin.Context) {
		params := reflect.New(typ).Interface()

		err := ctx.ShouldBind(params)
		if err != nil {
			onError(ctx, err)
			ctx.Abort()
			return
		}

		ctx.Set(ParamsKey, params)
	}
}
