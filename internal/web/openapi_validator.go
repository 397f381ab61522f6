package web

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
)

// LoadOpenapi parses and validates an OpenAPI 3 document and builds a router
// over its paths.
func LoadOpenapi(content []byte) (routers.Router, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(content)
	if err != nil {
		return nil, err
	}

	if err := doc.Validate(loader.Context); err != nil {
		return nil, err
	}

	return gorillamux.NewRouter(doc)
}

// OpenapiValidator rejects requests that do not match the operation they
// address. Paths the document does not describe pass through untouched.
// Request bodies sent to ownBodyPaths (document path templates) are left to
// the handler, which reports body problems in its own response format.
func OpenapiValidator(router routers.Router, ownBodyPaths ...string) gin.HandlerFunc {
	ownBody := make(map[string]bool, len(ownBodyPaths))
	for _, path := range ownBodyPaths {
		ownBody[path] = true
	}

	return func(c *gin.Context) {
		if router == nil {
			return
		}

		route, pathParams, err := router.FindRoute(c.Request)
		if err != nil {
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				ExcludeRequestBody: ownBody[route.Path],
			},
		}

		if err := openapi3filter.ValidateRequest(c.Request.Context(), input); err != nil {
			HandleError(c, http.StatusBadRequest, "Request does not match the API description", err)
			return
		}
	}
}
