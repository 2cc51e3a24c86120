package middleware

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/transport"
)

// RequestValidator checks incoming requests against an OpenAPI document.
type RequestValidator struct {
	router routers.Router
	base   *transport.BaseHandler
}

// NewRequestValidator loads and validates the document in spec.
func NewRequestValidator(spec []byte, base *transport.BaseHandler) (*RequestValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	return &RequestValidator{router: router, base: base}, nil
}

// Middleware rejects requests whose parameters or body break the document.
// Routes the document does not describe pass through untouched; security is
// enforced by Authenticate.
func (v *RequestValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := v.router.FindRoute(r)
		if err != nil {
			if stderrors.Is(err, routers.ErrPathNotFound) || stderrors.Is(err, routers.ErrMethodNotAllowed) {
				next.ServeHTTP(w, r)
				return
			}
			v.base.HandleServiceError(w, r, errors.NewInternalError("route lookup failed", err))
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			v.base.HandleServiceError(w, r, requestValidationError(err))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestValidationError(err error) *errors.AppError {
	appErr := errors.NewValidationError("request does not match the API contract", errors.ErrCodeValidationFailed)

	var reqErr *openapi3filter.RequestError
	if stderrors.As(err, &reqErr) {
		details := map[string]interface{}{"reason": reqErr.Reason}
		if reqErr.Parameter != nil {
			details["parameter"] = reqErr.Parameter.Name
		}
		var schemaErr *openapi3.SchemaError
		if stderrors.As(err, &schemaErr) {
			if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
				details["field"] = pointer
			}
			details["reason"] = schemaErr.Reason
		}
		return appErr.WithDetails(details).WithCause(err)
	}
	return appErr.WithCause(err)
}
