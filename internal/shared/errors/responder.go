package errors

import (
	"errors"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// Responder writes Problem Details responses.
type Responder struct {
	// BaseURI is prepended to problem type URIs if they are relative.
	BaseURI string
	logger  *slog.Logger
}

func NewResponder(baseURI string) *Responder {
	return &Responder{BaseURI: baseURI, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// DefaultResponder uses relative URIs for problem types.
var DefaultResponder = NewResponder("")

// Respond sends a ProblemDetail response with proper content type.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem = problem.WithInstance(c.Request.URL.Path)
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError sends err as-is when it already is a ProblemDetail. Anything
// else is logged and answered with a generic 500 so store errors never reach
// the client.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.logger.LogAttrs(c.Request.Context(), slog.LevelError, "unhandled request error",
		slog.String("http.method", c.Request.Method),
		slog.String("http.route", c.FullPath()),
		slog.String("error", err.Error()),
	)
	r.Respond(c, ErrInternal.WithDetail("unexpected error while processing the request"))
}

// BadRequest sends a 400 problem response.
func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Respond(c, ErrBadRequest.WithDetail(detail))
}

// BindingFailed answers a failed ShouldBind call: validator errors become a
// validation problem keyed by field, anything else (malformed JSON, wrong
// types) a plain bad request.
func (r *Responder) BindingFailed(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		r.Respond(c, NewValidationProblem(FieldErrors(fieldErrs)).WithDetail("request body failed validation"))
		return
	}
	r.BadRequest(c, err.Error())
}

// ValidationFailed sends a validation problem for query or path values that
// binding does not cover, keyed by parameter name.
func (r *Responder) ValidationFailed(c *gin.Context, fields map[string]string) {
	r.Respond(c, NewValidationProblem(fields))
}

// Respond is a convenience function using the default responder.
func Respond(c *gin.Context, problem ProblemDetail) {
	DefaultResponder.Respond(c, problem)
}

// ErrorMapper maps domain/application errors to ProblemDetail.
type ErrorMapper func(err error) (ProblemDetail, bool)

// ChainedResponder runs each mapper in turn before the default handling.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(baseURI),
		mappers:   mappers,
	}
}

// WithLogger sets where unmapped errors are logged.
func (r *ChainedResponder) WithLogger(logger *slog.Logger) *ChainedResponder {
	if logger != nil {
		r.logger = logger
	}
	return r
}

func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	r.Responder.RespondError(c, err)
}
