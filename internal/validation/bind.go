package validation

import (
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/robbertvdzon/webdemo/internal/errs"
)

// BindJSON decodes the request body into a T and validates it.
//
// Constraint failures never produce an error: they are recorded on the
// returned BindingResult. The error return is reserved for structural
// problems (wrong media type, empty or malformed body), which are
// request-format errors and come back as *errs.HTTPError.
//
// Unknown JSON fields are ignored.
func BindJSON[T any](c echo.Context) (T, *BindingResult, error) {
	var payload T

	req := c.Request()
	ctype := req.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		return payload, nil, errors.WithStack(errs.NewUnsupportedMediaTypeError(
			fmt.Sprintf("content type %q is not supported, expected %s", ctype, echo.MIMEApplicationJSON),
		))
	}

	if req.Body == nil || req.Body == http.NoBody {
		return payload, nil, errors.WithStack(errs.NewMalformedRequestError("request body is empty"))
	}

	if err := c.Echo().JSONSerializer.Deserialize(c, &payload); err != nil {
		return payload, nil, errors.WithStack(errs.NewMalformedRequestError(decodeMessage(err)))
	}

	return payload, Validate(&payload, ObjectName(reflect.TypeOf(payload))), nil
}

// decodeMessage turns a serializer error into a client-facing message.
func decodeMessage(err error) string {
	if errors.Is(err, io.EOF) {
		return "request body is empty"
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok {
			return msg
		}
	}

	return "request body is not valid JSON"
}
