package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/robbertvdzon/webdemo/internal/errs"
	"github.com/robbertvdzon/webdemo/internal/validation"
)

const (
	violationsHeader = "The following errors are found: "
	appErrorHeader   = "Application error : "
)

// Rule maps one kind of handler failure to a response.
//
// A rule with an empty Scope applies to every handler group; otherwise it
// only applies to requests tagged with that scope by the Scope middleware.
// Body returns a string for a text/plain response or any other value for
// a JSON response. Prefix is prepended to a text body and survives a Body
// that fails.
type Rule struct {
	Name   string
	Scope  string
	Status int
	Prefix string
	Match  func(err error) bool
	Body   func(c echo.Context, err error) any
}

// Translation is the response chosen for a failure.
type Translation struct {
	Rule   string
	Status int
	Body   any
}

// Translator evaluates its rules in order and uses the first that applies.
type Translator struct {
	rules []Rule
}

// NewTranslator creates a translator; rules are tried most specific first.
func NewTranslator(rules ...Rule) *Translator {
	return &Translator{rules: rules}
}

// Match returns the first rule applicable to err in the scope of c.
func (t *Translator) Match(c echo.Context, err error) (Rule, bool) {
	scope := GetScope(c)

	for _, rule := range t.rules {
		if rule.Scope != "" && rule.Scope != scope {
			continue
		}
		if rule.Match(err) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Translate builds the response for err. The second return value is false
// when no rule applies and the caller must fall back to its default.
func (t *Translator) Translate(c echo.Context, err error) (Translation, bool) {
	rule, ok := t.Match(c, err)
	if !ok {
		return Translation{}, false
	}

	body := safeBody(rule, c, err)
	if rule.Prefix != "" {
		// Only text bodies carry a prefix; anything else is replaced.
		text, _ := body.(string)
		body = rule.Prefix + text
	}

	return Translation{
		Rule:   rule.Name,
		Status: rule.Status,
		Body:   body,
	}, true
}

// safeBody never lets a rule break the response: a panicking or nil body
// becomes an empty string.
func safeBody(rule Rule, c echo.Context, err error) (body any) {
	defer func() {
		if r := recover(); r != nil {
			GetLogger(c).Error().
				Str("rule", rule.Name).
				Interface("panic", r).
				Msg("error translation failed")
			body = ""
		}
	}()

	body = rule.Body(c, err)
	if body == nil {
		body = ""
	}
	return body
}

// DefaultRules are the rules of the service, most specific first.
func DefaultRules() []Rule {
	return []Rule{
		ViolationsRule(PetsScope),
		BindingFailedRule(),
		AppErrorRule(),
	}
}

// ViolationsRule answers a handler-raised *validation.ViolationsError with
// a single line listing every violation.
func ViolationsRule(scope string) Rule {
	return Rule{
		Name:   "violations",
		Scope:  scope,
		Status: http.StatusBadRequest,
		Prefix: violationsHeader,
		Match: func(err error) bool {
			var target *validation.ViolationsError
			return errors.As(err, &target)
		},
		Body: func(c echo.Context, err error) any {
			var target *validation.ViolationsError
			errors.As(err, &target)

			summary := target.Summary()
			GetLogger(c).Error().
				Str("violations", summary).
				Msg("Got the following validation error")

			return summary
		},
	}
}

// BindingFailedRule answers the automatic *validation.BindingFailedError
// with a JSON list of violations, field-level first.
func BindingFailedRule() Rule {
	return Rule{
		Name:   "binding_failed",
		Status: http.StatusBadRequest,
		Match: func(err error) bool {
			var target *validation.BindingFailedError
			return errors.As(err, &target)
		},
		Body: func(c echo.Context, err error) any {
			var target *validation.BindingFailedError
			errors.As(err, &target)

			messages := target.Messages()
			GetLogger(c).Info().
				Strs("violations", messages).
				Msg("Got a validation exception")

			return messages
		},
	}
}

// AppErrorRule answers an *errs.AppError with its message behind a fixed prefix.
func AppErrorRule() Rule {
	return Rule{
		Name:   "app_error",
		Status: http.StatusBadRequest,
		Prefix: appErrorHeader,
		Match: func(err error) bool {
			var target *errs.AppError
			return errors.As(err, &target)
		},
		Body: func(c echo.Context, err error) any {
			var target *errs.AppError
			errors.As(err, &target)

			GetLogger(c).Info().
				Str("error", target.ErrorMessage()).
				Msg("Got an application error")

			return target.ErrorMessage()
		},
	}
}
