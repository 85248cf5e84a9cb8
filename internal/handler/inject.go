package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"

	"github.com/robbertvdzon/webdemo/internal/middleware"
	"github.com/robbertvdzon/webdemo/internal/server"
)

const sessionCookie = "JSESSIONID"

// InjectHandler shows the request-scoped values a handler can pull out of a request.
type InjectHandler struct {
	Handler
	defaultLocale language.Tag
}

func NewInjectHandler(s *server.Server) *InjectHandler {
	return &InjectHandler{
		Handler:       NewHandler(s),
		defaultLocale: language.AmericanEnglish,
	}
}

// InjectDemo handles GET /injectdemo. The Accept-Encoding header and the
// JSESSIONID cookie are required.
func (h *InjectHandler) InjectDemo(c echo.Context) error {
	req := c.Request()

	encoding := req.Header.Get(echo.HeaderAcceptEncoding)
	if encoding == "" {
		return echo.NewBindingError(echo.HeaderAcceptEncoding, nil, "required header is missing", nil)
	}

	cookie, err := c.Cookie(sessionCookie)
	if err != nil {
		return echo.NewBindingError(sessionCookie, nil, "required cookie is missing", err)
	}

	zone := time.Now().Location().String()

	return c.JSON(http.StatusOK, map[string]string{
		"httpMethod": req.Method,
		"requestUri": req.RequestURI,
		"requestId":  middleware.GetRequestID(c),
		"remoteIp":   c.RealIP(),
		"locale":     h.locale(req.Header.Get("Accept-Language")).String(),
		"timeZone":   zone,
		"zoneId":     zone,
		"encoding":   encoding,
		"cookie":     cookie.Value,
	})
}

// locale picks the highest weighted tag of an Accept-Language header.
func (h *InjectHandler) locale(header string) language.Tag {
	if header == "" {
		return h.defaultLocale
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return h.defaultLocale
	}
	return tags[0]
}
