package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/robbertvdzon/webdemo/internal/errs"
	"github.com/robbertvdzon/webdemo/internal/middleware"
	"github.com/robbertvdzon/webdemo/internal/server"
)

// jarFilePattern splits "spring-web-3.0.5.jar" into name, version and extension.
var jarFilePattern = regexp.MustCompile(`^([a-z-]+)-(\d\.\d\.\d)(\.[a-z]+)$`)

// MappingHandler serves the endpoints that only show how requests are routed.
type MappingHandler struct {
	Handler
}

func NewMappingHandler(s *server.Server) *MappingHandler {
	return &MappingHandler{
		Handler: NewHandler(s),
	}
}

// Echo answers every request with text.
func (h *MappingHandler) Echo(text string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, text)
	}
}

// JarInfo describes a jar file name. Names that do not look like
// name-version.ext are treated as an unknown route.
func (h *MappingHandler) JarInfo(c echo.Context) error {
	m := jarFilePattern.FindStringSubmatch(c.Param("file"))
	if m == nil {
		return errs.NewNotFoundError("Route not found", false, nil)
	}

	return c.String(http.StatusOK, fmt.Sprintf("name:%s, version:%s, ext:%s", m[1], m[2], m[3]))
}

// MatrixExample reads ;key=value variables from the owner and pet segments
// of /matrixexample/{ownerId}/pets/{petId}.
func (h *MappingHandler) MatrixExample(c echo.Context) error {
	ownerID, ownerVars, err := parseMatrixSegment(c.Param("ownerId"))
	if err != nil {
		return echo.NewBindingError("ownerId", []string{c.Param("ownerId")}, err.Error(), err)
	}

	petID, petVars, err := parseMatrixSegment(c.Param("petId"))
	if err != nil {
		return echo.NewBindingError("petId", []string{c.Param("petId")}, err.Error(), err)
	}

	all := url.Values{}
	for _, vars := range []url.Values{ownerVars, petVars} {
		for k, vs := range vars {
			all[k] = append(all[k], vs...)
		}
	}

	middleware.GetLogger(c).Debug().
		Str("owner_id", ownerID).
		Str("pet_id", petID).
		Interface("matrix_vars", all).
		Interface("pet_matrix_vars", petVars).
		Msg("matrix variables")

	return c.String(http.StatusOK, "ok")
}

// parseMatrixSegment splits "42;q=11;r=12" into "42" and {q:[11], r:[12]}.
// A variable may list several values separated by commas.
func parseMatrixSegment(segment string) (string, url.Values, error) {
	segment, err := url.PathUnescape(segment)
	if err != nil {
		return "", nil, err
	}

	parts := strings.Split(segment, ";")
	vars := url.Values{}

	for _, part := range parts[1:] {
		if part == "" {
			continue
		}

		key, value, _ := strings.Cut(part, "=")
		if key == "" {
			return "", nil, fmt.Errorf("matrix variable without name in %q", segment)
		}

		for _, v := range strings.Split(value, ",") {
			vars.Add(key, v)
		}
	}

	return parts[0], vars, nil
}
