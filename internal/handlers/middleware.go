package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	methodOverrideParam  = "_method"
	methodOverrideHeader = "X-HTTP-Method-Override"
)

type formErrKey struct{}

var overridableMethods = map[string]struct{}{
	http.MethodPatch:  {},
	http.MethodPut:    {},
	http.MethodDelete: {},
}

// methodOverride lets a POST stand in for PATCH, PUT or DELETE. The verb comes
// from the X-HTTP-Method-Override header or a _method query/form value. It
// wraps the engine because gin resolves the route before any middleware runs.
func methodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			m, ok, err := overrideMethod(r)
			if err != nil {
				r = r.WithContext(context.WithValue(r.Context(), formErrKey{}, err))
			}
			if ok {
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

// overrideMethod parses the form while the request is still a POST, so the
// body stays readable after the verb changes to DELETE. A parse error is
// returned alongside the verb because the consumed body cannot be parsed again.
func overrideMethod(r *http.Request) (string, bool, error) {
	var err error
	m := r.Header.Get(methodOverrideHeader)
	if m == "" {
		// Form still holds whatever parsed, including the query string.
		err = r.ParseForm()
		m = r.Form.Get(methodOverrideParam)
	}
	m = strings.ToUpper(strings.TrimSpace(m))
	_, ok := overridableMethods[m]
	return m, ok, err
}

// formParseError returns the error methodOverride hit while parsing the body.
func formParseError(r *http.Request) error {
	err, _ := r.Context().Value(formErrKey{}).(error)
	return err
}

// requestLogger writes one access line per request.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()

	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"route", c.FullPath(),
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"client_ip", c.ClientIP(),
	)
}
