package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// EventSink receives API usage events.
type EventSink interface {
	IsInitialized() bool
	Enqueue(distinctID, event string, properties map[string]any)
}

// anonymousID is used when the caller did not authenticate.
const anonymousID = "anonymous"

// pathsToSkip contains paths that should not be tracked
var pathsToSkip = map[string]bool{
	"/health":       true,
	"/metrics":      true,
	"/swagger/*any": true,
}

// AnalyticsMiddleware reports successful API calls to sink, one event per route template
// (e.g. "/countries/:name" -> "countries_:name").
func AnalyticsMiddleware(sink EventSink) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sink == nil || !sink.IsInitialized() {
			c.Next()
			return
		}

		c.Next()

		route := c.FullPath()
		if route == "" || pathsToSkip[route] {
			return
		}
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		distinctID, ok := GetSubjectFromContext(c)
		if !ok {
			distinctID = anonymousID
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}
		if q := c.Request.URL.RawQuery; q != "" {
			props["query"] = q
		}

		sink.Enqueue(distinctID, strings.ReplaceAll(strings.TrimPrefix(route, "/"), "/", "_"), props)
	}
}
