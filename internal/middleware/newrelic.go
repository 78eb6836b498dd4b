package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"taxi24/internal/logger"
)

// NewRelic starts a New Relic transaction per request and tags it with the
// request id. It is a no-op when app is nil.
func NewRelic(app *newrelic.Application) gin.HandlerFunc {
	if app == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return nrgin.Middleware(app)
}

// TagTransaction adds request scoped attributes to the current transaction.
// It must run after NewRelic and RequestID.
func TagTransaction() gin.HandlerFunc {
	return func(c *gin.Context) {
		if txn := nrgin.Transaction(c); txn != nil {
			txn.AddAttribute("request_id", logger.RequestID(c.Request.Context()))
		}
		c.Next()

		if txn := nrgin.Transaction(c); txn != nil {
			for _, err := range c.Errors {
				txn.NoticeError(err.Err)
			}
		}
	}
}
