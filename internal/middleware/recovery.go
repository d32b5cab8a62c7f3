// File: internal/middleware/recovery.go
package middleware

import (
	"fmt"
	"net/http"

	"github.com/relaydev/chatstream/internal/services"
)

// RecoverPanic converts handler panics into 500 responses instead of letting
// them tear down the connection silently.
func RecoverPanic(logger services.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic in handler", "error", fmt.Sprintf("%v", err))
					w.Header().Set("Connection", "close")
					http.Error(w, "Something went wrong on our end.", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
