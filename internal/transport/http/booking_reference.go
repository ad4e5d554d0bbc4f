package http

import "net/http"

// ReferenceIssuer is what the booking reference handlers need.
type ReferenceIssuer interface {
	NextReference() string
	LastReference() string
}

// HandleBookingReference serves GET /booking_reference: a fresh unique
// reference as plain text.
func HandleBookingReference(svc ReferenceIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(svc.NextReference()))
	}
}

// HandleLastBookingReference serves GET /last_booking_reference: the
// most recently issued reference, for end-to-end assertions.
func HandleLastBookingReference(svc ReferenceIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(svc.LastReference()))
	}
}
