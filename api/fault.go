package api

import (
	"net/http"

	"github.com/xraph/finledger"
)

// Fault is the error body of a failed call.
type Fault struct {
	Code   finledger.ErrorKind `json:"code"`
	Reason string              `json:"reason"`
}

type faultEnvelope struct {
	Fault Fault `json:"fault"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind finledger.ErrorKind) int {
	switch kind {
	case finledger.KindNotFound:
		return http.StatusNotFound
	case finledger.KindValidation:
		return http.StatusBadRequest
	case finledger.KindInvalidStatus:
		return http.StatusConflict
	case finledger.KindInsufficientFunds, finledger.KindCurrencyMismatch, finledger.KindPairUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeFault(w http.ResponseWriter, kind finledger.ErrorKind, reason string) {
	writeJSON(w, StatusFor(kind), faultEnvelope{Fault: Fault{Code: kind, Reason: reason}})
}
