package bookingserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	ordersapp "github.com/Apurer/go-gin-booking-api/internal/domains/orders/application"
	apierrors "github.com/Apurer/go-gin-booking-api/internal/shared/errors"
)

// MaxRequestBodyBytes caps JSON bodies accepted by create and update routes.
const MaxRequestBodyBytes = 1 << 20

var ordersResponder = apierrors.NewChainedResponder("", mapOrderError)

// mapOrderError translates the service error classification to problem details.
func mapOrderError(err error) (apierrors.ProblemDetail, bool) {
	switch ordersapp.Classify(err) {
	case ordersapp.KindInvalidInput:
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case ordersapp.KindNotFound:
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case ordersapp.KindDuplicate:
		return apierrors.ErrBadRequest.WithCode(apierrors.CodeDuplicate).WithDetail("Duplicate order number or payment reference"), true
	case ordersapp.KindPaymentDeclined:
		return apierrors.ErrPaymentDeclined.WithDetail(ordersapp.PaymentDeclinedMessage), true
	case ordersapp.KindPaymentNotCompleted:
		return apierrors.ErrBadRequest.WithCode(apierrors.CodePaymentNotCompleted).WithDetail("Payment was not completed"), true
	case ordersapp.KindIdempotencyConflict:
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func respondOrderServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	ordersResponder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	ordersResponder.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
}

func respondProblemDetail(c *gin.Context, detail string) {
	ordersResponder.BadRequest(c, detail)
}

// decodeJSON reads the body rejecting unknown members, then runs the binding validator.
// It writes the problem response itself and reports whether the handler may continue.
func decodeJSON(c *gin.Context, dst any) bool {
	if c.Request.Body == nil {
		respondProblemDetail(c, "request body is required")
		return false
	}
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxRequestBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ordersResponder.Respond(c, apierrors.ErrPayloadTooLarge.WithDetail(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)))
			return false
		}
		respondProblemDetail(c, "unable to read request body")
		return false
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		respondProblemDetail(c, describeDecodeError(err))
		return false
	}
	if binding.Validator == nil {
		return true
	}
	if err := binding.Validator.ValidateStruct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[lowerFirst(fe.Field())] = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
			}
			ordersResponder.ValidationFailed(c, "request is missing required fields", fields)
			return false
		}
		respondProblemDetail(c, err.Error())
		return false
	}
	return true
}

func describeDecodeError(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "request body is required"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return fmt.Sprintf("field %q has the wrong type", typeErr.Field)
	case strings.HasPrefix(err.Error(), "json: unknown field"):
		return strings.TrimPrefix(err.Error(), "json: ")
	default:
		return "malformed JSON body"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
