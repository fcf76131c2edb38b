package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T, path string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, path, nil)
	return c, rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetail {
	t.Helper()
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestResponder_FillsInstanceAndBaseURI(t *testing.T) {
	c, rec := newContext(t, "/api/yacht-orders/detail/1")
	NewResponder("https://bookings.example").Respond(c, ErrNotFound.WithDetail("order not found"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	problem := decodeProblem(t, rec)
	require.Equal(t, "https://bookings.example/problems/not-found", problem.Type)
	require.Equal(t, "/api/yacht-orders/detail/1", problem.Instance)
	require.Equal(t, CodeNotFound, problem.Code)
}

func TestChainedResponder_UsesMappersThenHidesUnknownErrors(t *testing.T) {
	sentinel := errors.New("mapped")
	responder := NewChainedResponder("", func(err error) (ProblemDetail, bool) {
		if errors.Is(err, sentinel) {
			return ErrPaymentDeclined.WithDetail("declined"), true
		}
		return ProblemDetail{}, false
	})

	c, rec := newContext(t, "/x")
	responder.RespondError(c, sentinel)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, CodePaymentDeclined, decodeProblem(t, rec).Code)

	c, rec = newContext(t, "/x")
	responder.RespondError(c, errors.New("pq: connection refused"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "pq:")
}

func TestWithExtension_DoesNotMutateTemplate(t *testing.T) {
	_ = ErrValidation.WithExtension("fields", map[string]string{"email": "invalid"})
	require.Nil(t, ErrValidation.Extensions)
	require.Equal(t, http.StatusTooManyRequests, HTTPStatusFromError(ErrTooManyRequests))
}
