package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/landai/chatd/internal/answer"
	"github.com/landai/chatd/internal/service"
	"github.com/landai/chatd/tests/helpers"
)

func newTestHandler(t *testing.T, mock *answer.MockClient) (*Handler, *service.Service) {
	t.Helper()
	svc, err := service.New(context.Background(), helpers.NewTestSQLiteStore(t), mock)
	require.NoError(t, err)
	return NewHandler(svc), svc
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
