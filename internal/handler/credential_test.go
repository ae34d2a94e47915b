package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/logisticair/crewops/internal/access"
	"github.com/logisticair/crewops/internal/repository"
)

func redeemCredential(t *testing.T, h *CredentialHandler, id string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.Redeem(c))
	return rec
}

func TestCredentialRedeemMarksUsed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE credentials SET status = ? WHERE id = ?")).
		WithArgs("USED", uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	crew := repository.NewCrewRepo(nil, zap.NewNop())
	h := NewCredentialHandler(crew, repository.NewCredentialRepo(db), access.NewIssuer(), zap.NewNop())
	rec := redeemCredential(t, h, "5")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "USED", body["status"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRedeemUnknownIDIs404(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE credentials SET status = ? WHERE id = ?")).
		WithArgs("USED", uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	crew := repository.NewCrewRepo(nil, zap.NewNop())
	h := NewCredentialHandler(crew, repository.NewCredentialRepo(db), access.NewIssuer(), zap.NewNop())
	rec := redeemCredential(t, h, "404")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
