package v1requests_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oremont/rfp-service/internal/config"
	"github.com/oremont/rfp-service/internal/entities"
	"github.com/oremont/rfp-service/internal/interaction"
	"github.com/oremont/rfp-service/internal/logging"
	"github.com/oremont/rfp-service/internal/repository/database/inmemory"
	v1requests "github.com/oremont/rfp-service/internal/restapi/v1/requests"
	"github.com/oremont/rfp-service/internal/server"
)

const testApiToken = "test-api-token-must-be-long"

type testServer struct {
	srv        *httptest.Server
	db         *inmemory.InmemoryProvider
	currencyID uint
	usageID    uint
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := inmemory.NewInMemoryProvider()
	currencyID := db.SeedCurrency(entities.Currency{Code: "USD", Name: "US Dollar"})
	usageID := db.SeedUsageCategory(entities.UsageCategory{Code: "OPEX", Description: "Operational expense"})

	i, err := interaction.NewServiceInteractor(db, logging.NewNoopLogger())
	require.NoError(t, err)

	conf := &config.SecurityConfig{
		Fixed: config.FixedTokenConfig{Api: testApiToken},
	}

	srv := httptest.NewServer(server.CreateRouter(i, conf))
	t.Cleanup(srv.Close)

	return &testServer{
		srv:        srv,
		db:         db,
		currencyID: currencyID,
		usageID:    usageID,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("X-Api-Key", testApiToken)

	resp, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeAs[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var result T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func (ts *testServer) writeDto() v1requests.WriteRequestDto {
	return v1requests.WriteRequestDto{
		Area:             string(entities.AreaHeadOffice),
		PayeeType:        string(entities.PayeeTypeSupplier),
		PayeeCode:        "S-1001",
		PayeeName:        "PT Sumber Makmur",
		DueDate:          "2025-01-31",
		CurrencyID:       ts.currencyID,
		UsageCategoryID:  ts.usageID,
		SubtotalAmount:   "500.00",
		GrandTotalAmount: "500.00",
		Remarks:          "initial remarks",
		LineItems: []v1requests.LineItemDto{
			{AccountCode: "6100", Description: "consulting services", TotalAmount: "500.00"},
		},
	}
}

func (ts *testServer) createRequest(t *testing.T) v1requests.RequestDto {
	t.Helper()

	resp := ts.do(t, http.MethodPost, "/api/rest/v1/requests", ts.writeDto())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeAs[v1requests.RequestDto](t, resp)
}

func TestCreateAndGetRequest(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createRequest(t)
	require.Equal(t, "RFP-", created.RequestNumber[:4])
	require.Equal(t, "draft", created.Status)
	require.Equal(t, "Draft", created.StatusLabel)
	require.Equal(t, "500.00", created.GrandTotalAmount)
	require.Equal(t, "2025-01-31", created.DueDate)

	resp := ts.do(t, http.MethodGet, fmt.Sprintf("/api/rest/v1/requests/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeAs[v1requests.RequestDto](t, resp)
	require.Equal(t, created.RequestNumber, fetched.RequestNumber)
	require.Len(t, fetched.LineItems, 1)
}

func TestListRequestsWithFilter(t *testing.T) {
	ts := newTestServer(t)

	ts.createRequest(t)
	ts.createRequest(t)

	resp := ts.do(t, http.MethodGet, "/api/rest/v1/requests?status=draft", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeAs[v1requests.RequestListDto](t, resp)
	require.Len(t, list.Requests, 2)

	resp = ts.do(t, http.MethodGet, "/api/rest/v1/requests?status=paid", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list = decodeAs[v1requests.RequestListDto](t, resp)
	require.Empty(t, list.Requests)
}

func TestUpdateRequestAuditsGrandTotalChange(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createRequest(t)

	upd := ts.writeDto()
	upd.GrandTotalAmount = "750.00"

	resp := ts.do(t, http.MethodPut, fmt.Sprintf("/api/rest/v1/requests/%d", created.ID), upd)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeAs[v1requests.RequestDto](t, resp)
	require.Equal(t, "750.00", updated.GrandTotalAmount)
	require.Equal(t, "initial remarks", updated.Remarks)

	resp = ts.do(t, http.MethodGet, fmt.Sprintf("/api/rest/v1/requests/%d/audit-log", created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	auditLog := decodeAs[v1requests.AuditLogDto](t, resp)
	require.Len(t, auditLog.Entries, 1)

	entry := auditLog.Entries[0]
	require.Len(t, entry.Code, 6)
	require.Equal(t, []v1requests.ChangeRecordDto{
		{Field: "Grand Total", Old: "500.00", New: "750.00"},
	}, entry.Changes)
}

func TestUpdateRequestReplacesLineItems(t *testing.T) {
	ts := newTestServer(t)

	dto := ts.writeDto()
	dto.LineItems = []v1requests.LineItemDto{
		{AccountCode: "6100", Description: "item one", TotalAmount: "100.00"},
		{AccountCode: "6200", Description: "item two", TotalAmount: "200.00"},
		{AccountCode: "6300", Description: "item three", TotalAmount: "200.00"},
	}

	resp := ts.do(t, http.MethodPost, "/api/rest/v1/requests", dto)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeAs[v1requests.RequestDto](t, resp)
	require.Len(t, created.LineItems, 3)

	upd := ts.writeDto()
	upd.LineItems = []v1requests.LineItemDto{
		{AccountCode: "6400", Description: "replacement item", TotalAmount: "500.00"},
	}

	resp = ts.do(t, http.MethodPut, fmt.Sprintf("/api/rest/v1/requests/%d", created.ID), upd)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeAs[v1requests.RequestDto](t, resp)
	require.Len(t, updated.LineItems, 1)
	require.Equal(t, "replacement item", updated.LineItems[0].Description)
}

func TestStatusEndpoint(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createRequest(t)

	resp := ts.do(t, http.MethodPost, fmt.Sprintf("/api/rest/v1/requests/%d/status", created.ID),
		v1requests.StatusChangeDto{Status: "for_approval"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeAs[v1requests.RequestDto](t, resp)
	require.Equal(t, "for_approval", updated.Status)
	require.Equal(t, "Final", updated.StatusLabel)

	// skipping approved is not allowed
	resp = ts.do(t, http.MethodPost, fmt.Sprintf("/api/rest/v1/requests/%d/status", created.ID),
		v1requests.StatusChangeDto{Status: "paid"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestPdfEndpointStreamsDocumentAndTracksPrint(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createRequest(t)

	resp := ts.do(t, http.MethodGet, fmt.Sprintf("/api/rest/v1/requests/%d/pdf", created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	payload, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, "%PDF", string(payload[:4]))

	resp = ts.do(t, http.MethodGet, fmt.Sprintf("/api/rest/v1/requests/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeAs[v1requests.RequestDto](t, resp)
	require.Equal(t, uint(1), fetched.PrintCount)

	// the print event payload is a plain string, not a change list
	resp = ts.do(t, http.MethodGet, fmt.Sprintf("/api/rest/v1/requests/%d/audit-log", created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	auditLog := decodeAs[v1requests.AuditLogDto](t, resp)
	require.Len(t, auditLog.Entries, 1)
	require.Equal(t, "PDF document generated", auditLog.Entries[0].Description)
	require.Empty(t, auditLog.Entries[0].Changes)
}

func TestRequestEndpointsRejectAnonymousCallers(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.srv.URL+"/api/rest/v1/requests", bytes.NewReader([]byte("{}")))
	require.NoError(t, err)

	resp, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequestEndpointsRejectInvalidApiKey(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.srv.URL+"/api/rest/v1/requests", nil)
	require.NoError(t, err)
	req.Header.Set("X-Api-Key", "wrong")

	resp, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetRequestNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/api/rest/v1/requests/4711", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateRequestRejectsMalformedAmount(t *testing.T) {
	ts := newTestServer(t)

	dto := ts.writeDto()
	dto.GrandTotalAmount = "not-a-number"

	resp := ts.do(t, http.MethodPost, "/api/rest/v1/requests", dto)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
