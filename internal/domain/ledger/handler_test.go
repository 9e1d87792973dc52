package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *testEnv, *echo.Echo) {
	env := newTestEnv()
	return NewHandler(env.svc), env, echo.New()
}

func TestHandler_CreatePatient(t *testing.T) {
	h, _, e := newTestHandler()
	body := `{"patient_name":"Maria Santos","service_name":"Orthodontics","service_type":"Installment","total_price":"1000","initial_payment":"200"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var p Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !p.Balance.Equal(dec("800")) {
		t.Errorf("balance = %s, want 800", p.Balance)
	}
}

func TestHandler_CreatePatient_BadRequest(t *testing.T) {
	h, _, e := newTestHandler()
	body := `{"service_name":"Orthodontics","service_type":"Installment"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreatePatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_GetPatient_NotFound(t *testing.T) {
	h, _, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.GetPatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_GetPatient_InvalidID(t *testing.T) {
	h, _, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetPatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_AddPayment(t *testing.T) {
	h, env, e := newTestHandler()
	p := installmentIntake(t, env, "1000", "200")

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":"500"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.AddPayment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var res PaymentResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !res.Balance.Equal(dec("300")) {
		t.Errorf("balance = %s, want 300", res.Balance)
	}
}

func TestHandler_AddPayment_UnknownPatient(t *testing.T) {
	h, _, e := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":"500"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.AddPayment(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_DeletePatient(t *testing.T) {
	h, env, e := newTestHandler()
	p := installmentIntake(t, env, "1000", "200")

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.DeletePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_ListPatients(t *testing.T) {
	h, env, e := newTestHandler()
	installmentIntake(t, env, "1000", "200")

	req := httptest.NewRequest(http.MethodGet, "/?limit=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListPatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"total":1`) {
		t.Errorf("expected total 1 in body: %s", rec.Body.String())
	}
}

func TestHandler_RecordTransaction(t *testing.T) {
	h, _, e := newTestHandler()
	body := `{"patient_name":"Walk-in","service_name":"Whitening","amount":"750"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.RecordTransaction(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_TransactionsInRange_BadDates(t *testing.T) {
	h, _, e := newTestHandler()

	cases := []string{
		"/?start=2025-13-01&end=2025-03-10",
		"/?start=2025-03-01",
		"/?start=2025-03-10&end=2025-03-01",
	}
	for _, url := range cases {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.TransactionsInRange(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %v", url, err)
		}
	}
}

func TestHandler_TransactionsInRange(t *testing.T) {
	h, env, e := newTestHandler()
	if err := env.svc.RecordTransaction(context.Background(), &Transaction{
		PatientName: "Walk-in", ServiceName: "Whitening", Amount: dec("750"),
	}); err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}

	today := env.svc.now().Format(rangeDateLayout)
	req := httptest.NewRequest(http.MethodGet, "/?start="+today+"&end="+today, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.TransactionsInRange(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"total":"750"`) {
		t.Errorf("expected total 750 in body: %s", rec.Body.String())
	}
}
