package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"laikavet/internal/adapters/storage/seed"
	"laikavet/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	app, err := router.New(router.Options{
		JWTSecret:   "test-secret",
		SessionTTL:  time.Hour,
		CacheSize:   16,
		CORSOrigins: []string{"http://localhost:5173"},
		Now:         func() time.Time { return time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	ts := httptest.NewServer(app)
	t.Cleanup(ts.Close)
	return ts
}

func doReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, raw
}

func login(t *testing.T, baseURL, email string) (token, redirect string) {
	t.Helper()
	st, body := doReq(t, baseURL, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": seed.Credentials[email],
	})
	require.Equal(t, http.StatusOK, st, string(body))

	var out struct {
		Token    string `json:"token"`
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token, out.Redirect
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func TestHealth(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", string(body))
}

func TestZones(t *testing.T) {
	ts := newServer(t)

	type zoneErr struct {
		Redirect string `json:"redirect"`
	}

	st, body := doReq(t, ts.URL, http.MethodGet, "/admin/patients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, st)
	assert.Equal(t, "/login", decode[zoneErr](t, body).Redirect)

	clientToken, redirect := login(t, ts.URL, "cliente@email.com")
	assert.Equal(t, "/client", redirect)

	st, body = doReq(t, ts.URL, http.MethodGet, "/admin/patients", clientToken, nil)
	assert.Equal(t, http.StatusForbidden, st)
	assert.Equal(t, "/client", decode[zoneErr](t, body).Redirect)

	vetToken, redirect := login(t, ts.URL, "sarah@laikavet.com")
	assert.Equal(t, "/admin", redirect)

	st, body = doReq(t, ts.URL, http.MethodGet, "/client/cart", vetToken, nil)
	assert.Equal(t, http.StatusForbidden, st)
	assert.Equal(t, "/admin", decode[zoneErr](t, body).Redirect)

	// el catálogo no requiere sesión
	st, body = doReq(t, ts.URL, http.MethodGet, "/client/products", "", nil)
	require.Equal(t, http.StatusOK, st)
	assert.Len(t, decode[[]map[string]any](t, body), 5)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	ts := newServer(t)

	token, _ := login(t, ts.URL, "admin@laikavet.com")

	st, _ := doReq(t, ts.URL, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, st)

	st, _ = doReq(t, ts.URL, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, st)

	st, _ = doReq(t, ts.URL, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, st)
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newServer(t)

	st, _ := doReq(t, ts.URL, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "admin@laikavet.com",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, st)
}

func TestHTTP_EndToEnd_AppointmentLifecycle(t *testing.T) {
	ts := newServer(t)
	token, _ := login(t, ts.URL, "admin@laikavet.com")

	type appt struct {
		ID      string   `json:"id"`
		Status  string   `json:"status"`
		Actions []string `json:"actions"`
	}

	st, body := doReq(t, ts.URL, http.MethodGet, "/admin/appointments?date=2025-12-02", token, nil)
	require.Equal(t, http.StatusOK, st)
	assert.Len(t, decode[[]appt](t, body), 2)

	newAppt := map[string]any{
		"patient_id": "3",
		"vet_id":     "2",
		"date":       "2025-12-03",
		"time":       "09:00",
		"type":       "cirugia",
	}
	st, body = doReq(t, ts.URL, http.MethodPost, "/admin/appointments", token, newAppt)
	require.Equal(t, http.StatusCreated, st, string(body))
	created := decode[appt](t, body)
	assert.Equal(t, "pending", created.Status)
	assert.ElementsMatch(t, []string{"confirm", "cancel"}, created.Actions)

	// mismo vet, misma franja
	st, _ = doReq(t, ts.URL, http.MethodPost, "/admin/appointments", token, newAppt)
	assert.Equal(t, http.StatusConflict, st)

	st, _ = doReq(t, ts.URL, http.MethodPost, "/admin/appointments", token, map[string]any{
		"patient_id": "404", "vet_id": "2", "date": "2025-12-03", "time": "10:00",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, st)

	st, _ = doReq(t, ts.URL, http.MethodPost, "/admin/appointments/"+created.ID+"/complete", token, nil)
	assert.Equal(t, http.StatusConflict, st)

	st, body = doReq(t, ts.URL, http.MethodPost, "/admin/appointments/"+created.ID+"/confirm", token, nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, "confirmed", decode[appt](t, body).Status)

	st, body = doReq(t, ts.URL, http.MethodPost, "/admin/appointments/"+created.ID+"/transition", token, map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, st)
	done := decode[appt](t, body)
	assert.Equal(t, "done", done.Status)
	assert.Empty(t, done.Actions)

	st, _ = doReq(t, ts.URL, http.MethodPost, "/admin/appointments/"+created.ID+"/cancel", token, nil)
	assert.Equal(t, http.StatusConflict, st)
}

func TestHTTP_EndToEnd_PatientHistory(t *testing.T) {
	ts := newServer(t)
	token, _ := login(t, ts.URL, "sarah@laikavet.com")

	st, body := doReq(t, ts.URL, http.MethodPost, "/admin/patients/1/history", token, map[string]string{
		"reason":    "Control",
		"diagnosis": "Healthy",
	})
	require.Equal(t, http.StatusCreated, st, string(body))

	st, body = doReq(t, ts.URL, http.MethodGet, "/admin/patients/1/history", token, nil)
	require.Equal(t, http.StatusOK, st)
	history := decode[[]map[string]any](t, body)
	require.Len(t, history, 2)
	assert.Equal(t, "Control", history[0]["reason"])
	assert.Equal(t, "2", history[0]["vet_id"])
}

func TestHTTP_EndToEnd_Checkout(t *testing.T) {
	ts := newServer(t)
	token, _ := login(t, ts.URL, "cliente@email.com")

	type cartResp struct {
		Count int    `json:"count"`
		Total string `json:"total"`
	}
	type checkoutResp struct {
		ID      string `json:"id"`
		Step    string `json:"step"`
		Total   string `json:"total"`
		OrderID string `json:"order_id"`
	}

	st, body := doReq(t, ts.URL, http.MethodPost, "/client/cart/items", token, map[string]string{"product_id": "3"})
	require.Equal(t, http.StatusOK, st, string(body))
	c := decode[cartResp](t, body)
	assert.Equal(t, 1, c.Count)
	assert.Equal(t, "30.25", c.Total)

	st, body = doReq(t, ts.URL, http.MethodPost, "/client/checkout", token, nil)
	require.Equal(t, http.StatusCreated, st, string(body))
	sess := decode[checkoutResp](t, body)
	assert.Equal(t, "shipping", sess.Step)

	st, _ = doReq(t, ts.URL, http.MethodPost, "/client/checkout/"+sess.ID+"/payment", token, nil)
	assert.Equal(t, http.StatusConflict, st)

	st, body = doReq(t, ts.URL, http.MethodPost, "/client/checkout/"+sess.ID+"/shipping", token, map[string]string{
		"first_name": "Ana",
		"last_name":  "Pérez",
		"street":     "Calle 1",
		"city":       "Rosario",
		"zip":        "2000",
	})
	require.Equal(t, http.StatusOK, st, string(body))
	assert.Equal(t, "payment", decode[checkoutResp](t, body).Step)

	st, body = doReq(t, ts.URL, http.MethodPost, "/client/checkout/"+sess.ID+"/payment", token, nil)
	require.Equal(t, http.StatusOK, st, string(body))
	paid := decode[checkoutResp](t, body)
	assert.Equal(t, "success", paid.Step)
	assert.Equal(t, "30.25", paid.Total)
	require.NotEmpty(t, paid.OrderID)

	st, body = doReq(t, ts.URL, http.MethodGet, "/client/cart", token, nil)
	require.Equal(t, http.StatusOK, st)
	assert.Zero(t, decode[cartResp](t, body).Count)

	st, body = doReq(t, ts.URL, http.MethodGet, "/client/products/3", token, nil)
	require.Equal(t, http.StatusOK, st)
	assert.EqualValues(t, 4, decode[map[string]any](t, body)["stock"])

	st, body = doReq(t, ts.URL, http.MethodGet, "/client/orders", token, nil)
	require.Equal(t, http.StatusOK, st)
	var ids []string
	for _, o := range decode[[]map[string]any](t, body) {
		ids = append(ids, o["id"].(string))
	}
	assert.Len(t, ids, 4)
	assert.Contains(t, ids, paid.OrderID)
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := router.New(router.Options{})
	assert.Error(t, err)
}
