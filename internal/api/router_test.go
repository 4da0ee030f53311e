package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/budget-tracker/internal/api/handlers"
	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/infra/memory"
	"github.com/dvloznov/budget-tracker/internal/repository"
	"github.com/dvloznov/budget-tracker/internal/service"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T, repo repository.TransactionRepository) *httptest.Server {
	t.Helper()
	svc := service.New(repo, zerolog.Nop())
	srv := httptest.NewServer(NewRouter(handlers.NewTransactionsHandler(svc, zerolog.Nop()), zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func TestTransactionLifecycle(t *testing.T) {
	srv := newTestServer(t, memory.NewStore())
	base := srv.URL + "/api/transactions"

	resp, body := do(t, http.MethodPost, base, `{"description":"Salary","amount":5000,"type":"INCOME","date":"2024-01-15","category":"Work"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	var created domain.Transaction
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	resp, body = do(t, http.MethodGet, base+"/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	var fetched domain.Transaction
	if err := json.Unmarshal(body, &fetched); err != nil {
		t.Fatalf("decode fetched: %v", err)
	}
	if fetched.ID != created.ID || fetched.Amount != 5000 || fetched.Date != (civil.Date{Year: 2024, Month: 1, Day: 15}) {
		t.Errorf("fetched = %+v, want %+v", fetched, created)
	}

	do(t, http.MethodPost, base, `{"description":"Groceries","amount":40,"type":"EXPENSE","date":"2024-01-16"}`)

	resp, body = do(t, http.MethodGet, base+"/balance", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("balance status = %d", resp.StatusCode)
	}
	var bal map[string]float64
	if err := json.Unmarshal(body, &bal); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if bal["balance"] != 4960 {
		t.Errorf("balance = %v, want 4960", bal["balance"])
	}

	resp, body = do(t, http.MethodPut, base+"/"+created.ID, `{"description":"Bonus","amount":6000,"type":"INCOME","date":"2024-01-20"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d: %s", resp.StatusCode, body)
	}
	var updated domain.Transaction
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated.ID != created.ID || updated.Description != "Bonus" || updated.Category != nil {
		t.Errorf("updated = %+v", updated)
	}

	resp, body = do(t, http.MethodGet, base, "")
	var all []domain.Transaction
	if err := json.Unmarshal(body, &all); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if resp.StatusCode != http.StatusOK || len(all) != 2 {
		t.Fatalf("list = %d items (status %d), want 2", len(all), resp.StatusCode)
	}

	resp, body = do(t, http.MethodDelete, base+"/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	var del map[string]string
	if err := json.Unmarshal(body, &del); err != nil {
		t.Fatalf("decode delete: %v", err)
	}
	if del["id"] != created.ID || del["message"] != "Transaction deleted successfully" {
		t.Errorf("delete body = %v", del)
	}

	resp, body = do(t, http.MethodGet, base+"/"+created.ID, "")
	if resp.StatusCode != http.StatusNotFound || len(body) != 0 {
		t.Errorf("get after delete = %d %q, want 404 with empty body", resp.StatusCode, body)
	}

	resp, _ = do(t, http.MethodDelete, base+"/"+created.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", resp.StatusCode)
	}
}

func TestEmptyListAndZeroBalance(t *testing.T) {
	srv := newTestServer(t, memory.NewStore())

	_, body := do(t, http.MethodGet, srv.URL+"/api/transactions", "")
	if strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("list body = %q, want []", body)
	}

	_, body = do(t, http.MethodGet, srv.URL+"/api/transactions/balance", "")
	if strings.TrimSpace(string(body)) != `{"balance":0}` {
		t.Errorf("balance body = %q", body)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	srv := newTestServer(t, memory.NewStore())

	resp, body := do(t, http.MethodPut, srv.URL+"/api/transactions/missing",
		`{"description":"x","amount":1,"type":"INCOME","date":"2024-01-15"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if !strings.Contains(string(body), "Transaction not found with id: missing") {
		t.Errorf("body = %s", body)
	}
}

// failingRepo accepts nothing and reports every call as a storage failure.
type failingRepo struct {
	repository.TransactionRepository
}

func (failingRepo) Save(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	return nil, errors.New("connection refused")
}

func (failingRepo) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return nil, errors.New("connection refused")
}

func (failingRepo) FindAll(ctx context.Context) ([]*domain.Transaction, error) {
	return nil, errors.New("connection refused")
}

func TestStorageFailureMessages(t *testing.T) {
	srv := newTestServer(t, failingRepo{})
	body := `{"description":"x","amount":1,"type":"INCOME","date":"2024-01-15"}`

	resp, data := do(t, http.MethodPost, srv.URL+"/api/transactions", body)
	if resp.StatusCode != http.StatusInternalServerError || !strings.Contains(string(data), "Failed to create transaction: ") {
		t.Errorf("create = %d %s", resp.StatusCode, data)
	}

	resp, data = do(t, http.MethodPut, srv.URL+"/api/transactions/1", body)
	if resp.StatusCode != http.StatusInternalServerError || !strings.Contains(string(data), "Failed to update transaction: ") {
		t.Errorf("update = %d %s", resp.StatusCode, data)
	}

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/transactions", "")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("list = %d, want 500", resp.StatusCode)
	}

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/transactions/balance", "")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("balance = %d, want 500", resp.StatusCode)
	}
}

func TestRouting(t *testing.T) {
	srv := newTestServer(t, memory.NewStore())

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodPatch, "/api/transactions", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/transactions/balance", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/transactions/abc", http.StatusMethodNotAllowed},
		{http.MethodOptions, "/api/transactions", http.StatusNoContent},
		{http.MethodGet, "/api/transactions/a/b", http.StatusNotFound},
		{http.MethodGet, "/health", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, _ := do(t, tt.method, srv.URL+tt.path, "")
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if resp.Header.Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID header")
			}
		})
	}
}
