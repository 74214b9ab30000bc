package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/hereafter-labs/will-registry-api/allocations"
	"github.com/hereafter-labs/will-registry-api/events"
	"github.com/hereafter-labs/will-registry-api/ledger"
	"github.com/hereafter-labs/will-registry-api/ledger/simple"
	"github.com/hereafter-labs/will-registry-api/wills"
	"github.com/gorilla/mux"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testRouter(t *testing.T) (*mux.Router, *simple.Ledger) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}

	err = db.AutoMigrate(
		&wills.Will{}, &wills.Beneficiary{},
		&allocations.Allocation{}, &events.Event{},
	)
	if err != nil {
		t.Fatal(err)
	}

	assets := simple.NewLedger()
	eventStore := events.NewGormStore(db)

	service := wills.NewService(
		wills.NewGormStore(db),
		allocations.NewGormStore(db),
		assets,
		events.NewEmitter(eventStore),
		wills.WithConfig(wills.Config{
			MinGracePeriod:       time.Hour,
			MaxGracePeriod:       720 * time.Hour,
			MinActivityThreshold: 2 * time.Hour,
			MaxActivityThreshold: 8760 * time.Hour,
		}),
	)

	willHandler := NewWills(service)
	eventHandler := NewEvents(eventStore)

	r := mux.NewRouter()
	rv := r.PathPrefix("/{apiVersion}").Subrouter()
	rv.Handle("/wills", willHandler.List()).Methods(http.MethodGet)
	rv.Handle("/wills", willHandler.Create()).Methods(http.MethodPost)
	rv.Handle("/wills/{willId}", willHandler.Details()).Methods(http.MethodGet)
	rv.Handle("/wills/{willId}/claims", willHandler.Claim()).Methods(http.MethodPost)
	rv.Handle("/wills/{willId}/events", eventHandler.List()).Methods(http.MethodGet)

	return r, assets
}

func postJSON(t *testing.T, r *mux.Router, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	content, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(content))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func get(t *testing.T, r *mux.Router, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestWillEndpoints(t *testing.T) {
	r, assets := testRouter(t)

	assets.Mint(ledger.Transfer{Kind: ledger.Fungible, AssetID: "gold", Amount: 100, Holder: "0xa11ce"})

	createBody := wills.CreateWillRequest{
		Owner: "0xa11ce",
		Name:  "estate",
		Allocations: []wills.AllocationGroup{
			{
				Kind:          "fungible",
				AssetID:       "gold",
				Amounts:       []uint64{100},
				Beneficiaries: []string{"0xb0b"},
			},
		},
		GracePeriod:       3600,
		ActivityThreshold: 7200,
	}

	var created wills.Will

	t.Run("create", func(t *testing.T) {
		rr := postJSON(t, r, "/v1/wills", createBody)
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
		}
		if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
			t.Fatal(err)
		}
		if created.ID == 0 {
			t.Error("expected a will id in the response")
		}
	})

	t.Run("create rejects an empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/wills", nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("create requires a json content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/wills", bytes.NewReader([]byte("{}")))
		req.Header.Set("Content-Type", "text/plain")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnsupportedMediaType {
			t.Errorf("expected status 415, got %d", rr.Code)
		}
	})

	t.Run("details", func(t *testing.T) {
		rr := get(t, r, "/v1/wills/1")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}

		var details wills.WillDetails
		if err := json.NewDecoder(rr.Body).Decode(&details); err != nil {
			t.Fatal(err)
		}
		if len(details.Beneficiaries) != 1 {
			t.Errorf("expected 1 beneficiary, got %d", len(details.Beneficiaries))
		}
	})

	t.Run("details of an unknown will", func(t *testing.T) {
		rr := get(t, r, "/v1/wills/4242")
		if rr.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rr.Code)
		}
	})

	t.Run("details with a malformed id", func(t *testing.T) {
		rr := get(t, r, "/v1/wills/pending")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("list by owner", func(t *testing.T) {
		rr := get(t, r, "/v1/wills?owner=0xa11ce")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		var ww []wills.Will
		if err := json.NewDecoder(rr.Body).Decode(&ww); err != nil {
			t.Fatal(err)
		}
		if len(ww) != 1 {
			t.Errorf("expected 1 will, got %d", len(ww))
		}
	})

	t.Run("list without a filter", func(t *testing.T) {
		rr := get(t, r, "/v1/wills")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("claim before trigger", func(t *testing.T) {
		rr := postJSON(t, r, "/v1/wills/1/claims", map[string]string{"beneficiary": "0xb0b"})
		if rr.Code != http.StatusConflict {
			t.Errorf("expected status 409, got %d: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("events", func(t *testing.T) {
		rr := get(t, r, "/v1/wills/1/events")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		var ee []events.Event
		if err := json.NewDecoder(rr.Body).Decode(&ee); err != nil {
			t.Fatal(err)
		}
		if len(ee) != 2 {
			t.Errorf("expected 2 events, got %d", len(ee))
		}
	})
}
