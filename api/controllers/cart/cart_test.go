package cart

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	cartsvc "github.com/bazarly/storefront-backend/internal/cart"
	"github.com/bazarly/storefront-backend/internal/catalog"
	"github.com/bazarly/storefront-backend/pkg/auth"
	"github.com/bazarly/storefront-backend/pkg/enums"
	pkgerrors "github.com/bazarly/storefront-backend/pkg/errors"
	"github.com/bazarly/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type serviceStub struct {
	state      cartsvc.State
	result     cartsvc.Result
	err        error
	pending    []int64
	lastID     auth.Identity
	lastProd   int64
	lastQty    int
	lastMethod string
}

func (s *serviceStub) GetCart(_ context.Context, id auth.Identity) cartsvc.State {
	s.lastMethod, s.lastID = "get", id
	return s.state
}

func (s *serviceStub) PendingAdds(id auth.Identity) []int64 {
	s.lastMethod, s.lastID = "pending", id
	return s.pending
}

func (s *serviceStub) AddItem(_ context.Context, id auth.Identity, productID int64, quantity int) (cartsvc.State, cartsvc.Result, error) {
	s.lastMethod, s.lastID, s.lastProd, s.lastQty = "add", id, productID, quantity
	return s.state, s.result, s.err
}

func (s *serviceStub) UpdateQuantity(_ context.Context, id auth.Identity, productID int64, quantity int) (cartsvc.State, cartsvc.Result) {
	s.lastMethod, s.lastID, s.lastProd, s.lastQty = "update", id, productID, quantity
	return s.state, s.result
}

func (s *serviceStub) RemoveItem(_ context.Context, id auth.Identity, productID int64) cartsvc.State {
	s.lastMethod, s.lastID, s.lastProd = "remove", id, productID
	return s.state
}

func (s *serviceStub) ClearCart(_ context.Context, id auth.Identity) cartsvc.State {
	s.lastMethod, s.lastID = "clear", id
	return s.state
}

func (s *serviceStub) BeginCheckout(_ context.Context, id auth.Identity) (cartsvc.State, error) {
	s.lastMethod, s.lastID = "checkout", id
	return s.state, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func sampleState() cartsvc.State {
	return cartsvc.State{
		Items: []cartsvc.LineItem{
			{
				Product: catalog.Product{
					ID:          1,
					Name:        "steel kettle",
					Price:       "800.00",
					Images:      []catalog.Image{{Src: "https://cdn.example/kettle.jpg"}},
					StockStatus: enums.StockStatusInStock,
				},
				Quantity: 2,
			},
		},
		TotalItems: 2,
		TotalPrice: decimal.RequireFromString("1600.00"),
	}
}

func decodeCart(t *testing.T, body []byte) cartView {
	t.Helper()
	var envelope struct {
		Data cartView `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	return envelope.Data
}

func TestCartFetch(t *testing.T) {
	t.Parallel()

	stub := &serviceStub{state: sampleState()}
	rec := httptest.NewRecorder()
	CartFetch(stub, testLogger())(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	view := decodeCart(t, rec.Body.Bytes())
	if len(view.Items) != 1 || view.Items[0].ProductID != 1 {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Items[0].LineTotal != "1600.00" || view.TotalPrice != "1600.00" {
		t.Errorf("unexpected totals %+v", view)
	}
	if view.Items[0].ImageSrc != "https://cdn.example/kettle.jpg" {
		t.Errorf("expected first image src, got %q", view.Items[0].ImageSrc)
	}
	if view.Result != nil {
		t.Error("expected no result on a plain fetch")
	}
}

func TestCartAddItem(t *testing.T) {
	t.Parallel()

	stub := &serviceStub{state: sampleState(), result: cartsvc.Result{OK: true}}
	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"product_id":1,"quantity":2}`))
	rec := httptest.NewRecorder()
	CartAddItem(stub, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.lastProd != 1 || stub.lastQty != 2 {
		t.Errorf("expected service call with (1, 2), got (%d, %d)", stub.lastProd, stub.lastQty)
	}
	view := decodeCart(t, rec.Body.Bytes())
	if view.Result == nil || !view.Result.OK {
		t.Errorf("expected accepted result, got %+v", view.Result)
	}
}

func TestCartAddItemRejectionIsNotAnHTTPError(t *testing.T) {
	t.Parallel()

	remaining := 1
	stub := &serviceStub{
		state:  sampleState(),
		result: cartsvc.Result{Reason: enums.RejectReasonInsufficientStock, Remaining: &remaining},
	}
	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"product_id":1,"quantity":5}`))
	rec := httptest.NewRecorder()
	CartAddItem(stub, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected rejection to ride a 200, got %d", rec.Code)
	}
	view := decodeCart(t, rec.Body.Bytes())
	if view.Result == nil || view.Result.OK {
		t.Fatalf("expected rejected result, got %+v", view.Result)
	}
	if view.Result.Reason != "insufficient_stock" {
		t.Errorf("unexpected reason %q", view.Result.Reason)
	}
	if view.Result.Remaining == nil || *view.Result.Remaining != 1 {
		t.Errorf("expected remaining hint 1, got %v", view.Result.Remaining)
	}
}

func TestCartAddItemValidation(t *testing.T) {
	t.Parallel()

	stub := &serviceStub{}
	tests := []struct {
		name string
		body string
	}{
		{"missing product id", `{"quantity":1}`},
		{"unknown field", `{"product_id":1,"quantity":1,"color":"red"}`},
		{"malformed json", `{`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			CartAddItem(stub, testLogger())(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestCartUpdateItemAllowsZero(t *testing.T) {
	t.Parallel()

	stub := &serviceStub{state: cartsvc.State{}, result: cartsvc.Result{OK: true}}
	router := chi.NewRouter()
	router.Patch("/items/{productId}", CartUpdateItem(stub, testLogger()))

	req := httptest.NewRequest(http.MethodPatch, "/items/7", strings.NewReader(`{"quantity":0}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.lastProd != 7 || stub.lastQty != 0 {
		t.Errorf("expected update call with (7, 0), got (%d, %d)", stub.lastProd, stub.lastQty)
	}
}

func TestCartUpdateItemRequiresQuantity(t *testing.T) {
	t.Parallel()

	stub := &serviceStub{}
	router := chi.NewRouter()
	router.Patch("/items/{productId}", CartUpdateItem(stub, testLogger()))

	req := httptest.NewRequest(http.MethodPatch, "/items/7", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing quantity, got %d", rec.Code)
	}
}

func TestCartRemoveItemBadParam(t *testing.T) {
	t.Parallel()

	stub := &serviceStub{}
	router := chi.NewRouter()
	router.Delete("/items/{productId}", CartRemoveItem(stub, testLogger()))

	req := httptest.NewRequest(http.MethodDelete, "/items/not-a-number", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCartClear(t *testing.T) {
	t.Parallel()

	stub := &serviceStub{state: cartsvc.State{}}
	rec := httptest.NewRecorder()
	CartClear(stub, testLogger())(rec, httptest.NewRequest(http.MethodDelete, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.lastMethod != "clear" {
		t.Errorf("expected clear call, got %q", stub.lastMethod)
	}
}

func TestCartPending(t *testing.T) {
	t.Parallel()

	stub := &serviceStub{pending: []int64{3, 9}}
	rec := httptest.NewRecorder()
	CartPending(stub, testLogger())(rec, httptest.NewRequest(http.MethodGet, "/pending", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			Pending []int64 `json:"pending"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(envelope.Data.Pending) != 2 || envelope.Data.Pending[0] != 3 {
		t.Errorf("unexpected pending list %v", envelope.Data.Pending)
	}
}

func TestCheckoutBeginEmptyCart(t *testing.T) {
	t.Parallel()

	stub := &serviceStub{err: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}
	rec := httptest.NewRecorder()
	CheckoutBegin(stub, testLogger())(rec, httptest.NewRequest(http.MethodPost, "/checkout", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty cart, got %d", rec.Code)
	}
}

func TestNilServiceRespondsInternal(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	CartFetch(nil, testLogger())(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
