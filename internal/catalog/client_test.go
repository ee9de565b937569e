package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bazarly/storefront-backend/pkg/config"
	"github.com/bazarly/storefront-backend/pkg/enums"
	pkgerrors "github.com/bazarly/storefront-backend/pkg/errors"
	"github.com/bazarly/storefront-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.CommerceConfig{
		BaseURL:        server.URL + "/wp-json/wc/v3",
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
		Timeout:        5 * time.Second,
	}, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client, server
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wc/v3/products/7" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("consumer_key") != "ck_test" {
			t.Error("expected consumer key auth on request")
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": 7,
			"name": "Jamdani Saree",
			"price": "4500",
			"regular_price": "5000",
			"sale_price": "4500",
			"stock_quantity": 3,
			"manage_stock": true,
			"stock_status": "instock",
			"images": [{"src": "https://cdn.example.com/p7.jpg", "alt": "saree"}]
		}`)
	})

	product, err := client.GetProduct(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.ID != 7 || product.Name != "Jamdani Saree" {
		t.Fatalf("unexpected product: %+v", product)
	}
	if !product.ManageStock || product.StockQuantity == nil || *product.StockQuantity != 3 {
		t.Fatalf("unexpected stock fields: %+v", product)
	}
	if product.StockStatus != enums.StockStatusInStock {
		t.Fatalf("unexpected stock status: %s", product.StockStatus)
	}
	if !product.OnSale() {
		t.Fatal("expected product to be on sale")
	}
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetProduct(context.Background(), 99)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestGetProductUpstreamError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetProduct(context.Background(), 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestGetProductRejectsInvalidID(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.GetProduct(context.Background(), 0)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListProductsClampsPagination(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "1" {
			t.Errorf("unexpected page: %s", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "100" {
			t.Errorf("unexpected per_page: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id": 1, "name": "Panjabi", "price": "1200", "stock_status": "instock", "stock_quantity": null, "manage_stock": false}]`)
	})

	products, err := client.ListProducts(context.Background(), 0, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].ID != 1 {
		t.Fatalf("unexpected products: %+v", products)
	}
	if products[0].StockQuantity != nil {
		t.Fatal("expected null stock quantity to stay nil")
	}
}

func TestEffectiveUnitPriceString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		product Product
		want    string
	}{
		{"sale price wins when distinct", Product{Price: "100", RegularPrice: "100", SalePrice: "80"}, "80"},
		{"regular price when sale matches", Product{Price: "90", RegularPrice: "100", SalePrice: "100"}, "100"},
		{"base price fallback", Product{Price: "55"}, "55"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.product.EffectiveUnitPriceString(); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}
