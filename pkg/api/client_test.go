package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "service-token", 5*time.Second, zap.NewNop())
}

func TestGetGroupsClassifiesStructurally(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/groups", r.URL.Path)
		assert.Equal(t, "null", r.URL.Query().Get("parent_id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"id":"g1","name_ru":"Краны"},
			{"id":"p1","name_ru":"Кран шаровой","price":4.5},
			{"id":"p2","name_ru":"Бесплатный образец","price":0}
		],"total":3}`))
	})

	items, err := client.GetGroups(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, KindGroup, items[0].Kind)
	assert.Equal(t, KindProduct, items[1].Kind)
	assert.Equal(t, 4.5, items[1].Price)

	// A present-but-zero price still means product; classification is by
	// field presence, not value.
	assert.Equal(t, KindProduct, items[2].Kind)
}

func TestGetProductNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	product, err := client.GetProduct(context.Background(), "", "nope")
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestServiceTokenFallback(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"items":[]}`))
	})

	_, err := client.GetProducts(context.Background(), "", "g1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer service-token", gotAuth)

	_, err = client.GetProducts(context.Background(), "user-token", "g1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer user-token", gotAuth)
}

func TestCreateOrderSurfacesBackendError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"organization is closed"}`))
	})

	_, err := client.CreateOrder(context.Background(), "tok", OrderRequest{})
	require.Error(t, err)
	assert.EqualError(t, err, "organization is closed")
}

func TestCreateOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		var req OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Client", req.CustomerName)
		require.Len(t, req.Items, 1)
		assert.Equal(t, 2, req.Items[0].Quantity)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"o1","order_number":1042,"status":"pending","total_amount":9}`))
	})

	order, err := client.CreateOrder(context.Background(), "tok", OrderRequest{
		CustomerName:  "Client",
		CustomerPhone: "+998900000000",
		Items: []OrderItem{
			{ProductID: "p1", ProductName: "Кран", Quantity: 2, Price: 4.5, Total: 9},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, "1042", order.OrderNumber.String())
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, 9.0, order.TotalAmount)
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/telegram/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "12345", req["telegram_id"])

		w.Write([]byte(`{"access_token":"tok","user":{"id":"u1","full_name":"Alisher","current_lang":"uz"}}`))
	})

	login, err := client.Login(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "tok", login.AccessToken)
	assert.Equal(t, "uz", login.User.CurrentLang)
}

func TestUpdateOrderStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/orders/o1", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "declined", req["status"])

		w.Write([]byte(`{"id":"o1","order_number":1042,"status":"declined"}`))
	})

	order, err := client.UpdateOrderStatus(context.Background(), "tok", "o1", "declined")
	require.NoError(t, err)
	assert.Equal(t, "declined", order.Status)
	assert.Equal(t, "1042", order.OrderNumber.String())
}

func TestDisplayNameFallbackChain(t *testing.T) {
	item := CatalogItem{NameRu: "Краны"}
	assert.Equal(t, "Краны", item.DisplayName("uz"))
	assert.Equal(t, "Краны", item.DisplayName("en"))

	item = CatalogItem{Name: "Generic"}
	assert.Equal(t, "Generic", item.DisplayName("ru"))

	assert.Equal(t, "Unknown", CatalogItem{}.DisplayName("ru"))

	item = CatalogItem{NameUz: "Valflar", NameRu: "Вентили"}
	assert.Equal(t, "Valflar", item.DisplayName("uz"))
	assert.Equal(t, "Вентили", item.DisplayName("ru"))
}
