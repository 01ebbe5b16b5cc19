package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"watchshop/internal/auth"
	"watchshop/internal/models"
	"watchshop/internal/payment"
	"watchshop/internal/repository/memory"
)

type stubIntents struct {
	intent *stripe.PaymentIntent
	err    error
	calls  int
}

func (s *stubIntents) New(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	s.calls++
	return s.intent, s.err
}

type fixture struct {
	store   *memory.Store
	intents *stubIntents
	router  *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	binding.EnableDecoderDisallowUnknownFields = true

	tokens, err := auth.NewTokenService("test-secret")
	require.NoError(t, err)

	store := memory.NewStore()
	intents := &stubIntents{intent: &stripe.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret"}}
	bridge := payment.NewBridge(intents, "usd", store.Set().Payments, store.Set().Carts, nil)
	h := New(store.Set(), tokens, bridge, time.Second)

	r := gin.New()
	r.GET("/", h.Health)
	r.POST("/jwt", h.IssueToken)
	r.GET("/items", h.ListProducts)
	r.GET("/items/:id", h.GetProduct)
	r.POST("/items", h.CreateProduct)
	r.PUT("/items/:id", h.UpsertProduct)
	r.DELETE("/items/:id", h.DeleteProduct)
	r.GET("/reviews", h.ListReviews)
	r.POST("/carts", h.AddToCart)
	r.GET("/carts/:cart", h.ListCart)
	r.DELETE("/carts/:cart", h.RemoveFromCart)
	r.POST("/users", h.RegisterUser)
	r.GET("/users", h.ListUsers)
	r.GET("/users/:user/admin-status", h.AdminStatus)
	r.PATCH("/users/:user/admin", h.GrantAdmin)
	r.DELETE("/users/:user", h.DeleteUser)
	r.POST("/create-payment-intent", h.CreatePaymentIntent)
	r.POST("/payment", h.SettlePayment)
	r.GET("/payment/history/:email", h.PaymentHistory)

	return &fixture{store: store, intents: intents, router: r}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "watch shop server is running", w.Body.String())
}

func TestIssueToken(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/jwt", `{"email":"a@x.com","name":"Ann"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[map[string]string](t, w)
	tokens, _ := auth.NewTokenService("test-secret")
	claims, err := tokens.Verify(body["token"])
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "Ann", claims.Name)
}

func TestIssueToken_RequiresEmail(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/jwt", `{"name":"Ann"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":true,"message":"invalid request body"}`, w.Body.String())
}

func TestProducts_ListAndGet(t *testing.T) {
	f := newFixture(t)
	id := f.store.SeedProduct(models.Product{Name: "Diver", Price: 250})
	f.store.SeedProduct(models.Product{Name: "Chrono", Price: 410})

	w := f.do(http.MethodGet, "/items", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.Product](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, "Diver", list[0].Name)

	w = f.do(http.MethodGet, "/items/"+id.Hex(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode[models.Product](t, w).ID)
}

func TestGetProduct_AbsentIsNull(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/items/"+primitive.NewObjectID().Hex(), "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestMalformedIDs_NoStoreCall(t *testing.T) {
	f := newFixture(t)

	cases := []struct{ method, path, body string }{
		{http.MethodGet, "/items/not-an-id", ""},
		{http.MethodPut, "/items/not-an-id", `{"name":"x","price":1}`},
		{http.MethodDelete, "/items/not-an-id", ""},
		{http.MethodDelete, "/carts/not-an-id", ""},
		{http.MethodPatch, "/users/not-an-id/admin", ""},
		{http.MethodDelete, "/users/not-an-id", ""},
	}
	for _, tc := range cases {
		w := f.do(tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s %s", tc.method, tc.path)
		assert.JSONEq(t, `{"error":true,"message":"invalid identifier"}`, w.Body.String())
	}

	assert.Zero(t, f.store.Products.Calls)
	assert.Zero(t, f.store.Carts.Calls)
	assert.Zero(t, f.store.Users.Calls)
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/items", `{"name":"Field","price":120.5,"image":"f.png","details":"steel"}`)
	require.Equal(t, http.StatusOK, w.Code)

	ack := decode[map[string]any](t, w)
	assert.Equal(t, true, ack["acknowledged"])
	assert.NotEmpty(t, ack["insertedId"])

	stored := memory.All(f.store.Products)
	require.Len(t, stored, 1)
	assert.Equal(t, "Field", stored[0].Name)
}

func TestCreateProduct_RejectsUnknownFields(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/items", `{"name":"Field","price":1,"discount":5}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, f.store.Products.Calls)
}

func TestUpsertProduct(t *testing.T) {
	f := newFixture(t)
	id := primitive.NewObjectID()

	w := f.do(http.MethodPut, "/items/"+id.Hex(), `{"name":"Pilot","price":300}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"acknowledged":true,"matchedCount":0,"modifiedCount":0,"upsertedCount":1,"upsertedId":"`+id.Hex()+`"}`, w.Body.String())

	w = f.do(http.MethodPut, "/items/"+id.Hex(), `{"name":"Pilot","price":320}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"acknowledged":true,"matchedCount":1,"modifiedCount":1,"upsertedCount":0,"upsertedId":null}`, w.Body.String())
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t)
	id := f.store.SeedProduct(models.Product{Name: "Diver"})

	w := f.do(http.MethodDelete, "/items/"+id.Hex(), "")
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, w.Body.String())

	w = f.do(http.MethodDelete, "/items/"+id.Hex(), "")
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":0}`, w.Body.String())
}

func TestListReviews(t *testing.T) {
	f := newFixture(t)
	f.store.SeedReview(models.Review{Name: "Bo", Rating: 4.5})

	w := f.do(http.MethodGet, "/reviews", "")

	require.Equal(t, http.StatusOK, w.Code)
	reviews := decode[[]models.Review](t, w)
	require.Len(t, reviews, 1)
	assert.Equal(t, 4.5, reviews[0].Rating)
}

func TestListReviews_Empty(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/reviews", "")

	assert.Equal(t, "[]", w.Body.String())
}

func TestCart_AddListRemove(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/carts", `{"email":"a@x.com","itemId":"w1","name":"Diver","price":250}`)
	require.Equal(t, http.StatusOK, w.Code)
	f.store.SeedCart(models.CartItem{Email: "b@x.com", ItemID: "w2"})

	w = f.do(http.MethodGet, "/carts/a@x.com", "")
	require.Equal(t, http.StatusOK, w.Code)
	items := decode[[]models.CartItem](t, w)
	require.Len(t, items, 1)
	assert.Equal(t, "w1", items[0].ItemID)

	w = f.do(http.MethodDelete, "/carts/"+items[0].ID.Hex(), "")
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, w.Body.String())
	assert.Len(t, memory.All(f.store.Carts), 1)
}

func TestRegisterUser_Duplicate(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/users", `{"email":"a@x.com","name":"Ann"}`)
	require.Equal(t, http.StatusOK, w.Code)
	ack := decode[map[string]any](t, w)
	assert.Equal(t, true, ack["acknowledged"])

	w = f.do(http.MethodPost, "/users", `{"email":"a@x.com","name":"Ann again"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"user already exists"}`, w.Body.String())

	users := memory.All(f.store.Users)
	require.Len(t, users, 1)
	assert.Equal(t, "Ann", users[0].Name)
}

func TestRegisterUser_CannotSupplyRole(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/users", `{"email":"a@x.com","role":"admin"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, memory.All(f.store.Users))
}

func TestGrantAdmin_ThenAdminStatus(t *testing.T) {
	f := newFixture(t)
	id := f.store.SeedUser(models.User{Email: "a@x.com"})

	w := f.do(http.MethodGet, "/users/a@x.com/admin-status", "")
	assert.JSONEq(t, `{"admin":false}`, w.Body.String())

	w = f.do(http.MethodPatch, "/users/"+id.Hex()+"/admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"acknowledged":true,"matchedCount":1,"modifiedCount":1,"upsertedCount":0,"upsertedId":null}`, w.Body.String())

	w = f.do(http.MethodGet, "/users/a@x.com/admin-status", "")
	assert.JSONEq(t, `{"admin":true}`, w.Body.String())
}

func TestAdminStatus_UnknownEmail(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/users/nobody@x.com/admin-status", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"admin":false}`, w.Body.String())
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	id := f.store.SeedUser(models.User{Email: "a@x.com"})
	f.store.SeedUser(models.User{Email: "b@x.com"})

	w := f.do(http.MethodDelete, "/users/"+id.Hex(), "")
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, w.Body.String())

	w = f.do(http.MethodGet, "/users", "")
	users := decode[[]models.User](t, w)
	require.Len(t, users, 1)
	assert.Equal(t, "b@x.com", users[0].Email)
}

func TestStoreFailure_Is500(t *testing.T) {
	f := newFixture(t)
	f.store.Users.Err = errors.New("connection reset by peer")

	w := f.do(http.MethodGet, "/users", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":true,"message":"internal server error"}`, w.Body.String())
}

func TestCreatePaymentIntent(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/create-payment-intent", `{"price":19.99}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"clientSecret":"pi_1_secret"}`, w.Body.String())
	assert.Equal(t, 1, f.intents.calls)
}

func TestCreatePaymentIntent_RejectsNonPositivePrice(t *testing.T) {
	f := newFixture(t)

	for _, body := range []string{`{"price":0}`, `{"price":-5}`, `{}`} {
		w := f.do(http.MethodPost, "/create-payment-intent", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Zero(t, f.intents.calls)
}

func TestCreatePaymentIntent_ProcessorErrorPassesThrough(t *testing.T) {
	f := newFixture(t)
	f.intents.intent = nil
	f.intents.err = &stripe.Error{HTTPStatusCode: http.StatusPaymentRequired, Msg: "Your card was declined."}

	w := f.do(http.MethodPost, "/create-payment-intent", `{"price":10}`)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.JSONEq(t, `{"error":true,"message":"Your card was declined."}`, w.Body.String())
}

func TestSettlePayment(t *testing.T) {
	f := newFixture(t)
	a := f.store.SeedCart(models.CartItem{Email: "a@x.com", ItemID: "w1"})
	b := f.store.SeedCart(models.CartItem{Email: "a@x.com", ItemID: "w2"})
	c := f.store.SeedCart(models.CartItem{Email: "a@x.com", ItemID: "w3"})
	f.store.SeedCart(models.CartItem{Email: "a@x.com", ItemID: "w4"})

	body := `{"email":"a@x.com","transactionId":"pi_1","price":30,"quantity":3,"cartItems":["` +
		a.Hex() + `","` + b.Hex() + `","` + c.Hex() + `"]}`
	w := f.do(http.MethodPost, "/payment", body)
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[map[string]map[string]any](t, w)
	assert.Equal(t, true, res["insertedResult"]["acknowledged"])
	assert.EqualValues(t, 3, res["deletedResult"]["deletedCount"])

	assert.Len(t, memory.All(f.store.Payments), 1)
	assert.Len(t, memory.All(f.store.Carts), 1)

	w = f.do(http.MethodGet, "/payment/history/a@x.com", "")
	history := decode[[]models.PaymentRecord](t, w)
	require.Len(t, history, 1)
	assert.Equal(t, models.PaymentStatusPending, history[0].Status)
	assert.False(t, history[0].Date.IsZero())
}

func TestSettlePayment_MalformedCartID(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/payment", `{"email":"a@x.com","transactionId":"pi_1","cartItems":["nope"]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":true,"message":"invalid identifier"}`, w.Body.String())
	assert.Zero(t, f.store.Payments.Calls)
	assert.Zero(t, f.store.Carts.Calls)
}

func TestObjectIDValidationRegistered(t *testing.T) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	assert.NoError(t, v.Var(primitive.NewObjectID().Hex(), "objectid"))
	assert.Error(t, v.Var("nope", "objectid"))
}
