package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atl3/trendpanel/internal/auth"
	"github.com/atl3/trendpanel/internal/config"
	"github.com/atl3/trendpanel/internal/deps"
	"github.com/atl3/trendpanel/internal/errs"
	"github.com/atl3/trendpanel/internal/middleware"
	"github.com/atl3/trendpanel/internal/mocks"
	"github.com/atl3/trendpanel/internal/model"
	"github.com/atl3/trendpanel/internal/state"
	"github.com/atl3/trendpanel/internal/statestore"
	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

func setup(t *testing.T) (*Server, *mocks.MockStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockStorage := mocks.NewMockStorage(ctrl)

	logger := zaptest.NewLogger(t)
	cfg := &config.Config{Logger: logger.Sugar()}
	d := &deps.Deps{
		TokenManager: auth.NewTokenManager("testsecret"),
		Logger:       logger.Sugar(),
	}
	store := state.NewStore(statestore.New(filepath.Join(t.TempDir(), "state.json")), logger.Sugar())

	srv := NewServer(mockStorage, store, cfg, d)

	return srv, mockStorage
}

func withUser(req *http.Request, user model.User) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, user)
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestLoginHandler(t *testing.T) {
	srv, mock := setup(t)

	pw, _ := bcryptHash("pass")
	mock.EXPECT().
		GetUserByEmail(gomock.Any(), "user@example.com").
		Return(model.User{ID: 1, Name: "Demo User", Email: "user@example.com", Role: model.RoleUser}, pw, nil)

	payload := `{"email":"user@example.com","password":"pass"}`
	req := httptest.NewRequest("POST", "/api/login", strings.NewReader(payload))
	w := httptest.NewRecorder()

	srv.LoginHandler(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Authorization"), "Bearer "))

	var body model.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.Success)
	require.Equal(t, 1, body.UserID)
}

func TestLoginHandlerWrongPassword(t *testing.T) {
	srv, mock := setup(t)

	pw, _ := bcryptHash("correct")
	mock.EXPECT().
		GetUserByEmail(gomock.Any(), "user@example.com").
		Return(model.User{ID: 1, Email: "user@example.com"}, pw, nil)

	payload := `{"email":"user@example.com","password":"wrong"}`
	req := httptest.NewRequest("POST", "/api/login", strings.NewReader(payload))
	w := httptest.NewRecorder()

	srv.LoginHandler(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body model.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.False(t, body.Success)
	require.Equal(t, "Wrong password", body.Message)
}

func TestLoginHandlerUserNotFound(t *testing.T) {
	srv, mock := setup(t)

	mock.EXPECT().
		GetUserByEmail(gomock.Any(), "ghost@example.com").
		Return(model.User{}, "", errs.ErrUserNotFound)

	payload := `{"email":"ghost@example.com","password":"pass"}`
	req := httptest.NewRequest("POST", "/api/login", strings.NewReader(payload))
	w := httptest.NewRecorder()

	srv.LoginHandler(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	var body model.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.False(t, body.Success)
	require.Equal(t, "User not found", body.Message)
}

func TestSignupHandler(t *testing.T) {
	srv, mock := setup(t)

	mock.EXPECT().
		CreateUser(gomock.Any(), "New User", "new@example.com", gomock.Any()).
		Return(3, nil)

	payload := `{"name":"New User","email":"new@example.com","password":"pass"}`
	req := httptest.NewRequest("POST", "/api/signup", strings.NewReader(payload))
	w := httptest.NewRecorder()

	srv.SignupHandler(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Authorization"), "Bearer "))

	var body model.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.Success)
	require.Equal(t, 3, body.UserID)
}

func TestSignupHandlerDuplicateEmail(t *testing.T) {
	srv, mock := setup(t)

	mock.EXPECT().
		CreateUser(gomock.Any(), "New User", "taken@example.com", gomock.Any()).
		Return(0, errs.ErrEmailAlreadyExists)

	payload := `{"name":"New User","email":"taken@example.com","password":"pass"}`
	req := httptest.NewRequest("POST", "/api/signup", strings.NewReader(payload))
	w := httptest.NewRecorder()

	srv.SignupHandler(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body model.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.False(t, body.Success)
	require.Equal(t, "Email already exists", body.Message)
}

func TestPlaceOrderHandler(t *testing.T) {
	srv, _ := setup(t)

	payload := `{"service_id":"101","link":"https://tiktok.com/@me","quantity":1000}`
	req := httptest.NewRequest("POST", "/api/user/orders", strings.NewReader(payload))
	w := httptest.NewRecorder()

	srv.PlaceOrderHandler(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order model.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	require.Equal(t, "TikTok Views", order.ServiceName)
	require.True(t, order.Charge.Equal(decimal.NewFromFloat(0.50)), "charge: %s", order.Charge)
	require.Equal(t, model.OrderPending, order.Status)

	snap := srv.store.Snapshot()
	require.Equal(t, order.ID, snap.Orders[0].ID)
	require.True(t, snap.Balance.Equal(decimal.NewFromFloat(4.50)))
	require.True(t, snap.Spent.Equal(decimal.NewFromFloat(126.00)))
}

func TestPlaceOrderHandlerQuantityBounds(t *testing.T) {
	srv, _ := setup(t)

	// service 101 accepts 1000 at minimum
	payload := `{"service_id":"101","link":"https://tiktok.com/@me","quantity":10}`
	req := httptest.NewRequest("POST", "/api/user/orders", strings.NewReader(payload))
	w := httptest.NewRecorder()

	srv.PlaceOrderHandler(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Result().StatusCode)
	require.Len(t, srv.store.Snapshot().Orders, 2, "no order added")
}

func TestPlaceOrderHandlerInsufficientFunds(t *testing.T) {
	srv, _ := setup(t)

	// 500 subscribers at rate 12.00 is 6.00, above the 5.00 balance
	payload := `{"service_id":"301","link":"https://youtube.com/@me","quantity":500}`
	req := httptest.NewRequest("POST", "/api/user/orders", strings.NewReader(payload))
	w := httptest.NewRecorder()

	srv.PlaceOrderHandler(w, req)

	require.Equal(t, http.StatusPaymentRequired, w.Result().StatusCode)
	require.True(t, srv.store.Snapshot().Balance.Equal(decimal.NewFromFloat(5.00)))
}

func TestDepositHandler(t *testing.T) {
	srv, _ := setup(t)

	payload := `{"method":"wallet","amount":20}`
	req := httptest.NewRequest("POST", "/api/user/balance/deposit", strings.NewReader(payload))
	w := httptest.NewRecorder()

	srv.DepositHandler(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, srv.store.Snapshot().Balance.Equal(decimal.NewFromFloat(25.00)))
}

func TestDepositHandlerBelowMinimum(t *testing.T) {
	srv, _ := setup(t)

	// card requires at least 10
	payload := `{"method":"card","amount":5}`
	req := httptest.NewRequest("POST", "/api/user/balance/deposit", strings.NewReader(payload))
	w := httptest.NewRecorder()

	srv.DepositHandler(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Result().StatusCode)
	require.True(t, srv.store.Snapshot().Balance.Equal(decimal.NewFromFloat(5.00)))
}

func TestOpenTicketHandler(t *testing.T) {
	srv, _ := setup(t)

	payload := `{"subject":"Refund request","message":"Please refund order ord-8821"}`
	req := httptest.NewRequest("POST", "/api/user/tickets", strings.NewReader(payload))
	w := httptest.NewRecorder()

	srv.OpenTicketHandler(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var ticket model.Ticket
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ticket))
	require.Equal(t, model.TicketOpen, ticket.Status)
	require.Len(t, ticket.Messages, 1)

	snap := srv.store.Snapshot()
	require.Equal(t, ticket.ID, snap.Tickets[0].ID)
}

func TestReplyTicketHandler(t *testing.T) {
	srv, _ := setup(t)

	payload := `{"message":"We are on it"}`
	req := httptest.NewRequest("POST", "/api/user/tickets/tkt-001/reply", strings.NewReader(payload))
	req = withUser(req, model.User{ID: 2, Name: "Admin", Role: model.RoleAdmin})
	req = withURLParam(req, "ticketID", "tkt-001")
	w := httptest.NewRecorder()

	srv.ReplyTicketHandler(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ticket model.Ticket
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ticket))
	require.Equal(t, model.TicketAnswered, ticket.Status)
	require.Equal(t, model.SenderAdmin, ticket.Messages[len(ticket.Messages)-1].Sender)
}

func TestReplyTicketHandlerNotFound(t *testing.T) {
	srv, _ := setup(t)

	payload := `{"message":"hello"}`
	req := httptest.NewRequest("POST", "/api/user/tickets/tkt-nope/reply", strings.NewReader(payload))
	req = withUser(req, model.User{ID: 1, Role: model.RoleUser})
	req = withURLParam(req, "ticketID", "tkt-nope")
	w := httptest.NewRecorder()

	srv.ReplyTicketHandler(w, req)

	require.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestUpdateOrderStatusHandler(t *testing.T) {
	srv, _ := setup(t)

	payload := `{"status":"Completed"}`
	req := httptest.NewRequest("POST", "/api/admin/orders/ord-8822/status", strings.NewReader(payload))
	req = withURLParam(req, "orderID", "ord-8822")
	w := httptest.NewRecorder()

	srv.UpdateOrderStatusHandler(w, req)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)

	snap := srv.store.Snapshot()
	for _, o := range snap.Orders {
		if o.ID == "ord-8822" {
			require.Equal(t, model.OrderCompleted, o.Status)
		}
	}
}

func TestUpdateOrderStatusHandlerUnknownOrder(t *testing.T) {
	srv, _ := setup(t)

	payload := `{"status":"Completed"}`
	req := httptest.NewRequest("POST", "/api/admin/orders/ord-nope/status", strings.NewReader(payload))
	req = withURLParam(req, "orderID", "ord-nope")
	w := httptest.NewRecorder()

	srv.UpdateOrderStatusHandler(w, req)

	require.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestCreditBalanceHandler(t *testing.T) {
	srv, _ := setup(t)

	payload := `{"amount":10}`
	req := httptest.NewRequest("POST", "/api/admin/users/u1/balance", strings.NewReader(payload))
	req = withURLParam(req, "userID", "u1")
	w := httptest.NewRecorder()

	srv.CreditBalanceHandler(w, req)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)

	snap := srv.store.Snapshot()
	require.True(t, snap.AllUsers[0].Balance.Equal(decimal.NewFromFloat(15.00)))
}

func TestDashboardHandler(t *testing.T) {
	srv, _ := setup(t)

	req := httptest.NewRequest("GET", "/api/user/dashboard", nil)
	w := httptest.NewRecorder()

	srv.DashboardHandler(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Name   string            `json:"name"`
		Orders state.OrderCounts `json:"orders"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "John Doe", body.Name)
	require.Equal(t, 2, body.Orders.Total)
}

func TestAdminStatsHandler(t *testing.T) {
	srv, _ := setup(t)

	req := httptest.NewRequest("GET", "/api/admin/stats", nil)
	w := httptest.NewRecorder()

	srv.AdminStatsHandler(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Revenue decimal.Decimal `json:"revenue"`
		Users   []model.Account `json:"users"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.Revenue.Equal(decimal.NewFromFloat(4.50)), "revenue: %s", body.Revenue)
	require.Len(t, body.Users, 2)
}

func bcryptHash(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), 10)
	return string(hash), err
}
