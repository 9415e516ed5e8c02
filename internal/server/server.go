package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/atl3/trendpanel/internal/config"
	"github.com/atl3/trendpanel/internal/deps"
	"github.com/atl3/trendpanel/internal/errs"
	"github.com/atl3/trendpanel/internal/middleware"
	"github.com/atl3/trendpanel/internal/model"
	"github.com/atl3/trendpanel/internal/state"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Storage is the users table behind the two auth endpoints.
type Storage interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (int, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, string, error)
	GetUserByID(ctx context.Context, id int) (model.User, error)
}

type Server struct {
	storage Storage
	store   *state.Store
	config  *config.Config
	deps    *deps.Deps

	methods []PaymentMethod
}

func NewServer(storage Storage, store *state.Store, config *config.Config, deps *deps.Deps) *Server {
	srv := &Server{
		storage: storage,
		store:   store,
		config:  config,
		deps:    deps,
		methods: defaultPaymentMethods(),
	}

	if len(store.Snapshot().Services) == 0 {
		store.Dispatch(state.SetServices{Services: defaultCatalog()})
	}

	return srv
}

func (srv *Server) buildRouter() http.Handler {
	router := chi.NewRouter()
	router.Use(chiMiddleware.StripSlashes)
	router.Use(middleware.LogMiddleware(srv.deps.Logger))
	router.Use(middleware.DecompressMiddleware)
	router.Use(middleware.CompressMiddleware(srv.deps.Logger))

	router.Post("/api/login", srv.LoginHandler)
	router.Post("/api/signup", srv.SignupHandler)

	// authorized endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(srv.storage, srv.deps.TokenManager))

		r.Get("/api/services", srv.GetServicesHandler)
		r.Get("/api/user/dashboard", srv.DashboardHandler)
		r.Get("/api/user/orders", srv.GetOrdersHandler)
		r.Post("/api/user/orders", srv.PlaceOrderHandler)
		r.Get("/api/user/balance", srv.GetBalanceHandler)
		r.Post("/api/user/balance/deposit", srv.DepositHandler)
		r.Get("/api/user/tickets", srv.GetTicketsHandler)
		r.Post("/api/user/tickets", srv.OpenTicketHandler)
		r.Post("/api/user/tickets/{ticketID}/reply", srv.ReplyTicketHandler)

		r.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireAdmin)

			ar.Get("/api/admin/stats", srv.AdminStatsHandler)
			ar.Post("/api/admin/orders/{orderID}/status", srv.UpdateOrderStatusHandler)
			ar.Post("/api/admin/users/{userID}/balance", srv.CreditBalanceHandler)
			ar.Put("/api/admin/services", srv.ReplaceServicesHandler)
			ar.Post("/api/admin/services", srv.AddServiceHandler)
		})
	})

	return router
}

func (srv *Server) Run(ctx context.Context) error {
	router := srv.buildRouter()

	server := &http.Server{
		Addr:    srv.config.RunAddress,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srv.deps.Logger.Fatalf("server error: %v", err)
		}
	}()

	go srv.OrdersFulfillControl(ctx)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// LoginHandler checks credentials against the users table. The JSON
// body keeps the panel's legacy contract: success with user_id, or
// success=false with "Wrong password" / "User not found". A bearer
// token additionally rides the Authorization header on success.
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials

	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		http.Error(w, "email and password required", http.StatusBadRequest)
		return
	}

	user, hash, err := s.storage.GetUserByEmail(r.Context(), creds.Email)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			writeJSON(w, http.StatusOK, model.AuthResponse{Success: false, Message: "User not found"})
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)); err != nil {
		writeJSON(w, http.StatusOK, model.AuthResponse{Success: false, Message: "Wrong password"})
		return
	}

	token, err := s.deps.TokenManager.GenerateToken(user.ID, user.Role)
	if err != nil {
		http.Error(w, "token error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	writeJSON(w, http.StatusOK, model.AuthResponse{Success: true, UserID: user.ID})
}

// SignupHandler creates an account row. Duplicate emails answer
// success=false with "Email already exists" and insert nothing.
func (s *Server) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "name, email and password required", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "hash error", http.StatusInternalServerError)
		return
	}

	id, err := s.storage.CreateUser(r.Context(), req.Name, req.Email, string(hash))
	if err != nil {
		if errors.Is(err, errs.ErrEmailAlreadyExists) {
			writeJSON(w, http.StatusOK, model.AuthResponse{Success: false, Message: "Email already exists"})
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	token, err := s.deps.TokenManager.GenerateToken(id, model.RoleUser)
	if err != nil {
		http.Error(w, "token error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	writeJSON(w, http.StatusOK, model.AuthResponse{Success: true, UserID: id})
}

func (s *Server) GetServicesHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, struct {
		Services       []model.Service `json:"services"`
		PaymentMethods []PaymentMethod `json:"paymentMethods"`
	}{Services: snap.Services, PaymentMethods: s.methods})
}

func (s *Server) GetOrdersHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	if len(snap.Orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, snap.Orders)
}

// PlaceOrderHandler validates the request against the catalog and the
// balance, then dispatches the order and the matching deduction.
func (s *Server) PlaceOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req model.NewOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Link == "" || req.Quantity <= 0 {
		http.Error(w, "link and quantity required", http.StatusBadRequest)
		return
	}

	snap := s.store.Snapshot()

	svc, ok := findService(snap.Services, req.ServiceID)
	if !ok {
		http.Error(w, "unknown service", http.StatusUnprocessableEntity)
		return
	}
	if req.Quantity < svc.Min || req.Quantity > svc.Max {
		http.Error(w, "quantity out of service bounds", http.StatusUnprocessableEntity)
		return
	}

	// price per 1000 units, shifted rather than divided so the charge
	// stays exact
	charge := svc.Rate.Mul(decimal.NewFromInt(int64(req.Quantity))).Shift(-3)

	if snap.Balance.LessThan(charge) {
		http.Error(w, "insufficient funds", http.StatusPaymentRequired)
		return
	}

	order := model.Order{
		ID:          state.NewOrderID(),
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		Link:        req.Link,
		Quantity:    req.Quantity,
		Charge:      charge,
		Status:      model.OrderPending,
		Date:        time.Now().Format("01/02/2006"),
	}

	s.store.Dispatch(state.AddOrder{Order: order})
	s.store.Dispatch(state.DeductBalance{Amount: charge})

	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, struct {
		Balance decimal.Decimal `json:"balance"`
		Spent   decimal.Decimal `json:"spent"`
	}{Balance: snap.Balance, Spent: snap.Spent})
}

// DepositHandler emulates the payment gateway: it checks the method's
// minimum, waits out a fixed processing delay and then commits the
// funds. The delay is not cancellable; the gateway has already taken
// the money by the time a client gives up.
func (s *Server) DepositHandler(w http.ResponseWriter, r *http.Request) {
	var req model.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	method, ok := findPaymentMethod(s.methods, req.Method)
	if !ok {
		http.Error(w, "unknown payment method", http.StatusUnprocessableEntity)
		return
	}
	if req.Amount.LessThan(method.Min) {
		http.Error(w, "amount below method minimum", http.StatusUnprocessableEntity)
		return
	}

	time.Sleep(s.config.PaymentDelay)

	next := s.store.Dispatch(state.AddFunds{Amount: req.Amount})

	writeJSON(w, http.StatusOK, struct {
		Balance decimal.Decimal `json:"balance"`
	}{Balance: next.Balance})
}

func (s *Server) GetTicketsHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	if len(snap.Tickets) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, snap.Tickets)
}

func (s *Server) OpenTicketHandler(w http.ResponseWriter, r *http.Request) {
	var req model.NewTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Subject == "" || req.Message == "" {
		http.Error(w, "subject and message required", http.StatusBadRequest)
		return
	}

	now := time.Now()
	ticket := model.Ticket{
		ID:          state.NewTicketID(),
		Subject:     req.Subject,
		Status:      model.TicketOpen,
		LastUpdated: now.Format("01/02/2006"),
		Messages: []model.Message{
			{Sender: model.SenderUser, Text: req.Message, Date: now.Format("01/02/2006, 3:04 PM")},
		},
	}

	s.store.Dispatch(state.AddTicket{Ticket: ticket})

	writeJSON(w, http.StatusCreated, ticket)
}

func (s *Server) ReplyTicketHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(middleware.UserContextKey).(model.User)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req model.TicketReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message required", http.StatusBadRequest)
		return
	}

	ticketID := chi.URLParam(r, "ticketID")
	snap := s.store.Snapshot()
	if !ticketExists(snap.Tickets, ticketID) {
		http.Error(w, "ticket not found", http.StatusNotFound)
		return
	}

	sender := model.SenderUser
	if user.Role == model.RoleAdmin {
		sender = model.SenderAdmin
	}

	next := s.store.Dispatch(state.ReplyTicket{TicketID: ticketID, Text: req.Message, Sender: sender})

	for _, t := range next.Tickets {
		if t.ID == ticketID {
			writeJSON(w, http.StatusOK, t)
			return
		}
	}
	http.Error(w, "ticket not found", http.StatusNotFound)
}

func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	writeJSON(w, http.StatusOK, struct {
		Name        string               `json:"name"`
		Balance     decimal.Decimal      `json:"balance"`
		Spent       decimal.Decimal      `json:"spent"`
		Orders      state.OrderCounts    `json:"orders"`
		OpenTickets int                  `json:"openTickets"`
		TopServices []state.ServiceCount `json:"topServices"`
	}{
		Name:        snap.Name,
		Balance:     snap.Balance,
		Spent:       snap.Spent,
		Orders:      state.CountOrders(snap.Orders),
		OpenTickets: state.OpenTicketCount(snap.Tickets),
		TopServices: state.TopServices(snap.Orders, 5),
	})
}

func (s *Server) AdminStatsHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	writeJSON(w, http.StatusOK, struct {
		Revenue     decimal.Decimal      `json:"revenue"`
		Orders      state.OrderCounts    `json:"orders"`
		OpenTickets int                  `json:"openTickets"`
		TopServices []state.ServiceCount `json:"topServices"`
		Users       []model.Account      `json:"users"`
	}{
		Revenue:     state.TotalRevenue(snap.Orders),
		Orders:      state.CountOrders(snap.Orders),
		OpenTickets: state.OpenTicketCount(snap.Tickets),
		TopServices: state.TopServices(snap.Orders, 5),
		Users:       snap.AllUsers,
	})
}

func (s *Server) UpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req model.OrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	switch req.Status {
	case model.OrderPending, model.OrderProcessing, model.OrderCompleted:
	default:
		http.Error(w, "unknown status", http.StatusUnprocessableEntity)
		return
	}

	orderID := chi.URLParam(r, "orderID")
	snap := s.store.Snapshot()
	if !orderExists(snap.Orders, orderID) {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	s.store.Dispatch(state.SetOrderStatus{OrderID: orderID, Status: req.Status})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) CreditBalanceHandler(w http.ResponseWriter, r *http.Request) {
	var req model.CreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !req.Amount.IsPositive() {
		http.Error(w, "amount must be positive", http.StatusUnprocessableEntity)
		return
	}

	userID := chi.URLParam(r, "userID")
	snap := s.store.Snapshot()
	if !accountExists(snap.AllUsers, userID) {
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}

	s.store.Dispatch(state.CreditUserBalance{UserID: userID, Amount: req.Amount})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) ReplaceServicesHandler(w http.ResponseWriter, r *http.Request) {
	var services []model.Service
	if err := json.NewDecoder(r.Body).Decode(&services); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.store.Dispatch(state.SetServices{Services: services})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) AddServiceHandler(w http.ResponseWriter, r *http.Request) {
	var svc model.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if svc.ID == "" || svc.Name == "" {
		http.Error(w, "id and name required", http.StatusBadRequest)
		return
	}

	s.store.Dispatch(state.AddService{Service: svc})
	w.WriteHeader(http.StatusCreated)
}

func ticketExists(tickets []model.Ticket, id string) bool {
	for _, t := range tickets {
		if t.ID == id {
			return true
		}
	}
	return false
}

func orderExists(orders []model.Order, id string) bool {
	for _, o := range orders {
		if o.ID == id {
			return true
		}
	}
	return false
}

func accountExists(accounts []model.Account, id string) bool {
	for _, a := range accounts {
		if a.ID == id {
			return true
		}
	}
	return false
}
