package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foodcircles/storefront/internal/core/cart"
	"github.com/foodcircles/storefront/internal/core/domain"
	"github.com/foodcircles/storefront/internal/core/service"
	"github.com/foodcircles/storefront/internal/port"
)

const (
	sessionCookie = "session"
	cartCookie    = "cart_id"

	staffRedirect   = "/staff"
	successRedirect = "/order-history/?success=true"
)

type HTTPHandler struct {
	catalog  *service.CatalogService
	orders   *service.OrderService
	sessions port.SessionRepository
	carts    port.CartStorage
}

func NewHTTPHandler(catalog *service.CatalogService, orders *service.OrderService,
	sessions port.SessionRepository, carts port.CartStorage) *HTTPHandler {
	return &HTTPHandler{
		catalog:  catalog,
		orders:   orders,
		sessions: sessions,
		carts:    carts,
	}
}

// CheckoutResponse is the transport payload of a place-order submission.
type CheckoutResponse struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message,omitempty"`
	RedirectTo string  `json:"redirect_to,omitempty"`
	Discount   float64 `json:"discount,omitempty"`
}

type cartResponse struct {
	Items      []domain.CartItem `json:"items"`
	TotalPrice float64           `json:"total_price"`
}

type addItemRequest struct {
	Item     domain.CartItem `json:"item"`
	Quantity int             `json:"quantity"`
}

type removeItemRequest struct {
	ItemID string `json:"item_id"`
}

type updateQuantityRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type restaurantResponse struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Slug  string         `json:"slug"`
	Image string         `json:"image"`
	Items []itemResponse `json:"items"`
}

type itemResponse struct {
	ID           string  `json:"id"`
	RestaurantID string  `json:"restaurant_id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	Price        float64 `json:"price"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	Amount        float64             `json:"amount"`
	OrderType     string              `json:"order_type"`
	PaymentMethod string              `json:"payment_method"`
	Address       string              `json:"address,omitempty"`
	Status        string              `json:"status"`
	CreatedAt     string              `json:"created_at"`
	Items         []orderItemResponse `json:"items"`
}

type orderItemResponse struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Routes wires all storefront endpoints onto a fresh mux.
func (h *HTTPHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/api/restaurants", h.ListRestaurants)
	mux.HandleFunc("/api/restaurants/", h.RestaurantBySlug)
	mux.HandleFunc("/api/items", h.ListItems)
	mux.HandleFunc("/api/items/", h.ItemBySlug)
	mux.HandleFunc("/api/cart", h.GetCart)
	mux.HandleFunc("/api/cart/items", h.AddCartItem)
	mux.HandleFunc("/api/cart/remove", h.RemoveCartItem)
	mux.HandleFunc("/api/cart/quantity", h.UpdateCartQuantity)
	mux.HandleFunc("/api/cart/clear", h.ClearCart)
	mux.HandleFunc("/api/checkout", h.Checkout)
	mux.HandleFunc("/api/orders", h.ListOrders)
	return mux
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.redirectStaff(w, r) {
		return
	}

	restaurants, err := h.catalog.ListRestaurants(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]restaurantResponse, 0, len(restaurants))
	for _, restaurant := range restaurants {
		resp = append(resp, toRestaurantResponse(restaurant))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) RestaurantBySlug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.redirectStaff(w, r) {
		return
	}

	slug := strings.TrimPrefix(r.URL.Path, "/api/restaurants/")
	if slug == "" {
		http.NotFound(w, r)
		return
	}

	restaurant, err := h.catalog.RestaurantBySlug(r.Context(), slug)
	if errors.Is(err, service.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toRestaurantResponse(*restaurant))
}

func (h *HTTPHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.redirectStaff(w, r) {
		return
	}

	items, err := h.catalog.ListItems(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]itemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toItemResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) ItemBySlug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.redirectStaff(w, r) {
		return
	}

	slug := strings.TrimPrefix(r.URL.Path, "/api/items/")
	if slug == "" {
		http.NotFound(w, r)
		return
	}

	item, err := h.catalog.ItemBySlug(r.Context(), slug)
	if errors.Is(err, service.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(*item))
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	store, err := h.cartStore(w, r)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeCart(w, store)
}

func (h *HTTPHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Item.ID == "" {
		writeJSON(w, http.StatusBadRequest, CheckoutResponse{Success: false, Message: "Invalid request body"})
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	store, err := h.cartStore(w, r)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := store.AddItem(r.Context(), req.Item, req.Quantity); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeCart(w, store)
}

func (h *HTTPHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req removeItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		writeJSON(w, http.StatusBadRequest, CheckoutResponse{Success: false, Message: "Invalid request body"})
		return
	}

	store, err := h.cartStore(w, r)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := store.RemoveItem(r.Context(), req.ItemID); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeCart(w, store)
}

func (h *HTTPHandler) UpdateCartQuantity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		writeJSON(w, http.StatusBadRequest, CheckoutResponse{Success: false, Message: "Invalid request body"})
		return
	}

	store, err := h.cartStore(w, r)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := store.UpdateQuantity(r.Context(), req.ItemID, req.Quantity); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeCart(w, store)
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	store, err := h.cartStore(w, r)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := store.Clear(r.Context()); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeCart(w, store)
}

// Checkout handles the place-order form submission. The form carries the
// intent discriminator, the serialized cart snapshot, the client-computed
// amount, the fulfillment type, the payment method and an optional address.
func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, CheckoutResponse{Success: false, Message: "Invalid request body"})
		return
	}

	var userID string
	if session := h.session(r); session != nil {
		userID = session.UserID
	}

	req := service.PlaceOrderRequest{
		UserID:        userID,
		Intent:        r.FormValue("intent"),
		OrderType:     domain.OrderType(r.FormValue("orderType")),
		PaymentMethod: domain.PaymentMethod(r.FormValue("paymentMethod")),
		Address:       r.FormValue("address"),
	}

	if raw := r.FormValue("items[]"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Items); err != nil {
			writeJSON(w, http.StatusBadRequest, CheckoutResponse{Success: false, Message: "Invalid request body"})
			return
		}
	}
	if raw := r.FormValue("amount"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, CheckoutResponse{Success: false, Message: "Invalid request body"})
			return
		}
		req.Amount = amount
	}

	if _, err := h.orders.PlaceOrder(r.Context(), req); err != nil {
		status := http.StatusInternalServerError
		message := err.Error()

		switch {
		case errors.Is(err, service.ErrUnauthorized):
			status = http.StatusUnauthorized
			message = "Unauthorized"
		case errors.Is(err, service.ErrInvalidIntent):
			status = http.StatusBadRequest
			message = "Invalid intent"
		case errors.Is(err, service.ErrInvalidRequest):
			status = http.StatusBadRequest
			message = "Invalid request body"
		case errors.Is(err, service.ErrSubmissionInFlight):
			status = http.StatusConflict
			message = "An order submission is already in progress"
		}

		// The cart is left untouched on any failure so the user may retry.
		writeJSON(w, status, CheckoutResponse{Success: false, Message: message})
		return
	}

	// The cart is consumed by a successful placement.
	if store, err := h.cartStore(w, r); err == nil {
		store.Clear(r.Context())
	}

	writeJSON(w, http.StatusOK, CheckoutResponse{Success: true, RedirectTo: successRedirect})
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := h.session(r)
	if session == nil {
		writeJSON(w, http.StatusUnauthorized, CheckoutResponse{Success: false, Message: "Unauthorized"})
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), session.UserID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, toOrderResponse(order))
	}
	writeJSON(w, http.StatusOK, resp)
}

// session resolves the current session from the session cookie, nil when the
// actor is anonymous.
func (h *HTTPHandler) session(r *http.Request) *domain.Session {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	session, err := h.sessions.GetSession(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return session
}

// redirectStaff sends staff actors away from the storefront entirely.
func (h *HTTPHandler) redirectStaff(w http.ResponseWriter, r *http.Request) bool {
	session := h.session(r)
	if session != nil && session.Role == domain.RoleStaff {
		http.Redirect(w, r, staffRedirect, http.StatusFound)
		return true
	}
	return false
}

// cartStore opens the cart bound to the client's cart cookie, minting the
// cookie on first use.
func (h *HTTPHandler) cartStore(w http.ResponseWriter, r *http.Request) (*cart.Store, error) {
	var key string
	if cookie, err := r.Cookie(cartCookie); err == nil && cookie.Value != "" {
		key = cookie.Value
	} else {
		key = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     cartCookie,
			Value:    key,
			Path:     "/",
			HttpOnly: true,
		})
	}
	return cart.Open(r.Context(), h.carts, key)
}

func writeCart(w http.ResponseWriter, store *cart.Store) {
	writeJSON(w, http.StatusOK, cartResponse{
		Items:      store.Items(),
		TotalPrice: store.TotalPrice(),
	})
}

func toRestaurantResponse(restaurant domain.Restaurant) restaurantResponse {
	items := make([]itemResponse, 0, len(restaurant.Items))
	for _, item := range restaurant.Items {
		items = append(items, toItemResponse(item))
	}
	return restaurantResponse{
		ID:    restaurant.ID,
		Name:  restaurant.Name,
		Slug:  restaurant.Slug,
		Image: restaurant.Image,
		Items: items,
	}
}

func toItemResponse(item domain.MenuItem) itemResponse {
	return itemResponse{
		ID:           item.ID,
		RestaurantID: item.RestaurantID,
		Name:         item.Name,
		Slug:         item.Slug,
		Description:  item.Description,
		Image:        item.Image,
		Price:        item.Price,
	}
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ItemID:   item.ItemID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return orderResponse{
		ID:            order.ID,
		Amount:        order.Amount,
		OrderType:     string(order.OrderType),
		PaymentMethod: string(order.PaymentMethod),
		Address:       order.Address,
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt.UTC().Format(time.RFC3339),
		Items:         items,
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
