package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"voltwear/cart"
	"voltwear/coupons"
	"voltwear/db"
	"voltwear/models"
	"voltwear/pricing"
	"voltwear/shipping"
	"voltwear/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Order lifecycle states.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusShipped:   true,
	StatusDelivered: true,
	StatusCancelled: true,
}

// API wires order placement to the cart service.
type API struct {
	carts *cart.Service
}

func NewAPI(carts *cart.Service) *API {
	return &API{carts: carts}
}

type placeOrderInput struct {
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	Pincode        string `json:"pincode"`
	Phone          string `json:"phone"`
	ShippingMethod string `json:"shippingMethod"`
}

func (in *placeOrderInput) validate() string {
	switch {
	case in.Email == "":
		return "Email is required"
	case in.FirstName == "":
		return "First name is required"
	case in.Address == "" || in.City == "" || in.State == "" || in.Pincode == "":
		return "Shipping address is incomplete"
	case in.Phone == "":
		return "Phone is required"
	}
	if in.ShippingMethod != "" &&
		in.ShippingMethod != models.ShippingStandard &&
		in.ShippingMethod != models.ShippingExpress {
		return "Unknown shipping method"
	}
	return ""
}

// PlaceOrder handles POST /api/orders. Amounts are recomputed server
// side from the cart; client-sent totals are never trusted. The applied
// coupon's use is burned here, and the cart is emptied on success.
func (a *API) PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var in placeOrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if msg := in.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}
	method := in.ShippingMethod
	if method == "" {
		method = models.ShippingStandard
	}

	sid := utils.GetSessionIDFromRequest(r)
	sess, err := a.carts.Session(ctx, sid)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load cart")
		return
	}
	if len(sess.Items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	// Burn the coupon use before money is computed. Losing the race for
	// the last use drops the coupon instead of honoring a stale discount.
	discount := sess.Discount
	couponCode := ""
	if sess.Coupon != nil {
		couponCode = sess.Coupon.Code
		if err := coupons.Consume(ctx, sess.Coupon.ID); err != nil {
			if errors.Is(err, coupons.ErrLimitReached) {
				a.carts.RemoveCoupon(ctx, sid)
				utils.RespondWithError(w, http.StatusConflict, coupons.ErrLimitReached.Error())
				return
			}
			log.Println("PlaceOrder coupon consume error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place order")
			return
		}
	}

	cfg := shipping.LoadSettings(ctx)
	quote := pricing.Compute(sess.Items, method, cfg, discount)

	order := models.Order{
		OrderID:        "o" + utils.GenerateRandomString(12),
		UserID:         utils.GetUserIDFromRequest(r),
		Email:          in.Email,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Address:        in.Address,
		City:           in.City,
		State:          in.State,
		Pincode:        in.Pincode,
		Phone:          in.Phone,
		ShippingMethod: method,
		Subtotal:       quote.Subtotal,
		ShippingCost:   quote.ShippingCost,
		Discount:       quote.Discount,
		CouponCode:     couponCode,
		Total:          quote.Total,
		Status:         StatusPending,
		CreatedAt:      time.Now(),
	}

	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		log.Println("PlaceOrder insert error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place order")
		return
	}

	items := make([]interface{}, 0, len(sess.Items))
	for _, item := range sess.Items {
		items = append(items, models.OrderItem{
			OrderID:     order.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Size:        item.Size,
			Quantity:    item.Quantity,
			UnitPrice:   item.Price,
		})
	}
	if _, err := db.OrderItemsCollection.InsertMany(ctx, items); err != nil {
		log.Println("PlaceOrder items insert error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place order")
		return
	}

	// Empty the bag: local snapshot plus the signed-in user's remote rows.
	if _, err := a.carts.Clear(ctx, sid); err != nil {
		log.Println("PlaceOrder cart clear error:", err)
	}
	if err := a.carts.ClearRemote(ctx, order.UserID); err != nil {
		log.Println("PlaceOrder remote clear error:", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// ListMyOrders returns the signed-in user's orders, newest first.
func (a *API) ListMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := db.OrderCollection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		log.Println("ListMyOrders error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading orders")
		return
	}
	if len(orders) == 0 {
		orders = []models.Order{}
	}
	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// fetchOrder loads an order and enforces ownership: the buyer or an
// admin may see it.
func fetchOrder(ctx context.Context, r *http.Request, orderID string) (*models.Order, int, string) {
	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, http.StatusNotFound, "Order not found"
	} else if err != nil {
		log.Println("fetchOrder error:", err)
		return nil, http.StatusInternalServerError, "Could not retrieve order"
	}

	userID := utils.GetUserIDFromRequest(r)
	isAdmin := false
	for _, role := range utils.GetRolesFromRequest(r) {
		if role == "admin" {
			isAdmin = true
		}
	}
	if !isAdmin && (order.UserID == "" || order.UserID != userID) {
		return nil, http.StatusForbidden, "Forbidden"
	}
	return &order, 0, ""
}

// GetOrder returns one order with its line items.
func (a *API) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, code, msg := fetchOrder(ctx, r, ps.ByName("id"))
	if order == nil {
		utils.RespondWithError(w, code, msg)
		return
	}

	cursor, err := db.OrderItemsCollection.Find(ctx, bson.M{"orderId": order.OrderID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve order items")
		return
	}
	defer cursor.Close(ctx)

	var items []models.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading order items")
		return
	}
	if len(items) == 0 {
		items = []models.OrderItem{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"order": order, "items": items})
}

// AdminListOrders returns every order for the back office.
func AdminListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := db.OrderCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("AdminListOrders error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading orders")
		return
	}
	if len(orders) == 0 {
		orders = []models.Order{}
	}
	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus moves an order through its lifecycle.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validStatuses[req.Status] {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	res, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderId": ps.ByName("id")},
		bson.M{"$set": bson.M{"status": req.Status}},
	)
	if err != nil {
		log.Println("UpdateOrderStatus error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": req.Status})
}
