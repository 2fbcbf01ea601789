package coupons

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"voltwear/cart"
	"voltwear/db"
	"voltwear/models"
	"voltwear/pricing"
	"voltwear/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// API wires the validation engine to the cart service.
type API struct {
	carts *cart.Service
}

func NewAPI(carts *cart.Service) *API {
	return &API{carts: carts}
}

// FetchByCode returns the coupon record for an already-normalized code, or
// nil when no such coupon exists.
func FetchByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := db.CouponCollection.FindOne(ctx, bson.M{"code": code}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Apply validates a user-entered code against the current cart subtotal and
// stores the result on the session.
//
// Endpoint: POST /api/cart/coupon {"code": "SAVE20"}
func (a *API) Apply(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	code := NormalizeCode(req.Code)
	if code == "" {
		// Empty input is a no-op, not an error.
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"applied": false})
		return
	}

	sid := utils.GetSessionIDFromRequest(r)
	sess, err := a.carts.Session(ctx, sid)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load cart")
		return
	}
	subtotal := pricing.Subtotal(sess.Items)

	record, err := FetchByCode(ctx, code)
	if err != nil {
		log.Println("Coupon fetch error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Coupon lookup failed")
		return
	}

	result, err := Validate(record, subtotal, time.Now())
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"applied": false,
			"message": err.Error(),
		})
		return
	}

	if _, err := a.carts.ApplyCoupon(ctx, sid, result.Coupon, result.Discount); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to apply coupon")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"applied":  true,
		"coupon":   result.Coupon,
		"discount": result.Discount,
		"message":  result.Message,
	})
}

// Consume burns one use of a coupon at order placement. The increment is
// conditional on the usage cap, so two shoppers racing for the last use
// cannot both win.
func Consume(ctx context.Context, couponID string) error {
	filter := bson.M{
		"couponId": couponID,
		"$or": []bson.M{
			{"maxUses": bson.M{"$exists": false}},
			{"maxUses": 0},
			{"$expr": bson.M{"$lt": []string{"$usesCount", "$maxUses"}}},
		},
	}
	res, err := db.CouponCollection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"usesCount": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrLimitReached
	}
	return nil
}

// IsValidationError reports whether err is one of the shopper-facing
// validation failures rather than an infrastructure fault.
func IsValidationError(err error) bool {
	var minErr *MinOrderError
	return errors.Is(err, ErrInvalidCode) ||
		errors.Is(err, ErrInactiveCode) ||
		errors.Is(err, ErrExpiredCode) ||
		errors.Is(err, ErrLimitReached) ||
		errors.As(err, &minErr)
}
