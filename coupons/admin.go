package coupons

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"voltwear/db"
	"voltwear/models"
	"voltwear/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListCoupons returns every coupon, newest first, for the admin table.
func ListCoupons(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := db.CouponCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Println("ListCoupons error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve coupons")
		return
	}
	defer cursor.Close(ctx)

	var coupons []models.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading coupons")
		return
	}
	if len(coupons) == 0 {
		coupons = []models.Coupon{}
	}
	utils.RespondWithJSON(w, http.StatusOK, coupons)
}

func decodeCoupon(r *http.Request) (*models.Coupon, string) {
	var c models.Coupon
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		return nil, "Invalid JSON payload"
	}
	c.Code = NormalizeCode(c.Code)
	if c.Code == "" {
		return nil, "Code is required"
	}
	switch c.Type {
	case models.CouponPercent:
		if c.Value < 1 || c.Value > 100 {
			return nil, "Percent value must be between 1 and 100"
		}
	case models.CouponFlat:
		if c.Value <= 0 {
			return nil, "Flat value must be positive"
		}
	default:
		return nil, "Type must be percent or flat"
	}
	if c.MinOrder < 0 || c.MaxUses < 0 {
		return nil, "Missing or invalid fields"
	}
	return &c, ""
}

// CreateCoupon inserts a new coupon. Codes are stored uppercase.
func CreateCoupon(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, msg := decodeCoupon(r)
	if c == nil {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	// Reject duplicate codes up front.
	if existing, err := FetchByCode(ctx, c.Code); err == nil && existing != nil {
		utils.RespondWithError(w, http.StatusConflict, "Coupon code already exists")
		return
	}

	c.CouponID = uuid.NewString()
	c.UsesCount = 0
	c.CreatedAt = time.Now()

	if _, err := db.CouponCollection.InsertOne(ctx, c); err != nil {
		log.Println("CreateCoupon error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create coupon")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, c)
}

// UpdateCoupon rewrites an existing coupon's editable fields. The uses
// counter is never reset from here.
func UpdateCoupon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, msg := decodeCoupon(r)
	if c == nil {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	update := bson.M{"$set": bson.M{
		"code":      c.Code,
		"type":      c.Type,
		"value":     c.Value,
		"minOrder":  c.MinOrder,
		"maxUses":   c.MaxUses,
		"isActive":  c.IsActive,
		"expiresAt": c.ExpiresAt,
	}}
	res, err := db.CouponCollection.UpdateOne(ctx, bson.M{"couponId": ps.ByName("id")}, update)
	if err != nil {
		log.Println("UpdateCoupon error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update coupon")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Coupon not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "updated"})
}

// ToggleCoupon flips the active flag.
func ToggleCoupon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var c models.Coupon
	if err := db.CouponCollection.FindOne(ctx, bson.M{"couponId": ps.ByName("id")}).Decode(&c); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Coupon not found")
		return
	}

	_, err := db.CouponCollection.UpdateOne(ctx,
		bson.M{"couponId": c.CouponID},
		bson.M{"$set": bson.M{"isActive": !c.IsActive}},
	)
	if err != nil {
		log.Println("ToggleCoupon error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update coupon")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"isActive": !c.IsActive})
}

func DeleteCoupon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.CouponCollection.DeleteOne(ctx, bson.M{"couponId": ps.ByName("id")})
	if err != nil {
		log.Println("DeleteCoupon error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete coupon")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Coupon not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "deleted"})
}
