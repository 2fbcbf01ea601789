package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"voltwear/db"
	"voltwear/globals"
	"voltwear/models"
	"voltwear/pricing"
	"voltwear/shipping"
	"voltwear/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// API exposes the cart service over HTTP.
type API struct {
	svc *Service
}

func NewAPI(svc *Service) *API {
	return &API{svc: svc}
}

// flexPrice accepts a paise integer or a formatted rupee string ("4,999").
type flexPrice int64

func (p *flexPrice) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := pricing.ParseMinorUnits(s)
		if err != nil {
			return err
		}
		*p = flexPrice(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = flexPrice(n)
	return nil
}

// ensureSession returns the browsing-session id, minting one on first
// visit. The id is echoed in the response header and a cookie.
func ensureSession(w http.ResponseWriter, r *http.Request) string {
	sid := utils.GetSessionIDFromRequest(r)
	if sid == "" {
		sid = uuid.NewString()
	}
	w.Header().Set(globals.SessionHeader, sid)
	http.SetCookie(w, &http.Cookie{
		Name:     "cart_session",
		Value:    sid,
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

// GetCart returns the session snapshot.
func (a *API) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid := ensureSession(w, r)
	sess, err := a.svc.Session(r.Context(), sid)
	if err != nil {
		log.Println("GetCart load error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sess)
}

// AddToCart puts a catalog product (or an ad-hoc custom design) in the bag.
func (a *API) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		ProductID string    `json:"productId"`
		Size      string    `json:"size"`
		Quantity  int       `json:"quantity"`
		Name      string    `json:"name"`
		Price     flexPrice `json:"price"`
		Image     string    `json:"image"`
		Category  string    `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("AddToCart decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	in := AddInput{
		ProductID: req.ProductID,
		Name:      req.Name,
		Size:      req.Size,
		Quantity:  req.Quantity,
		Price:     int64(req.Price),
		Image:     req.Image,
		Category:  req.Category,
	}

	if req.ProductID == "" {
		// Ad-hoc custom design: caller supplies name and price, we mint
		// a synthetic product id.
		if req.Name == "" || req.Price <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields")
			return
		}
		in.ProductID = "custom-" + utils.GenerateRandomString(8)
	} else {
		var product models.Product
		err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": req.ProductID}).Decode(&product)
		switch {
		case err == mongo.ErrNoDocuments:
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		case err != nil:
			log.Println("AddToCart product lookup error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
			return
		}
		// Catalog is authoritative for price and display metadata.
		in.Name = product.Name
		in.Price = product.Price
		in.Image = product.Image
		in.Category = product.Category
	}

	sid := ensureSession(w, r)
	sess, err := a.svc.AddItem(ctx, sid, in)
	if err != nil {
		log.Println("AddToCart error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, sess)
}

func (a *API) UpdateQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	sid := ensureSession(w, r)
	sess, err := a.svc.UpdateQuantity(r.Context(), sid, ps.ByName("cartItemId"), req.Quantity)
	if err != nil {
		log.Println("UpdateQuantity error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sess)
}

func (a *API) RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sid := ensureSession(w, r)
	sess, err := a.svc.RemoveItem(r.Context(), sid, ps.ByName("cartItemId"))
	if err != nil {
		log.Println("RemoveFromCart error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sess)
}

func (a *API) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid := ensureSession(w, r)
	sess, err := a.svc.Clear(r.Context(), sid)
	if err != nil {
		log.Println("ClearCart error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sess)
}

func (a *API) OpenCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	a.setOpen(w, r, true)
}

func (a *API) CloseCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	a.setOpen(w, r, false)
}

func (a *API) setOpen(w http.ResponseWriter, r *http.Request, open bool) {
	sid := ensureSession(w, r)
	sess, err := a.svc.SetOpen(r.Context(), sid, open)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sess)
}

func (a *API) RemoveCouponFromCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid := ensureSession(w, r)
	sess, err := a.svc.RemoveCoupon(r.Context(), sid)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sess)
}

// Quote returns the price breakdown for the current cart and the chosen
// shipping method.
func (a *API) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sid := ensureSession(w, r)
	sess, err := a.svc.Session(ctx, sid)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load cart")
		return
	}

	method := r.URL.Query().Get("method")
	if method == "" {
		method = models.ShippingStandard
	}

	cfg := shipping.LoadSettings(ctx)
	quote := pricing.Compute(sess.Items, method, cfg, sess.Discount)
	utils.RespondWithJSON(w, http.StatusOK, quote)
}
