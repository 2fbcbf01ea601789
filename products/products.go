package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"voltwear/db"
	"voltwear/models"
	"voltwear/pricing"
	"voltwear/rdx"
	"voltwear/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListProducts returns the catalog, optionally filtered by category or
// the featured flag.
func ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if cat := r.URL.Query().Get("category"); cat != "" {
		filter["category"] = cat
	}
	if r.URL.Query().Get("featured") == "true" {
		filter["featured"] = true
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	if limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := db.ProductsCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("ListProducts error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve products")
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading products")
		return
	}
	if len(products) == 0 {
		products = []models.Product{}
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("id")

	// Serve from cache when we can.
	if cached, err := rdx.RdxGet("product:" + productID); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(cached))
		return
	}

	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	} else if err != nil {
		log.Println("GetProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve product")
		return
	}

	if buf, err := json.Marshal(product); err == nil {
		rdx.RdxSetTTL("product:"+productID, string(buf), 10*time.Minute)
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

type productInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       string   `json:"price"`
	Sizes       []string `json:"sizes"`
	Image       string   `json:"image"`
	Featured    bool     `json:"featured"`
}

func (in *productInput) validate() (int64, string) {
	if in.Name == "" || len(in.Name) > 100 {
		return 0, "Name must be between 1 and 100 characters"
	}
	price, err := pricing.ParseMinorUnits(in.Price)
	if err != nil || price <= 0 {
		return 0, "Invalid price value. Must be a positive number."
	}
	return price, ""
}

// CreateProduct inserts a catalog entry. Price arrives as paise or a
// formatted rupee string.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	price, msg := in.validate()
	if msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	product := models.Product{
		ProductID:   "p" + utils.GenerateRandomString(12),
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       price,
		Sizes:       in.Sizes,
		Image:       in.Image,
		Featured:    in.Featured,
		CreatedAt:   time.Now(),
	}

	if _, err := db.ProductsCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, product)
}

func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	price, msg := in.validate()
	if msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	productID := ps.ByName("id")
	update := bson.M{"$set": bson.M{
		"name":        in.Name,
		"description": in.Description,
		"category":    in.Category,
		"price":       price,
		"sizes":       in.Sizes,
		"featured":    in.Featured,
	}}
	res, err := db.ProductsCollection.UpdateOne(ctx, bson.M{"productId": productID}, update)
	if err != nil {
		log.Println("UpdateProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	rdx.RdxDel("product:" + productID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "updated"})
}

func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("id")
	res, err := db.ProductsCollection.DeleteOne(ctx, bson.M{"productId": productID})
	if err != nil {
		log.Println("DeleteProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	rdx.RdxDel("product:" + productID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "deleted"})
}
