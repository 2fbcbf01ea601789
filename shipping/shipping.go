package shipping

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"voltwear/db"
	"voltwear/models"
	"voltwear/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LoadSettings reads the single global shipping row, falling back to the
// defaults when no admin has saved one yet.
func LoadSettings(ctx context.Context) models.ShippingSettings {
	var cfg models.ShippingSettings
	err := db.ShippingCollection.FindOne(ctx, bson.M{"_id": 1}).Decode(&cfg)
	if err != nil {
		return models.DefaultShippingSettings()
	}
	return cfg
}

// GetSettings returns the shipping configuration for the storefront.
func GetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	utils.RespondWithJSON(w, http.StatusOK, LoadSettings(ctx))
}

// UpdateSettings upserts the global row. Admin only; charges arrive in paise.
func UpdateSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var cfg models.ShippingSettings
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if cfg.StandardCharge < 0 || cfg.ExpressCharge < 0 || cfg.FreeShippingThreshold < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Charges cannot be negative")
		return
	}
	cfg.ID = 1

	opts := options.Replace().SetUpsert(true)
	if _, err := db.ShippingCollection.ReplaceOne(ctx, bson.M{"_id": 1}, cfg, opts); err != nil {
		log.Println("UpdateSettings error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save shipping settings")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cfg)
}
