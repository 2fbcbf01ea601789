package orders

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

// ListAddresses returns the signed-in user's address book, default first.
func ListAddresses(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	opts := options.Find().SetSort(bson.D{{Key: "isDefault", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := db.AddressCollection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		log.Println("ListAddresses error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve addresses")
		return
	}
	defer cursor.Close(ctx)

	var addrs []models.Address
	if err := cursor.All(ctx, &addrs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading addresses")
		return
	}
	if len(addrs) == 0 {
		addrs = []models.Address{}
	}
	utils.RespondWithJSON(w, http.StatusOK, addrs)
}

// SaveAddress adds an address to the book. Marking one default clears
// the flag on the others.
func SaveAddress(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var addr models.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if addr.FirstName == "" || addr.Address == "" || addr.City == "" || addr.State == "" || addr.Pincode == "" || addr.Phone == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields")
		return
	}

	addr.AddressID = "a" + utils.GenerateRandomString(12)
	addr.UserID = utils.GetUserIDFromRequest(r)
	addr.CreatedAt = time.Now()

	if addr.IsDefault {
		_, err := db.AddressCollection.UpdateMany(ctx,
			bson.M{"userId": addr.UserID},
			bson.M{"$set": bson.M{"isDefault": false}},
		)
		if err != nil {
			log.Println("SaveAddress default reset error:", err)
		}
	}

	if _, err := db.AddressCollection.InsertOne(ctx, addr); err != nil {
		log.Println("SaveAddress error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save address")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, addr)
}

func DeleteAddress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.AddressCollection.DeleteOne(ctx, bson.M{
		"addressId": ps.ByName("id"),
		"userId":    utils.GetUserIDFromRequest(r),
	})
	if err != nil {
		log.Println("DeleteAddress error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete address")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Address not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "deleted"})
}
