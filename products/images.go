package products

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"voltwear/db"
	"voltwear/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var productUploadDir = "./static/productpic"

func processProductImage(file *multipart.FileHeader, productID string) (string, string, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode image: %w", err)
	}

	fileName := productID + ".jpg"
	originalPath := filepath.Join(productUploadDir, fileName)
	thumbDir := filepath.Join(productUploadDir, "thumb")
	thumbnailPath := filepath.Join(thumbDir, fileName)

	if err := utils.EnsureDir(productUploadDir); err != nil {
		return "", "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := utils.EnsureDir(thumbDir); err != nil {
		return "", "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	if err := imaging.Save(img, originalPath); err != nil {
		return "", "", fmt.Errorf("failed to save original image: %w", err)
	}

	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, thumbnailPath); err != nil {
		return "", "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return "/productpic/" + fileName, "/productpic/thumb/" + fileName, nil
}

// UploadProductImage handles POST /api/products/:id/image with a
// multipart "image" part. The stored image and thumbnail paths are
// written back onto the product row.
func UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("id")

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form: "+err.Error())
		return
	}

	_, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file is required")
		return
	}

	switch header.Header.Get("Content-Type") {
	case "image/jpeg", "image/png", "image/webp":
	default:
		utils.RespondWithError(w, http.StatusUnsupportedMediaType, "Unsupported image type. Only JPG, PNG and WEBP are allowed.")
		return
	}

	imagePath, thumbPath, err := processProductImage(header, productID)
	if err != nil {
		log.Println("UploadProductImage error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process image")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productId": productID},
		bson.M{"$set": bson.M{"image": imagePath, "thumbnail": thumbPath}},
	)
	if err != nil {
		log.Println("UploadProductImage update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save image paths")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"image": imagePath, "thumbnail": thumbPath})
}
