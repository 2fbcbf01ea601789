package routes

import (
	"net/http"

	"voltwear/auth"
	"voltwear/cart"
	"voltwear/cartws"
	"voltwear/coupons"
	"voltwear/middleware"
	"voltwear/orders"
	"voltwear/products"
	"voltwear/ratelim"
	"voltwear/shipping"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/productpic/*filepath", http.Dir("static/productpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, api *auth.API) {
	router.POST("/api/auth/register", rl.Limit(api.Register))
	router.POST("/api/auth/login", rl.Limit(api.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(api.Logout))
	router.POST("/api/auth/token/refresh", rl.Limit(api.RefreshToken))
}

func AddCartRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, api *cart.API) {
	router.GET("/api/cart", middleware.OptionalAuth(api.GetCart))
	router.POST("/api/cart/items", rl.Limit(middleware.OptionalAuth(api.AddToCart)))
	router.PUT("/api/cart/items/:cartItemId", middleware.OptionalAuth(api.UpdateQuantity))
	router.DELETE("/api/cart/items/:cartItemId", middleware.OptionalAuth(api.RemoveFromCart))
	router.DELETE("/api/cart", middleware.OptionalAuth(api.ClearCart))
	router.POST("/api/cart/open", middleware.OptionalAuth(api.OpenCart))
	router.POST("/api/cart/close", middleware.OptionalAuth(api.CloseCart))
	router.GET("/api/cart/quote", middleware.OptionalAuth(api.Quote))
}

func AddCouponRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, api *coupons.API, cartAPI *cart.API) {
	router.POST("/api/cart/coupon", rl.Limit(middleware.OptionalAuth(api.Apply)))
	router.DELETE("/api/cart/coupon", middleware.OptionalAuth(cartAPI.RemoveCouponFromCart))

	router.GET("/api/admin/coupons", middleware.AdminOnly(coupons.ListCoupons))
	router.POST("/api/admin/coupons", middleware.AdminOnly(coupons.CreateCoupon))
	router.PUT("/api/admin/coupons/:id", middleware.AdminOnly(coupons.UpdateCoupon))
	router.PATCH("/api/admin/coupons/:id/toggle", middleware.AdminOnly(coupons.ToggleCoupon))
	router.DELETE("/api/admin/coupons/:id", middleware.AdminOnly(coupons.DeleteCoupon))
}

func AddProductRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/products", rl.Limit(products.ListProducts))
	router.GET("/api/products/:id", products.GetProduct)

	router.POST("/api/admin/products", middleware.AdminOnly(products.CreateProduct))
	router.PUT("/api/admin/products/:id", middleware.AdminOnly(products.UpdateProduct))
	router.DELETE("/api/admin/products/:id", middleware.AdminOnly(products.DeleteProduct))
	router.POST("/api/admin/products/:id/image", middleware.AdminOnly(products.UploadProductImage))
}

func AddShippingRoutes(router *httprouter.Router, _ *ratelim.RateLimiter) {
	router.GET("/api/shipping", shipping.GetSettings)
	router.PUT("/api/admin/shipping", middleware.AdminOnly(shipping.UpdateSettings))
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, api *orders.API) {
	router.POST("/api/orders", rl.Limit(middleware.OptionalAuth(orders.Idempotent(api.PlaceOrder))))
	router.GET("/api/orders", middleware.Authenticate(api.ListMyOrders))
	router.GET("/api/orders/:id", middleware.Authenticate(api.GetOrder))
	router.GET("/api/orders/:id/invoice", middleware.Authenticate(api.Invoice))

	router.GET("/api/admin/orders", middleware.AdminOnly(orders.AdminListOrders))
	router.PATCH("/api/admin/orders/:id/status", middleware.AdminOnly(orders.UpdateOrderStatus))

	router.GET("/api/addresses", middleware.Authenticate(orders.ListAddresses))
	router.POST("/api/addresses", middleware.Authenticate(orders.SaveAddress))
	router.DELETE("/api/addresses/:id", middleware.Authenticate(orders.DeleteAddress))
}

func AddCartStreamRoutes(router *httprouter.Router, hub *cartws.Hub) {
	router.GET("/ws/cart", cartws.WebSocketHandler(hub))
}
