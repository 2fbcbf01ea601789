package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voltwear/auth"
	"voltwear/cart"
	"voltwear/cartws"
	"voltwear/coupons"
	"voltwear/orders"
	"voltwear/ratelim"
	"voltwear/rdx"
	"voltwear/routes"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	rateLimiter := ratelim.NewRateLimiter()

	// Cart service: redis session snapshots, mongo remote rows.
	cartSvc := cart.NewService(cart.NewRedisStore(rdx.Conn), cart.NewMongoStore())

	// Cart update stream for open tabs.
	hub := cartws.NewHub()
	go hub.Run()
	cartSvc.SetNotifier(hub)

	// Bridge auth transitions into cart reconciliation.
	sessions := auth.NewSessions()
	authCh := make(chan cart.AuthChange, 16)
	go func() {
		for ev := range sessions.Subscribe() {
			authCh <- cart.AuthChange{SessionID: ev.SessionID, UserID: ev.UserID}
		}
		close(authCh)
	}()
	cartSvc.ListenAuth(authCh)

	if err := orders.InitIdempotencyIndexes(context.Background()); err != nil {
		log.Println("idempotency index setup failed:", err)
	}

	authAPI := auth.NewAPI(sessions)
	cartAPI := cart.NewAPI(cartSvc)
	couponAPI := coupons.NewAPI(cartSvc)
	orderAPI := orders.NewAPI(cartSvc)

	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddStaticRoutes(router)
	routes.AddAuthRoutes(router, rateLimiter, authAPI)
	routes.AddCartRoutes(router, rateLimiter, cartAPI)
	routes.AddCouponRoutes(router, rateLimiter, couponAPI, cartAPI)
	routes.AddProductRoutes(router, rateLimiter)
	routes.AddShippingRoutes(router, rateLimiter)
	routes.AddOrderRoutes(router, rateLimiter, orderAPI)
	routes.AddCartStreamRoutes(router, hub)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Idempotency-Key", "X-Cart-Session"},
		ExposedHeaders:   []string{"X-Cart-Session"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("Shutting down cart stream hub...")
		hub.Stop()
		sessions.Close()
		cartSvc.Close() // drains pending remote syncs
	})

	go func() {
		log.Printf("Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly")
}
