package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"dropin-checkout-api/config"
	"dropin-checkout-api/database"
	"dropin-checkout-api/handlers"
	"dropin-checkout-api/middleware"
	"dropin-checkout-api/queue"
	"dropin-checkout-api/services/auth"
	"dropin-checkout-api/worker"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	runtime.GOMAXPROCS(runtime.NumCPU())

	cfg := config.Load()

	var db *database.Connection
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		db, err = database.NewConnection(cfg.Database)
		if err == nil {
			break
		}
		log.Printf("Database connection attempt %d failed: %v", attempt, err)
		if attempt < 3 {
			time.Sleep(5 * time.Second)
		}
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	jobQueue, err := queue.NewQueue(cfg.Redis.URL, "action_hook_jobs")
	if err != nil {
		log.Fatalf("Failed to initialize job queue: %v", err)
	}
	defer jobQueue.Close()

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	checkoutHandler := handlers.NewCheckoutHandler(db, jobQueue, jwtService, cfg)

	hookWorker := worker.NewWorker(jobQueue, handlers.NewExecutionReporter(checkoutHandler.Registry()))
	concurrency := cfg.Redis.WorkerConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > 10 {
		concurrency = 10
	}
	hookWorker.Start(concurrency)
	defer hookWorker.Stop()

	rateLimiter, err := middleware.NewRateLimiter(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Failed to initialize rate limiter: %v", err)
	}
	defer rateLimiter.Close()

	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(loggingMiddleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(rateLimiter.RateLimitMiddleware())

	api.HandleFunc("/checkout", checkoutHandler.CreateCheckoutSession).Methods("POST", "OPTIONS")

	session := api.PathPrefix("/checkout/{id}").Subrouter()
	session.Use(middleware.SessionAuth(jwtService))
	session.HandleFunc("/fields", checkoutHandler.UpdateSnapshot).Methods("PATCH", "OPTIONS")
	session.HandleFunc("/dropin-config", checkoutHandler.GetDropinConfig).Methods("GET", "OPTIONS")
	session.HandleFunc("/submit", checkoutHandler.Submit).Methods("POST", "OPTIONS")
	session.HandleFunc("/events", checkoutHandler.HandleWidgetEvent).Methods("POST", "OPTIONS")
	session.HandleFunc("/result", checkoutHandler.GetResult).Methods("GET", "OPTIONS")

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, time.Since(start))
	})
}
