package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wppstore/cantina-bot/internal/bot"
	"github.com/wppstore/cantina-bot/internal/config"
	"github.com/wppstore/cantina-bot/internal/gateway"
	"github.com/wppstore/cantina-bot/internal/session"
	"github.com/wppstore/cantina-bot/internal/store"
	"github.com/wppstore/cantina-bot/internal/workbook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := store.NewBoltStore(cfg.DataDir + "/cantina.db")
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer db.Close()

	gwClient := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayInstance, cfg.GatewayToken)
	books := workbook.NewClient(cfg.UnitSources)
	sessions := session.NewStore(cfg.Inactivity)

	engine := bot.NewEngine(gwClient, sessions, books, db, bot.Options{
		AdminContact: cfg.AdminContact,
		OrderSiteURL: cfg.OrderSiteURL,
		CatalogURL:   cfg.CatalogURL,
	})
	sessions.SetTimeoutFunc(engine.HandleTimeout)

	webhookHandler := gateway.NewWebhookHandler(engine.HandleMessage)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/webhook", webhookHandler.HandleIncoming)

	r.Get("/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		escalations, consultations, err := db.Counts()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{
			"active_sessions": sessions.Len(),
			"escalations":     escalations,
			"consultations":   consultations,
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("cantina-bot: listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("cantina-bot: shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	log.Println("cantina-bot: stopped")
}
