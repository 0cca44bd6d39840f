package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/greenroots/greenroots-backend/internal/auth"
	"github.com/greenroots/greenroots-backend/internal/event"
	"github.com/greenroots/greenroots-backend/internal/notification"
	"github.com/greenroots/greenroots-backend/routes"
	"github.com/greenroots/greenroots-backend/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the landing page and the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := utils.InitRedis(cfg); err != nil {
		log.Fatalf("❌ Redis init failed: %v", err)
	}
	defer utils.CloseRedis()

	utils.InitializeKafka(cfg)
	defer utils.CloseKafka()
	defer utils.CloseFirebase()

	store, publisher, err := openStore(cfg)
	if err != nil {
		return err
	}

	hub := newHub()
	p, err := newPipeline(cfg, store, hub)
	if err != nil {
		return err
	}

	auditSvc := openAudit(cfg)
	submissions, err := newSubmissions(cfg, auditSvc)
	if err != nil {
		return err
	}
	events := event.NewService(event.NewRepository(store, p.FetchTimeout()), p.Policy(), submissions, auditSvc)
	authSvc := auth.NewService(cfg)

	if reader := utils.NewKafkaReader(cfg); reader != nil {
		consumer := notification.NewConsumer(reader, notification.NewMailer(cfg))
		defer consumer.Close()
		go func() {
			if err := consumer.Run(ctx); err != nil {
				log.Printf("❌ Notification consumer stopped: %v", err)
			}
		}()
	}

	if err := p.Start(ctx); err != nil {
		return err
	}
	defer p.Stop()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	err = routes.Setup(router, cfg, routes.Deps{
		Pipeline:    p,
		Publisher:   publisher,
		Hub:         hub,
		Submissions: submissions,
		Events:      events,
		AuditSvc:    auditSvc,
		AuthSvc:     authSvc,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		log.Printf("🚀 Server running on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🔄 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
