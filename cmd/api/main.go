package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/dental-funnel/internal/app"
	"github.com/xavierca1/dental-funnel/internal/config"
	"github.com/xavierca1/dental-funnel/internal/infra/logger"
	"github.com/xavierca1/dental-funnel/internal/infra/queue"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("falha ao iniciar logger: %v", err)
	}
	defer zlog.Sync()

	if err := cfg.Validate(); err != nil {
		zlog.Fatal("configuração inválida", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("falha ao montar aplicação", zap.Error(err))
	}
	defer application.Close()

	// Worker de notificações do funil (email para a clínica + WhatsApp)
	if application.Worker != nil {
		go func() {
			if err := application.Worker.Start(ctx, queue.QueueName); err != nil {
				zlog.Error("❌ worker parou", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		zlog.Info("🔥 servidor do funil rodando", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("falha no servidor HTTP", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("desligando...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("shutdown com erro", zap.Error(err))
	}
}
