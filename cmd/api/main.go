package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kintai-app/kintai-backend-go/internal/config"
	appHTTP "github.com/kintai-app/kintai-backend-go/internal/handler/http"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/cron"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/database"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/oauth"
	"github.com/kintai-app/kintai-backend-go/internal/repository/postgresql"
	attendanceService "github.com/kintai-app/kintai-backend-go/internal/service/attendance"
	authService "github.com/kintai-app/kintai-backend-go/internal/service/auth"
	timeEditService "github.com/kintai-app/kintai-backend-go/internal/service/timeedit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	loc := cfg.Location()

	userRepo := postgresql.NewUserRepository(db)
	userStateRepo := postgresql.NewUserStateRepository(db)
	recordRepo := postgresql.NewRecordRepository(db)
	timeEditRepo := postgresql.NewTimeEditRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	transactor := postgresql.NewTransactor(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	googleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)

	authSvc := authService.NewAuthService(userRepo, refreshTokenRepo, jwtService)
	attendanceSvc := attendanceService.NewAttendanceService(transactor, userStateRepo, recordRepo, userRepo, loc)
	timeEditSvc := timeEditService.NewTimeEditService(transactor, timeEditRepo, recordRepo, loc)

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc, googleService, cfg.App.FrontendURL)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	timeEditHandler := appHTTP.NewTimeEditHandler(timeEditSvc)

	router := appHTTP.NewRouter(cfg, jwtService, authHandler, attendanceHandler, timeEditHandler)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("refresh-token-cleanup", 24*time.Hour, func(ctx context.Context) error {
		deleted, err := refreshTokenRepo.DeleteExpired(ctx, time.Now().UTC())
		if err != nil {
			return err
		}
		if deleted > 0 {
			slog.Info("expired refresh tokens deleted", "count", deleted)
		}
		return nil
	})
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down")
	_ = server.Close()
}
