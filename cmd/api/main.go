package main

import (
	"fmt"
	"net/http"

	"github.com/medikarte/clinic-backend-go/internal/config"
	appHTTP "github.com/medikarte/clinic-backend-go/internal/handler/http"
	"github.com/medikarte/clinic-backend-go/internal/pkg/database"
	"github.com/medikarte/clinic-backend-go/internal/pkg/jwt"
	"github.com/medikarte/clinic-backend-go/internal/repository/postgresql"
	attendanceService "github.com/medikarte/clinic-backend-go/internal/service/attendance"
	organizationService "github.com/medikarte/clinic-backend-go/internal/service/organization"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	organizationRepo := postgresql.NewOrganizationSettingsRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, organizationRepo)
	organizationSvc := organizationService.NewSettingsService(organizationRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	organizationHandler := appHTTP.NewOrganizationHandler(organizationSvc)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		organizationHandler,
		cfg.App.FrontendURL,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
