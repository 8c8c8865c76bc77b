package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	_ "time/tzdata"

	"github.com/propnest/rental-backend/internal/app"
	"github.com/propnest/rental-backend/internal/chatbot"
	"github.com/propnest/rental-backend/internal/config"
	"github.com/propnest/rental-backend/internal/constants"
	"github.com/propnest/rental-backend/internal/controllers"
	"github.com/propnest/rental-backend/internal/middleware"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/routes"
	"github.com/propnest/rental-backend/internal/services"
	"github.com/propnest/rental-backend/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize rental-service:", err)
	}
	defer application.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(application.DB)
	propertyRepo := repositories.NewPropertyRepository(application.DB)
	teamRepo := repositories.NewTeamRepository(application.DB)
	contactRepo := repositories.NewContactRepository(application.DB)
	noticeRepo := repositories.NewNoticeRepository(application.DB)
	maintenanceRepo := repositories.NewMaintenanceRepository(application.DB)
	applicationRepo := repositories.NewApplicationRepository(application.DB)
	meetingRepo := repositories.NewMeetingRepository(application.DB)
	screeningRepo := repositories.NewScreeningRepository(application.DB)
	recommendationRepo := repositories.NewRecommendationRepository(application.DB)
	chatbotRepo := repositories.NewChatbotRepository(application.DB)
	auditRepo := repositories.NewAdminAuditLogRepository(application.DB)

	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedAllTestData(context.Background(), cfg, userRepo, screeningRepo); err != nil {
			utils.Logger.Fatal("Failed to seed test data:", err)
		}
	}

	// Services
	mailer := services.NewEmailService(cfg, userRepo)
	sms := services.NewSMSService(cfg)
	audit := services.NewAuditLogger(auditRepo)

	authService := services.NewAuthService(cfg, userRepo, mailer)
	propertyService := services.NewPropertyService(cfg, propertyRepo, audit)
	teamService := services.NewTeamService(teamRepo, audit)
	contactService := services.NewContactService(contactRepo, mailer, audit)
	noticeService := services.NewNoticeService(noticeRepo, audit)
	maintenanceService := services.NewMaintenanceService(maintenanceRepo, mailer, sms, audit)
	applicationService := services.NewApplicationService(cfg, applicationRepo, mailer, audit)
	meetingService := services.NewMeetingService(meetingRepo, propertyRepo, mailer, sms, audit)
	recommendationService := services.NewRecommendationService(recommendationRepo, screeningRepo, propertyRepo, mailer, audit)
	screeningService := services.NewScreeningService(screeningRepo, recommendationService, mailer, audit)
	engine := chatbot.NewEngine(services.NewPropertyCatalog(propertyRepo))
	chatbotService := services.NewChatbotService(chatbotRepo, engine, meetingService, mailer)
	tidyCalService := services.NewTidyCalService(cfg)
	digestService := services.NewDigestService(contactRepo, applicationRepo, meetingRepo, maintenanceRepo, chatbotRepo, mailer)

	// Controllers
	healthController := controllers.NewHealthController(application)
	authController := controllers.NewAuthController(authService)
	propertyController := controllers.NewPropertyController(propertyService)
	teamController := controllers.NewTeamController(teamService)
	contactController := controllers.NewContactController(contactService)
	noticeController := controllers.NewNoticeController(noticeService)
	maintenanceController := controllers.NewMaintenanceController(maintenanceService)
	applicationController := controllers.NewApplicationController(applicationService)
	meetingController := controllers.NewMeetingController(meetingService)
	screeningController := controllers.NewScreeningController(screeningService)
	recommendationController := controllers.NewRecommendationController(recommendationService)
	chatbotController := controllers.NewChatbotController(chatbotService)
	tidyCalController := controllers.NewTidyCalController(tidyCalService)

	limiter := middleware.NewRateLimiter(constants.PublicPostRequests, constants.PublicPostWindow)
	defer limiter.Stop()

	// Router setup
	router := mux.NewRouter()
	router.Use(middleware.MetricsMiddleware)

	// Public routes
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.Handle(routes.Metrics, promhttp.Handler()).Methods(http.MethodGet)

	router.HandleFunc(routes.AuthLogout, authController.LogoutHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthResetPassword, authController.ResetPasswordHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthVerifyEmail, authController.VerifyEmailHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.Properties, propertyController.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PropertyCoverImagesAll, propertyController.CoverImagesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PropertyByID, propertyController.GetHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PropertyCoverImage, propertyController.CoverImageHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.PublicTeam, teamController.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PublicTeamByID, teamController.GetHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.PublicNoticesActive, noticeController.ListActiveHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.NoticeDownload, noticeController.DownloadHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.PublicScreeningQuestions, screeningController.ActiveQuestionsHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.RecommendationGenerate, recommendationController.GenerateHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.RecommendationsByUser, recommendationController.ByEmailHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.RecommendationByID, recommendationController.GetHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.RecommendationRespond, recommendationController.RespondHandler).Methods(http.MethodPut)
	router.HandleFunc(routes.RecommendationSendEmail, recommendationController.SendEmailHandler).Methods(http.MethodPost)

	// Rate-limited public submissions
	limited := router.NewRoute().Subrouter()
	limited.Use(limiter.Middleware)
	limited.HandleFunc(routes.AuthSignup, authController.SignupHandler).Methods(http.MethodPost)
	limited.HandleFunc(routes.AuthLogin, authController.LoginHandler).Methods(http.MethodPost)
	limited.HandleFunc(routes.AuthForgotPassword, authController.ForgotPasswordHandler).Methods(http.MethodPost)
	limited.HandleFunc(routes.AuthResendVerification, authController.ResendVerificationHandler).Methods(http.MethodPost)
	limited.HandleFunc(routes.PublicContact, contactController.CreateHandler).Methods(http.MethodPost)
	limited.HandleFunc(routes.ApplicationSubmit, applicationController.SubmitHandler).Methods(http.MethodPost)
	limited.HandleFunc(routes.PublicScreeningResponses, screeningController.SubmitHandler).Methods(http.MethodPost)
	limited.HandleFunc(routes.ChatbotRespond, chatbotController.RespondHandler).Methods(http.MethodPost)
	limited.HandleFunc(routes.ChatbotSatisfaction, chatbotController.SatisfactionHandler).Methods(http.MethodPost)

	// Rate-limited, caller linked when a token is present
	optional := router.NewRoute().Subrouter()
	optional.Use(limiter.Middleware, middleware.OptionalAuthMiddleware(cfg.JWTSecret))
	optional.HandleFunc(routes.MeetingSchedule, meetingController.ScheduleHandler).Methods(http.MethodPost)
	optional.HandleFunc(routes.ChatbotStart, chatbotController.StartHandler).Methods(http.MethodPost)

	// Secured routes for signed-in users
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	secured.HandleFunc(routes.UserProfile, authController.GetProfileHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.UserProfile, authController.UpdateProfileHandler).Methods(http.MethodPut)

	// Admin routes
	admin := router.NewRoute().Subrouter()
	admin.Use(middleware.AdminAuthMiddleware(cfg.JWTSecret))

	admin.HandleFunc(routes.AdminPropertyAdd, propertyController.CreateHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminPropertyStats, propertyController.StatsHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminPropertyRecent, propertyController.RecentHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminPropertyByID, propertyController.UpdateHandler).Methods(http.MethodPut)
	admin.HandleFunc(routes.AdminPropertyByID, propertyController.DeleteHandler).Methods(http.MethodDelete)

	admin.HandleFunc(routes.AdminTeamAdd, teamController.CreateHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminTeamByID, teamController.UpdateHandler).Methods(http.MethodPut)
	admin.HandleFunc(routes.AdminTeamByID, teamController.DeleteHandler).Methods(http.MethodDelete)

	admin.HandleFunc(routes.AdminContacts, contactController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminContactByID, contactController.GetHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminContactByID, contactController.DeleteHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.AdminContactReply, contactController.ReplyHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminContactStatus, contactController.UpdateStatusHandler).Methods(http.MethodPut)

	admin.HandleFunc(routes.AdminNotices, noticeController.CreateHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminNotices, noticeController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminNoticeByID, noticeController.GetHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminNoticeByID, noticeController.UpdateHandler).Methods(http.MethodPut)
	admin.HandleFunc(routes.AdminNoticeByID, noticeController.DeleteHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.AdminNoticeToggleActive, noticeController.ToggleActiveHandler).Methods(http.MethodPatch)
	admin.HandleFunc(routes.AdminNoticeSetActive, noticeController.SetActiveHandler).Methods(http.MethodPut)
	admin.HandleFunc(routes.AdminNoticeDownload, noticeController.DownloadHandler).Methods(http.MethodGet)

	admin.HandleFunc(routes.AdminMaintenance, maintenanceController.CreateHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminMaintenanceJSON, maintenanceController.CreateHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminMaintenance, maintenanceController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminMaintenanceByStatus, maintenanceController.ListByStatusHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminMaintenanceByID, maintenanceController.GetHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminMaintenanceByID, maintenanceController.UpdateHandler).Methods(http.MethodPut)
	admin.HandleFunc(routes.AdminMaintenanceByID, maintenanceController.DeleteHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.AdminMaintenanceSend, maintenanceController.SendToContractorHandler).Methods(http.MethodPost)

	admin.HandleFunc(routes.AdminApplications, applicationController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminApplicationByID, applicationController.GetHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminApplicationByID, applicationController.DeleteHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.AdminApplicationReply, applicationController.ReplyHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminApplicationStatus, applicationController.UpdateStatusHandler).Methods(http.MethodPut)

	admin.HandleFunc(routes.AdminMeetings, meetingController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminMeetingByID, meetingController.GetHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminMeetingByID, meetingController.DeleteHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.AdminMeetingReply, meetingController.ReplyHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminMeetingComplete, meetingController.CompleteHandler).Methods(http.MethodPut)

	admin.HandleFunc(routes.AdminScreeningQuestionsBulk, screeningController.CreateQuestionsHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminScreeningQuestionByID, screeningController.DeleteQuestionHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.AdminScreeningResponses, screeningController.ListResponsesHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminScreeningResponseByID, screeningController.GetResponseHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminScreeningResponseByID, screeningController.DeleteResponseHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.AdminScreeningResponseReply, screeningController.ReplyHandler).Methods(http.MethodPut)

	admin.HandleFunc(routes.AdminRecommendations, recommendationController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminRecommendationReview, recommendationController.ReviewHandler).Methods(http.MethodPut)

	admin.HandleFunc(routes.AdminChatbotConversations, chatbotController.ListConversationsHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminChatbotConversation, chatbotController.ConversationHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminChatbotStats, chatbotController.StatsHandler).Methods(http.MethodGet)

	admin.HandleFunc(routes.TidyCalBookingTypes, tidyCalController.BookingTypesHandler).Methods(http.MethodGet)

	// Cron job setup
	c := cron.New(cron.WithLocation(time.UTC))

	_, err = c.AddFunc(cfg.DigestCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.DigestJobTimeout)
		defer cancel()
		utils.Logger.Info("Starting daily digest cron job...")
		if err := digestService.SendDailyDigest(ctx); err != nil {
			utils.Logger.WithError(err).Error("Failed to send daily digest")
		}
	})
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule daily digest cron")
	}

	abandonAfter := time.Duration(cfg.LDFlag_ChatbotAbandonAfterHours) * time.Hour
	if abandonAfter <= 0 {
		abandonAfter = constants.DefaultChatAbandonAfterHours * time.Hour
	}
	_, err = c.AddFunc(constants.AbandonSweepCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.AbandonSweepTimeout)
		defer cancel()
		n, err := chatbotService.AbandonIdle(ctx, abandonAfter)
		if err != nil {
			utils.Logger.WithError(err).Error("Failed to abandon idle chatbot conversations")
			return
		}
		if n > 0 {
			utils.Logger.Infof("Marked %d idle chatbot conversations as abandoned", n)
		}
	})
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule chatbot abandon cron")
	}

	c.Start()
	defer c.Stop()
	utils.Logger.Infof("Scheduled cron jobs: digest='%s', abandon sweep='%s' (idle > %v)",
		cfg.DigestCronSpec, constants.AbandonSweepCronSpec, abandonAfter)

	allowedOrigins := append([]string{}, cfg.CORSAllowedOrigins...)
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, constants.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Requested-With", "X-Forwarded-For"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           co.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatal("rental-service failed to start:", err)
		}
	}()

	<-ctx.Done()
	utils.Logger.Info("Shutting down rental-service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Logger.WithError(err).Error("Graceful shutdown failed")
	}
}
