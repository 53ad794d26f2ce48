package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/database"
	"github.com/xavierca1/ligue-leads/internal/infra/http/handlers"
	appmiddleware "github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/hubspot"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/pipedrive"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/sheets"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
	"github.com/xavierca1/ligue-leads/internal/infra/oauth"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

func main() {
	godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	db, err := database.NewDBConnection(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.RunMigrations(databaseURL); err != nil {
		log.Fatal(err)
	}

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	tokenRepo := database.NewTokenRepository(db)
	userRepo := database.NewUserRepository(db)

	// 2. OAuth por provider
	hubspotAuth := oauth.NewClient(entity.ProviderHubspot, oauth.Config{
		ClientID:     os.Getenv("HUBSPOT_CLIENT_ID"),
		ClientSecret: os.Getenv("HUBSPOT_CLIENT_SECRET"),
		RedirectURI:  os.Getenv("HUBSPOT_REDIRECT_URI"),
		Scope:        os.Getenv("HUBSPOT_SCOPE"),
		AuthURL:      fmt.Sprintf("https://app.hubspot.com/oauth/%s/authorize", os.Getenv("HUBSPOT_USER_ID")),
		TokenURL:     "https://api.hubapi.com/oauth/v1/token",
	}, tokenRepo)

	pipedriveAuth := oauth.NewClient(entity.ProviderPipedrive, oauth.Config{
		ClientID:     os.Getenv("PIPEDRIVE_CLIENT_ID"),
		ClientSecret: os.Getenv("PIPEDRIVE_CLIENT_SECRET"),
		RedirectURI:  os.Getenv("PIPEDRIVE_CALLBACK_URL"),
		Scope:        "leads",
		AuthURL:      "https://oauth.pipedrive.com/oauth/authorize",
		TokenURL:     "https://oauth.pipedrive.com/oauth/token",
	}, tokenRepo)

	// 3. Clients de integração
	hubspotClient := hubspot.NewClient(tokenRepo, hubspotAuth)
	pipedriveClient := pipedrive.NewClient(tokenRepo, pipedriveAuth)
	sheetsClient := sheets.NewClient(
		os.Getenv("SPREADSHEET_ID"),
		os.Getenv("SPREADSHEET_SHEET_NAME"),
		os.Getenv("GOOGLE_SHEETS_API_KEY"),
	)

	var emailService usecase.EmailService
	if os.Getenv("MAIL_HOST") != "" {
		emailService = mail.NewEmailSender(
			os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
			os.Getenv("MAIL_FROM"),
		)
	}
	notifyEmail := os.Getenv("LEAD_NOTIFY_EMAIL")

	// 4. UseCases — mesma orquestração, só muda o resolver
	hubspotUC := usecase.NewProcessWebhookUseCase(hubspotClient, sheetsClient, leadRepo, emailService, notifyEmail)
	pipedriveUC := usecase.NewProcessWebhookUseCase(pipedriveClient, sheetsClient, leadRepo, emailService, notifyEmail)
	registerUC := usecase.NewRegisterUserUseCase(userRepo)
	loginUC := usecase.NewLoginUserUseCase(userRepo, os.Getenv("JWT_SECRET"))

	// 5. Handlers
	webhookHandler := handlers.NewWebhookHandler(hubspotUC, pipedriveUC)
	oauthHandler := handlers.NewOAuthHandler(
		hubspotAuth, pipedriveAuth, pipedriveClient, tokenRepo,
		os.Getenv("PIPEDRIVE_WEBHOOK_URL"),
	)
	authHandler := handlers.NewAuthHandler(registerUC, loginUC)
	leadHandler := handlers.NewLeadHandler(leadRepo)
	healthHandler := handlers.NewHealthHandler(db)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(appmiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Post("/webhook", webhookHandler.HandleHubspot)
	r.Get("/hubspot/auth", oauthHandler.HandleHubspotAuth)
	r.Get("/hubspot/callback", oauthHandler.HandleHubspotCallback)

	r.Get("/pipedrive/auth", oauthHandler.HandlePipedriveAuth)
	r.Get("/pipedrive/callback", oauthHandler.HandlePipedriveCallback)
	r.Post("/pipedrive/webhook/lead", webhookHandler.HandlePipedrive)

	r.Post("/auth/sign-up", authHandler.HandleSignUp)
	r.Post("/auth/login", authHandler.HandleLogin)

	r.Get("/leads", leadHandler.HandleList)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🔥 LigueLeads rodando na porta :%s", port)
	http.ListenAndServe(":"+port, r)
}
