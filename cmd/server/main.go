package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/romanmmmelnyk/ms-backend/internal/database"
	"github.com/romanmmmelnyk/ms-backend/internal/handlers"
	"github.com/romanmmmelnyk/ms-backend/internal/middleware"
	"github.com/romanmmmelnyk/ms-backend/internal/repository"
	"github.com/romanmmmelnyk/ms-backend/internal/service"
)

func main() {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.New()
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(); err != nil {
		logger.Warn("Failed to run migrations", zap.Error(err))
	}

	store := repository.NewPostgresStore(db)

	categorySvc := service.NewPortCategoryService(store.PortCategories, logger)
	portSvc := service.NewPortService(store.Ports, store.PortCategories, logger)
	hostingSvc := service.NewHostingService(store.Hostings, logger)
	instanceSvc := service.NewInstanceService(store.Instances, store.Hostings, store.Ports, store.Sites, store.Domains, logger)
	domainSvc := service.NewDomainService(store.Domains, store.Instances, store.Sites, logger)
	siteSvc := service.NewSiteService(store.Sites, store.Instances, store.Domains, service.MockSiteInfoFetcher{}, logger)
	enquirySvc := service.NewEnquiryService(store.Enquiries, logger)

	router := mux.NewRouter()
	router.Use(middleware.CORSMiddleware)

	apiRouter := router.PathPrefix("/api").Subrouter()

	// Port categories
	categoriesHandler := handlers.NewPortCategoriesHandler(categorySvc, logger)
	apiRouter.HandleFunc("/port-categories", handlers.RequireScope("port-categories:read", categoriesHandler.List)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/port-categories", handlers.RequireScope("port-categories:write", categoriesHandler.Create)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/port-categories/{id}", handlers.RequireScope("port-categories:read", categoriesHandler.Get)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/port-categories/{id}", handlers.RequireScope("port-categories:write", categoriesHandler.Update)).Methods("PATCH", "OPTIONS")
	apiRouter.HandleFunc("/port-categories/{id}", handlers.RequireScope("port-categories:write", categoriesHandler.Delete)).Methods("DELETE", "OPTIONS")

	// Ports
	portsHandler := handlers.NewPortsHandler(portSvc, logger)
	apiRouter.HandleFunc("/ports", handlers.RequireScope("ports:read", portsHandler.List)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/ports", handlers.RequireScope("ports:write", portsHandler.Create)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/ports/{id}", handlers.RequireScope("ports:read", portsHandler.Get)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/ports/{id}", handlers.RequireScope("ports:write", portsHandler.Update)).Methods("PATCH", "OPTIONS")
	apiRouter.HandleFunc("/ports/{id}", handlers.RequireScope("ports:write", portsHandler.Delete)).Methods("DELETE", "OPTIONS")

	// Hostings
	hostingsHandler := handlers.NewHostingsHandler(hostingSvc, logger)
	apiRouter.HandleFunc("/hostings", handlers.RequireScope("hostings:read", hostingsHandler.List)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/hostings", handlers.RequireScope("hostings:write", hostingsHandler.Create)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/hostings/{id}", handlers.RequireScope("hostings:read", hostingsHandler.Get)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/hostings/{id}", handlers.RequireScope("hostings:write", hostingsHandler.Update)).Methods("PATCH", "OPTIONS")
	apiRouter.HandleFunc("/hostings/{id}", handlers.RequireScope("hostings:write", hostingsHandler.Delete)).Methods("DELETE", "OPTIONS")

	// Instances (including port binding)
	instancesHandler := handlers.NewInstancesHandler(instanceSvc, logger)
	apiRouter.HandleFunc("/instances", handlers.RequireScope("instances:manage", instancesHandler.List)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/instances", handlers.RequireScope("instances:manage", instancesHandler.Create)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/instances/{id}", handlers.RequireScope("instances:manage", instancesHandler.Get)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/instances/{id}", handlers.RequireScope("instances:manage", instancesHandler.Update)).Methods("PATCH", "OPTIONS")
	apiRouter.HandleFunc("/instances/{id}", handlers.RequireScope("instances:manage", instancesHandler.Delete)).Methods("DELETE", "OPTIONS")
	apiRouter.HandleFunc("/instances/{id}/ports", handlers.RequireScope("instances:manage", instancesHandler.BindPort)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/instances/{id}/ports/{portId}", handlers.RequireScope("instances:manage", instancesHandler.UnbindPort)).Methods("DELETE", "OPTIONS")

	// Domains
	domainsHandler := handlers.NewDomainsHandler(domainSvc, logger)
	apiRouter.HandleFunc("/domains", handlers.RequireScope("domains:billing", domainsHandler.List)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/domains", handlers.RequireScope("domains:write", domainsHandler.Create)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/domains/{id}", handlers.RequireScope("domains:billing", domainsHandler.Get)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/domains/{id}", handlers.RequireScope("domains:write", domainsHandler.Update)).Methods("PATCH", "OPTIONS")
	apiRouter.HandleFunc("/domains/{id}", handlers.RequireScope("domains:write", domainsHandler.Delete)).Methods("DELETE", "OPTIONS")
	apiRouter.HandleFunc("/domains/{id}/actions/renew", handlers.RequireScope("domains:billing", domainsHandler.Renew)).Methods("POST", "OPTIONS")

	// Sites
	sitesHandler := handlers.NewSitesHandler(siteSvc, logger)
	apiRouter.HandleFunc("/sites", handlers.RequireScope("sites:read", sitesHandler.List)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/sites", handlers.RequireScope("sites:write", sitesHandler.Create)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/sites/{id}", handlers.RequireScope("sites:read", sitesHandler.Get)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/sites/{id}", handlers.RequireScope("sites:write", sitesHandler.Update)).Methods("PATCH", "OPTIONS")
	apiRouter.HandleFunc("/sites/{id}", handlers.RequireScope("sites:write", sitesHandler.Delete)).Methods("DELETE", "OPTIONS")
	apiRouter.HandleFunc("/sites/{id}/expand", handlers.RequireScope("sites:read", sitesHandler.Expand)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/sites/{id}/actions/fetch-siteinfo", handlers.RequireScope("sites:write", sitesHandler.FetchSiteInfo)).Methods("POST", "OPTIONS")

	// Enquiries (public contact form, mounted outside /api)
	enquiriesHandler := handlers.NewEnquiriesHandler(enquirySvc, logger)
	router.HandleFunc("/enquiries", enquiriesHandler.Create).Methods("POST", "OPTIONS")
	router.HandleFunc("/enquiries", enquiriesHandler.List).Methods("GET", "OPTIONS")
	router.HandleFunc("/enquiries/{id}", enquiriesHandler.Get).Methods("GET", "OPTIONS")
	router.HandleFunc("/enquiries/{id}", enquiriesHandler.Delete).Methods("DELETE", "OPTIONS")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("Server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
