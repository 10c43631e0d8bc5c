package main

import (
	"embed"
	"log/slog"
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/imagegallery/cmd/website/internal/configuration"
	"github.com/adampresley/imagegallery/cmd/website/internal/gallery"
	"github.com/adampresley/imagegallery/cmd/website/internal/home"
	"github.com/adampresley/imagegallery/pkg/services"
)

var (
	Version string = "development"
	appName string = "imagegallery-website"

	//go:embed app
	appFS embed.FS

	config configuration.Config

	/* Services */
	imageAPIClient services.ImageAPIClienter
	renderer       rendering.TemplateRenderer

	/* Controllers */
	galleryController gallery.GalleryHandlers
	homeController    home.HomeHandlers
)

func main() {
	var (
		err error
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("apiBaseURL", config.ApiBaseURL),
	)

	slog.Debug("setting up...")

	/*
	 * Setup services
	 */
	imageAPIClient = services.NewImageAPIClient(services.ImageAPIClientConfig{
		BaseURL: config.ApiBaseURL,
		Timeout: time.Duration(config.ApiTimeoutSeconds) * time.Second,
	})

	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	/*
	 * Setup controllers
	 */
	galleryController = gallery.NewGalleryController(gallery.GalleryControllerConfig{
		ImageAPI: imageAPIClient,
		Renderer: renderer,
	})

	homeController = home.NewHomeController(home.HomeControllerConfig{
		ImageAPI:       imageAPIClient,
		MaxUploadBytes: int64(config.MaxUploadBytes),
		Renderer:       renderer,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /{$}", HandlerFunc: homeController.HomePage, Middlewares: []mux.MiddlewareFunc{requestLogger}},
		{Path: "POST /upload", HandlerFunc: homeController.UploadAction, Middlewares: []mux.MiddlewareFunc{requestLogger}},
		{Path: "GET /images", HandlerFunc: galleryController.ImagesPage, Middlewares: []mux.MiddlewareFunc{requestLogger}},
		{Path: "GET /images/{$}", HandlerFunc: galleryController.ImagesPage, Middlewares: []mux.MiddlewareFunc{requestLogger}},
		{Path: "GET /images/fragment", HandlerFunc: galleryController.ImagesFragment, Middlewares: []mux.MiddlewareFunc{requestLogger}},
		{Path: "GET /images/{filename}", HandlerFunc: galleryController.ServeImage},
		{Path: "DELETE /images/delete/{identity}", HandlerFunc: galleryController.DeleteAction, Middlewares: []mux.MiddlewareFunc{requestLogger}},
	}

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}
