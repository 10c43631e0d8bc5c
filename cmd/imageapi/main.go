package main

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/imagegallery/cmd/imageapi/internal/api"
	"github.com/adampresley/imagegallery/cmd/imageapi/internal/configuration"
	"github.com/adampresley/imagegallery/cmd/imageapi/internal/orphans"
	"github.com/adampresley/imagegallery/pkg/services"
	"github.com/rfberaldo/sqlz"
)

var (
	Version string = "development"
	appName string = "imagegallery-api"

	//go:embed sql-migrations
	sqlMigrationsFs embed.FS

	config configuration.Config

	/* Services */
	db             *sqlz.DB
	imageService   services.ImageServicer
	orphanSweeper  orphans.OrphanSweeper
	storageService services.StorageServicer

	/* Controllers */
	imagesController api.ImagesHandlers
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
		slog.String("awsEndpointUrl", config.AwsEndpointUrl),
		slog.String("awsRegion", config.AwsRegion),
		slog.String("awsBucket", config.AwsBucket),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())

	/*
	 * Setup services
	 */
	if db, err = services.OpenDatabase(config.DSN); err != nil {
		panic(err)
	}

	migrateDatabase()

	awsConfig := &awsconfig.Config{
		Endpoint:        config.AwsEndpointUrl,
		Region:          config.AwsRegion,
		AccessKeyID:     config.AwsAccessKeyId,
		SecretAccessKey: config.AwsSecretAccessKey,
	}

	retrier.Retry(func() error {
		if err = awsConfig.Load(); err != nil {
			slog.Error("failed to load AWS config. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		panic(err)
	}

	s3Client, err := s3.NewClient(awsConfig)

	if err != nil {
		panic(err)
	}

	storageService = services.NewStorageService(services.StorageServiceConfig{
		Bucket:   config.AwsBucket,
		Folder:   config.ImagesFolder,
		Region:   config.AwsRegion,
		S3Client: s3Client,
	})

	if err = storageService.EnsureBucket(); err != nil {
		panic(err)
	}

	imageService = services.NewImageService(services.ImageServiceConfig{
		DB: db,
	})

	orphanSweeper = orphans.NewOrphanSweeperService(orphans.OrphanSweeperConfig{
		ImageService: imageService,
		MaxWorkers:   config.MaxSweepWorkers,
		MinAge:       10 * time.Minute,
		ShutdownCtx:  shutdownCtx,
		Storage:      storageService,
	})

	/*
	 * Setup controllers
	 */
	imagesController = api.NewImagesController(api.ImagesControllerConfig{
		ImageService:   imageService,
		ImagesPerPage:  config.ImagesPerPage,
		MaxUploadBytes: int64(config.MaxUploadBytes),
		Storage:        storageService,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /api/images/{$}", HandlerFunc: imagesController.ListImages, Middlewares: []mux.MiddlewareFunc{requestLogger}},
		{Path: "POST /api/upload/{$}", HandlerFunc: imagesController.UploadImage, Middlewares: []mux.MiddlewareFunc{requestLogger}},
		{Path: "DELETE /api/delete/{identity}", HandlerFunc: imagesController.DeleteImage, Middlewares: []mux.MiddlewareFunc{requestLogger}},
		{Path: "GET /images/{filename}", HandlerFunc: imagesController.ServeImage},
	}

	routerConfig := mux.RouterConfig{
		Address:          config.Host,
		Debug:            Version == "development",
		HttpWriteTimeout: 60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Start the orphan sweep job
	 */
	orphanSweeper.StartSweepRoutine(time.Duration(config.SweepIntervalMinutes) * time.Minute)

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	orphanSweeper.StopSweepRoutine()
	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func migrateDatabase() {
	var (
		err  error
		dirs []fs.DirEntry
		b    []byte
	)

	if dirs, err = sqlMigrationsFs.ReadDir("sql-migrations"); err != nil {
		panic(err)
	}

	for _, d := range dirs {
		if d.IsDir() {
			continue
		}

		if strings.HasPrefix(d.Name(), "commit") {
			if b, err = fs.ReadFile(sqlMigrationsFs, filepath.Join("sql-migrations", d.Name())); err != nil {
				panic(err)
			}

			if err = runSqlScript(b); err != nil {
				panic(err)
			}
		}
	}
}

func runSqlScript(script []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	_, err := db.Exec(ctx, string(script))
	return err
}
