// Package main library books API.
//
// @title           Library Books API
// @version         1.0
// @description     CRUD and borrow/return lifecycle for library book records.
// @BasePath        /api/v1
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/christoperjulfrancisco/books/app/echoServer"
	bookctrl "github.com/christoperjulfrancisco/books/app/echoServer/controller/book"
	"github.com/christoperjulfrancisco/books/app/echoServer/validation"
	"github.com/christoperjulfrancisco/books/config"
	bookrepo "github.com/christoperjulfrancisco/books/repository/book"
	booksvc "github.com/christoperjulfrancisco/books/service/book"
	"github.com/christoperjulfrancisco/books/util/database"

	"github.com/go-playground/validator/v10"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// record store: Postgres when DATABASE_URL is set, JSON file otherwise
	var store bookrepo.Repo
	if cfg.FileBacked() {
		fs, err := bookrepo.NewFile(cfg.DataFile)
		if err != nil {
			log.Error("file store init failed", "path", cfg.DataFile, "err", err)
			os.Exit(1)
		}
		store = fs
		log.Info("using file store", "path", cfg.DataFile)
	} else {
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := bookrepo.Migrate(ctx, db.Pool); err != nil {
			log.Error("db migrate failed", "err", err)
			os.Exit(1)
		}
		store = bookrepo.NewPostgres(db.Pool)
		log.Info("using postgres store")
	}

	// service
	bs := booksvc.New(store)

	// controller
	v := validator.New()
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}

	// echo
	e := echo.New()
	e.HideBanner = true
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Book:      bookC,
		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
