package echoServer

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/christoperjulfrancisco/books/app/echoServer/controller/book"
)

type C struct {
	Book      *book.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	api := e.Group("/api/v1")

	// Access gate: pass/fail bearer-token check, enabled by configuring a
	// secret. It never inspects the payload; it only short-circuits with 401.
	if c.JWTSecret != "" {
		api.Use(echojwt.WithConfig(echojwt.Config{
			SigningKey:    []byte(c.JWTSecret),
			NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		}))
	}

	api.GET("/books", c.Book.List)
	api.GET("/books/search", c.Book.List)
	api.GET("/books/:id", c.Book.Detail)
	api.POST("/books", c.Book.Create)
	api.PUT("/books/:id", c.Book.Update)
	api.PATCH("/books/:id", c.Book.Patch)
	api.DELETE("/books/:id", c.Book.Delete)

	api.POST("/borrow/:id", c.Book.Borrow)
	api.POST("/return/:id", c.Book.Return)
}
