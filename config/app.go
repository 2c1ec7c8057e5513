package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	DataFile    string `env:"DATA_FILE" default:"data/books.json"`
	JWTSecret   string `env:"JWT_SECRET"`
	Env         string `env:"APP_ENV" default:"dev"`
}

// FileBacked reports whether the JSON-file store should be used.
// Setting DATABASE_URL switches the deployment to Postgres.
func (a App) FileBacked() bool { return a.DatabaseURL == "" }
