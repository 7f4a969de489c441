package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"woodshop/internal/access"
	"woodshop/internal/api"
	"woodshop/internal/csql"
	"woodshop/internal/logger"
	"woodshop/internal/store"
)

// Service holds the configuration for this service
//
// use POSTGRES="host=localhost port=5432 user=postgres password=docker dbname=postgres sslmode=disable"
type Service struct {
	Postgres       string `env:"POSTGRES,required" description:"the connection string for the Postgres DB"`
	AdminSecret    string `env:"ADMIN_SECRET,required" description:"the shared secret gating administrative routes"`
	AdminJWTKey    string `env:"ADMIN_JWT_KEY,optional" description:"optional HS256 key for expiring admin tokens"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS,default=http://localhost:5173" description:"comma-separated CORS origin allow-list"`
	Port           string `env:"PORT,default=3000" description:"the port to listen on"`
	LogLevel       string `env:"LOG_LEVEL,default=info" description:"the log level"`
}

func main() {
	// .env is for local development only; deployments configure the
	// process environment directly
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			logger.Default().WithError(err).Warningln("cannot load .env file")
		}
	}

	service := &Service{}
	if err := envdecode.Decode(service); err != nil {
		panic(err)
	}

	logLevel, err := logrus.ParseLevel(service.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.InitLogger(logLevel)
	rlog := logger.Default()

	db, err := csql.OpenWithSchema(service.Postgres, "woodshop")
	if err != nil {
		rlog.WithError(err).Fatalln("cannot open database")
	}
	defer db.Close()

	gateway, err := store.NewPostgres(db)
	if err != nil {
		rlog.WithError(err).Fatalln("cannot create collections")
	}

	guard := access.Guard(access.NewSharedSecret(service.AdminSecret))
	if service.AdminJWTKey != "" {
		guard = access.AnyOf{guard, access.NewJWTGuard(service.AdminJWTKey)}
	}

	router := mux.NewRouter()
	api.MustNew(&api.Builder{
		Store:  gateway,
		Guard:  guard,
		Router: router,
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins(strings.Split(service.AllowedOrigins, ",")),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"}),
	)

	rlog.Infoln("listen on port :" + service.Port)
	if err := http.ListenAndServe(":"+service.Port, handlers.CompressHandler(cors(router))); err != nil {
		rlog.WithError(err).Fatalln("server terminated")
	}
}
