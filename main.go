package main

import (
	"flag"

	"devconnect/auth"
	"devconnect/crud"
	"devconnect/http"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" has been provided. It means that we're
	// running in production, in which case a .config.json file is required
	// and the app will panic if no file is found.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")
	flag.Parse()

	config := LoadConfig(*productionBool)

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.Pepper, config.HMACKey),
		crud.WithPost(),
		crud.WithLike(),
		crud.WithComment(),
		crud.WithFollow(),
	)
	must(err)

	// Token manager for the api surface's access/refresh pairs.
	tokens := auth.NewTokenManager(config.JWTSecret)

	// Set up a webserver and serve the app.
	server := http.NewServer(config.IsProd(), config.CSRFAuthKey, tokens, services)
	server.Run(config.Port)
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
