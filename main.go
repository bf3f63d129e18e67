package main

import (
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"magazyn/cart"
	"magazyn/config"
	"magazyn/database"
	"magazyn/loader"
)

func main() {
	app := &cli.App{
		Name:  "magazyn",
		Usage: "warehouse dashboard backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address, overrides MAGAZYN_ADDR",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "sqlite database path, overrides MAGAZYN_DB_PATH",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		env.Addr = addr
	}
	if path := c.String("db"); path != "" {
		env.DBPath = path
	}

	log.Info("Connecting to database...")
	dbConn, err := database.Open(env.DBPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()
	log.Info("Database connection successful.")

	if _, err := config.LoadSettings(); err != nil {
		log.Warnf("Failed to load settings file: %v. Using defaults.", err)
	}

	if err := loader.InitDatabase(dbConn); err != nil {
		return err
	}
	log.Info("Database initialization complete.")

	carts := cart.NewRegistry()
	handler := SetupRoutes(dbConn, carts)

	log.Infof("Starting server on http://localhost%s", env.Addr)
	return http.ListenAndServe(env.Addr, handler)
}
