package main

import (
	"os"

	"backend/config"
	"backend/routes"
	"backend/utils"
)

func main() {
	if err := utils.InitLogger(os.Getenv("APP_ENV")); err != nil {
		panic(err)
	}

	config.InitDB()
	config.InitCache()

	r, err := routes.SetupRouter()
	if err != nil {
		utils.Log.Fatalw("router setup failed", "error", err)
	}
	if err := r.Run(":8080"); err != nil {
		utils.Log.Fatalw("server stopped", "error", err)
	}
}
