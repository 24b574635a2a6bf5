package main

import (
	"github.com/joho/godotenv"

	cfg "socialserv/src/configuration"
	server "socialserv/src/server"
)

func main() {
	// .env is optional; real deployments configure the environment directly
	_ = godotenv.Load()

	config := cfg.ReadProperties()
	server.RunServer(config)
}
