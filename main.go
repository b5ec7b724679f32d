package main

import (
	"github.com/cliptube/user_service/config"
	"github.com/cliptube/user_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
