package main

import (
	"github.com/SundayYogurt/site_service/config"
	"github.com/SundayYogurt/site_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
