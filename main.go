package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"kgc/registry-api/api"
	"kgc/registry-api/config"
	"kgc/registry-api/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	a, err := api.NewRouter()
	if err != nil {
		panic(err)
	}

	if *config.SeedAdmin != "" {
		seedAdmin(a, *config.SeedAdmin)
		return
	}

	service.OTPCleanup(10*time.Minute, a.DB)

	zap.L().Info("Server starting", zap.Int("port", viper.GetInt("host.port")))

	err = a.Router.Run(":" + strconv.Itoa(viper.GetInt("host.port")))
	if err != nil {
		panic(err)
	}
}

func seedAdmin(a *api.API, arg string) {
	parts := strings.SplitN(arg, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		fmt.Println("--seed-admin expects username:password:role")
		os.Exit(1)
	}

	if err := a.SeedAdmin(parts[0], parts[1], parts[2]); err != nil {
		fmt.Println("Failed to create admin account:", err)
		os.Exit(1)
	}

	fmt.Println("Admin account created:", parts[0])
}
