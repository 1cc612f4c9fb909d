package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	httphandler "github.com/abhishek622/screenscene/auth/internal/handler/http"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	port := 8084
	log.Printf("Starting the auth service on port %d", port)
	_ = godotenv.Load()

	h := httphandler.New(func() []byte {
		secret := os.Getenv("AUTH_SECRET")
		if secret == "" {
			secret = "secret_key_change_me"
		}
		return []byte(secret)
	})

	router := gin.New()
	router.Use(gin.Recovery(), cors.Default())
	h.Register(router.Group("/auth"))

	if err := http.ListenAndServe(fmt.Sprintf(":%v", port), router); err != nil {
		panic(err)
	}
}
