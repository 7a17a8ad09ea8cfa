package main

import (
	"log"

	"tg-topup/internal/app"
)

func main() {
	server := app.NewServer()
	log.Fatal(server.Start())
}
