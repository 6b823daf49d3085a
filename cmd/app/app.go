package main

import "github.com/eshop-tech/store-backend/internal/app"

func main() {
	app.Run()
}
