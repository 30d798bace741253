package main

import "devlink_backend/internal/app"

func main() {
	app.Run()
}
