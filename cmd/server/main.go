package main

import "npsportal/internal/app/server"

func main() {
	server.Run()
}
