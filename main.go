/*
Copyright © 2025 tieubaoca
*/
package main

import (
	"github.com/joho/godotenv"
	"github.com/tieubaoca/line-assistant-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// .env is optional; in production everything comes from real env vars.
	godotenv.Load()
}
