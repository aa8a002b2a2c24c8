package main

import (
	"log"

	"yashubustudio/svmdemo/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("svmdemo: %v", err)
	}
}
