package main

import (
	"fmt"

	"tinyapp/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		panic(err)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		fmt.Println("Application error:", err)
	}
}
