package main

import (
	"fmt"
	"os"
)

func main() {
	defer os.Exit(3)
	go func() {
		os.Exit(2)
	}()
	if len(os.Args) > 1 {
		os.Exit(1) // want "использование os.Exit в функции main запрещено"
	}
	fmt.Println("ok")
}

func helper() {
	os.Exit(4)
}
