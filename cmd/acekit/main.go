// cmd/acekit/main.go
package main

import (
	"acekit/internal/app"
	"acekit/internal/appshell"
)

func main() {
	appshell.Main(app.Run)
}
