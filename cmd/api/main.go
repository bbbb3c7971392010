package main

import (
	appfx "Doare/internal/fx"

	"go.uber.org/fx"
)

// @title Doare API
// @version 1.0
// @description API da plataforma de doações Doare
// @BasePath /api
func main() {
	fx.New(
		appfx.AppModule,
	).Run()
}
