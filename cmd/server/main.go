package main

import (
	"github.com/joho/godotenv"

	"vetclinic/internal/app"
)

// @title           VetClinic API
// @version         1.0
// @description     API de la clínica veterinaria: autenticación, citas y registros clínicos.
// @BasePath        /
func main() {
	// .env опционален: в проде переменные приходят из окружения
	_ = godotenv.Load()
	app.Run()
}
