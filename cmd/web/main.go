// @title           Accounts API
// @version         1.0
// @description     Регистрация, вход и управление пользователями с RBAC.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     Bearer <access_token>

package main

import "accounts_backend/internal/app"

func main() {
	app.Run()
}
