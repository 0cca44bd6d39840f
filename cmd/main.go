package main

// @title GreenRoots API
// @version 1.0
// @description Landing page content, submissions and admin endpoints.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	Execute()
}
