package handlers

// @title Lambda HTTP Bridge Demo API
// @version 1.0
// @description Sample application served through the Lambda HTTP bridge

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /

// @tag.name diagnostics
// @tag.description Request inspection endpoints
