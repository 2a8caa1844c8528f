package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the repository API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>hel - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the repository endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "hel", "version": "v1.0.0" },
  "paths": {
    "/auth": {
      "post": {
        "summary": "Log in, register or log out",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["action"],"properties":{"action":{"type":"string","enum":["log-in","register","log-out"]},"nickname":{"type":"string"},"password":{"type":"string"},"email":{"type":"string"}}}}}},
        "responses": { "200": { "description": "logged in, logged out or no actions performed" }, "201": { "description": "account created" }, "400": { "description": "bad request" }, "401": { "description": "incorrect nickname and/or password" } }
      }
    },
    "/profile": {
      "get": { "summary": "Current user", "responses": { "200": { "description": "user" }, "401": { "description": "not logged in" } } }
    },
    "/packages": {
      "get": { "summary": "Search packages", "parameters": [{"name":"offset","in":"query","schema":{"type":"integer"}},{"name":"name","in":"query","schema":{"type":"string"}},{"name":"dependency","in":"query","schema":{"type":"string"}},{"name":"q","in":"query","schema":{"type":"string"}}], "responses": { "200": { "description": "offset, total, sent, truncated, list" }, "400": { "description": "bad search param" } } },
      "post": { "summary": "Create a package", "responses": { "201": { "description": "created" }, "400": { "description": "invalid package" }, "409": { "description": "name in use" } } }
    },
    "/packages/{name}": {
      "get": { "summary": "Get a package", "responses": { "200": { "description": "package" }, "404": { "description": "not found" } } },
      "patch": { "summary": "Patch a package", "responses": { "204": { "description": "updated" }, "400": { "description": "invalid patch" }, "403": { "description": "forbidden" } } },
      "delete": { "summary": "Delete a package", "responses": { "204": { "description": "deleted" }, "403": { "description": "forbidden" } } }
    },
    "/users": {
      "get": { "summary": "List users", "parameters": [{"name":"offset","in":"query","schema":{"type":"integer"}},{"name":"groups","in":"query","schema":{"type":"string"}}], "responses": { "200": { "description": "offset, total, sent, truncated, list" } } },
      "post": { "summary": "Create a user", "responses": { "201": { "description": "created" }, "400": { "description": "bad user" }, "403": { "description": "forbidden" } } }
    },
    "/users/{nickname}": {
      "get": { "summary": "Get a user", "responses": { "200": { "description": "user" }, "404": { "description": "not found" } } },
      "patch": { "summary": "Patch a user", "responses": { "204": { "description": "updated" }, "403": { "description": "forbidden" } } },
      "delete": { "summary": "Delete a user", "responses": { "204": { "description": "deleted" }, "403": { "description": "forbidden" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
