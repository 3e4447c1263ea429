// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/forum-api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/signup": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.signupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Account"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/api/v1/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.tokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/api/v1/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current account",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Account"}}}
            }
        },
        "/api/v1/boards": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["boards"],
                "summary": "List visible boards",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "cursor", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"},
                    {"type": "boolean", "name": "order_by_post_count", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.boardPage"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["boards"],
                "summary": "Create a board",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createBoardRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Board"}}}
            }
        },
        "/api/v1/boards/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["boards"],
                "summary": "Get a board",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Board"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["boards"],
                "summary": "Rename a board or change its visibility",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateBoardRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Board"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["boards"],
                "summary": "Delete a board",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/v1/boards/{id}/posts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["posts"],
                "summary": "List the posts of a board",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "cursor", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.postPage"}}}
            }
        },
        "/api/v1/posts": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["posts"],
                "summary": "Create a post",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createPostRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Post"}}}
            }
        },
        "/api/v1/posts/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["posts"],
                "summary": "Get a post",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Post"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["posts"],
                "summary": "Edit a post",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updatePostRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Post"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["posts"],
                "summary": "Delete a post",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/health/ready": {
            "get": {
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}
            }
        }
    },
    "definitions": {
        "api.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "code": {"type": "string"}}
        },
        "domain.Account": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "domain.Board": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "public": {"type": "boolean"},
                "owner_id": {"type": "integer"},
                "post_count": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.Post": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "board_id": {"type": "integer"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "owner_id": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.boardPage": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.Board"}},
                "next_cursor": {"type": "integer", "x-nullable": true}
            }
        },
        "handler.postPage": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.Post"}},
                "next_cursor": {"type": "integer", "x-nullable": true}
            }
        },
        "handler.signupRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "full_name": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.tokenResponse": {
            "type": "object",
            "properties": {"access_token": {"type": "string"}, "token_type": {"type": "string"}}
        },
        "handler.createBoardRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string"}, "public": {"type": "boolean"}}
        },
        "handler.updateBoardRequest": {
            "type": "object",
            "required": ["name", "public"],
            "properties": {"name": {"type": "string"}, "public": {"type": "boolean"}}
        },
        "handler.createPostRequest": {
            "type": "object",
            "required": ["board_id", "title"],
            "properties": {"board_id": {"type": "integer"}, "title": {"type": "string"}, "content": {"type": "string"}}
        },
        "handler.updatePostRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {"title": {"type": "string"}, "content": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Forum API",
	Description:      "Boards and posts with bearer-token sessions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
