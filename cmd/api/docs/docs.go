// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o cmd/api/docs
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
        "/chat/send": {
            "post": {
                "security": [{"UserIDHeader": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Send a chat message",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.SendMessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SendMessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/conversations/{id}/quizzes": {
            "post": {
                "security": [{"UserIDHeader": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["quizzes"],
                "summary": "Generate a quiz from a conversation",
                "parameters": [
                    {"type": "string", "description": "Conversation ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "schema": {"$ref": "#/definitions/dto.GenerateQuizRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.QuizEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/quizzes": {
            "get": {
                "security": [{"UserIDHeader": []}],
                "produces": ["application/json"],
                "tags": ["quizzes"],
                "summary": "List the caller's quizzes",
                "parameters": [
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuizListResponse"}}
                }
            }
        },
        "/quizzes/question-types": {
            "get": {
                "produces": ["application/json"],
                "tags": ["quizzes"],
                "summary": "List supported question types",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuestionTypesResponse"}}
                }
            }
        },
        "/quizzes/{id}": {
            "get": {
                "security": [{"UserIDHeader": []}],
                "produces": ["application/json"],
                "tags": ["quizzes"],
                "summary": "Get a quiz",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuizEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"UserIDHeader": []}],
                "produces": ["application/json"],
                "tags": ["quizzes"],
                "summary": "Delete a quiz",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}}
                }
            },
            "patch": {
                "security": [{"UserIDHeader": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["quizzes"],
                "summary": "Update a quiz title or description",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateQuizRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuizEnvelope"}}
                }
            }
        },
        "/quizzes/{id}/export/{format}": {
            "get": {
                "security": [{"UserIDHeader": []}],
                "produces": ["application/json", "application/x-yaml"],
                "tags": ["quizzes"],
                "summary": "Export a quiz as a file",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "format", "in": "path", "required": true, "enum": ["json", "yaml"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/quizzes/{id}/score": {
            "post": {
                "security": [{"UserIDHeader": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["quizzes"],
                "summary": "Score answers against a quiz",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.ScoreQuizRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ScoreQuizResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "code": {"type": "string"},
                "error": {"type": "string"},
                "errors": {"type": "array", "items": {"type": "object"}}
            }
        },
        "dto.GenerateQuizRequest": {
            "type": "object",
            "properties": {
                "question_count": {"type": "integer"},
                "difficulty": {"type": "string", "enum": ["easy", "medium", "hard"]},
                "question_types": {"type": "array", "items": {"type": "string"}},
                "language": {"type": "string"}
            }
        },
        "dto.UpdateQuizRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "dto.ScoreQuizRequest": {
            "type": "object",
            "properties": {
                "answers": {"type": "object"}
            }
        },
        "dto.SendMessageRequest": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "conversation_id": {"type": "string"}
            }
        },
        "dto.SendMessageResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "object"},
                "fallback": {"type": "boolean"},
                "error_message": {"type": "string"}
            }
        },
        "dto.QuizEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "quiz": {"type": "object"}
            }
        },
        "dto.QuizListResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "quizzes": {"type": "array", "items": {"type": "object"}},
                "limit": {"type": "integer"},
                "offset": {"type": "integer"}
            }
        },
        "dto.QuestionTypesResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "question_types": {"type": "array", "items": {"type": "object"}}
            }
        },
        "dto.ScoreQuizResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "result": {"type": "object"}
            }
        },
        "dto.MessageResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "UserIDHeader": {
            "description": "Caller identity forwarded by the gateway.",
            "type": "apiKey",
            "name": "X-User-ID",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Chat Quiz API",
	Description:      "Generates, grades and exports quizzes from chat conversations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
