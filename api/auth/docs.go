// Package auth holds the OpenAPI document served under /swagger/.
package auth

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/crumb"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "Public endpoint reporting whether the request cookies authenticate.",
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Landing page",
                "responses": {
                    "200": {
                        "description": "authenticated, username",
                        "schema": {"$ref": "#/definitions/authsdk.IndexResponse"}
                    }
                }
            }
        },
        "/login": {
            "post": {
                "description": "Verifies a username and password and sets the access, refresh and fingerprint cookies.",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Log in",
                "parameters": [
                    {"type": "string", "description": "Login name", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "username, authorities",
                        "schema": {"$ref": "#/definitions/authsdk.IdentityResponse"},
                        "headers": {"Set-Cookie": {"type": "string", "description": "auth cookies"}}
                    },
                    "400": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "401": {"description": "invalid_credentials", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "429": {"description": "rate_limit_exceeded", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/logout": {
            "get": {
                "description": "Expires the access, refresh and fingerprint cookies.",
                "tags": ["Session"],
                "summary": "Log out",
                "responses": {
                    "204": {"description": "cookies cleared", "headers": {"Set-Cookie": {"type": "string", "description": "expired auth cookies"}}}
                }
            },
            "post": {
                "description": "Expires the access, refresh and fingerprint cookies.",
                "tags": ["Session"],
                "summary": "Log out",
                "responses": {
                    "204": {"description": "cookies cleared", "headers": {"Set-Cookie": {"type": "string", "description": "expired auth cookies"}}}
                }
            }
        },
        "/me": {
            "get": {
                "description": "Returns the identity authenticated by the request cookies.",
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Current identity",
                "responses": {
                    "200": {"description": "username, authorities", "schema": {"$ref": "#/definitions/authsdk.IdentityResponse"}},
                    "401": {"description": "unauthenticated", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "429": {"description": "rate_limit_exceeded", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/livez": {
            "get": {
                "description": "Returns 200 with uptime and version while the process is running",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Checks the credential database, 503 when it is unreachable",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}},
                    "503": {"description": "status, uptime, version, checks - service not ready", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "authsdk.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"}
            }
        },
        "authsdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"}
            }
        },
        "authsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"$ref": "#/definitions/authsdk.HealthChecks"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "authsdk.IdentityResponse": {
            "type": "object",
            "properties": {
                "authorities": {"type": "array", "items": {"type": "string"}},
                "username": {"type": "string"}
            }
        },
        "authsdk.IndexResponse": {
            "type": "object",
            "properties": {
                "authenticated": {"type": "boolean"},
                "username": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Crumb Authentication Service API",
	Description:      "Stateless cookie based authentication. Logging in sets an access token, a refresh token and a fingerprint cookie.\nRequests authenticate from the access token; when it has expired a valid refresh token silently renews all three cookies.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
