// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/auth/login": {"post": {"summary": "Exchange email and password for an access token", "security": [], "tags": ["auth"], "responses": {"200": {"description": "token"}, "401": {"description": "invalid credentials"}}}},
        "/auth/logout": {"post": {"summary": "Revoke the current access token", "tags": ["auth"], "responses": {"204": {"description": "revoked"}}}},
        "/me": {"get": {"summary": "Current principal", "tags": ["auth"], "responses": {"200": {"description": "principal"}}}},
        "/enquiries": {
            "get": {"summary": "List admission enquiries", "tags": ["front office"], "responses": {"200": {"description": "enquiries"}}},
            "post": {"summary": "Log an admission enquiry", "tags": ["front office"], "responses": {"201": {"description": "created"}, "400": {"description": "invalid initial status"}, "422": {"description": "validation failed"}}}
        },
        "/enquiries/{id}": {
            "get": {"summary": "Get an enquiry", "tags": ["front office"], "responses": {"200": {"description": "enquiry"}, "404": {"description": "not found"}}},
            "patch": {"summary": "Update an enquiry; status goes through the lifecycle", "tags": ["front office"], "responses": {"200": {"description": "updated"}, "400": {"description": "invalid transition"}}},
            "delete": {"summary": "Delete an enquiry", "tags": ["front office"], "responses": {"204": {"description": "deleted"}}}
        },
        "/enquiries/{id}/status": {"put": {"summary": "Change enquiry status", "tags": ["front office"], "responses": {"200": {"description": "updated"}, "400": {"description": "invalid transition"}}}},
        "/visitors": {"get": {"summary": "List visitors", "tags": ["front office"], "responses": {"200": {"description": "visitors"}}}, "post": {"summary": "Record a visitor", "tags": ["front office"], "responses": {"201": {"description": "created"}}}},
        "/postal-exchanges": {"get": {"summary": "List postal items", "tags": ["front office"], "responses": {"200": {"description": "items"}}}, "post": {"summary": "Record a postal item", "tags": ["front office"], "responses": {"201": {"description": "created"}}}},
        "/vehicles": {"get": {"summary": "List vehicles", "tags": ["transport"], "responses": {"200": {"description": "vehicles"}}}, "post": {"summary": "Add a vehicle", "tags": ["transport"], "responses": {"201": {"description": "created"}}}},
        "/drivers": {"get": {"summary": "List drivers", "tags": ["transport"], "responses": {"200": {"description": "drivers"}}}, "post": {"summary": "Add a driver", "tags": ["transport"], "responses": {"201": {"description": "created"}}}},
        "/settings": {"get": {"summary": "List general settings", "tags": ["settings"], "responses": {"200": {"description": "settings"}}}, "post": {"summary": "Create general settings", "tags": ["settings"], "responses": {"201": {"description": "created"}}}},
        "/settings/{id}/logo": {"put": {"summary": "Upload the school logo", "consumes": ["multipart/form-data"], "tags": ["settings"], "responses": {"200": {"description": "stored"}}}},
        "/plans": {"get": {"summary": "List subscription plans", "tags": ["platform"], "responses": {"200": {"description": "plans"}}}, "post": {"summary": "Create a subscription plan", "tags": ["platform"], "responses": {"201": {"description": "created"}, "403": {"description": "forbidden"}}}},
        "/plans/{id}/status": {"put": {"summary": "Activate, deactivate or archive a plan", "tags": ["platform"], "responses": {"200": {"description": "updated"}, "400": {"description": "invalid transition"}}}},
        "/schools": {"get": {"summary": "List schools", "tags": ["platform"], "responses": {"200": {"description": "schools"}}}, "post": {"summary": "Onboard a school with its first administrator", "tags": ["platform"], "responses": {"201": {"description": "onboarded"}}}},
        "/users": {"get": {"summary": "List users", "tags": ["users"], "responses": {"200": {"description": "users"}}}, "post": {"summary": "Create a user in the caller's school", "tags": ["users"], "responses": {"201": {"description": "created"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "School ERP API",
	Description:      "Multi-tenant school management API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
