// Package docs holds the OpenAPI document served at /swagger.
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
        "/gstr1/reports": {
            "post": {
                "description": "Upload a marketplace ZIP (sales and optional returns extract) and generate the combo workbook, B2CS and HSN summaries and the GSTR-1 JSON.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["gstr1"],
                "summary": "Generate GSTR-1 reports",
                "parameters": [
                    {"type": "file", "description": "ZIP archive with the sales and returns extracts", "name": "archive", "in": "formData", "required": true},
                    {"type": "string", "description": "Filing schema version (GST3.2.3 or GST3.0.4)", "name": "schema_version", "in": "formData"},
                    {"type": "string", "description": "Address to notify when the reports are ready", "name": "notify_email", "in": "formData"},
                    {"type": "boolean", "description": "Include artifact content as base64", "name": "inline", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Reports generated", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Missing or invalid archive", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "413": {"description": "Archive too large", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "422": {"description": "Archive content could not be processed", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "502": {"description": "Template unavailable", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/gstr1/reports/bundle": {
            "post": {
                "description": "Same input as the JSON endpoint; responds with every artifact packed into one ZIP.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/zip"],
                "tags": ["gstr1"],
                "summary": "Generate GSTR-1 reports as a ZIP",
                "parameters": [
                    {"type": "file", "description": "ZIP archive with the sales and returns extracts", "name": "archive", "in": "formData", "required": true},
                    {"type": "string", "description": "Filing schema version (GST3.2.3 or GST3.0.4)", "name": "schema_version", "in": "formData"},
                    {"type": "string", "description": "Address to notify when the reports are ready", "name": "notify_email", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "ZIP of all artifacts", "schema": {"type": "file"}},
                    "400": {"description": "Missing or invalid archive", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "422": {"description": "Archive content could not be processed", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        }
    },
    "definitions": {
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.APIError"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "success": {"type": "boolean", "example": true}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "GSTR-1 Report API",
	Description:      "Generates GSTR-1 filing artifacts from marketplace sales and returns extracts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
