// Package docs - описание API для swagger UI.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
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
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Состояние сервиса",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/api/v1/correlate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Correlation"],
                "summary": "Привязка адресов к зонам уборки",
                "parameters": [
                    {"description": "Адреса и зоны в плоских координатах", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CorrelateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/correlate/benchmark": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Correlation"],
                "summary": "Сравнение алгоритмов",
                "parameters": [
                    {"description": "Адреса и зоны", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.BenchmarkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/schedules": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Schedules"],
                "summary": "Список расписаний",
                "parameters": [
                    {"type": "string", "description": "Адреса через запятую", "name": "addresses", "in": "query"},
                    {"type": "string", "default": "full", "description": "minimal или full", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/schedules/analyze": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Schedules"],
                "summary": "Анализ истории уборок",
                "parameters": [
                    {"description": "События уборки", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.AnalyzeSchedulesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/schedules/check": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Schedules"],
                "summary": "Проверка адреса",
                "parameters": [
                    {"description": "Адрес", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CheckAddressRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.CorrelateRequest": {
            "type": "object",
            "required": ["addresses", "zones"],
            "properties": {
                "algorithm": {"type": "string", "enum": ["distance", "kdtree", "rtree", "grid", "raycast"]},
                "addresses": {"type": "array", "items": {"$ref": "#/definitions/domain.Address"}},
                "zones": {"type": "array", "items": {"$ref": "#/definitions/domain.Zone"}}
            }
        },
        "dto.BenchmarkRequest": {
            "type": "object",
            "required": ["addresses", "zones"],
            "properties": {
                "addresses": {"type": "array", "items": {"$ref": "#/definitions/domain.Address"}},
                "zones": {"type": "array", "items": {"$ref": "#/definitions/domain.Zone"}}
            }
        },
        "dto.AnalyzeSchedulesRequest": {
            "type": "object",
            "required": ["events"],
            "properties": {
                "events": {"type": "array", "items": {"$ref": "#/definitions/domain.CleaningEvent"}},
                "min_confidence": {"type": "number", "maximum": 1, "minimum": 0}
            }
        },
        "dto.CheckAddressRequest": {
            "type": "object",
            "required": ["address"],
            "properties": {
                "address": {"type": "string"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "timestamp": {"type": "string"},
                "last_update": {"type": "string"},
                "data_points": {"type": "integer"},
                "version": {"type": "string"}
            }
        },
        "domain.Address": {
            "type": "object",
            "properties": {
                "street": {"type": "string"},
                "house_number": {"type": "string"},
                "postal_code": {"type": "string"},
                "full_address": {"type": "string"},
                "coordinates": {"type": "array", "items": {"type": "number"}}
            }
        },
        "domain.Zone": {
            "type": "object",
            "properties": {
                "start": {"type": "array", "items": {"type": "number"}},
                "end": {"type": "array", "items": {"type": "number"}},
                "info": {"type": "string"},
                "day": {"type": "string"},
                "time_window": {"type": "string"}
            }
        },
        "domain.CleaningEvent": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "coordinate": {
                    "type": "object",
                    "properties": {
                        "latitude": {"type": "string"},
                        "longitude": {"type": "string"}
                    }
                },
                "timestamp": {"type": "string"},
                "is_active": {"type": "boolean"}
            }
        },
        "utils.SuccessResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "meta": {
                    "type": "object",
                    "properties": {
                        "total": {"type": "integer"},
                        "matched": {"type": "integer"},
                        "checksum": {"type": "string"},
                        "time_ms": {"type": "number"}
                    }
                }
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "details": {"type": "object"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Parking Zone Service API",
	Description:      "Привязка адресов к зонам уборки улиц и вывод расписаний уборки по истории наблюдений.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
