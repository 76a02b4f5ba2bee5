// Package docs registers the OpenAPI document served at /swagger/*any.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Database and Redis connectivity",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Degraded"}}
            }
        },
        "/v1/price/{sku}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["price"],
                "summary": "Price check by SKU (no authentication)",
                "parameters": [{"type": "string", "name": "sku", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PriceCheckResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/v1/sales": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sales"],
                "summary": "List sales",
                "parameters": [
                    {"type": "string", "name": "date", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "number", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SaleListResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sales"],
                "summary": "Record a sale",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RecordSaleRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.SaleResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/apierror.StockError"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/apierror.ValidationError"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/v1/sales/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sales"],
                "summary": "Get a sale",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SaleResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/v1/sales/{id}/void": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sales"],
                "summary": "Void a sale",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.VoidSaleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SaleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.APIError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/v1/dashboard/metrics": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Dashboard metrics",
                "parameters": [{"type": "string", "name": "date", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DashboardMetrics"}}}
            }
        },
        "/v1/products": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List active products",
                "parameters": [
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "category_id", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProductListResponse"}}}
            }
        },
        "/v1/products/low-stock": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Products at or below their minimum stock level",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.ProductResponse"}}}}
            }
        },
        "/v1/products/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Get a product",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProductResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/v1/inventory/movements": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Stock movement audit trail",
                "parameters": [
                    {"type": "string", "name": "product_id", "in": "query"},
                    {"type": "string", "name": "sale_id", "in": "query"},
                    {"type": "string", "name": "kind", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.StockMovementListResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/apierror.ValidationError"}}
                }
            }
        },
        "/v1/inventory/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Inventory overview",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.InventorySummaryResponse"}}}
            }
        },
        "/v1/categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List categories",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.CategoryResponse"}}}}
            }
        },
        "/v1/events": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/event-stream"],
                "tags": ["events"],
                "summary": "Sale event stream",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/apierror.APIError"}}}
            }
        }
    },
    "definitions": {
        "apierror.APIError": {"type": "object", "properties": {"detail": {"type": "string"}}},
        "apierror.ValidationError": {
            "type": "object",
            "properties": {"detail": {"type": "string"}, "fields": {"type": "object", "additionalProperties": {"type": "string"}}}
        },
        "apierror.StockError": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"}, "product_id": {"type": "string"},
                "requested": {"type": "integer"}, "available": {"type": "integer"}
            }
        },
        "dto.SaleLineRequest": {
            "type": "object",
            "required": ["product_id", "quantity"],
            "properties": {"product_id": {"type": "string"}, "quantity": {"type": "integer", "minimum": 1}, "unit_price": {"type": "string"}}
        },
        "dto.RecordSaleRequest": {
            "type": "object",
            "required": ["items", "payment_method"],
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/dto.SaleLineRequest"}},
                "payment_method": {"type": "string", "enum": ["cash", "card", "digital"]},
                "customer_name": {"type": "string"}
            }
        },
        "dto.VoidSaleRequest": {"type": "object", "required": ["reason"], "properties": {"reason": {"type": "string"}}},
        "dto.SaleItemResponse": {
            "type": "object",
            "properties": {
                "product_id": {"type": "string"}, "product": {"type": "string"}, "quantity": {"type": "integer"},
                "unit_price": {"type": "string"}, "total_price": {"type": "string"}
            }
        },
        "dto.SaleResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "sale_number": {"type": "string"}, "customer_name": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/dto.SaleItemResponse"}},
                "subtotal": {"type": "string"}, "tax_amount": {"type": "string"}, "total_amount": {"type": "string"},
                "payment_method": {"type": "string"}, "cashier_id": {"type": "string"}, "cashier_name": {"type": "string"},
                "status": {"type": "string"}, "void_reason": {"type": "string"},
                "sale_date": {"type": "string"}, "created_at": {"type": "string"}
            }
        },
        "dto.SaleListResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/dto.SaleResponse"}},
                "total": {"type": "integer"}, "page": {"type": "integer"}, "limit": {"type": "integer"}
            }
        },
        "dto.DailySales": {"type": "object", "properties": {"total": {"type": "string"}, "count": {"type": "integer"}}},
        "dto.DashboardMetrics": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "today_sales": {"$ref": "#/definitions/dto.DailySales"},
                "low_stock_count": {"type": "integer"},
                "total_product_count": {"type": "integer"},
                "recent_sales": {"type": "array", "items": {"$ref": "#/definitions/dto.SaleResponse"}},
                "degraded": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.ProductResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "name": {"type": "string"}, "sku": {"type": "string"},
                "description": {"type": "string"}, "category_id": {"type": "string"}, "category": {"type": "string"},
                "price": {"type": "string"}, "cost": {"type": "string"},
                "stock_quantity": {"type": "integer"}, "min_stock_level": {"type": "integer"},
                "stock_status": {"type": "string", "enum": ["out_of_stock", "low_stock", "in_stock"]},
                "is_active": {"type": "boolean"}, "image_url": {"type": "string"}
            }
        },
        "dto.ProductListResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/dto.ProductResponse"}},
                "total": {"type": "integer"}, "page": {"type": "integer"}, "limit": {"type": "integer"}, "total_pages": {"type": "integer"}
            }
        },
        "dto.StockMovementResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "product_id": {"type": "string"}, "product": {"type": "string"}, "sku": {"type": "string"},
                "kind": {"type": "string"}, "quantity": {"type": "integer"},
                "stock_before": {"type": "integer"}, "stock_after": {"type": "integer"},
                "reason": {"type": "string"}, "sale_id": {"type": "string"}, "created_at": {"type": "string"}
            }
        },
        "dto.StockMovementListResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/dto.StockMovementResponse"}},
                "total": {"type": "integer"}, "page": {"type": "integer"}, "limit": {"type": "integer"}
            }
        },
        "dto.CategoryResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"}}
        },
        "dto.InventorySummaryResponse": {
            "type": "object",
            "properties": {
                "total_products": {"type": "integer"}, "total_stock_value": {"type": "string"},
                "low_stock_count": {"type": "integer"}, "out_of_stock_count": {"type": "integer"},
                "products": {"type": "array", "items": {"$ref": "#/definitions/dto.ProductResponse"}}
            }
        },
        "dto.PriceCheckResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}, "sku": {"type": "string"}, "price": {"type": "string"},
                "stock_available": {"type": "integer"}, "category": {"type": "string"}
            }
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
	Title:            "Business Insight POS API",
	Description:      "Sale recording, stock ledger and dashboard metrics for a point of sale.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
