// Package docs регистрирует описание API для swaggo/http-swagger.
// Файл поддерживается вручную по аннотациям обработчиков.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/signup": {"post": {"tags": ["Auth"], "summary": "Регистрация пользователя", "consumes": ["application/json"], "produces": ["application/json"],
            "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/signup.Request"}}],
            "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}},
        "/api/auth/login": {"post": {"tags": ["Auth"], "summary": "Вход пользователя", "consumes": ["application/json"], "produces": ["application/json"],
            "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/login.Request"}}],
            "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}},
        "/api/auth/logout": {"post": {"tags": ["Auth"], "summary": "Выход", "responses": {"200": {"description": "OK"}}}},
        "/api/auth/me": {"get": {"tags": ["Auth"], "summary": "Текущий пользователь", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}}}},
        "/api/user/stats": {"get": {"tags": ["User"], "summary": "Статистика пользователя", "responses": {"200": {"description": "OK"}}}},
        "/api/user/product": {"post": {"tags": ["User"], "summary": "Загрузить товар", "consumes": ["multipart/form-data"],
            "parameters": [
                {"in": "formData", "name": "name", "type": "string", "required": true},
                {"in": "formData", "name": "description", "type": "string", "required": true},
                {"in": "formData", "name": "size", "type": "string", "required": true},
                {"in": "formData", "name": "color", "type": "string", "required": true},
                {"in": "formData", "name": "fabric", "type": "string", "required": true},
                {"in": "formData", "name": "images", "type": "file"}],
            "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}},
        "/api/user/products": {"get": {"tags": ["User"], "summary": "Мои товары", "responses": {"200": {"description": "OK"}}}},
        "/api/admin/users": {"get": {"tags": ["Admin"], "summary": "Список пользователей", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/admin/products": {"get": {"tags": ["Admin"], "summary": "Список всех товаров", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/admin/users-with-products": {"get": {"tags": ["Admin"], "summary": "Пользователи вместе с товарами", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/admin/products/{id}/model": {"put": {"tags": ["Admin"], "summary": "Прикрепить 3D-модель",
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/attachmodel.Request"}}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/api/admin/products/{id}/try-on-link": {"post": {"tags": ["Admin"], "summary": "Ссылка на примерку",
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/try-on/{link}": {"get": {"tags": ["Public"], "summary": "Товар по ссылке на примерку",
            "parameters": [{"in": "path", "name": "link", "type": "string", "required": true}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/public/product/{productId}": {"get": {"tags": ["Public"], "summary": "Публичная карточка товара",
            "parameters": [{"in": "path", "name": "productId", "type": "string", "required": true}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/contact/submit": {"post": {"tags": ["Public"], "summary": "Форма обратной связи",
            "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/submit.Request"}}],
            "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}},
        "/api/create-order": {"post": {"tags": ["Orders"], "summary": "Создать заказ",
            "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/create.Request"}}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/payhere-notify": {"post": {"tags": ["Payments"], "summary": "Уведомление PayHere", "consumes": ["application/x-www-form-urlencoded"],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "500": {"description": "Retry"}}}},
        "/health": {"get": {"tags": ["Health"], "summary": "Health-check", "responses": {"200": {"description": "OK"}, "503": {"description": "Unavailable"}}}}
    },
    "definitions": {
        "response.ErrorResponse": {"type": "object", "properties": {"status": {"type": "string", "example": "Error"}, "error": {"type": "string"}}},
        "signup.Request": {"type": "object", "required": ["name", "email", "password"], "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}, "website": {"type": "string"}}},
        "login.Request": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "attachmodel.Request": {"type": "object", "required": ["modelUrl"], "properties": {"modelUrl": {"type": "string"}}},
        "submit.Request": {"type": "object", "required": ["name", "email", "phone", "message"], "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"}, "message": {"type": "string"}}},
        "create.Request": {"type": "object", "required": ["userId", "planId", "amount"], "properties": {"userId": {"type": "string"}, "planId": {"type": "string"}, "amount": {"type": "string", "example": "1000.00"}}}
    }
}`

// SwaggerInfo метаданные API, подставляются в шаблон.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Try-on Catalog API",
	Description:      "Каталог товаров с виртуальной примеркой, подписки PayHere.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
