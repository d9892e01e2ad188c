package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Enrollments API",
        "description": "Enrollment orchestration over the course catalog and student registry",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Enrollments", "description": "Enrollment lifecycle and roster export"}
    ],
    "paths": {
        "/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List enrollments",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Enrollment"}}}
                }
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Add enrollment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Enrollment"}},
                    "400": {"description": "Missing required field", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Referenced student or course not found", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "422": {"description": "Identifier rejected by owning service", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "502": {"description": "Dependent service unavailable", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/enrollments/export": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Export the enrollment roster",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "required": true}
                ],
                "responses": {
                    "200": {"description": "File attachment"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/enrollments/{id}": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Get enrollment by id",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Enrollment"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "422": {"description": "Malformed identifier", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "put": {
                "tags": ["Enrollments"],
                "summary": "Update enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Enrollment"}},
                    "400": {"description": "Missing required field", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "422": {"description": "Malformed identifier", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Delete enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deleted record", "schema": {"$ref": "#/definitions/Enrollment"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "422": {"description": "Malformed identifier", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "Enrollment": {
            "type": "object",
            "properties": {
                "enrollmentId": {"type": "string"},
                "enrollmentYear": {"type": "integer"},
                "semester": {"type": "string", "enum": ["FALL", "WINTER", "SPRING", "SUMMER"]},
                "studentId": {"type": "string"},
                "studentFirstName": {"type": "string"},
                "studentLastName": {"type": "string"},
                "courseId": {"type": "string"},
                "courseNumber": {"type": "string"},
                "courseName": {"type": "string"}
            }
        },
        "EnrollmentRequest": {
            "type": "object",
            "required": ["enrollmentYear", "semester", "studentId", "courseId"],
            "properties": {
                "enrollmentYear": {"type": "integer"},
                "semester": {"type": "string", "enum": ["FALL", "WINTER", "SPRING", "SUMMER"]},
                "studentId": {"type": "string"},
                "courseId": {"type": "string"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
