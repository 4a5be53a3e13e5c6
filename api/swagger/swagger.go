package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Madaris Ops API",
        "description": "Timetable ingestion and substitution conflict engine",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetables", "description": "Timetable import and retrieval"},
        {"name": "Schedules", "description": "Read-only schedule lookups"},
        {"name": "Calendar", "description": "Working-week date expansion"},
        {"name": "Substitutions", "description": "Substitution calculation, conflict checks and persistence"},
        {"name": "TeacherMappings", "description": "Source teacher to user account links"}
    ],
    "paths": {
        "/timetables/import": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Import a timetable export file",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Unparseable export", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/active": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get the active timetable",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get a timetable by id",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/classes/{classId}/slot": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Find the slot for a class at a day and period",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "classId", "in": "path", "required": true, "type": "string"},
                    {"name": "dayId", "in": "query", "required": true, "type": "string"},
                    {"name": "periodId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/teachers/{teacherId}/slots": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List a teacher's slots",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "teacherId", "in": "path", "required": true, "type": "string"},
                    {"name": "subjectId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/teachers/{teacherId}/subjects": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List the subjects a teacher teaches",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "teacherId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/subjects/{subjectId}/teachers": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List the teachers of a subject",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/expand": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Expand a date range over the working week",
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "end", "in": "query", "required": true, "type": "string"},
                    {"name": "mode", "in": "query", "required": false, "type": "string", "enum": ["all_weeks", "per_date"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid range", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/substitutions/calculate": {
            "post": {
                "tags": ["Substitutions"],
                "summary": "Calculate the coverage grid for an absence",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CalculateSubstitutionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/substitutions/conflicts/check": {
            "post": {
                "tags": ["Substitutions"],
                "summary": "Check a candidate substitute for conflicts",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConflictCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Unable to verify conflicts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/substitutions": {
            "post": {
                "tags": ["Substitutions"],
                "summary": "Save a calculated substitution",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubstitutionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Assignments incomplete", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/substitutions/{id}/assignments": {
            "put": {
                "tags": ["Substitutions"],
                "summary": "Replace the assignments of a substitution",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAssignmentsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/substitutions/{id}/deactivate": {
            "post": {
                "tags": ["Substitutions"],
                "summary": "Deactivate a substitution",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/substitutions/{id}": {
            "delete": {
                "tags": ["Substitutions"],
                "summary": "Delete a substitution permanently",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/teachers/{userId}/substitutions": {
            "get": {
                "tags": ["Substitutions"],
                "summary": "List a teacher's active substitution assignments",
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher-mappings": {
            "get": {
                "tags": ["TeacherMappings"],
                "summary": "List teacher mappings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["TeacherMappings"],
                "summary": "Create or replace a teacher mapping",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertTeacherMappingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher-mappings/{sourceTeacherId}": {
            "get": {
                "tags": ["TeacherMappings"],
                "summary": "Get the mapping for a source teacher id",
                "parameters": [
                    {"name": "sourceTeacherId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["TeacherMappings"],
                "summary": "Delete a teacher mapping",
                "parameters": [
                    {"name": "sourceTeacherId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "CalculateSubstitutionRequest": {
            "type": "object",
            "properties": {
                "timetable_id": {"type": "string"},
                "absent_teacher_id": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "mode": {"type": "string", "enum": ["all_weeks", "per_date"]}
            },
            "required": ["timetable_id", "absent_teacher_id", "start_date", "end_date"]
        },
        "ConflictCheckRequest": {
            "type": "object",
            "properties": {
                "timetable_id": {"type": "string"},
                "candidate_teacher_id": {"type": "string"},
                "date": {"type": "string"},
                "period_id": {"type": "string"},
                "day_id": {"type": "string"},
                "slot_id": {"type": "string"},
                "class_id": {"type": "string"},
                "class_name": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "exclude_substitution_id": {"type": "string"}
            },
            "required": ["timetable_id", "candidate_teacher_id", "period_id", "day_id", "start_date", "end_date"]
        },
        "AssignmentPayload": {
            "type": "object",
            "properties": {
                "slot_id": {"type": "string"},
                "day_id": {"type": "string"},
                "period_id": {"type": "string"},
                "class_id": {"type": "string"},
                "class_name": {"type": "string"},
                "subject_id": {"type": "string"},
                "substitute_teacher_id": {"type": "string"},
                "assignment_date": {"type": "string"},
                "reason": {"type": "string"}
            },
            "required": ["slot_id", "day_id", "period_id"]
        },
        "CreateSubstitutionRequest": {
            "type": "object",
            "properties": {
                "absent_teacher_id": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "criteria": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/CriterionPayload"}
                },
                "assignments": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AssignmentPayload"}
                }
            },
            "required": ["absent_teacher_id", "start_date", "end_date", "assignments"]
        },
        "CriterionPayload": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "value": {"type": "string"}
            },
            "required": ["name"]
        },
        "UpdateAssignmentsRequest": {
            "type": "object",
            "properties": {
                "assignments": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AssignmentPayload"}
                }
            },
            "required": ["assignments"]
        },
        "UpsertTeacherMappingRequest": {
            "type": "object",
            "properties": {
                "source_teacher_id": {"type": "string"},
                "user_id": {"type": "string"},
                "user_name": {"type": "string"}
            },
            "required": ["source_teacher_id", "user_id", "user_name"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
