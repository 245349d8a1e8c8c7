package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {"title": "Thesis Workflow API", "description": "Postgraduate academic workflow engine: status ledger, assignment registry, defense/viva scheduler and grade aggregator.", "version": "1.0.0"},
    "basePath": "/api/v1",
    "schemes": ["http"],
    "securityDefinitions": {"BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}},
    "tags": [
        {"name": "Students"},
        {"name": "Proposals"},
        {"name": "Books"},
        {"name": "Status", "description": "Status ledger"},
        {"name": "Status Definitions"},
        {"name": "Assignments", "description": "Supervisor and examiner role slots"},
        {"name": "Persons"},
        {"name": "Defenses"},
        {"name": "Vivas"},
        {"name": "Reports", "description": "Grade aggregation and school grouped reports"}
    ],
    "paths": {
        "/students": {
            "post": {"tags": ["Students"], "summary": "Register a student", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterStudentRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Workflow precondition failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/students/{id}": {
            "get": {"tags": ["Students"], "summary": "Get student", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Student ID"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/students/{id}/proposals": {
            "post": {"tags": ["Proposals"], "summary": "Submit a proposal", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Student ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitProposalRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/proposals/{id}": {
            "get": {"tags": ["Proposals"], "summary": "Get proposal", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Proposal ID"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/proposals/{id}/books": {
            "post": {"tags": ["Books"], "summary": "Submit a dissertation book", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Proposal ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitBookRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/books/{id}": {
            "get": {"tags": ["Books"], "summary": "Get book", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Book ID"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/students/{id}/status": {
            "post": {"tags": ["Status"], "summary": "Transition student status", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Student ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionStatusRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Workflow precondition failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "description": "Supersedes the current status record; the response carries supersededId."},
            "get": {"tags": ["Status"], "summary": "Current student status", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Student ID"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/students/{id}/status/history": {
            "get": {"tags": ["Status"], "summary": "Student status history, oldest first", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Student ID"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/proposals/{id}/status": {
            "post": {"tags": ["Status"], "summary": "Transition proposal status", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Proposal ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionStatusRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Workflow precondition failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "description": "Supersedes the current status record; the response carries supersededId."},
            "get": {"tags": ["Status"], "summary": "Current proposal status", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Proposal ID"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/proposals/{id}/status/history": {
            "get": {"tags": ["Status"], "summary": "Proposal status history, oldest first", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Proposal ID"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/books/{id}/status": {
            "post": {"tags": ["Status"], "summary": "Transition book status", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Book ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionStatusRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Workflow precondition failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "description": "Supersedes the current status record; the response carries supersededId."},
            "get": {"tags": ["Status"], "summary": "Current book status", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Book ID"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/books/{id}/status/history": {
            "get": {"tags": ["Status"], "summary": "Book status history, oldest first", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Book ID"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/status-definitions": {
            "get": {"tags": ["Status Definitions"], "summary": "List status definitions", "security": [{"BearerAuth": []}], "parameters": [{"name": "activeOnly", "in": "query", "type": "boolean"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Status Definitions"], "summary": "Create status definition", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusDefinitionRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Workflow precondition failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/status-definitions/{id}": {
            "put": {"tags": ["Status Definitions"], "summary": "Update or deactivate a status definition", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Definition ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusDefinitionRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Workflow precondition failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/assignments": {
            "post": {"tags": ["Assignments"], "summary": "Assign an empty role slot", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Workflow precondition failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/assignments/change": {
            "post": {"tags": ["Assignments"], "summary": "Replace the current holder of a role slot", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangeAssignmentRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Workflow precondition failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/assignments/{id}/grade": {
            "patch": {"tags": ["Assignments"], "summary": "Grade an examiner assignment", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Assignment ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordGradeRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Workflow precondition failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/targets/{id}/assignments": {
            "get": {"tags": ["Assignments"], "summary": "List assignments of a student or book", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Target ID"}, {"name": "roleSlot", "in": "query", "type": "string"}, {"name": "currentOnly", "in": "query", "type": "boolean"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/persons": {
            "post": {"tags": ["Persons"], "summary": "Create person", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePersonRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Workflow precondition failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/persons/{id}": {
            "get": {"tags": ["Persons"], "summary": "Get person with capabilities", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Person ID"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/persons/{id}/panelist": {
            "post": {"tags": ["Persons"], "summary": "Convert staff member to panelist", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Staff person ID"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "description": "Idempotent: repeated calls return the same panelist id."}
        },
        "/persons/{id}/capabilities": {
            "post": {"tags": ["Persons"], "summary": "Grant a capability", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Person ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GrantCapabilityRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/proposals/{id}/defenses": {
            "post": {"tags": ["Defenses"], "summary": "Schedule a proposal defense", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Proposal ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleDefenseRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Workflow precondition failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "get": {"tags": ["Defenses"], "summary": "List proposal defenses", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Proposal ID"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/defenses/{id}/verdict": {
            "patch": {"tags": ["Defenses"], "summary": "Record a defense verdict", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Defense ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DefenseVerdictRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Workflow precondition failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/books/{id}/vivas": {
            "post": {"tags": ["Vivas"], "summary": "Schedule a viva", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Book ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleVivaRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Workflow precondition failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "description": "Preconditions are checked in order: external examiner, internal examiner, chairperson, reviewers, panelists."},
            "get": {"tags": ["Vivas"], "summary": "List book vivas", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Book ID"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/vivas/{id}/verdict": {
            "patch": {"tags": ["Vivas"], "summary": "Record viva marks and verdict", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Viva ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VivaVerdictRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Workflow precondition failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/books/{id}/marks": {
            "get": {"tags": ["Reports"], "summary": "Book marks summary", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid", "description": "Book ID"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/reports/proposals": {
            "get": {"tags": ["Reports"], "summary": "Proposal defense report grouped by school", "security": [{"BearerAuth": []}], "parameters": [{"name": "schoolCode", "in": "query", "type": "string"}, {"name": "program", "in": "query", "type": "string"}, {"name": "format", "in": "query", "type": "string", "enum": ["json", "csv", "pdf", "xlsx"]}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "produces": ["application/json", "text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"]}
        },
        "/reports/vivas": {
            "get": {"tags": ["Reports"], "summary": "Viva report grouped by school", "security": [{"BearerAuth": []}], "parameters": [{"name": "schoolCode", "in": "query", "type": "string"}, {"name": "program", "in": "query", "type": "string"}, {"name": "format", "in": "query", "type": "string", "enum": ["json", "csv", "pdf", "xlsx"]}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "produces": ["application/json", "text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"]}
        }
    },
    "definitions": {
        "RegisterStudentRequest": {"type": "object", "properties": {"registrationNumber": {"type": "string"}, "fullName": {"type": "string"}, "email": {"type": "string"}, "program": {"type": "string"}, "schoolCode": {"type": "string"}, "schoolName": {"type": "string"}}, "required": ["registrationNumber", "fullName"]},
        "SubmitProposalRequest": {"type": "object", "properties": {"title": {"type": "string"}, "abstract": {"type": "string"}, "submittedAt": {"type": "string", "format": "date-time"}}, "required": ["title"]},
        "SubmitBookRequest": {"type": "object", "properties": {"title": {"type": "string"}, "submittedAt": {"type": "string", "format": "date-time"}}, "required": ["title"]},
        "TransitionStatusRequest": {"type": "object", "properties": {"statusDefinitionId": {"type": "string", "format": "uuid"}, "effectiveAt": {"type": "string", "format": "date-time"}}, "required": ["statusDefinitionId"]},
        "StatusDefinitionRequest": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "expectedDurationDays": {"type": "integer"}, "warningDays": {"type": "integer"}, "criticalDays": {"type": "integer"}, "delayDays": {"type": "integer"}, "notifyRoles": {"type": "array", "items": {"type": "string"}}, "color": {"type": "string"}, "isActive": {"type": "boolean"}}, "required": ["name"]},
        "AssignRequest": {"type": "object", "properties": {"targetId": {"type": "string", "format": "uuid"}, "roleSlot": {"type": "string", "example": "book:internal-examiner"}, "assigneeId": {"type": "string", "format": "uuid"}, "metadata": {"type": "object"}}, "required": ["targetId", "roleSlot", "assigneeId"]},
        "ChangeAssignmentRequest": {"type": "object", "properties": {"targetId": {"type": "string", "format": "uuid"}, "roleSlot": {"type": "string"}, "oldAssigneeId": {"type": "string", "format": "uuid"}, "newAssigneeId": {"type": "string", "format": "uuid"}, "reason": {"type": "string"}, "metadata": {"type": "object"}}, "required": ["targetId", "roleSlot", "oldAssigneeId", "newAssigneeId", "reason"]},
        "RecordGradeRequest": {"type": "object", "properties": {"grade": {"type": "number"}}, "required": ["grade"]},
        "CreatePersonRequest": {"type": "object", "properties": {"fullName": {"type": "string"}, "email": {"type": "string"}, "staffNumber": {"type": "string"}, "institution": {"type": "string"}, "isStaff": {"type": "boolean"}}, "required": ["fullName"]},
        "GrantCapabilityRequest": {"type": "object", "properties": {"capability": {"type": "string", "enum": ["EXAMINER", "SUPERVISOR", "PANELIST", "REVIEWER", "MINUTES_SECRETARY"]}, "examinerType": {"type": "string", "enum": ["INTERNAL", "EXTERNAL"]}}, "required": ["capability"]},
        "ScheduleDefenseRequest": {"type": "object", "properties": {"scheduledDate": {"type": "string", "format": "date-time"}, "venue": {"type": "string"}, "panelistIds": {"type": "array", "items": {"type": "string", "format": "uuid"}}}, "required": ["scheduledDate", "panelistIds"]},
        "DefenseVerdictRequest": {"type": "object", "properties": {"verdict": {"type": "string", "enum": ["PASS", "PASS_WITH_MINOR_CORRECTIONS", "PASS_WITH_MAJOR_CORRECTIONS", "REFER", "FAIL"]}}, "required": ["verdict"]},
        "ScheduleVivaRequest": {"type": "object", "properties": {"vivaDate": {"type": "string", "format": "date-time"}, "location": {"type": "string"}, "chairpersonId": {"type": "string", "format": "uuid"}, "minutesSecretaryId": {"type": "string", "format": "uuid"}, "panelistIds": {"type": "array", "items": {"type": "string", "format": "uuid"}}, "reviewerIds": {"type": "array", "items": {"type": "string", "format": "uuid"}}}, "required": ["vivaDate", "location", "chairpersonId", "minutesSecretaryId"]},
        "VivaVerdictRequest": {"type": "object", "properties": {"internalMark": {"type": "number"}, "externalMark": {"type": "number"}, "verdict": {"type": "string", "enum": ["PASS", "PASS_WITH_MINOR_CORRECTIONS", "PASS_WITH_MAJOR_CORRECTIONS", "REFER", "FAIL"]}}, "required": ["internalMark", "externalMark", "verdict"]},
        "APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}, "field": {"type": "string"}}},
        "ResponseEnvelope": {"type": "object", "properties": {"data": {"type": "object"}, "error": {"$ref": "#/definitions/APIError"}, "meta": {"type": "object"}}}
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
