package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "The Shortlist API",
        "description": "Round-gated selection and matching backend for in-person matchmaking events",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Events", "description": "Event metadata and phase table"},
        {"name": "Participants", "description": "Participant directory and profiles"},
        {"name": "Selections", "description": "Round and final preference ledgers"},
        {"name": "Matches", "description": "Final match results"},
        {"name": "Host", "description": "Operator controls"}
    ],
    "paths": {
        "/events/active": {
            "get": {
                "tags": ["Events"],
                "summary": "Get the active event",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{date}": {
            "get": {
                "tags": ["Events"],
                "summary": "Get one event",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/phases": {
            "get": {
                "tags": ["Events"],
                "summary": "Phase table",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/participants/lookup": {
            "post": {
                "tags": ["Participants"],
                "summary": "Look up a participant by name and phone",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LookupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{date}/participants/{code}": {
            "get": {
                "tags": ["Participants"],
                "summary": "Get one participant",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{date}/participants/{code}/candidates": {
            "get": {
                "tags": ["Participants"],
                "summary": "List selectable candidates",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{date}/participants/{code}/profile": {
            "put": {
                "tags": ["Participants"],
                "summary": "Update a participant profile",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{date}/selections": {
            "post": {
                "tags": ["Selections"],
                "summary": "Submit a round selection",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitSelectionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already submitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{date}/final-selection": {
            "post": {
                "tags": ["Selections"],
                "summary": "Submit the final selection",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitFinalSelectionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already submitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{date}/participants/{code}/submitted": {
            "get": {
                "tags": ["Selections"],
                "summary": "Check a submission",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "session", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{date}/participants/{code}/selections": {
            "get": {
                "tags": ["Selections"],
                "summary": "List own round selections",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{date}/participants/{code}/final-selection": {
            "get": {
                "tags": ["Selections"],
                "summary": "Get own final selection",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{date}/participants/{code}/picked-by": {
            "get": {
                "tags": ["Selections"],
                "summary": "Who picked me",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "session", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Results not open", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{date}/participants/{code}/match": {
            "get": {
                "tags": ["Matches"],
                "summary": "Get own match",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Results not open", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No match", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/host/login": {
            "post": {
                "tags": ["Host"],
                "summary": "Host login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/HostLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid code", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/host/events": {
            "get": {
                "tags": ["Host"],
                "summary": "List events",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Host"],
                "summary": "Create an event",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Date already taken", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/host/events/{date}/participants": {
            "post": {
                "tags": ["Host"],
                "summary": "Add a participant to an event",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateParticipantRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Code already taken", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/host/events/{date}": {
            "put": {
                "tags": ["Host"],
                "summary": "Update event metadata",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateEventMetaRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/host/events/{date}/audit": {
            "get": {
                "tags": ["Host"],
                "summary": "List operator actions for an event",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/host/events/{date}/phase": {
            "put": {
                "tags": ["Host"],
                "summary": "Set event phase",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetPhaseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Concurrent phase change", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/host/events/{date}/phase/step": {
            "post": {
                "tags": ["Host"],
                "summary": "Step event phase",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StepPhaseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/host/events/{date}/selections": {
            "get": {
                "tags": ["Host"],
                "summary": "List every round selection",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/host/events/{date}/final-selections": {
            "get": {
                "tags": ["Host"],
                "summary": "List every final selection",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/host/events/{date}/submission-status": {
            "get": {
                "tags": ["Host"],
                "summary": "Per-participant submission status",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "session", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/host/events/{date}/matches/run": {
            "post": {
                "tags": ["Host"],
                "summary": "Run the match batch",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Run already in flight", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/host/events/{date}/matches": {
            "get": {
                "tags": ["Host"],
                "summary": "Read the stored match results",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No run recorded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/host/events/{date}/reports": {
            "post": {
                "tags": ["Host"],
                "summary": "Queue a match report",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/QueueReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/host/reports/{id}": {
            "get": {
                "tags": ["Host"],
                "summary": "Get a report job",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/download": {
            "get": {
                "tags": ["Host"],
                "summary": "Download a rendered report",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "401": {"description": "Invalid token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LookupRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"}
            },
            "required": ["name", "phone"]
        },
        "UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "job": {"type": "string"},
                "introduction": {"type": "string"},
                "flirting_secret": {"type": "string"},
                "green_flag": {"type": "string"},
                "red_flag": {"type": "string"},
                "birth_year": {"type": "integer"}
            }
        },
        "ChoiceInput": {
            "type": "object",
            "properties": {
                "target_code": {"type": "string"},
                "requested_info": {"type": "string"}
            },
            "required": ["target_code", "requested_info"]
        },
        "SubmitSelectionRequest": {
            "type": "object",
            "properties": {
                "selector_code": {"type": "string"},
                "session_number": {"type": "integer"},
                "first_choice": {"$ref": "#/definitions/ChoiceInput"},
                "second_choice": {"$ref": "#/definitions/ChoiceInput"}
            },
            "required": ["selector_code", "session_number", "first_choice"]
        },
        "SubmitFinalSelectionRequest": {
            "type": "object",
            "properties": {
                "selector_code": {"type": "string"},
                "first_choice": {"type": "string"},
                "second_choice": {"type": "string"},
                "consent_to_share": {"type": "boolean"}
            },
            "required": ["selector_code", "first_choice"]
        },
        "HostLoginRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"}
            },
            "required": ["code"]
        },
        "CreateEventRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "title": {"type": "string"},
                "venue": {"type": "string"},
                "chat_link": {"type": "string"}
            },
            "required": ["date", "title"]
        },
        "CreateParticipantRequest": {
            "type": "object",
            "properties": {
                "event_code": {"type": "string"},
                "gender": {"type": "string", "enum": ["M", "W"]},
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "birth_year": {"type": "integer"}
            },
            "required": ["event_code", "gender", "name", "phone"]
        },
        "UpdateEventMetaRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "venue": {"type": "string"},
                "chat_link": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "closed"]}
            },
            "required": ["title", "status"]
        },
        "SetPhaseRequest": {
            "type": "object",
            "properties": {
                "phase": {"type": "integer", "minimum": 0, "maximum": 10}
            },
            "required": ["phase"]
        },
        "StepPhaseRequest": {
            "type": "object",
            "properties": {
                "delta": {"type": "integer"}
            },
            "required": ["delta"]
        },
        "QueueReportRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["format"]
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
