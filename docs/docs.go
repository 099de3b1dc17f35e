// Package docs registers the OpenAPI description served under /swagger.
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
        "/init": {
            "get": {
                "description": "Returns the track shown when the dashboard opens. track_id is null for an empty dataset.",
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Initial track for the session",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/navbar": {
            "post": {
                "description": "Returns the negation of the submitted collapse state.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Toggle the navbar",
                "parameters": [
                    {"description": "Current state", "name": "navbar", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.NavbarRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.NavbarResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/playhead": {
            "post": {
                "description": "Moves the playhead on every chart open in this session. The chart itself is not rebuilt.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["playhead"],
                "summary": "Report the playback position",
                "parameters": [
                    {"description": "Playback time", "name": "playhead", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.PlayheadRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/playhead/stream": {
            "get": {
                "description": "Server-sent events named \"playhead\", one per position update of this session.",
                "produces": ["text/event-stream"],
                "tags": ["playhead"],
                "summary": "Stream playhead overlays",
                "responses": {
                    "200": {"description": "event stream", "schema": {"type": "string"}}
                }
            }
        },
        "/select": {
            "post": {
                "description": "Loads the track's annotations and returns the chart, audio URL and autoplay flag. Unknown or null ids are a no-op.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Select a track",
                "parameters": [
                    {"description": "Track to select", "name": "selection", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SelectTrackRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SelectTrackResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Event queue unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/tracks": {
            "get": {
                "description": "Lists every track of the dataset in manifest order.",
                "produces": ["application/json"],
                "tags": ["tracks"],
                "summary": "List tracks",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TrackListResponse"}}
                }
            }
        },
        "/tracks/{id}/audio": {
            "get": {
                "description": "Returns the URL the player loads; includes the duration when audio probing is enabled.",
                "produces": ["application/json"],
                "tags": ["tracks"],
                "summary": "Get a track's audio source",
                "parameters": [
                    {"type": "string", "description": "Track ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.AudioInfoResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/tracks/{id}/chart": {
            "get": {
                "description": "Composes the three-panel chart of a track and returns it with its Plotly figure.",
                "produces": ["application/json"],
                "tags": ["tracks"],
                "summary": "Get a track's chart",
                "parameters": [
                    {"type": "string", "description": "Track ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ChartResponse"}},
                    "404": {"description": "Unknown track", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Required annotation missing", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/tracks/{id}/chart.png": {
            "get": {
                "produces": ["image/png"],
                "tags": ["tracks"],
                "summary": "Export a track's chart as PNG",
                "parameters": [
                    {"type": "string", "description": "Track ID", "name": "id", "in": "path", "required": true},
                    {"type": "number", "description": "Playhead time in seconds", "name": "t", "in": "query"},
                    {"type": "integer", "description": "Image width in pixels", "name": "width", "in": "query"},
                    {"type": "integer", "description": "Image height in pixels", "name": "height", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "controller.NavbarConfig": {
            "type": "object",
            "properties": {"is_open": {"type": "boolean"}}
        },
        "controller.TrackUpdate": {
            "type": "object",
            "properties": {
                "track_id": {"type": "string"},
                "title": {"type": "string"},
                "artist": {"type": "string"},
                "chart": {"$ref": "#/definitions/models.ChartSpec"},
                "audio_url": {"type": "string"},
                "autoplay": {"type": "boolean"},
                "placeholder": {"type": "string"}
            }
        },
        "handlers.AudioInfo": {
            "type": "object",
            "properties": {
                "track_id": {"type": "string"},
                "audio_url": {"type": "string"},
                "duration_seconds": {"type": "number"},
                "format": {"type": "string"}
            }
        },
        "handlers.AudioInfoResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "data": {"$ref": "#/definitions/handlers.AudioInfo"}}
        },
        "handlers.ChartData": {
            "type": "object",
            "properties": {
                "chart": {"$ref": "#/definitions/models.ChartSpec"},
                "figure": {"$ref": "#/definitions/models.Figure"}
            }
        },
        "handlers.ChartResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "data": {"$ref": "#/definitions/handlers.ChartData"}}
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "message": {"type": "string"}}
        },
        "handlers.NavbarRequest": {
            "type": "object",
            "required": ["is_open"],
            "properties": {"is_open": {"type": "boolean"}}
        },
        "handlers.NavbarResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "data": {"$ref": "#/definitions/controller.NavbarConfig"}}
        },
        "handlers.PlayheadRequest": {
            "type": "object",
            "required": ["time"],
            "properties": {"time": {"type": "number"}}
        },
        "handlers.SelectTrackData": {
            "type": "object",
            "properties": {
                "noop": {"type": "boolean"},
                "update": {"$ref": "#/definitions/controller.TrackUpdate"},
                "figure": {"$ref": "#/definitions/models.Figure"}
            }
        },
        "handlers.SelectTrackRequest": {
            "type": "object",
            "properties": {"track_id": {"type": "string"}}
        },
        "handlers.SelectTrackResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "data": {"$ref": "#/definitions/handlers.SelectTrackData"}}
        },
        "handlers.TrackListResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/models.TrackSummary"}}
            }
        },
        "models.ChartSpec": {
            "type": "object",
            "properties": {
                "track_id": {"type": "string"},
                "title": {"type": "string"},
                "x_range": {"type": "array", "items": {"type": "number"}},
                "panels": {"type": "array", "items": {"$ref": "#/definitions/models.Panel"}}
            }
        },
        "models.Figure": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"type": "object"}},
                "layout": {"type": "object", "additionalProperties": true}
            }
        },
        "models.Panel": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["reference", "estimated", "contour"]},
                "annotation": {"type": "string"},
                "row": {"type": "integer"},
                "height": {"type": "number"},
                "domain": {"type": "array", "items": {"type": "number"}},
                "categories": {"type": "array", "items": {"type": "string"}},
                "x_range": {"type": "array", "items": {"type": "number"}},
                "empty": {"type": "boolean"}
            }
        },
        "models.TrackSummary": {
            "type": "object",
            "properties": {
                "track_id": {"type": "string"},
                "title": {"type": "string"},
                "artist": {"type": "string"},
                "annotations": {"type": "array", "items": {"type": "string"}}
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
	Title:            "Audio Structure Annotation Dashboard API",
	Description:      "Track listing, chart composition and playhead sync for the annotation dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
