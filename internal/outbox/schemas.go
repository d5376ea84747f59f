package outbox

import "example.com/salesvault/internal/events"

const activityLoggedSchema = `{
  "type": "object",
  "title": "ActivityLogged",
  "properties": {
    "entry_id": {"type": "string"},
    "calls": {"type": "integer", "minimum": 0},
    "in_person_meetings": {"type": "integer", "minimum": 0},
    "proposals_sent": {"type": "integer", "minimum": 0},
    "notes": {"type": "string"},
    "submitted_at": {"type": "string", "format": "date-time"}
  },
  "required": ["entry_id", "calls", "in_person_meetings", "proposals_sent", "notes", "submitted_at"],
  "additionalProperties": false
}`

var schemaCatalog = map[string]string{
	events.ActivityLoggedType: activityLoggedSchema,
}
