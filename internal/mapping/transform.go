package mapping

// TransformKind selects how a raw Jira field value is normalized.
type TransformKind int

const (
	// TransformRaw passes the value through unchanged.
	TransformRaw TransformKind = iota
	// TransformName projects the nested "name" attribute (status, priority, issue type).
	TransformName
	// TransformDisplayName projects the nested "displayName" attribute (people).
	TransformDisplayName
	// TransformSubtasks projects each subtask to its key and summary.
	TransformSubtasks
	// TransformSprint normalizes the sprint field to a sprint value.
	TransformSprint
)

// DefaultSprintField is the Jira field that carries sprints on Jira Cloud.
const DefaultSprintField = "customfield_10021"

var transformsByField = map[string]TransformKind{
	"status":    TransformName,
	"priority":  TransformName,
	"issuetype": TransformName,
	"assignee":  TransformDisplayName,
	"reporter":  TransformDisplayName,
	"subtasks":  TransformSubtasks,
}

// TransformFor returns the transformation used for a Jira field.
func TransformFor(jiraField, sprintField string) TransformKind {
	if sprintField != "" && jiraField == sprintField {
		return TransformSprint
	}
	if kind, ok := transformsByField[jiraField]; ok {
		return kind
	}
	return TransformRaw
}

func (k TransformKind) String() string {
	switch k {
	case TransformName:
		return "name"
	case TransformDisplayName:
		return "displayName"
	case TransformSubtasks:
		return "subtasks"
	case TransformSprint:
		return "sprint"
	default:
		return "raw"
	}
}
