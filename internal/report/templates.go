package report

import (
	"strings"
	"text/template"
)

var promptTemplate = template.Must(template.New("prompt").Funcs(template.FuncMap{"join": strings.Join}).Parse(`# Jira Ticket Analysis - {{ .Result.Timestamp }}

## Context
{{ .Question }}

## Executed JQL Query
` + "```" + `
{{ .Result.Query }}
` + "```" + `

## Data Summary
- **Tickets matched**: {{ .Result.TotalTickets }}
- **Tickets extracted**: {{ len .Result.Tickets }}
- **Extracted at**: {{ .Result.ExtractedAt }}
- **Fields**: {{ join .Result.FieldsUsed ", " }}

{{ .Schema }}
## Extracted Data
` + "```json" + `
{{ .TicketsJSON }}
` + "```" + `

## Request
Analyze the data above and provide insights about: **{{ .Question }}**

Structure your answer as:
1. **Executive Summary**
2. **Key Findings**
3. **Recommendations**
4. **Next Steps**

Consider the following aspects in your analysis:
- Distribution by status, priority and assignee
- Temporal patterns (creation vs. update)
- Bottlenecks or anomalies
- Practical, actionable suggestions
`))

var responseTemplate = template.Must(template.New("response").Parse(`# Jira Analysis - {{ .Result.Timestamp }}

## Executive Summary
<!-- Summarize the main insights in 2-3 lines -->

## Key Findings
<!-- List the 3-5 most important findings -->

## Recommendations
<!-- Give practical, actionable recommendations -->

## Next Steps
<!-- Suggest concrete next steps -->

---
**Analyzed data**: {{ len .Result.Tickets }} tickets
**Query**: ` + "`{{ .Result.Query }}`" + `
*Template generated at {{ .GeneratedAt }}*
`))
