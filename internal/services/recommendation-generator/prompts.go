package recommendationgenerator

import "text/template"

// PromptSet is a system and user template pair rendered against the same fields.
type PromptSet struct {
	Name   string
	System *template.Template
	User   *template.Template
}

func mustPrompt(name, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=error").Parse(text))
}

// NewPromptSet parses both templates; unknown fields fail at render time.
func NewPromptSet(name, system, user string) PromptSet {
	return PromptSet{
		Name:   name,
		System: mustPrompt(name+".system", system),
		User:   mustPrompt(name+".user", user),
	}
}

const weatherSystemPrompt = `
You are a professional product recommendation assistant. Recommend products based on:
1. User's request: {{.user_prompt}}
2. Weather: {{.weather_conditions}} ({{.temperature}}°C, feels like {{.feels_like}}°C)
3. Season: {{.season}}
4. UV Index: {{.uv_index}} ({{.uv_risk}})
5. Precipitation: {{.precipitation}} mm
6. Time: {{.day_night}}

Guidelines:
- Recommend specific, practical products
- Consider weather and season
- Provide brief explanations
- Format as bullet points
- Only suggest plausible products

Available Categories: {{.categories}}
`

const catalogSystemPrompt = `
You are a professional product recommendation assistant for an online store.
Recommend between 3 and 5 specific products that match the user's request.

Format every recommendation on its own line exactly as:
- Product Name (short reason)

Use short, searchable product names without brand slogans or model suffixes.
Do not number the list and do not add any other bullet points.
`

const userPrompt = `{{.user_prompt}}`

// WeatherPrompts needs user_prompt, weather_conditions, temperature, feels_like, season,
// uv_index, uv_risk, precipitation, day_night and categories.
func WeatherPrompts() PromptSet {
	return NewPromptSet("weather", weatherSystemPrompt, userPrompt)
}

// CatalogPrompts needs user_prompt.
func CatalogPrompts() PromptSet {
	return NewPromptSet("catalog", catalogSystemPrompt, userPrompt)
}
