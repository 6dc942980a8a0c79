package handlers

// Aliases so the external handlers_test package can reach unexported
// identifiers without changing the production API.
const XDefaultForecastDays = defaultForecastDays

var (
	XBuildAnalysisPrompt = buildAnalysisPrompt
	XFilterContext       = filterContext
	XFormatTopN          = formatTopN
	XResolveAPIKey       = resolveAPIKey
)
