package handlers_test

import "app/handlers"

const defaultForecastDays = handlers.XDefaultForecastDays

var (
	buildAnalysisPrompt = handlers.XBuildAnalysisPrompt
	filterContext       = handlers.XFilterContext
	formatTopN          = handlers.XFormatTopN
	resolveAPIKey       = handlers.XResolveAPIKey
)
