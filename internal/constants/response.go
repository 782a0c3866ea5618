package constants

// Standard Response Field Keys
const (
	// Page fields
	ResponseFieldData  = "data"
	ResponseFieldLinks = "links"

	// Common response fields
	ResponseFieldMessage = "message"
	ResponseFieldCode    = "code"
	ResponseFieldDetails = "details"
	ResponseFieldError   = "error"
	ResponseFieldSuccess = "success"
)

// Response Format Functions

// BuildPageResponse renders a keyset page. links only carries the
// relations that exist for this page.
func BuildPageResponse(data any, links map[string]string) map[string]any {
	if links == nil {
		links = map[string]string{}
	}
	return map[string]any{
		ResponseFieldData:  data,
		ResponseFieldLinks: links,
	}
}

func BuildDataResponse(data any) map[string]any {
	return map[string]any{
		ResponseFieldData: data,
	}
}

func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldMessage: message,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

// BuildCodedErrorResponse is BuildErrorResponse plus the machine-readable code
func BuildCodedErrorResponse(message, code string, details any) map[string]any {
	response := BuildErrorResponse(message, details)
	if code != "" {
		response[ResponseFieldCode] = code
	}
	return response
}

func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}
