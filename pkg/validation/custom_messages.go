package validation

func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"name": {
			"required": "name must not be empty",
			"max":      "name must be at most 100 characters",
		},
		"password": {
			"required": "password must not be empty",
			"min":      "password must be at least 8 characters",
		},
		"progress": {
			"min": "progress must be between 0 and 100",
			"max": "progress must be between 0 and 100",
		},
	}
	return customValidationMessages[field]
}
