package validation

// MapErrors converts a rule violation list into one message per field,
// keeping the first message seen for each field.
func MapErrors(fieldErrors []FieldError) map[string]string {
	mapped := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		if _, seen := mapped[fe.Field]; seen {
			continue
		}
		mapped[fe.Field] = fe.Message
	}
	return mapped
}
