package stringsutil

// RemoveEmptyStrings drops empty entries, as left behind by splitting
// comma-separated config values.
func RemoveEmptyStrings(slice []string) []string {
	var result []string

	for _, s := range slice {
		if s != "" {
			result = append(result, s)
		}
	}

	return result
}
