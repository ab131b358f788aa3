package str

// ShortName truncates a dataset or site name to 45 characters if necessary.
func ShortName(name string) string {
	if len(name) < 45 {
		return name
	}
	return name[0:41] + "..."
}
