// Package enums holds the closed layout vocabularies CMS authors pick from.
// Every type falls back to a documented default through OrDefault.
package enums

func contains[T ~string](valid []T, v T) bool {
	for _, candidate := range valid {
		if candidate == v {
			return true
		}
	}
	return false
}
