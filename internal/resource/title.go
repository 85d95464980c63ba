package resource

import "strings"

// DisplayTitle returns the human readable title of e.
func DisplayTitle(e Entity) string {
	switch v := e.(type) {
	case *News:
		return string(v.Title)
	case *Slide:
		return string(v.Title)
	case *History:
		return string(v.Title)
	case *Artist:
		return firstNonEmpty(v.FullName, v.StageName)
	case *Leader:
		return string(v.FullName)
	case *Student:
		return firstNonEmpty(v.FullName, Text(strings.TrimSpace(string(v.FirstName+" "+v.LastName))))
	case *User:
		return firstNonEmpty(v.Username, v.Email)
	case *Message:
		return firstNonEmpty(v.Subject, v.Name)
	case *Subscriber:
		return string(v.Email)
	case *Settings:
		return string(v.SiteTitle)
	case *Service:
		return string(v.Name)
	case *Education:
		return string(v.Name)
	case *Healthcare:
		return string(v.Name)
	case *Politician:
		return string(v.Name)
	case *Military:
		return string(v.Name)
	case *Payam:
		return string(v.Name)
	case *Boma:
		return string(v.Name)
	case *Sport:
		return string(v.Name)
	case *Commissioner:
		return string(v.Name)
	default:
		return ""
	}
}

func firstNonEmpty(values ...Text) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}

	return ""
}
