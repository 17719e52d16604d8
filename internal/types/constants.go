package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}

// Enumerated sets for project fields. Anything outside these is a 400.
var (
	AllowedTechnologies = []string{
		"HTML", "CSS", "JavaScript", "React", "Angular", "Vue",
		"NodeJS", "PHP", "Python", "Java", "Ruby", "TypeScript",
		"MongoDB", "MySQL", "PostgreSQL",
	}

	AllowedCategories = []string{
		"Frontend Development",
		"Backend Development",
		"Fullstack Development",
		"Programming",
		"Security",
		"DevOps",
		"Mobile Development",
		"Data Science",
	}
)

func IsAllowedTechnology(tech string) bool {
	for _, t := range AllowedTechnologies {
		if t == tech {
			return true
		}
	}
	return false
}

func IsAllowedCategory(category string) bool {
	for _, c := range AllowedCategories {
		if c == category {
			return true
		}
	}
	return false
}
