// Package routes classifies page paths into visibility classes. Classes are
// independent boolean predicates, not a mutually exclusive enum: a path can
// be both auth-only and manager-only.
package routes

import "strings"

// Classifier matches a path against three ordered pattern lists. A pattern
// is either an exact path or a wildcard suffix ("/manager/*" matches
// "/manager" and everything under it).
type Classifier struct {
	public      []string
	authOnly    []string
	managerOnly []string
}

func New(public, authOnly, managerOnly []string) *Classifier {
	return &Classifier{
		public:      public,
		authOnly:    authOnly,
		managerOnly: managerOnly,
	}
}

// Default returns the classifier for the application's page surface.
func Default() *Classifier {
	return New(
		[]string{"/", "/hotels", "/hotels/*", "/auth/login", "/auth/register", "/book", "/book/success/*"},
		[]string{"/profile", "/messages", "/messages/*", "/bookings", "/manager/*"},
		[]string{"/manager/*"},
	)
}

func (c *Classifier) IsPublic(path string) bool     { return match(c.public, path) }
func (c *Classifier) RequiresAuth(path string) bool { return match(c.authOnly, path) }
func (c *Classifier) ManagerOnly(path string) bool  { return match(c.managerOnly, path) }

func match(patterns []string, path string) bool {
	path = normalize(path)
	for _, p := range patterns {
		if suffix, ok := strings.CutSuffix(p, "/*"); ok {
			if path == suffix || strings.HasPrefix(path, suffix+"/") {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
