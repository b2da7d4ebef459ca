package repository

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/stackfold/stackfold/pkg/errors"
)

var projectNamePattern = regexp.MustCompile(`^[\w-]+$`)

// RemoteEndpoint is a validated remote repository target: a base URL with
// no trailing project segment, plus the project name that segment named.
type RemoteEndpoint struct {
	Base    string
	Project string
}

// AddURL is the full URL a record is POSTed to.
func (e RemoteEndpoint) AddURL() string {
	return fmt.Sprintf("%s/%s/sample/add", e.Base, e.Project)
}

// ParseRemoteURL validates and splits a configured remote URL of the form
// "scheme://host[/path.../]project" into its base and project name. It is a
// configuration error, raised at construction and never recoverable, if the
// scheme isn't http(s), the host is missing, or no project segment is
// present.
func ParseRemoteURL(raw string) (RemoteEndpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return RemoteEndpoint{}, errors.Wrap(errors.CodeConfigError, "invalid remote url", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return RemoteEndpoint{}, errors.New(errors.CodeConfigError, fmt.Sprintf("invalid scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return RemoteEndpoint{}, errors.New(errors.CodeConfigError, "invalid host in remote url")
	}

	path := strings.TrimSuffix(u.Path, "")
	if path == "" || path == "/" {
		return RemoteEndpoint{}, errors.New(errors.CodeConfigError, "can't get project name from path")
	}

	path = strings.TrimSuffix(path, "/")
	prefix, project, ok := cutLast(path, "/")
	if !ok {
		prefix, project = "", strings.TrimPrefix(path, "/")
	}
	if !projectNamePattern.MatchString(project) {
		return RemoteEndpoint{}, errors.New(errors.CodeConfigError, fmt.Sprintf("invalid project name %q, only [a-zA-Z0-9_-] characters are allowed", project))
	}

	base := u.Scheme + "://" + u.Host
	if prefix != "" {
		base += prefix
	}
	return RemoteEndpoint{Base: base, Project: project}, nil
}

// cutLast splits s on the last occurrence of sep, mirroring rsplit(sep, 1).
func cutLast(s, sep string) (before, after string, ok bool) {
	idx := strings.LastIndex(s, sep)
	if idx < 0 {
		return "", s, false
	}
	return s[:idx], s[idx+1:], true
}
