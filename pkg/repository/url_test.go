package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackfold/stackfold/pkg/errors"
)

func TestParseRemoteURLValid(t *testing.T) {
	ep, err := ParseRemoteURL("https://collector.example.com/api/my-project")
	require.NoError(t, err)
	assert.Equal(t, "https://collector.example.com/api", ep.Base)
	assert.Equal(t, "my-project", ep.Project)
	assert.Equal(t, "https://collector.example.com/api/my-project/sample/add", ep.AddURL())
}

func TestParseRemoteURLNoPathPrefix(t *testing.T) {
	ep, err := ParseRemoteURL("http://localhost:9000/proj_1")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", ep.Base)
	assert.Equal(t, "proj_1", ep.Project)
}

func TestParseRemoteURLRejectsBadScheme(t *testing.T) {
	_, err := ParseRemoteURL("ftp://host/project")
	assert.Error(t, err)
}

func TestParseRemoteURLRejectsMissingProject(t *testing.T) {
	_, err := ParseRemoteURL("https://host/")
	assert.Error(t, err)
}

func TestParseRemoteURLRejectsInvalidProjectName(t *testing.T) {
	_, err := ParseRemoteURL("https://host/bad project")
	assert.Error(t, err)
}

func TestParseRemoteURLErrorCode(t *testing.T) {
	_, err := ParseRemoteURL("ftp://host/project")
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigError, errors.GetErrorCode(err))
}
