// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/utils"
	"github.com/spf13/afero"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/compute/v1"
)

const credentialsFilePattern = "dcos-launch-gcp-credentials-*.json"

// Credentials locates the service account key handed to terraform.
type Credentials struct {
	Path      string
	ProjectID string
	// Generated is set when Path was written by the launcher from GCE_CREDENTIALS.
	Generated bool
}

// ResolveCredentials reads credentials from GOOGLE_APPLICATION_CREDENTIALS, or writes the
// JSON document in GCE_CREDENTIALS to a file under tmpDir.
func ResolveCredentials(ctx context.Context, fs afero.Fs, env utils.Env, tmpDir string) (*Credentials, error) {
	var (
		creds = &Credentials{}
		data  []byte
		err   error
	)
	if path := env.Get(constants.GCPCredentialsPathVar); path != "" {
		data, err = afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("failed reading %s: %w", constants.GCPCredentialsPathVar, err)
		}
		creds.Path = path
	} else if raw := env.Get(constants.GCPCredentialsEnvVar); raw != "" {
		data = []byte(raw)
		creds.Path, err = writeCredentials(fs, tmpDir, data)
		if err != nil {
			return nil, err
		}
		creds.Generated = true
	} else {
		return nil, fmt.Errorf("%w: set %s or %s", constants.ErrMissingInput,
			constants.GCPCredentialsPathVar, constants.GCPCredentialsEnvVar)
	}
	creds.ProjectID, err = ProjectID(ctx, data)
	if err != nil {
		return nil, err
	}
	return creds, nil
}

// ProjectID parses a service account key and returns its project_id.
func ProjectID(ctx context.Context, data []byte) (string, error) {
	parsed, err := google.CredentialsFromJSON(ctx, data, compute.ComputeScope)
	if err != nil {
		return "", fmt.Errorf("invalid gcp credentials: %w", err)
	}
	return parsed.ProjectID, nil
}

func writeCredentials(fs afero.Fs, tmpDir string, data []byte) (string, error) {
	f, err := afero.TempFile(fs, tmpDir, credentialsFilePattern)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return f.Name(), fs.Chmod(f.Name(), constants.UserOnlyWritePerms)
}

// IsGenerated reports whether path is a credentials file written by ResolveCredentials.
func IsGenerated(path, tmpDir string) bool {
	if path == "" || filepath.Dir(path) != filepath.Clean(tmpDir) {
		return false
	}
	prefix, suffix, _ := strings.Cut(credentialsFilePattern, "*")
	base := filepath.Base(path)
	return strings.HasPrefix(base, prefix) && strings.HasSuffix(base, suffix)
}

// DefaultTempDir is where generated credentials are written.
func DefaultTempDir() string {
	return os.TempDir()
}
