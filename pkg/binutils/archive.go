// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package binutils

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/spf13/afero"
)

// 1GB
const maxCopy = 1073741824

// Sanitize archive file pathing from "G305: Zip Slip vulnerability"
func sanitizeArchivePath(d, t string) (v string, err error) {
	v = filepath.Join(d, t)
	if v == filepath.Clean(d) || strings.HasPrefix(v, filepath.Clean(d)+string(filepath.Separator)) {
		return v, nil
	}
	return "", fmt.Errorf("%s: %s", "content filepath is tainted", t)
}

// extractZipArchive unpacks the zip file at archivePath into binDir.
func extractZipArchive(fs afero.Fs, archivePath, binDir string) error {
	archive, err := fs.Open(archivePath)
	if err != nil {
		return err
	}
	defer archive.Close()
	info, err := archive.Stat()
	if err != nil {
		return err
	}
	zipReader, err := zip.NewReader(archive, info.Size())
	if err != nil {
		return fmt.Errorf("failed creating zip reader from %s: %w", archivePath, err)
	}
	if err := fs.MkdirAll(binDir, constants.DefaultPerms755); err != nil {
		return fmt.Errorf("failed to create binary directory: %w", err)
	}

	// Closure to address file descriptors issue, uses Close to to not leave open descriptors
	extractAndWriteFile := func(f *zip.File) error {
		// check for zip slip
		path, err := sanitizeArchivePath(binDir, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := fs.MkdirAll(path, constants.DefaultPerms755); err != nil {
				return fmt.Errorf("failed creating directory from zip entry: %w", err)
			}
			return nil
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("failed opening zip file: %w", err)
		}
		defer rc.Close()
		if err := fs.MkdirAll(filepath.Dir(path), constants.DefaultPerms755); err != nil {
			return fmt.Errorf("failed creating file from zip entry: %w", err)
		}
		out, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode().Perm()|0o200)
		if err != nil {
			return fmt.Errorf("failed opening file from zip entry: %w", err)
		}
		if _, err := io.CopyN(out, rc, maxCopy); err != nil && err != io.EOF {
			_ = out.Close()
			return fmt.Errorf("failed writing zip file entry to disk: %w", err)
		}
		return out.Close()
	}

	for _, f := range zipReader.File {
		if err := extractAndWriteFile(f); err != nil {
			return err
		}
	}
	return nil
}
