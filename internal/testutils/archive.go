// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/stretchr/testify/require"
)

// ZipEntry is one file of an archive built by ZipBytes.
type ZipEntry struct {
	Name    string
	Mode    os.FileMode
	Content []byte
}

// ZipBytes builds an in-memory zip archive, keeping entry order.
func ZipBytes(require *require.Assertions, entries ...ZipEntry) []byte {
	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)
	for _, entry := range entries {
		header := &zip.FileHeader{Name: entry.Name, Method: zip.Deflate}
		header.SetMode(entry.Mode)
		w, err := zipWriter.CreateHeader(header)
		require.NoError(err)
		_, err = w.Write(entry.Content)
		require.NoError(err)
	}
	require.NoError(zipWriter.Close())
	return buf.Bytes()
}

// CreateZip archives the src directory tree into dest.
func CreateZip(require *require.Assertions, src string, dest string) {
	zipf, err := os.Create(dest)
	require.NoError(err)
	defer zipf.Close()

	zipWriter := zip.NewWriter(zipf)
	defer zipWriter.Close()

	err = filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Method = zip.Deflate
		// relative path keeps the top level directory
		header.Name, err = filepath.Rel(filepath.Dir(src), path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			header.Name += "/"
		}
		headerWriter, err := zipWriter.CreateHeader(header)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(headerWriter, f)
		return err
	})
	require.NoError(err)
}
