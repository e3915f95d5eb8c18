// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package binutils

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dcos/dcos-launch/pkg/ux"
)

type Installer interface {
	DownloadRelease(ctx context.Context, releaseURL string, dest io.Writer) error
}

type installerImpl struct {
	progress io.Writer
}

// NewInstaller returns an http installer. Download progress is rendered to progress when it is not nil.
func NewInstaller(progress io.Writer) Installer {
	return &installerImpl{progress: progress}
}

func (i installerImpl) DownloadRelease(ctx context.Context, releaseURL string, dest io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releaseURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected http status code: %d", resp.StatusCode)
	}
	if i.progress != nil {
		bar := ux.DownloadProgressBar(resp.ContentLength, "Downloading terraform", i.progress)
		dest = io.MultiWriter(dest, bar)
	}
	_, err = io.Copy(dest, resp.Body)
	return err
}
