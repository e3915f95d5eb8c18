// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ux

import (
	"io"

	ansi "github.com/k0kubun/go-ansi"
	progressbar "github.com/schollz/progressbar/v3"
)

// DownloadProgressBar returns a byte counting bar. A negative size renders a spinner instead.
func DownloadProgressBar(size int64, title string, writer io.Writer) *progressbar.ProgressBar {
	if writer == nil {
		writer = ansi.NewAnsiStdout()
	}
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(title),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(writer, "\n")
		}),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
