// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package terraform

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"
)

const heredocDelimiter = "EOF"

var ErrHeredocDelimiter = errors.New("value would terminate the tfvars heredoc")

// RenderVariables renders terraform_config as a tfvars file. Scalars become quoted
// strings, structured values become YAML heredocs. Keys are written in sorted order.
func RenderVariables(vars map[string]any) ([]byte, error) {
	hclFile := hclwrite.NewEmptyFile()
	rootBody := hclFile.Body()
	keys := maps.Keys(vars)
	slices.Sort(keys)
	for _, key := range keys {
		value := vars[key]
		if !isStructured(value) {
			rootBody.SetAttributeValue(key, cty.StringVal(scalarString(value)))
			continue
		}
		doc, err := yaml.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed encoding terraform variable %s: %w", key, err)
		}
		if containsDelimiterLine(string(doc)) {
			return nil, fmt.Errorf("%w: terraform variable %s has a line reading %q", ErrHeredocDelimiter, key, heredocDelimiter)
		}
		rootBody.SetAttributeRaw(key, createHeredocTokens(string(doc)))
	}
	return hclFile.Bytes(), nil
}

func isStructured(value any) bool {
	if value == nil {
		return false
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	}
	return false
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return fmt.Sprint(value)
}

// containsDelimiterLine reports whether doc has a line that hcl would read as the end
// of the heredoc. Leading and trailing blanks are ignored there.
func containsDelimiterLine(doc string) bool {
	for _, line := range strings.Split(doc, "\n") {
		if strings.TrimSpace(line) == heredocDelimiter {
			return true
		}
	}
	return false
}

// createHeredocTokens wraps a document in a <<EOF heredoc. Template sequences are
// escaped so the content reaches terraform verbatim.
func createHeredocTokens(doc string) hclwrite.Tokens {
	doc = strings.ReplaceAll(doc, "${", "$${")
	doc = strings.ReplaceAll(doc, "%{", "%%{")
	if !strings.HasSuffix(doc, "\n") {
		doc += "\n"
	}
	return hclwrite.Tokens{
		{
			Type:  hclsyntax.TokenOHeredoc,
			Bytes: []byte("<<" + heredocDelimiter + "\n"),
		},
		{
			Type:  hclsyntax.TokenStringLit,
			Bytes: []byte(doc),
		},
		{
			Type:  hclsyntax.TokenCHeredoc,
			Bytes: []byte(heredocDelimiter),
		},
	}
}
