// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"os"
	"sort"
	"strings"
)

// Env is an immutable snapshot of environment variables handed to subprocesses.
// Methods never modify the receiver; With returns a copy.
type Env map[string]string

// EnvFromOS snapshots the current process environment.
func EnvFromOS() Env {
	return ParseEnv(os.Environ())
}

// ParseEnv builds an Env from KEY=VALUE pairs. Entries without '=' are ignored.
func ParseEnv(pairs []string) Env {
	env := make(Env, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}

func (e Env) Get(key string) string {
	return e[key]
}

func (e Env) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// With returns a copy of e with the given overrides applied.
func (e Env) With(overrides map[string]string) Env {
	out := make(Env, len(e)+len(overrides))
	for k, v := range e {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Slice returns the environment in exec.Cmd form, sorted by key.
func (e Env) Slice() []string {
	out := make([]string, 0, len(e))
	for k, v := range e {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
