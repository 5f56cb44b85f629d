// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !(darwin || linux)

package valuebuf

import (
	"fmt"
	"os"
)

func mapFile(path string) ([]byte, func(), error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading image: %w", err)
	}
	return data, func() {}, nil
}
