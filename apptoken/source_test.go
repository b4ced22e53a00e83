/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package apptoken

import (
	"context"
	"path/filepath"
	"testing"
)

func TestStatic(t *testing.T) {
	tok, err := Static("s3cret").Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok.AccessToken != "s3cret" {
		t.Errorf("AccessToken = %q", tok.AccessToken)
	}
}

func TestNewInstallationSourceValidation(t *testing.T) {
	if _, err := NewInstallationSource(0, 42, "key.pem"); err == nil {
		t.Error("expected error for missing app ID")
	}
	if _, err := NewInstallationSource(1, 0, "key.pem"); err == nil {
		t.Error("expected error for missing installation ID")
	}
	if _, err := NewInstallationSource(1, 42, filepath.Join(t.TempDir(), "missing.pem")); err == nil {
		t.Error("expected error for missing key file")
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient(context.Background(), Static("s3cret"))
	if client == nil {
		t.Fatal("expected a client")
	}
}
